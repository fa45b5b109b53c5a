package plant

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LinkVerifier checks the token carried by a confirmation link.
type LinkVerifier interface {
	Verify(plantID, token string) error
}

// PlantHandler handles HTTP requests for plants.
type PlantHandler struct {
	service *Service
	links   LinkVerifier
	log     *zap.Logger
}

// NewPlantHandler creates a new PlantHandler.
func NewPlantHandler(service *Service, links LinkVerifier, log *zap.Logger) *PlantHandler {
	return &PlantHandler{service: service, links: links, log: log}
}

// PlantRequest is the body of create and update calls.
type PlantRequest struct {
	UserID           string     `json:"user_id" validate:"required"`
	Name             string     `json:"name" validate:"required"`
	ScientificName   string     `json:"scientific_name"`
	Nickname         string     `json:"nickname"`
	Light            Light      `json:"light" validate:"omitempty,oneof=shade partial_shade diffuse full_sun"`
	IntervalDays     int        `json:"interval_days" validate:"required,min=1"`
	PetFriendly      bool       `json:"pet_friendly"`
	LastWateredAt    *time.Time `json:"last_watered_at"`
	AcquiredAt       *time.Time `json:"acquired_at"`
	ImageURL         string     `json:"image_url"`
	RemindersEnabled *bool      `json:"reminders_enabled"`
	Notes            string     `json:"notes"`
	UserEmail        string     `json:"user_email" validate:"omitempty,email"`
}

// apply copies the editable fields onto p.
func (r PlantRequest) apply(p *Plant) {
	p.Name = r.Name
	p.ScientificName = r.ScientificName
	p.Nickname = r.Nickname
	p.Light = r.Light
	if p.Light == "" {
		p.Light = LightPartialShade
	}
	p.IntervalDays = r.IntervalDays
	p.PetFriendly = r.PetFriendly
	p.LastWateredAt = r.LastWateredAt
	p.AcquiredAt = r.AcquiredAt
	p.ImageURL = r.ImageURL
	p.RemindersEnabled = r.RemindersEnabled
	p.Notes = r.Notes
	p.NotifyEmail = r.UserEmail
}

// List returns the plants of ?userId=.
func (h *PlantHandler) List(c echo.Context) error {
	ownerID := c.QueryParam("userId")
	if ownerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId is required"})
	}
	plants, err := h.service.List(c.Request().Context(), ownerID)
	if err != nil {
		h.log.Error("list plants failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list plants"})
	}
	return c.JSON(http.StatusOK, plants)
}

func (h *PlantHandler) Create(c echo.Context) error {
	var req PlantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	p, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		h.log.Error("create plant failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create plant"})
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlantHandler) Update(c echo.Context) error {
	var req PlantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	p, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Plant not found"})
	}
	if err != nil {
		h.log.Error("update plant failed", zap.String("plant_id", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update plant"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlantHandler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Plant not found"})
	}
	if err != nil {
		h.log.Error("delete plant failed", zap.String("plant_id", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete plant"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Plant removed"})
}

// Confirm is the target of the link in reminder emails. It answers with an HTML page.
func (h *PlantHandler) Confirm(c echo.Context) error {
	id := c.Param("id")
	if err := h.links.Verify(id, c.QueryParam("token")); err != nil {
		h.log.Warn("rejected confirmation link", zap.String("plant_id", id), zap.Error(err))
		return c.HTML(http.StatusForbidden, page("Invalid link", "This confirmation link is invalid or has expired."))
	}

	p, err := h.service.ConfirmWatering(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return c.HTML(http.StatusNotFound, page("Plant not found", "We could not find this plant. It may have been removed."))
	}
	if err != nil {
		h.log.Error("confirm watering failed", zap.String("plant_id", id), zap.Error(err))
		return c.HTML(http.StatusInternalServerError, page("Something went wrong", "Please try again in a moment."))
	}

	msg := fmt.Sprintf("Watering of %s recorded. We will remind you again in %d days.",
		html.EscapeString(p.Name), p.IntervalDays)
	return c.HTML(http.StatusOK, page("Watering confirmed! 🌱", msg))
}

func page(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>MyPlants</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding-top: 50px; color: #333;">
  <h1 style="color: #16a34a;">%s</h1>
  <p>%s</p>
</body>
</html>`, title, message)
}
