package settings

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SettingsHandler handles HTTP requests for tenant settings and public profiles.
type SettingsHandler struct {
	service *Service
	log     *zap.Logger
}

func NewSettingsHandler(service *Service, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, log: log}
}

// Get never returns stored secrets, only whether they are set.
func (h *SettingsHandler) Get(c echo.Context) error {
	st, err := h.service.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		h.log.Error("get settings failed", zap.String("owner_id", c.Param("userId")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load settings"})
	}
	return c.JSON(http.StatusOK, st.View())
}

func (h *SettingsHandler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	st, err := h.service.Update(c.Request().Context(), c.Param("userId"), req)
	switch {
	case errors.Is(err, ErrInvalidSlug):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrSlugTaken):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "This link is already taken, please choose another one"})
	case err != nil:
		h.log.Error("update settings failed", zap.String("owner_id", c.Param("userId")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save settings"})
	}
	return c.JSON(http.StatusOK, st.View())
}

func (h *SettingsHandler) PublicProfile(c echo.Context) error {
	profile, err := h.service.PublicProfile(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found or private"})
	}
	if err != nil {
		h.log.Error("public profile failed", zap.String("slug", c.Param("slug")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load profile"})
	}
	return c.JSON(http.StatusOK, profile)
}
