package notification

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NotificationHandler exposes reminder cycles over HTTP.
type NotificationHandler struct {
	service *NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service *NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, log: log}
}

// RunNow runs a cycle immediately and reports its tally. The cycle outlives a
// client that disconnects early.
func (h *NotificationHandler) RunNow(c echo.Context) error {
	res, err := h.service.RunCycle(context.WithoutCancel(c.Request().Context()))
	switch {
	case errors.Is(err, ErrCycleInProgress):
		return c.JSON(http.StatusConflict, map[string]string{"error": "A notification cycle is already running"})
	case err != nil:
		h.log.Error("manual notification cycle failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check plants"})
	}
	return c.JSON(http.StatusOK, res)
}
