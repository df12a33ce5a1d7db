package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pattibytes/backend/internal/fanout"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
)

// NotifyHandler exposes the notification fanout endpoint
type NotifyHandler struct {
	profileRepository repositories.ProfileRepository
	fanoutService     *fanout.Service
}

// NewNotifyHandler creates a new NotifyHandler
func NewNotifyHandler(profileRepo repositories.ProfileRepository, fanoutService *fanout.Service) *NotifyHandler {
	return &NotifyHandler{
		profileRepository: profileRepo,
		fanoutService:     fanoutService,
	}
}

// RegisterNotifyRoutes registers the notify route
func (h *NotifyHandler) RegisterNotifyRoutes(g *echo.Group) {
	g.POST("/notify", h.Notify)
}

// Notify accepts one logical notify request from a privileged caller and
// fans it out as one row per recipient. Authorization failures produce no
// side effects; validation runs before any write.
func (h *NotifyHandler) Notify(c echo.Context) error {
	firebaseUID := firebaseUIDFromContext(c)
	if firebaseUID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing Bearer token"})
	}

	caller, err := h.profileRepository.GetProfileByFirebaseUID(firebaseUID)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Profile not found"})
	}
	if !caller.CanNotify() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Not allowed"})
	}

	req := new(models.NotifyRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid JSON"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing fields"})
	}

	rows, err := h.fanoutService.Notify(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "recipients": len(rows)})
}
