package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
)

// DeviceHandler handles push token registration for the caller's devices
type DeviceHandler struct {
	pushTokenRepository repositories.PushTokenRepository
	profileRepository   repositories.ProfileRepository
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(tokenRepo repositories.PushTokenRepository, profileRepo repositories.ProfileRepository) *DeviceHandler {
	return &DeviceHandler{
		pushTokenRepository: tokenRepo,
		profileRepository:   profileRepo,
	}
}

// RegisterDeviceRoutes registers device routes
func (h *DeviceHandler) RegisterDeviceRoutes(g *echo.Group) {
	g.POST("/devices", h.RegisterDevice)
	g.DELETE("/devices/:token", h.UnregisterDevice)
}

// RegisterDevice upserts an Expo push token for the authenticated user
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	firebaseUID := firebaseUIDFromContext(c)
	if firebaseUID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	profile, err := h.profileRepository.GetProfileByFirebaseUID(firebaseUID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
	}

	req := new(models.RegisterPushTokenRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token := &models.PushToken{
		UserID:        profile.ID,
		ExpoPushToken: req.ExpoPushToken,
		Platform:      req.Platform,
	}
	if err := h.pushTokenRepository.UpsertToken(token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, token)
}

// UnregisterDevice removes one of the caller's push tokens
func (h *DeviceHandler) UnregisterDevice(c echo.Context) error {
	firebaseUID := firebaseUIDFromContext(c)
	if firebaseUID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	profile, err := h.profileRepository.GetProfileByFirebaseUID(firebaseUID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
	}

	if err := h.pushTokenRepository.DeleteToken(profile.ID, c.Param("token")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Token not found")
	}

	return c.NoContent(http.StatusNoContent)
}
