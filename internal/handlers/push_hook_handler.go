package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/push"
)

// PushHookHandler receives the notifications-table change webhook and
// dispatches pushes. It always answers 200: the notification row is already
// committed, and a non-200 would only make the webhook caller retry-storm a
// delivery that is best-effort anyway.
type PushHookHandler struct {
	dispatcher *push.Dispatcher
}

// NewPushHookHandler creates a new PushHookHandler
func NewPushHookHandler(dispatcher *push.Dispatcher) *PushHookHandler {
	return &PushHookHandler{dispatcher: dispatcher}
}

// RegisterPushHookRoutes registers the push webhook route
func (h *PushHookHandler) RegisterPushHookRoutes(g *echo.Group) {
	g.POST("/notifications", h.OnNotificationChange)
}

// OnNotificationChange processes one database-change payload. Only INSERT
// events dispatch; UPDATE/DELETE are acknowledged as no-ops.
func (h *PushHookHandler) OnNotificationChange(c echo.Context) error {
	payload := new(models.DatabaseWebhookPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"ok": false, "error": "invalid payload"})
	}

	if payload.Type != models.WebhookInsert {
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "skipped": true})
	}
	if payload.Record == nil {
		return c.JSON(http.StatusOK, echo.Map{"ok": false, "error": "missing record"})
	}

	result, err := h.dispatcher.Dispatch(c.Request().Context(), payload.Record)
	if err != nil {
		log.Printf("push: dispatch for notification %s failed: %v", payload.Record.ID, err)
		return c.JSON(http.StatusOK, echo.Map{"ok": false, "error": err.Error()})
	}

	response := echo.Map{"ok": true, "sent": result.Sent}
	if result.Pruned > 0 {
		response["pruned"] = result.Pruned
	}
	if result.Reason != "" {
		response["reason"] = result.Reason
	}
	return c.JSON(http.StatusOK, response)
}
