package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pattibytes/backend/internal/counters"
	"github.com/pattibytes/backend/internal/models"
)

// CounterHandler receives document-write webhook events and keeps the
// denormalized counters in sync. Counter failures are logged and swallowed:
// the caller is the event platform, not an end user, and redelivery is its
// job.
type CounterHandler struct {
	service *counters.Service
}

// NewCounterHandler creates a new CounterHandler
func NewCounterHandler(service *counters.Service) *CounterHandler {
	return &CounterHandler{service: service}
}

// RegisterCounterRoutes registers the counter webhook routes
func (h *CounterHandler) RegisterCounterRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes/:uid", h.OnPostLikeWrite)
	g.POST("/posts/:post_id/comments/:comment_id/likes/:uid", h.OnCommentLikeWrite)
	g.POST("/posts/:post_id/comments/:comment_id", h.OnCommentWrite)
}

// OnPostLikeWrite handles a write to posts/{postId}/likes/{uid}
func (h *CounterHandler) OnPostLikeWrite(c echo.Context) error {
	postID := c.Param("post_id")
	userID := c.Param("uid")

	event := new(models.LikeWriteEvent)
	if err := c.Bind(event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid event payload")
	}

	applied, err := h.service.ApplyPostLikeWrite(c.Request().Context(), postID, userID, event)
	if err != nil {
		log.Printf("counter: post like write %s/%s: %v", postID, userID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "applied": applied})
}

// OnCommentLikeWrite handles a write to
// posts/{postId}/comments/{commentId}/likes/{uid}
func (h *CounterHandler) OnCommentLikeWrite(c echo.Context) error {
	postID := c.Param("post_id")
	commentID := c.Param("comment_id")
	userID := c.Param("uid")

	event := new(models.LikeWriteEvent)
	if err := c.Bind(event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid event payload")
	}

	applied, err := h.service.ApplyCommentLikeWrite(c.Request().Context(), postID, commentID, userID, event)
	if err != nil {
		log.Printf("counter: comment like write %s/%s/%s: %v", postID, commentID, userID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "applied": applied})
}

// OnCommentWrite handles a write to posts/{postId}/comments/{commentId}
func (h *CounterHandler) OnCommentWrite(c echo.Context) error {
	postID := c.Param("post_id")
	commentID := c.Param("comment_id")

	event := new(models.CommentWriteEvent)
	if err := c.Bind(event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid event payload")
	}

	applied, err := h.service.ApplyCommentWrite(c.Request().Context(), postID, commentID, event)
	if err != nil {
		log.Printf("counter: comment write %s/%s: %v", postID, commentID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "applied": applied})
}
