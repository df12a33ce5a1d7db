package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pattibytes/backend/internal/repositories"
)

// ContentHandler serves the counter-bearing content documents so clients can
// read back denormalized likes/comments counts.
type ContentHandler struct {
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *ContentHandler {
	return &ContentHandler{
		postRepository:    postRepo,
		commentRepository: commentRepo,
	}
}

// RegisterContentRoutes registers content read routes
func (h *ContentHandler) RegisterContentRoutes(g *echo.Group) {
	g.GET("/posts/:post_id", h.GetPost)
	g.GET("/comments/:comment_id", h.GetComment)
}

// GetPost returns a post with its denormalized counters
func (h *ContentHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// GetComment returns a comment with its denormalized counters
func (h *ContentHandler) GetComment(c echo.Context) error {
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("comment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comment": comment}})
}
