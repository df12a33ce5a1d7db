package counters

import (
	"context"

	"github.com/pattibytes/backend/internal/metrics"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
)

// Relation labels for counter metrics.
const (
	relationPostLike    = "post_like"
	relationCommentLike = "comment_like"
	relationComment     = "comment"
)

// Service turns like/comment write events into effectively-once counter
// updates. Concurrent events for the same parent are safe: the backing
// increments are atomic and commutative, so no ordering is assumed.
type Service struct {
	counters repositories.CounterRepository
	metrics  *metrics.Metrics
}

// NewService creates a new counter Service
func NewService(counterRepo repositories.CounterRepository, m *metrics.Metrics) *Service {
	return &Service{counters: counterRepo, metrics: m}
}

// ApplyPostLikeWrite maintains posts.likes_count for one like write.
// Reports whether the counter actually moved.
func (s *Service) ApplyPostLikeWrite(ctx context.Context, postID, userID string, ev *models.LikeWriteEvent) (bool, error) {
	delta := ExistenceDelta(ev.Before != nil, ev.After != nil)
	if delta == 0 {
		s.observe(relationPostLike, "noop")
		return false, nil
	}
	applied, err := s.counters.ApplyLikeDelta(ctx, PostLikeKey(postID, userID), PostLikeTarget(postID), delta)
	s.observeApplied(relationPostLike, applied, err)
	return applied, err
}

// ApplyCommentLikeWrite maintains comments.likes_count for one like write.
func (s *Service) ApplyCommentLikeWrite(ctx context.Context, postID, commentID, userID string, ev *models.LikeWriteEvent) (bool, error) {
	delta := ExistenceDelta(ev.Before != nil, ev.After != nil)
	if delta == 0 {
		s.observe(relationCommentLike, "noop")
		return false, nil
	}
	applied, err := s.counters.ApplyLikeDelta(ctx, CommentLikeKey(postID, commentID, userID), CommentLikeTarget(commentID), delta)
	s.observeApplied(relationCommentLike, applied, err)
	return applied, err
}

// ApplyCommentWrite maintains posts.comments_count and
// comments.replies_count for one comment write. The target the comment
// should count toward is derived from the after state; the target it
// currently counts toward is read from the stored mark, so redeliveries and
// parent changes both resolve to the right pair of increments.
func (s *Service) ApplyCommentWrite(ctx context.Context, postID, commentID string, ev *models.CommentWriteEvent) (bool, error) {
	if ev.Before == nil && ev.After == nil {
		s.observe(relationComment, "noop")
		return false, nil
	}
	desired := CommentTarget(postID, ev.After)
	applied, err := s.counters.ApplyCommentTransition(ctx, CommentKey(postID, commentID), desired)
	s.observeApplied(relationComment, applied, err)
	return applied, err
}

func (s *Service) observe(relation, outcome string) {
	if s.metrics != nil {
		s.metrics.CounterEvents.WithLabelValues(relation, outcome).Inc()
	}
}

func (s *Service) observeApplied(relation string, applied bool, err error) {
	switch {
	case err != nil:
		s.observe(relation, "error")
	case applied:
		s.observe(relation, "applied")
	default:
		s.observe(relation, "redelivered")
	}
}
