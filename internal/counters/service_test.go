package counters

import (
	"context"
	"fmt"
	"testing"

	"github.com/pattibytes/backend/internal/metrics"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// likeCall records one ApplyLikeDelta invocation
type likeCall struct {
	key    string
	target repositories.CounterTarget
	delta  int
}

// transitionCall records one ApplyCommentTransition invocation
type transitionCall struct {
	key     string
	desired *repositories.CounterTarget
}

// MockCounterRepository implements repositories.CounterRepository for testing
type MockCounterRepository struct {
	likeCalls       []likeCall
	transitionCalls []transitionCall
	applied         map[string]bool // simulated mark state, keyed by child key
	failNext        bool
}

func newMockCounterRepository() *MockCounterRepository {
	return &MockCounterRepository{applied: make(map[string]bool)}
}

func (m *MockCounterRepository) ApplyLikeDelta(_ context.Context, key string, target repositories.CounterTarget, delta int) (bool, error) {
	if m.failNext {
		m.failNext = false
		return false, fmt.Errorf("store unavailable")
	}
	m.likeCalls = append(m.likeCalls, likeCall{key: key, target: target, delta: delta})
	if delta > 0 {
		if m.applied[key] {
			return false, nil
		}
		m.applied[key] = true
		return true, nil
	}
	if !m.applied[key] {
		return false, nil
	}
	delete(m.applied, key)
	return true, nil
}

func (m *MockCounterRepository) ApplyCommentTransition(_ context.Context, key string, desired *repositories.CounterTarget) (bool, error) {
	if m.failNext {
		m.failNext = false
		return false, fmt.Errorf("store unavailable")
	}
	m.transitionCalls = append(m.transitionCalls, transitionCall{key: key, desired: desired})
	return true, nil
}

func newTestService(repo repositories.CounterRepository) *Service {
	return NewService(repo, metrics.New(prometheus.NewRegistry()))
}

func TestApplyPostLikeWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("create applies plus one", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)

		applied, err := svc.ApplyPostLikeWrite(ctx, "p1", "u1", &models.LikeWriteEvent{
			After: &models.LikeSnapshot{UserID: "u1"},
		})
		require.NoError(t, err)
		assert.True(t, applied)
		require.Len(t, repo.likeCalls, 1)
		assert.Equal(t, "posts/p1/likes/u1", repo.likeCalls[0].key)
		assert.Equal(t, PostLikeTarget("p1"), repo.likeCalls[0].target)
		assert.Equal(t, 1, repo.likeCalls[0].delta)
	})

	t.Run("delete applies minus one", func(t *testing.T) {
		repo := newMockCounterRepository()
		repo.applied["posts/p1/likes/u1"] = true
		svc := newTestService(repo)

		applied, err := svc.ApplyPostLikeWrite(ctx, "p1", "u1", &models.LikeWriteEvent{
			Before: &models.LikeSnapshot{UserID: "u1"},
		})
		require.NoError(t, err)
		assert.True(t, applied)
		require.Len(t, repo.likeCalls, 1)
		assert.Equal(t, -1, repo.likeCalls[0].delta)
	})

	t.Run("in-place update never touches the store", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)

		applied, err := svc.ApplyPostLikeWrite(ctx, "p1", "u1", &models.LikeWriteEvent{
			Before: &models.LikeSnapshot{UserID: "u1"},
			After:  &models.LikeSnapshot{UserID: "u1"},
		})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Empty(t, repo.likeCalls)
	})

	t.Run("redelivered create applies at most once", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)
		event := &models.LikeWriteEvent{After: &models.LikeSnapshot{UserID: "u1"}}

		applied, err := svc.ApplyPostLikeWrite(ctx, "p1", "u1", event)
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = svc.ApplyPostLikeWrite(ctx, "p1", "u1", event)
		require.NoError(t, err)
		assert.False(t, applied, "second delivery of the same create must not re-apply")
	})
}

func TestApplyCommentLikeWrite(t *testing.T) {
	repo := newMockCounterRepository()
	svc := newTestService(repo)

	applied, err := svc.ApplyCommentLikeWrite(context.Background(), "p1", "c1", "u1", &models.LikeWriteEvent{
		After: &models.LikeSnapshot{UserID: "u1"},
	})
	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, repo.likeCalls, 1)
	assert.Equal(t, "posts/p1/comments/c1/likes/u1", repo.likeCalls[0].key)
	assert.Equal(t, CommentLikeTarget("c1"), repo.likeCalls[0].target)
}

func TestApplyCommentWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("root comment create targets the post", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)

		applied, err := svc.ApplyCommentWrite(ctx, "p1", "c1", &models.CommentWriteEvent{
			After: &models.CommentSnapshot{Content: "first"},
		})
		require.NoError(t, err)
		assert.True(t, applied)
		require.Len(t, repo.transitionCalls, 1)
		assert.Equal(t, "posts/p1/comments/c1", repo.transitionCalls[0].key)
		require.NotNil(t, repo.transitionCalls[0].desired)
		assert.Equal(t, "comments_count", repo.transitionCalls[0].desired.Field)
	})

	t.Run("reply create targets the parent comment", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)

		_, err := svc.ApplyCommentWrite(ctx, "p1", "c2", &models.CommentWriteEvent{
			After: &models.CommentSnapshot{ParentID: "c1"},
		})
		require.NoError(t, err)
		require.Len(t, repo.transitionCalls, 1)
		require.NotNil(t, repo.transitionCalls[0].desired)
		assert.Equal(t, "comments", repo.transitionCalls[0].desired.Collection)
		assert.Equal(t, "c1", repo.transitionCalls[0].desired.DocID)
		assert.Equal(t, "replies_count", repo.transitionCalls[0].desired.Field)
	})

	t.Run("delete passes a nil desired target", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)

		_, err := svc.ApplyCommentWrite(ctx, "p1", "c1", &models.CommentWriteEvent{
			Before: &models.CommentSnapshot{Content: "gone"},
		})
		require.NoError(t, err)
		require.Len(t, repo.transitionCalls, 1)
		assert.Nil(t, repo.transitionCalls[0].desired)
	})

	t.Run("phantom write is a no-op", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)

		applied, err := svc.ApplyCommentWrite(ctx, "p1", "c1", &models.CommentWriteEvent{})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Empty(t, repo.transitionCalls)
	})

	t.Run("reparent moves the counter to the new parent", func(t *testing.T) {
		repo := newMockCounterRepository()
		svc := newTestService(repo)

		_, err := svc.ApplyCommentWrite(ctx, "p1", "c2", &models.CommentWriteEvent{
			Before: &models.CommentSnapshot{ParentID: "c1"},
			After:  &models.CommentSnapshot{ParentID: "c3"},
		})
		require.NoError(t, err)
		require.Len(t, repo.transitionCalls, 1)
		require.NotNil(t, repo.transitionCalls[0].desired)
		assert.Equal(t, "c3", repo.transitionCalls[0].desired.DocID)
	})
}

func TestServiceErrorPropagation(t *testing.T) {
	repo := newMockCounterRepository()
	repo.failNext = true
	svc := newTestService(repo)

	applied, err := svc.ApplyPostLikeWrite(context.Background(), "p1", "u1", &models.LikeWriteEvent{
		After: &models.LikeSnapshot{UserID: "u1"},
	})
	assert.Error(t, err)
	assert.False(t, applied)
}
