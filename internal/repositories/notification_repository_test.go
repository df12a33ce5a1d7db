package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pattibytes/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Notification{}, &models.PushToken{}))
	return db
}

func newNotification(userID string) *models.Notification {
	return &models.Notification{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  "t",
		Type:   models.NotificationTypeGeneral,
	}
}

func TestCreateBatchAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	rows := []*models.Notification{
		newNotification("u1"),
		newNotification("u1"),
		newNotification("u2"),
	}
	require.NoError(t, repo.CreateBatch(rows))
	require.NoError(t, repo.CreateBatch(nil), "empty batch is a no-op")

	listed, total, err := repo.GetByUserID("u1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, listed, 2)
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	n := newNotification("u1")
	require.NoError(t, repo.CreateBatch([]*models.Notification{n}))

	err := repo.MarkAsRead("u2", n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "another user's row is out of reach")

	require.NoError(t, repo.MarkAsRead("u1", n.ID))

	count, err := repo.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	require.NoError(t, repo.CreateBatch([]*models.Notification{
		newNotification("u1"),
		newNotification("u1"),
		newNotification("u2"),
	}))

	require.NoError(t, repo.MarkAllAsRead("u1"))

	count, err := repo.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.GetUnreadCount("u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "other users' rows stay unread")
}

func TestMarkPushSent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	n := newNotification("u1")
	require.NoError(t, repo.CreateBatch([]*models.Notification{n}))
	require.NoError(t, repo.MarkPushSent(n.ID))

	stored, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.True(t, stored.SentPush)
	assert.False(t, stored.IsRead, "push bookkeeping does not touch the read flag")
}
