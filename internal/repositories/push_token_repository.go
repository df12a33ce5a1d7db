package repositories

import (
	"github.com/pattibytes/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushTokenRepository defines the interface for push token operations
type PushTokenRepository interface {
	UpsertToken(token *models.PushToken) error
	GetTokensByUserID(userID string) ([]models.PushToken, error)
	DeleteToken(userID, expoPushToken string) error
	DeleteTokens(expoPushTokens []string) (int64, error)
}

type postgresPushTokenRepository struct {
	db *gorm.DB
}

// NewPostgresPushTokenRepository creates a new push token repository backed
// by PostgreSQL
func NewPostgresPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &postgresPushTokenRepository{db: db}
}

// UpsertToken registers a device token, reassigning it to the user if the
// same token was previously registered by another account on the device.
func (r *postgresPushTokenRepository) UpsertToken(token *models.PushToken) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "expo_push_token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
	}).Create(token).Error
}

// GetTokensByUserID retrieves every token registered for a user. An empty
// result is normal: the user simply has no push-capable device.
func (r *postgresPushTokenRepository) GetTokensByUserID(userID string) ([]models.PushToken, error) {
	var tokens []models.PushToken
	if err := r.db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken removes one of the user's registered tokens
func (r *postgresPushTokenRepository) DeleteToken(userID, expoPushToken string) error {
	res := r.db.Where("user_id = ? AND expo_push_token = ?", userID, expoPushToken).
		Delete(&models.PushToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTokens removes tokens the push gateway reported as permanently
// unregistered, returning how many rows were pruned.
func (r *postgresPushTokenRepository) DeleteTokens(expoPushTokens []string) (int64, error) {
	if len(expoPushTokens) == 0 {
		return 0, nil
	}
	res := r.db.Where("expo_push_token IN ?", expoPushTokens).Delete(&models.PushToken{})
	return res.RowsAffected, res.Error
}
