package models

import "time"

// PushToken maps a user to an Expo push token registered by one of their
// devices (PostgreSQL). Rows are deleted when Expo reports the token as
// permanently unregistered.
type PushToken struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"size:36;index"`
	ExpoPushToken string    `json:"expo_push_token" gorm:"uniqueIndex"` // e.g. "ExponentPushToken[xxx]"
	Platform      string    `json:"platform" gorm:"size:10"`            // "ios" or "android"
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RegisterPushTokenRequest defines the request body for device registration
type RegisterPushTokenRequest struct {
	ExpoPushToken string `json:"expo_push_token" validate:"required"`
	Platform      string `json:"platform" validate:"omitempty,oneof=ios android"`
}
