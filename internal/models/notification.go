package models

import "time"

// Notification types understood by the push channel mapping.
const (
	NotificationTypeOrder     = "order"
	NotificationTypePromo     = "promo"
	NotificationTypeGeneral   = "general"
	NotificationTypeBroadcast = "admin_broadcast"
)

// Notification represents one event delivered to one recipient (PostgreSQL).
// Fanout inserts one row per recipient; the push dispatcher flips SentPush.
type Notification struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	UserID    string         `json:"user_id" gorm:"size:36;index"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Body      string         `json:"body"` // kept alongside message for the push UI
	Type      string         `json:"type" gorm:"size:30;index"`
	Data      map[string]any `json:"data" gorm:"serializer:json"`
	IsRead    bool           `json:"is_read" gorm:"default:false;index"`
	SentPush  bool           `json:"sent_push" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

// NotifyRequest defines the request body for the notify fanout endpoint
type NotifyRequest struct {
	TargetUserID string         `json:"targetUserId" validate:"required"`
	Title        string         `json:"title" validate:"required"`
	Message      string         `json:"message" validate:"required"`
	Type         string         `json:"type" validate:"required"`
	Data         map[string]any `json:"data,omitempty"`
}
