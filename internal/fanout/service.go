// Package fanout materializes one logical notify request as independent
// notification rows, one per recipient.
package fanout

import (
	"time"

	"github.com/google/uuid"
	"github.com/pattibytes/backend/internal/metrics"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
)

// Service resolves recipient sets and inserts notification rows.
type Service struct {
	profiles      repositories.ProfileRepository
	notifications repositories.NotificationRepository
	metrics       *metrics.Metrics
}

// NewService creates a new fanout Service
func NewService(profileRepo repositories.ProfileRepository, notificationRepo repositories.NotificationRepository, m *metrics.Metrics) *Service {
	return &Service{profiles: profileRepo, notifications: notificationRepo, metrics: m}
}

// Notify inserts one notification row per recipient: the target user plus
// every active approved admin, deduplicated. All rows go in a single
// multi-row insert, so a failure leaves no partial fanout behind. Returns
// the inserted rows.
func (s *Service) Notify(req *models.NotifyRequest) ([]*models.Notification, error) {
	adminIDs, err := s.profiles.GetActiveAdminIDs()
	if err != nil {
		s.observe("error")
		return nil, err
	}

	recipients := []string{req.TargetUserID}
	seen := map[string]bool{req.TargetUserID: true}
	for _, id := range adminIDs {
		if !seen[id] {
			seen[id] = true
			recipients = append(recipients, id)
		}
	}

	data := normalizeData(req.Type, req.Data)
	now := time.Now()

	rows := make([]*models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		rows = append(rows, &models.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     req.Title,
			Message:   req.Message,
			Body:      req.Message,
			Type:      req.Type,
			Data:      data,
			IsRead:    false,
			CreatedAt: now,
		})
	}

	if err := s.notifications.CreateBatch(rows); err != nil {
		s.observe("error")
		return nil, err
	}

	s.observe("ok")
	if s.metrics != nil {
		s.metrics.FanoutRecipients.Add(float64(len(rows)))
	}
	return rows, nil
}

// normalizeData builds the structured payload stored with every row. The
// "order" type is normalized to "order_update" inside the payload, and the
// order ID is duplicated under both field-name aliases that older clients
// look for.
func normalizeData(notifType string, data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+3)
	for k, v := range data {
		out[k] = v
	}

	payloadType := notifType
	if notifType == models.NotificationTypeOrder {
		payloadType = "order_update"
	}
	out["type"] = payloadType

	orderID := OrderID(data)
	out["orderId"] = orderID
	out["order_id"] = orderID
	return out
}

// OrderID extracts the order identifier from a payload, checking the legacy
// field-name aliases. Returns nil when the payload carries none.
func OrderID(data map[string]any) any {
	if data == nil {
		return nil
	}
	if v, ok := data["orderId"]; ok && v != nil {
		return v
	}
	if v, ok := data["order_id"]; ok && v != nil {
		return v
	}
	return nil
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.FanoutRequests.WithLabelValues(outcome).Inc()
	}
}
