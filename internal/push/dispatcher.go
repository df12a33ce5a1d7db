package push

import (
	"context"
	"log"

	"github.com/pattibytes/backend/internal/fanout"
	"github.com/pattibytes/backend/internal/metrics"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
)

const (
	defaultTitle = "PattiBytes"
	defaultBody  = "You have a new notification"
)

// Result summarizes one dispatch.
type Result struct {
	Sent   int    `json:"sent"`
	Pruned int    `json:"pruned,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Dispatcher sends a push for each newly inserted notification row to every
// device registered by the recipient.
type Dispatcher struct {
	tokens        repositories.PushTokenRepository
	notifications repositories.NotificationRepository
	client        *Client
	metrics       *metrics.Metrics
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(tokenRepo repositories.PushTokenRepository, notificationRepo repositories.NotificationRepository, client *Client, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		tokens:        tokenRepo,
		notifications: notificationRepo,
		client:        client,
		metrics:       m,
	}
}

// Dispatch loads the recipient's tokens, submits one batched gateway
// request, records sent_push on the source row (best effort), and prunes
// tokens the gateway reports as permanently unregistered. Zero registered
// tokens is a normal outcome, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, record *models.Notification) (*Result, error) {
	tokens, err := d.tokens.GetTokensByUserID(record.UserID)
	if err != nil {
		d.observe("token_lookup_error")
		return nil, err
	}
	if len(tokens) == 0 {
		d.observe("no_tokens")
		return &Result{Sent: 0, Reason: "no_tokens"}, nil
	}

	messages := make([]Message, 0, len(tokens))
	for _, t := range tokens {
		messages = append(messages, d.buildMessage(record, t.ExpoPushToken))
	}

	tickets, err := d.client.Send(ctx, messages)
	if err != nil {
		d.observe("gateway_error")
		return nil, err
	}

	// The row already exists; a failed flag update is not worth failing the
	// dispatch over.
	if err := d.notifications.MarkPushSent(record.ID); err != nil {
		log.Printf("push: marking notification %s sent_push failed: %v", record.ID, err)
	}

	pruned := d.pruneDeadTokens(tokens, tickets)

	d.observe("ok")
	if d.metrics != nil {
		d.metrics.PushMessagesSent.Add(float64(len(messages)))
	}
	return &Result{Sent: len(messages), Pruned: pruned}, nil
}

// buildMessage constructs the device payload: readable title/body plus a
// structured data object with the normalized type, the order ID under both
// legacy aliases, and the Android channel used for client-side grouping.
func (d *Dispatcher) buildMessage(record *models.Notification, token string) Message {
	title := record.Title
	if title == "" {
		title = defaultTitle
	}
	body := record.Body
	if body == "" {
		body = record.Message
	}
	if body == "" {
		body = defaultBody
	}

	notifType := record.Type
	if notifType == "" {
		notifType = models.NotificationTypeGeneral
	}
	payloadType := notifType
	if notifType == models.NotificationTypeOrder {
		payloadType = "order_update"
	}

	data := make(map[string]any, len(record.Data)+4)
	for k, v := range record.Data {
		data[k] = v
	}
	orderID := fanout.OrderID(record.Data)
	data["type"] = payloadType
	data["orderId"] = orderID
	data["order_id"] = orderID
	data["notificationId"] = record.ID

	return Message{
		To:        token,
		Sound:     "default",
		Title:     title,
		Body:      body,
		Data:      data,
		ChannelID: channelFor(notifType),
	}
}

// channelFor maps a notification type to the client notification channel.
func channelFor(notifType string) string {
	switch notifType {
	case models.NotificationTypeOrder:
		return "orders"
	case models.NotificationTypePromo:
		return "promotions"
	default:
		return "default"
	}
}

// pruneDeadTokens deletes exactly the tokens whose tickets came back as
// DeviceNotRegistered. Tickets are positional, matching the submitted batch.
func (d *Dispatcher) pruneDeadTokens(tokens []models.PushToken, tickets []Ticket) int {
	var dead []string
	for i, ticket := range tickets {
		if i >= len(tokens) {
			break
		}
		if ticket.DeviceNotRegistered() {
			dead = append(dead, tokens[i].ExpoPushToken)
		}
	}
	if len(dead) == 0 {
		return 0
	}

	pruned, err := d.tokens.DeleteTokens(dead)
	if err != nil {
		log.Printf("push: pruning %d dead tokens failed: %v", len(dead), err)
		return 0
	}
	log.Printf("push: pruned %d unregistered tokens", pruned)
	if d.metrics != nil {
		d.metrics.PushTokensPruned.Add(float64(pruned))
	}
	return int(pruned)
}

func (d *Dispatcher) observe(outcome string) {
	if d.metrics != nil {
		d.metrics.PushDispatches.WithLabelValues(outcome).Inc()
	}
}
