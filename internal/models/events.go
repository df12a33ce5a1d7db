package models

// Webhook change types delivered by the database webhook.
const (
	WebhookInsert = "INSERT"
	WebhookUpdate = "UPDATE"
	WebhookDelete = "DELETE"
)

// LikeSnapshot is the state of a like document at one side of a write.
// A nil snapshot means the document did not exist.
type LikeSnapshot struct {
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LikeWriteEvent is the before/after pair delivered to the like counter
// webhooks on every create/update/delete of a like document.
type LikeWriteEvent struct {
	Before *LikeSnapshot `json:"before"`
	After  *LikeSnapshot `json:"after"`
}

// CommentSnapshot is the state of a comment document at one side of a write.
// ParentID is empty for root comments and set for replies.
type CommentSnapshot struct {
	ParentID string `json:"parent_id,omitempty"`
	AuthorID string `json:"author_id,omitempty"`
	Content  string `json:"content,omitempty"`
}

// CommentWriteEvent is the before/after pair delivered to the comment
// counter webhook.
type CommentWriteEvent struct {
	Before *CommentSnapshot `json:"before"`
	After  *CommentSnapshot `json:"after"`
}

// DatabaseWebhookPayload is the body posted by the notifications-table
// webhook to the push dispatch endpoint.
type DatabaseWebhookPayload struct {
	Type      string        `json:"type"`
	Table     string        `json:"table,omitempty"`
	Schema    string        `json:"schema,omitempty"`
	Record    *Notification `json:"record"`
	OldRecord *Notification `json:"old_record,omitempty"`
}
