package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post, stored in MongoDB. A comment with
// an empty ParentID is a root comment and counts toward the post's
// comments_count; one with ParentID set is a reply and counts toward the
// parent comment's replies_count.
type Comment struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID       string             `json:"post_id" bson:"post_id"`
	ParentID     string             `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	AuthorID     string             `json:"author_id" bson:"author_id"`
	Content      string             `json:"content" bson:"content"`
	LikesCount   int                `json:"likes_count" bson:"likes_count"`
	RepliesCount int                `json:"replies_count" bson:"replies_count"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
