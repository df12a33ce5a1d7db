// Package counters keeps denormalized counters consistent with the true
// cardinality of their child relations, driven by before/after document
// write events.
package counters

import (
	"fmt"

	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
)

// Collections and counter fields maintained by this package.
const (
	postsCollection    = "posts"
	commentsCollection = "comments"

	likesCountField    = "likes_count"
	commentsCountField = "comments_count"
	repliesCountField  = "replies_count"
)

// ExistenceDelta returns the signed cardinality change implied by one
// document write: +1 for create, -1 for delete, 0 otherwise. In-place
// updates fall into the 0 case and must never move a counter.
func ExistenceDelta(beforeExists, afterExists bool) int {
	if !beforeExists && afterExists {
		return 1
	}
	if beforeExists && !afterExists {
		return -1
	}
	return 0
}

// PostLikeTarget is the counter a post like contributes to.
func PostLikeTarget(postID string) repositories.CounterTarget {
	return repositories.CounterTarget{Collection: postsCollection, DocID: postID, Field: likesCountField}
}

// CommentLikeTarget is the counter a comment like contributes to.
func CommentLikeTarget(commentID string) repositories.CounterTarget {
	return repositories.CounterTarget{Collection: commentsCollection, DocID: commentID, Field: likesCountField}
}

// CommentTarget classifies one side of a comment write: a root comment (no
// parent) contributes to the post's comments_count, a reply to the parent
// comment's replies_count. A nil snapshot contributes nowhere. The before
// and after sides are classified independently so reparenting shows up as
// two different targets.
func CommentTarget(postID string, snapshot *models.CommentSnapshot) *repositories.CounterTarget {
	if snapshot == nil {
		return nil
	}
	if snapshot.ParentID == "" {
		return &repositories.CounterTarget{Collection: postsCollection, DocID: postID, Field: commentsCountField}
	}
	return &repositories.CounterTarget{Collection: commentsCollection, DocID: snapshot.ParentID, Field: repliesCountField}
}

// PostLikeKey is the child path of a post like document.
func PostLikeKey(postID, userID string) string {
	return fmt.Sprintf("posts/%s/likes/%s", postID, userID)
}

// CommentLikeKey is the child path of a comment like document.
func CommentLikeKey(postID, commentID, userID string) string {
	return fmt.Sprintf("posts/%s/comments/%s/likes/%s", postID, commentID, userID)
}

// CommentKey is the child path of a comment document.
func CommentKey(postID, commentID string) string {
	return fmt.Sprintf("posts/%s/comments/%s", postID, commentID)
}
