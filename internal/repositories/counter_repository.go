package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterTarget identifies one denormalized counter field on one parent
// document, e.g. {posts, <postID>, likes_count}.
type CounterTarget struct {
	Collection string `bson:"collection"`
	DocID      string `bson:"doc_id"`
	Field      string `bson:"field"`
}

// CounterRepository applies effectively-once counter updates. Every applied
// update leaves a mark keyed by the child document's path, so a redelivered
// event finds the mark already in the desired state and applies nothing.
// Mark mutation and the counter increment share one transaction.
type CounterRepository interface {
	// ApplyLikeDelta applies a +1/-1 existence delta for the child document
	// identified by childKey. It reports whether the counter was changed;
	// false means the event was a no-op or a redelivery.
	ApplyLikeDelta(ctx context.Context, childKey string, target CounterTarget, delta int) (bool, error)

	// ApplyCommentTransition reconciles the counter membership of one comment.
	// desired is the target implied by the comment's after state (nil when the
	// comment was deleted); the previously counted target, if any, is read
	// from the mark. Covers create, delete, and reparenting in one diff.
	ApplyCommentTransition(ctx context.Context, childKey string, desired *CounterTarget) (bool, error)
}

// counterMark records that one child document is currently reflected in a
// counter, and which counter.
type counterMark struct {
	Key    string        `bson:"_id"`
	Target CounterTarget `bson:"target"`
}

// MongoCounterRepository implements CounterRepository for MongoDB
type MongoCounterRepository struct {
	client *mongo.Client
	db     *mongo.Database
	marks  *mongo.Collection
}

// NewMongoCounterRepository creates a new MongoCounterRepository
func NewMongoCounterRepository(client *mongo.Client, db *mongo.Database) *MongoCounterRepository {
	return &MongoCounterRepository{
		client: client,
		db:     db,
		marks:  db.Collection("counter_marks"),
	}
}

// ApplyLikeDelta applies an existence delta for one like document
func (r *MongoCounterRepository) ApplyLikeDelta(ctx context.Context, childKey string, target CounterTarget, delta int) (bool, error) {
	if delta == 0 {
		return false, nil
	}

	session, err := r.client.StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if delta > 0 {
			// Upsert rather than insert: a write error inside a transaction
			// aborts it server-side, so the duplicate-key case must not
			// raise. UpsertedCount 0 means the mark already existed.
			opts := options.Update().SetUpsert(true)
			res, err := r.marks.UpdateOne(sessCtx,
				bson.M{"_id": childKey},
				bson.M{"$setOnInsert": bson.M{"target": target}},
				opts)
			if err != nil {
				return false, err
			}
			if res.UpsertedCount == 0 {
				// Already counted; redelivered create.
				return false, nil
			}
		} else {
			res, err := r.marks.DeleteOne(sessCtx, bson.M{"_id": childKey})
			if err != nil {
				return false, err
			}
			if res.DeletedCount == 0 {
				// Never counted or already uncounted; redelivered delete.
				return false, nil
			}
		}
		if err := r.increment(sessCtx, target, delta); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// ApplyCommentTransition reconciles a comment's counted target with the
// target implied by its latest state
func (r *MongoCounterRepository) ApplyCommentTransition(ctx context.Context, childKey string, desired *CounterTarget) (bool, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		var current *CounterTarget
		var mark counterMark
		err := r.marks.FindOne(sessCtx, bson.M{"_id": childKey}).Decode(&mark)
		if err == nil {
			current = &mark.Target
		} else if err != mongo.ErrNoDocuments {
			return false, err
		}

		if current == nil && desired == nil {
			return false, nil
		}
		if current != nil && desired != nil && *current == *desired {
			return false, nil
		}

		if current != nil {
			if err := r.increment(sessCtx, *current, -1); err != nil {
				return false, err
			}
		}
		if desired != nil {
			if err := r.increment(sessCtx, *desired, 1); err != nil {
				return false, err
			}
			opts := options.Replace().SetUpsert(true)
			if _, err := r.marks.ReplaceOne(sessCtx, bson.M{"_id": childKey}, counterMark{Key: childKey, Target: *desired}, opts); err != nil {
				return false, err
			}
		} else {
			if _, err := r.marks.DeleteOne(sessCtx, bson.M{"_id": childKey}); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// increment applies an atomic $inc to the target counter field. A missing
// parent matches zero documents and is not treated as an error; the parent
// may have been deleted by the time the event arrives.
func (r *MongoCounterRepository) increment(ctx context.Context, target CounterTarget, delta int) error {
	objID, err := primitive.ObjectIDFromHex(target.DocID)
	if err != nil {
		return fmt.Errorf("invalid %s ID format: %w", target.Collection, err)
	}
	_, err = r.db.Collection(target.Collection).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{target.Field: delta}})
	return err
}
