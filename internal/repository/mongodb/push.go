package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbodji/aviary/internal/domain/models"
)

// HasActivePushByKey reports whether a pending or sent push item already
// exists for the natural key since the given time.
func (r *Repository) HasActivePushByKey(ctx context.Context, key models.AlertKey, since time.Time) (bool, error) {
	filter := naturalKeyFilter(key)
	filter["status"] = bson.M{"$in": bson.A{models.PushPending, models.PushSent}}
	filter["created_at"] = bson.M{"$gte": since}

	count, err := r.db.Collection(collPush).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count active push by key: %w", err)
	}
	return count > 0, nil
}

// InsertPush persists a new push item and assigns its id.
func (r *Repository) InsertPush(ctx context.Context, p *models.PushNotification) error {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.db.Collection(collPush).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert push notification: %w", err)
	}
	return nil
}

// MarkPushSent transitions a pending push item to sent.
func (r *Repository) MarkPushSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.Collection(collPush).UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PushPending},
		bson.M{"$set": bson.M{"status": models.PushSent, "sent_at": at}},
	)
	if err != nil {
		return fmt.Errorf("mark push sent: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPushNotFound
	}
	return nil
}

// MarkPushRead transitions a sent push item to read, scoped to its owner.
func (r *Repository) MarkPushRead(ctx context.Context, id, ownerID string) error {
	now := time.Now()
	res, err := r.db.Collection(collPush).UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": ownerID, "status": models.PushSent},
		bson.M{"$set": bson.M{"status": models.PushRead, "read_at": now}},
	)
	if err != nil {
		return fmt.Errorf("mark push read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPushNotFound
	}
	return nil
}

// ListPush returns the owner's push items, newest first.
func (r *Repository) ListPush(ctx context.Context, ownerID string, limit int64) ([]models.PushNotification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.db.Collection(collPush).Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list push notifications: %w", err)
	}
	var items []models.PushNotification
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode push notifications: %w", err)
	}
	return items, nil
}
