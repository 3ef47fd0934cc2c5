package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbodji/aviary/internal/domain/models"
)

// ErrDuplicateKey signals that the dedup index rejected a concurrent insert
// for the same natural key.
var ErrDuplicateKey = fmt.Errorf("duplicate natural key")

func naturalKeyFilter(key models.AlertKey) bson.M {
	return bson.M{
		"owner_id":     key.OwnerID,
		"alert_type":   key.Type,
		"target_type":  key.TargetType,
		"target_id":    key.TargetID,
		"egg_slot":     key.EggSlot,
		"trigger_date": key.TriggerDate,
	}
}

// ExistsUnreadByKey reports whether an unread notification already covers the
// given natural key.
func (r *Repository) ExistsUnreadByKey(ctx context.Context, key models.AlertKey) (bool, error) {
	filter := naturalKeyFilter(key)
	filter["is_read"] = false
	count, err := r.db.Collection(collNotifications).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count unread by key: %w", err)
	}
	return count > 0, nil
}

// InsertNotification persists a new notification and assigns its id. A
// duplicate-key rejection from the dedup index is mapped to ErrDuplicateKey.
func (r *Repository) InsertNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.db.Collection(collNotifications).InsertOne(ctx, n)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns the owner's notifications, newest first. Archived
// rows are excluded.
func (r *Repository) ListNotifications(ctx context.Context, ownerID string, filter models.NotificationFilter) ([]models.Notification, error) {
	query := bson.M{"owner_id": ownerID, "archived_at": nil}
	if filter.IsRead != nil {
		query["is_read"] = *filter.IsRead
	}
	if filter.Type != "" {
		query["alert_type"] = filter.Type
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.db.Collection(collNotifications).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the owner's unread notification count.
func (r *Repository) CountUnread(ctx context.Context, ownerID string) (int64, error) {
	count, err := r.db.Collection(collNotifications).CountDocuments(ctx, bson.M{
		"owner_id":    ownerID,
		"is_read":     false,
		"archived_at": nil,
	})
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkNotificationRead flips one notification to read, scoped to its owner.
func (r *Repository) MarkNotificationRead(ctx context.Context, id, ownerID string) error {
	now := time.Now()
	res, err := r.db.Collection(collNotifications).UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": ownerID},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllNotificationsRead flips every unread notification for the owner and
// returns how many were affected.
func (r *Repository) MarkAllNotificationsRead(ctx context.Context, ownerID string) (int64, error) {
	now := time.Now()
	res, err := r.db.Collection(collNotifications).UpdateMany(ctx,
		bson.M{"owner_id": ownerID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

// DeleteNotification removes one notification, scoped to its owner.
func (r *Repository) DeleteNotification(ctx context.Context, id, ownerID string) error {
	res, err := r.db.Collection(collNotifications).DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteReadNotifications removes all of the owner's read notifications.
func (r *Repository) DeleteReadNotifications(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.Collection(collNotifications).DeleteMany(ctx, bson.M{"owner_id": ownerID, "is_read": true})
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	return res.DeletedCount, nil
}

// ArchiveBatch archives (or hard-deletes) up to limit read notifications
// created before the cutoff. It selects ids first and mutates by id list so no
// single statement touches more than one batch, keeping the sweep safe next to
// live read/write traffic. Returns the number of rows affected.
func (r *Repository) ArchiveBatch(ctx context.Context, cutoff time.Time, hardDelete bool, limit int64) (int64, error) {
	filter := bson.M{
		"is_read":     true,
		"archived_at": nil,
		"created_at":  bson.M{"$lt": cutoff},
	}
	if hardDelete {
		// Deleting makes archived_at irrelevant; sweep anything read and old.
		filter = bson.M{"is_read": true, "created_at": bson.M{"$lt": cutoff}}
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.db.Collection(collNotifications).Find(ctx, filter, opts)
	if err != nil {
		return 0, fmt.Errorf("select sweep batch: %w", err)
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode sweep batch: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	byID := bson.M{"_id": bson.M{"$in": ids}}

	if hardDelete {
		res, err := r.db.Collection(collNotifications).DeleteMany(ctx, byID)
		if err != nil {
			return 0, fmt.Errorf("delete sweep batch: %w", err)
		}
		return res.DeletedCount, nil
	}

	res, err := r.db.Collection(collNotifications).UpdateMany(ctx, byID,
		bson.M{"$set": bson.M{"archived_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("archive sweep batch: %w", err)
	}
	return res.ModifiedCount, nil
}
