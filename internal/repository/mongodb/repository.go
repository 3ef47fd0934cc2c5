package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinel errors surfaced to the service layer.
var (
	ErrOwnerNotFound        = errors.New("owner not found")
	ErrPreferenceNotFound   = errors.New("notification preference not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPushNotFound         = errors.New("push notification not found")
)

const (
	collOwners        = "owners"
	collPairs         = "breeding_pairs"
	collClutches      = "egg_clutches"
	collHatchlings    = "hatchlings"
	collHealthRecords = "health_records"
	collSales         = "sale_records"
	collNotifications = "notifications"
	collPush          = "push_notifications"
	collPreferences   = "notification_preferences"
)

// Repository bundles all MongoDB-backed stores behind one client.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// EnsureIndexes creates the indexes the dedup paths rely on. The partial
// unique index over the notification natural key turns a lost check-then-insert
// race into a duplicate-key error the store treats as a no-op.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	partialUnread := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"is_read": false})

	_, err := r.db.Collection(collNotifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "alert_type", Value: 1},
			{Key: "target_type", Value: 1},
			{Key: "target_id", Value: 1},
			{Key: "egg_slot", Value: 1},
			{Key: "trigger_date", Value: 1},
		},
		Options: partialUnread,
	})
	if err != nil {
		return fmt.Errorf("create notification dedup index: %w", err)
	}

	_, err = r.db.Collection(collNotifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notification listing index: %w", err)
	}

	_, err = r.db.Collection(collPush).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "alert_type", Value: 1},
			{Key: "target_type", Value: 1},
			{Key: "target_id", Value: 1},
			{Key: "egg_slot", Value: 1},
			{Key: "trigger_date", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("create push dedup index: %w", err)
	}

	return nil
}

// Close disconnects the underlying client.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
