package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbodji/aviary/internal/domain/models"
)

// GetPreference returns the owner's stored preferences, or
// ErrPreferenceNotFound when the owner never saved any.
func (r *Repository) GetPreference(ctx context.Context, ownerID string) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := r.db.Collection(collPreferences).FindOne(ctx, bson.M{"_id": ownerID}).Decode(&pref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("get preference for %s: %w", ownerID, err)
	}
	return &pref, nil
}

// SavePreference upserts the owner's preferences.
func (r *Repository) SavePreference(ctx context.Context, pref *models.NotificationPreference) error {
	_, err := r.db.Collection(collPreferences).ReplaceOne(ctx,
		bson.M{"_id": pref.OwnerID},
		pref,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save preference for %s: %w", pref.OwnerID, err)
	}
	return nil
}
