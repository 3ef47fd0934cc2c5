package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mbodji/aviary/internal/domain/models"
)

// ListActiveOwners returns every owner eligible for a global alert run.
func (r *Repository) ListActiveOwners(ctx context.Context) ([]models.Owner, error) {
	var owners []models.Owner
	if err := r.findAll(ctx, collOwners, bson.M{"active": true}, &owners); err != nil {
		return nil, fmt.Errorf("list active owners: %w", err)
	}
	return owners, nil
}

// GetOwner fetches one owner by id.
func (r *Repository) GetOwner(ctx context.Context, ownerID string) (*models.Owner, error) {
	var owner models.Owner
	err := r.db.Collection(collOwners).FindOne(ctx, bson.M{"_id": ownerID}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("get owner %s: %w", ownerID, err)
	}
	return &owner, nil
}
