package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mbodji/aviary/internal/domain/models"
)

// GetSnapshot loads the current state of one owner's breeding records. Every
// collection is denormalized with owner_id so the reads stay parameterized
// single-field queries.
func (r *Repository) GetSnapshot(ctx context.Context, ownerID string) (*models.OwnerSnapshot, error) {
	snapshot := &models.OwnerSnapshot{OwnerID: ownerID}
	byOwner := bson.M{"owner_id": ownerID}

	if err := r.findAll(ctx, collPairs, byOwner, &snapshot.Pairs); err != nil {
		return nil, fmt.Errorf("load breeding pairs: %w", err)
	}
	if err := r.findAll(ctx, collClutches, byOwner, &snapshot.Clutches); err != nil {
		return nil, fmt.Errorf("load egg clutches: %w", err)
	}
	if err := r.findAll(ctx, collHatchlings, byOwner, &snapshot.Hatchlings); err != nil {
		return nil, fmt.Errorf("load hatchlings: %w", err)
	}
	if err := r.findAll(ctx, collHealthRecords, byOwner, &snapshot.HealthRecords); err != nil {
		return nil, fmt.Errorf("load health records: %w", err)
	}
	if err := r.findAll(ctx, collSales, byOwner, &snapshot.SaleRecords); err != nil {
		return nil, fmt.Errorf("load sale records: %w", err)
	}

	return snapshot, nil
}

func (r *Repository) findAll(ctx context.Context, collection string, filter bson.M, out any) error {
	cursor, err := r.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
