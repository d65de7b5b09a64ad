package repository

import (
	"context"
	"time"

	"squotato-backend/internal/database"
	"squotato-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ToggleOpRepo struct {
	collection *mongo.Collection
}

func NewToggleOpRepo() *ToggleOpRepo {
	return &ToggleOpRepo{
		collection: database.GetCollection("toggle_ops"),
	}
}

func (r *ToggleOpRepo) Create(ctx context.Context, op *models.ToggleOp) error {
	op.ExpiresAt = time.Now().Add(24 * time.Hour)
	op.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, op)
	if err != nil {
		return err
	}
	op.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// FindByIdempotencyKey checks if a toggle with this key was already applied
// (duplicate prevention for double-clicked votes)
func (r *ToggleOpRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.ToggleOp, error) {
	var op models.ToggleOp
	err := r.collection.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&op)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

// EnsureIndexes creates necessary indexes for the toggle_ops collection
func (r *ToggleOpRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index — keys only need to outlive retries
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
