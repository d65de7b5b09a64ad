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

type AuthAttemptRepo struct {
	collection *mongo.Collection
}

func NewAuthAttemptRepo() *AuthAttemptRepo {
	return &AuthAttemptRepo{
		collection: database.GetCollection("auth_attempts"),
	}
}

func (r *AuthAttemptRepo) Record(ctx context.Context, email, kind string) error {
	attempt := &models.AuthAttempt{
		Email:     email,
		Kind:      kind,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		CreatedAt: time.Now(),
	}
	_, err := r.collection.InsertOne(ctx, attempt)
	return err
}

// CountRecentByEmail counts how many auth attempts were made for an email in
// the given duration. Used for rate limiting.
func (r *AuthAttemptRepo) CountRecentByEmail(ctx context.Context, email string, duration time.Duration) (int64, error) {
	since := time.Now().Add(-duration)
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"email":      email,
		"created_at": bson.M{"$gte": since},
	})
	return count, err
}

// EnsureIndexes creates necessary indexes for the auth_attempts collection
func (r *AuthAttemptRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index — auto-delete stale attempts
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
