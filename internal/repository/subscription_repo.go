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

type SubscriptionRepo struct {
	collection *mongo.Collection
}

func NewSubscriptionRepo() *SubscriptionRepo {
	return &SubscriptionRepo{
		collection: database.GetCollection("subscriptions"),
	}
}

// Upsert subscribes a user to the daily quote email. Subscribing twice is a
// no-op, so the endpoint stays idempotent.
func (r *SubscriptionRepo) Upsert(ctx context.Context, userID bson.ObjectID, email string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"user_id":    userID,
			"email":      email,
			"created_at": time.Now(),
		}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *SubscriptionRepo) Delete(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}

func (r *SubscriptionRepo) FindAll(ctx context.Context) ([]models.Subscription, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// EnsureIndexes creates necessary indexes for the subscriptions collection
func (r *SubscriptionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
