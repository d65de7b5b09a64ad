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

type VoteRepo struct {
	collection *mongo.Collection
}

func NewVoteRepo() *VoteRepo {
	return &VoteRepo{
		collection: database.GetCollection("votes"),
	}
}

func (r *VoteRepo) FindByUserAndQuote(ctx context.Context, userID, quoteID bson.ObjectID) (*models.Vote, error) {
	var vote models.Vote
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":  userID,
		"quote_id": quoteID,
	}).Decode(&vote)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (r *VoteRepo) Create(ctx context.Context, vote *models.Vote) error {
	vote.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, vote)
	if err != nil {
		return err
	}
	vote.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *VoteRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates necessary indexes for the votes collection.
// The unique (user_id, quote_id) index is what enforces at most one active
// rating per user per quote, even under concurrent toggles.
func (r *VoteRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "quote_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "quote_id", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
