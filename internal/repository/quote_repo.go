package repository

import (
	"context"
	"time"

	"squotato-backend/internal/database"
	"squotato-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type QuoteRepo struct {
	collection *mongo.Collection
}

func NewQuoteRepo() *QuoteRepo {
	return &QuoteRepo{
		collection: database.GetCollection("quotes"),
	}
}

func (r *QuoteRepo) FindAll(ctx context.Context) ([]models.Quote, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *QuoteRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Quote, error) {
	var quote models.Quote
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quote)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepo) Create(ctx context.Context, quote *models.Quote) error {
	quote.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, quote)
	if err != nil {
		return err
	}
	quote.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// ApplyCounterDeltas adjusts both engagement counters in a single $inc
// update, so a rating switch never leaves the quote with only one of the
// two deltas applied.
func (r *QuoteRepo) ApplyCounterDeltas(ctx context.Context, id bson.ObjectID, likes, dislikes int64) error {
	inc := bson.M{}
	if likes != 0 {
		inc["likes"] = likes
	}
	if dislikes != 0 {
		inc["dislikes"] = dislikes
	}
	if len(inc) == 0 {
		return nil
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": inc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountSeed reports how many built-in pool quotes are present. Used to keep
// startup seeding idempotent.
func (r *QuoteRepo) CountSeed(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"seed": true})
}

// EnsureIndexes creates necessary indexes for the quotes collection
func (r *QuoteRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_by", Value: 1}},
	})
	return err
}
