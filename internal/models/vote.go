package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Rating is the kind of vote a user holds on a quote.
type Rating string

const (
	RatingLike    Rating = "like"
	RatingDislike Rating = "dislike"
)

func (r Rating) Valid() bool {
	return r == RatingLike || r == RatingDislike
}

// Vote records a single user's active rating on a quote. At most one vote
// exists per (user, quote) pair; switching rating replaces the record.
type Vote struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user_id" json:"user_id"`
	QuoteID   bson.ObjectID `bson:"quote_id" json:"quote_id"`
	Rating    Rating        `bson:"rating" json:"rating"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
