package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Subscription is a user's opt-in to the daily quote email.
type Subscription struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user_id" json:"user_id"`
	Email     string        `bson:"email" json:"email"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
