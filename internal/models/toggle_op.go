package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ToggleOp records an applied vote toggle under a client-supplied
// idempotency key, so a double-clicked toggle is applied once. Records
// expire via a TTL index; the key only needs to outlive the retry window.
type ToggleOp struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	IdempotencyKey string        `bson:"idempotency_key" json:"idempotency_key"`
	UserID         bson.ObjectID `bson:"user_id" json:"user_id"`
	QuoteID        bson.ObjectID `bson:"quote_id" json:"quote_id"`
	Rating         Rating        `bson:"rating" json:"rating"`
	Outcome        string        `bson:"outcome" json:"outcome"`
	ExpiresAt      time.Time     `bson:"expires_at" json:"expires_at"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
}
