package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	AttemptSignIn = "signin"
	AttemptSignUp = "signup"
)

// AuthAttempt is a short-lived record of a sign-in or sign-up request,
// kept only long enough to rate-limit per email (TTL index).
type AuthAttempt struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string        `bson:"email" json:"email"`
	Kind      string        `bson:"kind" json:"kind"`
	ExpiresAt time.Time     `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
