package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Quote struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string        `bson:"text" json:"text"`
	Author    string        `bson:"author" json:"author"`
	Likes     int64         `bson:"likes" json:"likes"`
	Dislikes  int64         `bson:"dislikes" json:"dislikes"`
	Custom    bool          `bson:"custom" json:"custom"`
	Seed      bool          `bson:"seed,omitempty" json:"-"`
	CreatedBy bson.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
