package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"` // 1..10
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	Owner     primitive.ObjectID `bson:"user" json:"user"`
}
