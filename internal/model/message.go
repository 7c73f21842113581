package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Message is an anonymous message embedded in its owner's user document.
// The ID is assigned at deposit time and is only used for deletion targeting.
type Message struct {
	ID        bson.ObjectID `bson:"_id"        json:"id"`
	Content   string        `bson:"content"    json:"content"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}
