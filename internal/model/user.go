package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the root aggregate of the system. Received messages are embedded
// in the user document and have no lifecycle of their own.
type User struct {
	ID                        bson.ObjectID `bson:"_id,omitempty"`
	Username                  string        `bson:"username"`
	Email                     string        `bson:"email"`
	PasswordHash              string        `bson:"password_hash"`
	Verified                  bool          `bson:"verified"`
	VerificationCode          string        `bson:"verification_code"`
	VerificationCodeExpiresAt time.Time     `bson:"verification_code_expires_at"`
	AcceptingMessages         bool          `bson:"accepting_messages"`
	Messages                  []Message     `bson:"messages"`
	CreatedAt                 time.Time     `bson:"created_at"`
	UpdatedAt                 time.Time     `bson:"updated_at"`
}
