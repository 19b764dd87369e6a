package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TokenType string

const (
	TokenConfirmEmail  TokenType = "confirm-email"
	TokenResetPassword TokenType = "reset-password"
	TokenChangeEmail   TokenType = "change-email"
)

// TokenLifetime is how long a purpose token remains redeemable.
const TokenLifetime = 5 * time.Minute

// Token is a single-use, time-boxed credential tied to one user and one
// purpose. It is deleted on redemption and when its owner is deleted.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Body      string             `bson:"body" json:"body"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Type      TokenType          `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func NewToken(body string, user primitive.ObjectID, typ TokenType) *Token {
	return &Token{
		Body:      body,
		User:      user,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
}

// Expired reports whether the token lifetime has elapsed at the given instant.
func (t *Token) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) > TokenLifetime
}
