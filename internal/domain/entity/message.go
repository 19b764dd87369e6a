package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a child of Room by reference, not embedded.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Room      primitive.ObjectID `bson:"room" json:"room"`
	Body      string             `bson:"body" json:"body"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func NewMessage(author, room primitive.ObjectID, body string) *Message {
	now := time.Now().UTC()
	return &Message{
		Author:    author,
		Room:      room,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *Message) IsAuthor(id primitive.ObjectID) bool { return m.Author == id }
