package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room groups subscribers and their messages. A nil Creator marks a public
// room; rooms with a creator are private and only the creator may mutate
// membership or delete the room.
type Room struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Creator     *primitive.ObjectID  `bson:"creator,omitempty" json:"creator,omitempty"`
	Subscribers []primitive.ObjectID `bson:"subscribers" json:"subscribers"`
	Online      []primitive.ObjectID `bson:"online" json:"online"`
	Messages    []primitive.ObjectID `bson:"messages" json:"messages"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func NewRoom(name string, creator *primitive.ObjectID) *Room {
	now := time.Now().UTC()
	return &Room{
		Name:        name,
		Creator:     creator,
		Subscribers: []primitive.ObjectID{},
		Online:      []primitive.ObjectID{},
		Messages:    []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *Room) IsPrivate() bool { return r.Creator != nil }

// IsCreator compares by id value, not by pointer.
func (r *Room) IsCreator(id primitive.ObjectID) bool {
	return r.Creator != nil && *r.Creator == id
}

func (r *Room) HasSubscriber(id primitive.ObjectID) bool {
	return containsID(r.Subscribers, id)
}

func (r *Room) IsOnline(id primitive.ObjectID) bool {
	return containsID(r.Online, id)
}
