package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for the user directory.
// Password holds a bcrypt hash, never the plain text.
// A user is created inactive and becomes active exactly once,
// when a confirm-email token is redeemed.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FirstName     string               `bson:"firstName" json:"firstName"`
	LastName      string               `bson:"lastName" json:"lastName"`
	Username      string               `bson:"username" json:"username"`
	Email         string               `bson:"email" json:"email"`
	Password      string               `bson:"password" json:"-"`
	Role          Role                 `bson:"role" json:"role"`
	Active        bool                 `bson:"active" json:"active"`
	AvatarURL     string               `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Followers     []primitive.ObjectID `bson:"followers" json:"followers"`
	Subscriptions []primitive.ObjectID `bson:"subscriptions" json:"subscriptions"`
	SocketID      string               `bson:"socketId,omitempty" json:"-"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// NewUser builds a user with defaults applied at construction:
// role "user", inactive, empty follower and subscription lists.
func NewUser(firstName, lastName, username, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		FirstName:     firstName,
		LastName:      lastName,
		Username:      username,
		Email:         email,
		Password:      passwordHash,
		Role:          RoleUser,
		Active:        false,
		Followers:     []primitive.ObjectID{},
		Subscriptions: []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) IsFollowedBy(id primitive.ObjectID) bool {
	return containsID(u.Followers, id)
}

func (u *User) IsSubscribedTo(roomID primitive.ObjectID) bool {
	return containsID(u.Subscriptions, roomID)
}

// FullName is used for email salutations and search indexing.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
