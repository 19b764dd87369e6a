package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
)

// ErrNotFound is returned by every repository when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user directory persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetBySocketID(ctx context.Context, socketID string) (*entity.User, error)
	List(ctx context.Context, limit, offset int64) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetSocketID(ctx context.Context, id primitive.ObjectID, socketID string) error
	AddFollower(ctx context.Context, target, follower primitive.ObjectID) error
	RemoveFollower(ctx context.Context, target, follower primitive.ObjectID) error
	ListFollowing(ctx context.Context, follower primitive.ObjectID) ([]primitive.ObjectID, error)
	AddSubscription(ctx context.Context, user, room primitive.ObjectID) error
	RemoveSubscription(ctx context.Context, user, room primitive.ObjectID) error
}

// TokenRepository persists single-use purpose tokens.
type TokenRepository interface {
	Create(ctx context.Context, t *entity.Token) error
	GetByBodyAndType(ctx context.Context, body string, typ entity.TokenType) (*entity.Token, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, user primitive.ObjectID) error
}

// RoomRepository persists chat rooms, their subscriber and presence lists.
type RoomRepository interface {
	Create(ctx context.Context, r *entity.Room) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Room, error)
	List(ctx context.Context, limit, offset int64) ([]*entity.Room, error)
	Rename(ctx context.Context, id primitive.ObjectID, name string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddSubscriber(ctx context.Context, room, user primitive.ObjectID) error
	RemoveSubscriber(ctx context.Context, room, user primitive.ObjectID) error
	AddOnline(ctx context.Context, room, user primitive.ObjectID) error
	RemoveOnline(ctx context.Context, room, user primitive.ObjectID) error
	RemoveOnlineEverywhere(ctx context.Context, user primitive.ObjectID) ([]primitive.ObjectID, error)
	PushMessage(ctx context.Context, room, message primitive.ObjectID) error
	PullMessage(ctx context.Context, room, message primitive.ObjectID) error
}

// MessageRepository persists room messages.
type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Message, error)
	ListByRoom(ctx context.Context, room primitive.ObjectID, limit, offset int64) ([]*entity.Message, error)
	Update(ctx context.Context, m *entity.Message) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByRoom(ctx context.Context, room primitive.ObjectID) error
}

// TweetRepository persists tweets and supports the auxiliary queries used to
// derive counters at read time.
type TweetRepository interface {
	Create(ctx context.Context, t *entity.Tweet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Tweet, error)
	List(ctx context.Context, limit, offset int64) ([]*entity.Tweet, error)
	ListByAuthors(ctx context.Context, authors []primitive.ObjectID, limit, offset int64) ([]*entity.Tweet, error)
	Update(ctx context.Context, t *entity.Tweet) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, tweet, user primitive.ObjectID) error
	RemoveLike(ctx context.Context, tweet, user primitive.ObjectID) error
	CountRetweets(ctx context.Context, tweet primitive.ObjectID) (int64, error)
	HasRetweetBy(ctx context.Context, tweet, user primitive.ObjectID) (bool, error)
}

// CommentRepository persists comments and threaded replies.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error)
	ListByTweet(ctx context.Context, tweet primitive.ObjectID, limit, offset int64) ([]*entity.Comment, error)
	ListReplies(ctx context.Context, parent primitive.ObjectID, limit, offset int64) ([]*entity.Comment, error)
	Update(ctx context.Context, c *entity.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, comment, user primitive.ObjectID) error
	RemoveLike(ctx context.Context, comment, user primitive.ObjectID) error
	CountByTweet(ctx context.Context, tweet primitive.ObjectID) (int64, error)
	CountReplies(ctx context.Context, parent primitive.ObjectID) (int64, error)
}

// FileRepository persists upload metadata.
type FileRepository interface {
	Create(ctx context.Context, f *entity.File) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.File, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID, kind entity.FileKind) ([]*entity.File, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
