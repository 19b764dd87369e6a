package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tweet stores only its likes adjacency list; counts and viewer flags are
// derived per request and never persisted.
type Tweet struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Author         primitive.ObjectID   `bson:"author" json:"author"`
	Text           string               `bson:"text" json:"text"`
	Likes          []primitive.ObjectID `bson:"likes" json:"-"`
	RetweetedTweet *primitive.ObjectID  `bson:"retweetedTweet,omitempty" json:"retweetedTweet,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func NewTweet(author primitive.ObjectID, text string, retweeted *primitive.ObjectID) *Tweet {
	now := time.Now().UTC()
	return &Tweet{
		Author:         author,
		Text:           text,
		Likes:          []primitive.ObjectID{},
		RetweetedTweet: retweeted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (t *Tweet) IsAuthor(id primitive.ObjectID) bool { return t.Author == id }

func (t *Tweet) LikedBy(id primitive.ObjectID) bool { return containsID(t.Likes, id) }

// TweetView is the per-request projection returned to clients.
type TweetView struct {
	*Tweet
	LikesCount        int  `json:"likesCount"`
	RetweetsCount     int  `json:"retweetsCount"`
	CommentsCount     int  `json:"commentsCount"`
	LikedByViewer     bool `json:"likedByViewer"`
	RetweetedByViewer bool `json:"retweetedByViewer"`
}
