package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment belongs to a tweet, or to another comment when it is a threaded
// reply (ParentComment set).
type Comment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Author        primitive.ObjectID   `bson:"author" json:"author"`
	Tweet         *primitive.ObjectID  `bson:"tweet,omitempty" json:"tweet,omitempty"`
	Text          string               `bson:"text" json:"text"`
	Likes         []primitive.ObjectID `bson:"likes" json:"-"`
	ParentComment *primitive.ObjectID  `bson:"parentComment,omitempty" json:"parentComment,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func NewComment(author primitive.ObjectID, tweet *primitive.ObjectID, text string, parent *primitive.ObjectID) *Comment {
	now := time.Now().UTC()
	return &Comment{
		Author:        author,
		Tweet:         tweet,
		Text:          text,
		Likes:         []primitive.ObjectID{},
		ParentComment: parent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (c *Comment) IsAuthor(id primitive.ObjectID) bool { return c.Author == id }

func (c *Comment) LikedBy(id primitive.ObjectID) bool { return containsID(c.Likes, id) }

// CommentView carries the derived counters for one comment.
type CommentView struct {
	*Comment
	LikesCount    int  `json:"likesCount"`
	RepliesCount  int  `json:"repliesCount"`
	LikedByViewer bool `json:"likedByViewer"`
}
