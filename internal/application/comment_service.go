package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
)

// CommentService implements comments on tweets and one level of threaded
// replies.
type CommentService struct {
	Comments repo.CommentRepository
	Tweets   repo.TweetRepository
	Logger   *logrus.Logger
}

func NewCommentService(comments repo.CommentRepository, tweets repo.TweetRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Comments: comments, Tweets: tweets, Logger: logger}
}

func (s *CommentService) Create(ctx context.Context, author *entity.User, tweet primitive.ObjectID, text string) (*entity.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyBody
	}
	if _, err := s.Tweets.GetByID(ctx, tweet); err != nil {
		return nil, mapNotFound(err)
	}
	c := entity.NewComment(author.ID, &tweet, text, nil)
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.decorate(ctx, c, author.ID)
}

// Reply attaches a comment under an existing one. Replies carry the parent
// comment id instead of a tweet id, so threads stay one level deep.
func (s *CommentService) Reply(ctx context.Context, author *entity.User, parent primitive.ObjectID, text string) (*entity.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyBody
	}
	if _, err := s.get(ctx, parent); err != nil {
		return nil, err
	}
	c := entity.NewComment(author.ID, nil, text, &parent)
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.decorate(ctx, c, author.ID)
}

func (s *CommentService) Get(ctx context.Context, id, viewer primitive.ObjectID) (*entity.CommentView, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, c, viewer)
}

func (s *CommentService) ListByTweet(ctx context.Context, tweet, viewer primitive.ObjectID, limit, offset int64) ([]*entity.CommentView, error) {
	comments, err := s.Comments.ListByTweet(ctx, tweet, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, comments, viewer)
}

func (s *CommentService) ListReplies(ctx context.Context, parent, viewer primitive.ObjectID, limit, offset int64) ([]*entity.CommentView, error) {
	comments, err := s.Comments.ListReplies(ctx, parent, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, comments, viewer)
}

func (s *CommentService) Update(ctx context.Context, principal *entity.User, id primitive.ObjectID, text string) (*entity.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyBody
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsAuthor(principal.ID) && !principal.IsAdmin() {
		return nil, ErrNotAuthor
	}
	c.Text = text
	if err := s.Comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.decorate(ctx, c, principal.ID)
}

func (s *CommentService) Delete(ctx context.Context, principal *entity.User, id primitive.ObjectID) error {
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsAuthor(principal.ID) && !principal.IsAdmin() {
		return ErrNotAuthor
	}
	return s.Comments.Delete(ctx, id)
}

func (s *CommentService) Like(ctx context.Context, viewer *entity.User, id primitive.ObjectID) (*entity.CommentView, error) {
	if err := s.Comments.AddLike(ctx, id, viewer.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id, viewer.ID)
}

func (s *CommentService) Unlike(ctx context.Context, viewer *entity.User, id primitive.ObjectID) (*entity.CommentView, error) {
	if err := s.Comments.RemoveLike(ctx, id, viewer.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id, viewer.ID)
}

func (s *CommentService) get(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error) {
	c, err := s.Comments.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (s *CommentService) decorate(ctx context.Context, c *entity.Comment, viewer primitive.ObjectID) (*entity.CommentView, error) {
	replies, err := s.Comments.CountReplies(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &entity.CommentView{
		Comment:       c,
		LikesCount:    len(c.Likes),
		RepliesCount:  int(replies),
		LikedByViewer: c.LikedBy(viewer),
	}, nil
}

func (s *CommentService) decorateAll(ctx context.Context, comments []*entity.Comment, viewer primitive.ObjectID) ([]*entity.CommentView, error) {
	views := make([]*entity.CommentView, 0, len(comments))
	for _, c := range comments {
		v, err := s.decorate(ctx, c, viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
