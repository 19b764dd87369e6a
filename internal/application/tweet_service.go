package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
)

// TweetService implements the timeline: tweets, retweets, likes and the
// follow-scoped feed. Counters on views are computed at read time from the
// adjacency lists; nothing denormalized is stored.
type TweetService struct {
	Tweets   repo.TweetRepository
	Comments repo.CommentRepository
	Users    repo.UserRepository
	Logger   *logrus.Logger
}

func NewTweetService(tweets repo.TweetRepository, comments repo.CommentRepository, users repo.UserRepository, logger *logrus.Logger) *TweetService {
	return &TweetService{Tweets: tweets, Comments: comments, Users: users, Logger: logger}
}

func (s *TweetService) Create(ctx context.Context, author *entity.User, text string) (*entity.TweetView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyBody
	}
	t := entity.NewTweet(author.ID, text, nil)
	if err := s.Tweets.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.decorate(ctx, t, author.ID)
}

// Retweet creates a new tweet referencing the original. The optional text
// becomes the quote body.
func (s *TweetService) Retweet(ctx context.Context, author *entity.User, original primitive.ObjectID, text string) (*entity.TweetView, error) {
	if _, err := s.get(ctx, original); err != nil {
		return nil, err
	}
	t := entity.NewTweet(author.ID, strings.TrimSpace(text), &original)
	if err := s.Tweets.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.decorate(ctx, t, author.ID)
}

func (s *TweetService) Get(ctx context.Context, id, viewer primitive.ObjectID) (*entity.TweetView, error) {
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, t, viewer)
}

func (s *TweetService) List(ctx context.Context, viewer primitive.ObjectID, limit, offset int64) ([]*entity.TweetView, error) {
	tweets, err := s.Tweets.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, tweets, viewer)
}

// Feed lists tweets authored by people the viewer follows, plus the viewer's
// own, newest first.
func (s *TweetService) Feed(ctx context.Context, viewer primitive.ObjectID, limit, offset int64) ([]*entity.TweetView, error) {
	following, err := s.Users.ListFollowing(ctx, viewer)
	if err != nil {
		return nil, err
	}
	authors := append(following, viewer)
	tweets, err := s.Tweets.ListByAuthors(ctx, authors, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, tweets, viewer)
}

func (s *TweetService) ListByAuthor(ctx context.Context, author, viewer primitive.ObjectID, limit, offset int64) ([]*entity.TweetView, error) {
	tweets, err := s.Tweets.ListByAuthors(ctx, []primitive.ObjectID{author}, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, tweets, viewer)
}

func (s *TweetService) Update(ctx context.Context, principal *entity.User, id primitive.ObjectID, text string) (*entity.TweetView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyBody
	}
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsAuthor(principal.ID) && !principal.IsAdmin() {
		return nil, ErrNotAuthor
	}
	t.Text = text
	if err := s.Tweets.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.decorate(ctx, t, principal.ID)
}

func (s *TweetService) Delete(ctx context.Context, principal *entity.User, id primitive.ObjectID) error {
	t, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !t.IsAuthor(principal.ID) && !principal.IsAdmin() {
		return ErrNotAuthor
	}
	return s.Tweets.Delete(ctx, id)
}

func (s *TweetService) Like(ctx context.Context, viewer *entity.User, id primitive.ObjectID) (*entity.TweetView, error) {
	if err := s.Tweets.AddLike(ctx, id, viewer.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id, viewer.ID)
}

func (s *TweetService) Unlike(ctx context.Context, viewer *entity.User, id primitive.ObjectID) (*entity.TweetView, error) {
	if err := s.Tweets.RemoveLike(ctx, id, viewer.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id, viewer.ID)
}

func (s *TweetService) get(ctx context.Context, id primitive.ObjectID) (*entity.Tweet, error) {
	t, err := s.Tweets.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return t, nil
}

func (s *TweetService) decorate(ctx context.Context, t *entity.Tweet, viewer primitive.ObjectID) (*entity.TweetView, error) {
	retweets, err := s.Tweets.CountRetweets(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments.CountByTweet(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	retweeted, err := s.Tweets.HasRetweetBy(ctx, t.ID, viewer)
	if err != nil {
		return nil, err
	}
	return &entity.TweetView{
		Tweet:             t,
		LikesCount:        len(t.Likes),
		RetweetsCount:     int(retweets),
		CommentsCount:     int(comments),
		LikedByViewer:     t.LikedBy(viewer),
		RetweetedByViewer: retweeted,
	}, nil
}

func (s *TweetService) decorateAll(ctx context.Context, tweets []*entity.Tweet, viewer primitive.ObjectID) ([]*entity.TweetView, error) {
	views := make([]*entity.TweetView, 0, len(tweets))
	for _, t := range tweets {
		v, err := s.decorate(ctx, t, viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
