package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chirper/internal/domain/entity"
	"chirper/internal/domain/repository"
)

type TweetRepository struct {
	coll *mongo.Collection
}

func NewTweetRepository(db *DB) *TweetRepository {
	return &TweetRepository{coll: db.Collection("tweets")}
}

func (r *TweetRepository) Create(ctx context.Context, t *entity.Tweet) error {
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Tweet, error) {
	t := &entity.Tweet{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TweetRepository) List(ctx context.Context, limit, offset int64) ([]*entity.Tweet, error) {
	return r.find(ctx, bson.M{}, limit, offset)
}

// ListByAuthors backs the home feed: newest tweets of the followed users.
func (r *TweetRepository) ListByAuthors(ctx context.Context, authors []primitive.ObjectID, limit, offset int64) ([]*entity.Tweet, error) {
	if len(authors) == 0 {
		return []*entity.Tweet{}, nil
	}
	return r.find(ctx, bson.M{"author": bson.M{"$in": authors}}, limit, offset)
}

func (r *TweetRepository) find(ctx context.Context, filter bson.M, limit, offset int64) ([]*entity.Tweet, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tweets := []*entity.Tweet{}
	if err := cur.All(ctx, &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

func (r *TweetRepository) Update(ctx context.Context, t *entity.Tweet) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, t.ID, bson.M{"$set": bson.M{
		"text":      t.Text,
		"updatedAt": t.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TweetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TweetRepository) AddLike(ctx context.Context, tweet, user primitive.ObjectID) error {
	return r.updateList(ctx, tweet, "$addToSet", user)
}

func (r *TweetRepository) RemoveLike(ctx context.Context, tweet, user primitive.ObjectID) error {
	return r.updateList(ctx, tweet, "$pull", user)
}

func (r *TweetRepository) updateList(ctx context.Context, id primitive.ObjectID, op string, user primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{
		op:     bson.M{"likes": user},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountRetweets counts tweets referencing the given tweet; derived per read,
// never stored.
func (r *TweetRepository) CountRetweets(ctx context.Context, tweet primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"retweetedTweet": tweet})
}

func (r *TweetRepository) HasRetweetBy(ctx context.Context, tweet, user primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"retweetedTweet": tweet, "author": user}, options.Count().SetLimit(1))
	return n > 0, err
}

var _ repository.TweetRepository = (*TweetRepository)(nil)
