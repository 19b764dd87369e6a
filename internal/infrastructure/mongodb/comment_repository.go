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

type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{coll: db.Collection("comments")}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CommentRepository) ListByTweet(ctx context.Context, tweet primitive.ObjectID, limit, offset int64) ([]*entity.Comment, error) {
	return r.find(ctx, bson.M{"tweet": tweet, "parentComment": nil}, limit, offset)
}

func (r *CommentRepository) ListReplies(ctx context.Context, parent primitive.ObjectID, limit, offset int64) ([]*entity.Comment, error) {
	return r.find(ctx, bson.M{"parentComment": parent}, limit, offset)
}

func (r *CommentRepository) find(ctx context.Context, filter bson.M, limit, offset int64) ([]*entity.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []*entity.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{
		"text":      c.Text,
		"updatedAt": c.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) AddLike(ctx context.Context, comment, user primitive.ObjectID) error {
	return r.updateList(ctx, comment, "$addToSet", user)
}

func (r *CommentRepository) RemoveLike(ctx context.Context, comment, user primitive.ObjectID) error {
	return r.updateList(ctx, comment, "$pull", user)
}

func (r *CommentRepository) updateList(ctx context.Context, id primitive.ObjectID, op string, user primitive.ObjectID) error {
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

func (r *CommentRepository) CountByTweet(ctx context.Context, tweet primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"tweet": tweet})
}

func (r *CommentRepository) CountReplies(ctx context.Context, parent primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"parentComment": parent})
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
