package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chirper/internal/domain/entity"
	"chirper/internal/domain/repository"
)

type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{coll: db.Collection("tokens")}
}

func (r *TokenRepository) Create(ctx context.Context, t *entity.Token) error {
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TokenRepository) GetByBodyAndType(ctx context.Context, body string, typ entity.TokenType) (*entity.Token, error) {
	t := &entity.Token{}
	if err := r.coll.FindOne(ctx, bson.M{"body": body, "type": typ}).Decode(t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TokenRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every token owned by the user; called on user deletion.
func (r *TokenRepository) DeleteByUser(ctx context.Context, user primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user": user})
	return err
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
