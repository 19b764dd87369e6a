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

type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{coll: db.Collection("messages")}
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Message, error) {
	m := &entity.Message{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MessageRepository) ListByRoom(ctx context.Context, room primitive.ObjectID, limit, offset int64) ([]*entity.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)
	cur, err := r.coll.Find(ctx, bson.M{"room": room}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	msgs := []*entity.Message{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *MessageRepository) Update(ctx context.Context, m *entity.Message) error {
	m.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, m.ID, bson.M{"$set": bson.M{
		"body":      m.Body,
		"updatedAt": m.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByRoom removes the room's whole history; called on room deletion.
func (r *MessageRepository) DeleteByRoom(ctx context.Context, room primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"room": room})
	return err
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
