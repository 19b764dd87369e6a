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

type RoomRepository struct {
	coll *mongo.Collection
}

func NewRoomRepository(db *DB) *RoomRepository {
	return &RoomRepository{coll: db.Collection("rooms")}
}

func (r *RoomRepository) Create(ctx context.Context, room *entity.Room) error {
	res, err := r.coll.InsertOne(ctx, room)
	if err != nil {
		return err
	}
	room.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Room, error) {
	room := &entity.Room{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *RoomRepository) List(ctx context.Context, limit, offset int64) ([]*entity.Room, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rooms := []*entity.Room{}
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now().UTC()}})
}

func (r *RoomRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) AddSubscriber(ctx context.Context, room, user primitive.ObjectID) error {
	return r.updateList(ctx, room, "$addToSet", "subscribers", user)
}

func (r *RoomRepository) RemoveSubscriber(ctx context.Context, room, user primitive.ObjectID) error {
	return r.updateList(ctx, room, "$pull", "subscribers", user)
}

func (r *RoomRepository) AddOnline(ctx context.Context, room, user primitive.ObjectID) error {
	return r.updateList(ctx, room, "$addToSet", "online", user)
}

func (r *RoomRepository) RemoveOnline(ctx context.Context, room, user primitive.ObjectID) error {
	return r.updateList(ctx, room, "$pull", "online", user)
}

// RemoveOnlineEverywhere pulls the user from every room's online list and
// returns the ids of the rooms that were touched. Used on socket disconnect.
func (r *RoomRepository) RemoveOnlineEverywhere(ctx context.Context, user primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := r.coll.Find(ctx, bson.M{"online": user}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	_, err = r.coll.UpdateMany(ctx, bson.M{"online": user}, bson.M{
		"$pull": bson.M{"online": user},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return ids, err
}

func (r *RoomRepository) PushMessage(ctx context.Context, room, message primitive.ObjectID) error {
	return r.update(ctx, bson.M{"_id": room}, bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *RoomRepository) PullMessage(ctx context.Context, room, message primitive.ObjectID) error {
	return r.updateList(ctx, room, "$pull", "messages", message)
}

func (r *RoomRepository) updateList(ctx context.Context, id primitive.ObjectID, op, field string, value primitive.ObjectID) error {
	return r.update(ctx, bson.M{"_id": id}, bson.M{
		op:     bson.M{field: value},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *RoomRepository) update(ctx context.Context, filter, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.RoomRepository = (*RoomRepository)(nil)
