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

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{coll: db.Collection("users")}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetBySocketID(ctx context.Context, socketID string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"socketId": socketID})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	u := &entity.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int64) ([]*entity.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []*entity.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id primitive.ObjectID) error {
	return r.setField(ctx, id, bson.M{"active": true})
}

func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.setField(ctx, id, bson.M{"password": hash})
}

func (r *UserRepository) SetSocketID(ctx context.Context, id primitive.ObjectID, socketID string) error {
	return r.setField(ctx, id, bson.M{"socketId": socketID})
}

func (r *UserRepository) setField(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddFollower and friends are idempotent: $addToSet / $pull never duplicate
// and removing an absent id is a no-op.
func (r *UserRepository) AddFollower(ctx context.Context, target, follower primitive.ObjectID) error {
	return r.updateList(ctx, target, "$addToSet", "followers", follower)
}

func (r *UserRepository) RemoveFollower(ctx context.Context, target, follower primitive.ObjectID) error {
	return r.updateList(ctx, target, "$pull", "followers", follower)
}

// ListFollowing answers "whose follower lists contain this user" with an id
// projection, which is all the feed query needs.
func (r *UserRepository) ListFollowing(ctx context.Context, follower primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{"followers": follower}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

func (r *UserRepository) AddSubscription(ctx context.Context, user, room primitive.ObjectID) error {
	return r.updateList(ctx, user, "$addToSet", "subscriptions", room)
}

func (r *UserRepository) RemoveSubscription(ctx context.Context, user, room primitive.ObjectID) error {
	return r.updateList(ctx, user, "$pull", "subscriptions", room)
}

func (r *UserRepository) updateList(ctx context.Context, id primitive.ObjectID, op, field string, value primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{
		op:     bson.M{field: value},
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

var _ repository.UserRepository = (*UserRepository)(nil)
