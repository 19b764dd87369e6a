package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chirper/internal/domain/entity"
	"chirper/internal/domain/repository"
)

type FileRepository struct {
	coll *mongo.Collection
}

func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{coll: db.Collection("files")}
}

func (r *FileRepository) Create(ctx context.Context, f *entity.File) error {
	res, err := r.coll.InsertOne(ctx, f)
	if err != nil {
		return err
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.File, error) {
	f := &entity.File{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListByOwner returns the owner's files, optionally filtered by kind.
func (r *FileRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID, kind entity.FileKind) ([]*entity.File, error) {
	filter := bson.M{"owner": owner}
	if kind != "" {
		filter["kind"] = kind
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	files := []*entity.File{}
	if err := cur.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.FileRepository = (*FileRepository)(nil)
