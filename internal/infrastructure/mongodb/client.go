package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB wraps the mongo client and the application database handle.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials MongoDB and pings it before returning.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*DB, error) {
	opts := options.Client().ApplyURI(uri).SetConnectTimeout(timeout)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, timeout)
	defer pcancel()
	if err := client.Ping(pctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &DB{client: client, database: client.Database(database)}, nil
}

func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. Safe to run on
// every startup.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	uniq := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: uniq},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniq},
			{Keys: bson.D{{Key: "socketId", Value: 1}}},
		},
		"tokens": {
			{Keys: bson.D{{Key: "body", Value: 1}, {Key: "type", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		"rooms": {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		"messages": {
			{Keys: bson.D{{Key: "room", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		"tweets": {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "retweetedTweet", Value: 1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "tweet", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "parentComment", Value: 1}}},
		},
		"files": {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "kind", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}
