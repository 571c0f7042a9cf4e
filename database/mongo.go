package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"storefront/util"
)

// MongoStore is the production Store backed by a MongoDB database.
type MongoStore struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// ConnectMongo dials uri and selects dbName. Multi-document transactions are
// only used when transactions is true, since they need a replica set.
func ConnectMongo(ctx context.Context, uri, dbName string, transactions bool) (*MongoStore, error) {
	if uri == "" || dbName == "" {
		return nil, errors.New("mongo uri and database name are required")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	util.GetLogger().Info("Connected to MongoDB",
		zap.String("database", dbName),
		zap.Bool("transactions", transactions))

	return &MongoStore{
		client:       client,
		db:           client.Database(dbName),
		transactions: transactions,
	}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

// Documents carry their own string id; Mongo's _id never leaves the store.
var hideObjectID = bson.M{"_id": 0}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	err := c.coll.FindOne(ctx, filter, options.FindOne().SetProjection(hideObjectID)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (c *mongoCollection) FindMany(ctx context.Context, filter bson.M, skip, limit int64, out interface{}) error {
	opts := options.Find().SetProjection(hideObjectID).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (c *mongoCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}

func (c *mongoCollection) Insert(ctx context.Context, doc interface{}) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return err
}

func (c *mongoCollection) Update(ctx context.Context, filter bson.M, set bson.M, upsert bool) (int64, error) {
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set}, options.Update().SetUpsert(upsert))
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (c *mongoCollection) Delete(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
