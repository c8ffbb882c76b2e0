package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a Mongo client and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// Stores bundles the three collection adapters backed by one database.
type Stores struct {
	Users    UserStore
	Products ProductStore
	Orders   OrderStore
}

// NewMongoStores binds the adapters to their collections and ensures the
// unique email index exists.
func NewMongoStores(ctx context.Context, client *mongo.Client, dbName string) (*Stores, error) {
	db := client.Database(dbName)

	users := db.Collection("users")
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &Stores{
		Users:    &MongoUserStore{Collection: users},
		Products: &MongoProductStore{Collection: db.Collection("products")},
		Orders:   &MongoOrderStore{Collection: db.Collection("orders")},
	}, nil
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
