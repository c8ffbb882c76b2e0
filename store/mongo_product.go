package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pumpkin-store/models"
)

// MongoProductStore implements ProductStore on the products collection.
type MongoProductStore struct {
	Collection *mongo.Collection
}

func (s *MongoProductStore) Create(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	if product.Reviews == nil {
		product.Reviews = []models.Review{}
	}
	result, err := s.Collection.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	product.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *MongoProductStore) FindPage(ctx context.Context, filter ProductFilter, skip, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := s.Collection.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoProductStore) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	return s.Collection.CountDocuments(ctx, filter.query())
}

func (s *MongoProductStore) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoProductStore) Update(ctx context.Context, product *models.Product) error {
	result, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

// UpdateReviews writes only the review list and its derived aggregates,
// leaving every other field as stored.
func (s *MongoProductStore) UpdateReviews(ctx context.Context, product *models.Product) error {
	update := bson.M{"$set": bson.M{
		"reviews":           product.Reviews,
		"rating":            product.Rating,
		"number_of_reviews": product.NumberOfReviews,
	}}
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (s *MongoProductStore) IncrementStock(ctx context.Context, id primitive.ObjectID, delta int) error {
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stock": delta},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

// query translates the filter to a Mongo query. Keyword keeps the raw regex
// semantics of the original search: any case-insensitive substring matches.
func (f ProductFilter) query() bson.M {
	q := bson.M{}
	if f.Keyword != "" {
		q["name"] = primitive.Regex{Pattern: f.Keyword, Options: "i"}
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	price := bson.M{}
	if f.PriceGTE != nil {
		price["$gte"] = *f.PriceGTE
	}
	if f.PriceLTE != nil {
		price["$lte"] = *f.PriceLTE
	}
	if len(price) > 0 {
		q["price"] = price
	}
	return q
}
