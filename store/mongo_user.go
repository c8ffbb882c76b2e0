package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pumpkin-store/models"
)

// MongoUserStore implements UserStore on the users collection.
type MongoUserStore struct {
	Collection *mongo.Collection
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	result, err := s.Collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByVerificationToken(ctx context.Context, hashedToken string) (*models.User, error) {
	return s.findOne(ctx, bson.M{
		"verification_token":        hashedToken,
		"verification_token_expire": bson.M{"$gt": time.Now()},
	})
}

func (s *MongoUserStore) FindByResetToken(ctx context.Context, hashedToken string) (*models.User, error) {
	return s.findOne(ctx, bson.M{
		"reset_password_token":  hashedToken,
		"reset_password_expire": bson.M{"$gt": time.Now()},
	})
}

func (s *MongoUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update replaces the whole document. Cleared token fields carry omitempty
// tags, so a replace drops them the way a $unset would.
func (s *MongoUserStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	result, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (s *MongoUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (s *MongoUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.Collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.Collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
