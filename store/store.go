// Package store provides the document-collection adapters for the three
// entity types. Controllers depend on these interfaces; the Mongo
// implementations live alongside them.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pumpkin-store/models"
)

// ErrNoDocuments is returned when a lookup matches nothing.
var ErrNoDocuments = errors.New("store: no matching document")

// ProductFilter narrows a product query. Keyword is matched as a
// case-insensitive substring of the product name; price bounds are inclusive.
type ProductFilter struct {
	Keyword  string
	Category string
	PriceGTE *float64
	PriceLTE *float64
}

// UserStore is the users collection.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByVerificationToken matches the hashed token against users whose
	// verification token has not expired.
	FindByVerificationToken(ctx context.Context, hashedToken string) (*models.User, error)
	// FindByResetToken matches the hashed token against users whose reset
	// token has not expired.
	FindByResetToken(ctx context.Context, hashedToken string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ProductStore is the products collection.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// FindPage returns the products matching filter after skip/limit are
	// applied, in stored order.
	FindPage(ctx context.Context, filter ProductFilter, skip, limit int64) ([]models.Product, error)
	// Count counts the products matching filter with no pagination applied.
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	// UpdateReviews persists only the review list and its derived fields,
	// leaving the rest of the document untouched.
	UpdateReviews(ctx context.Context, product *models.Product) error
	// IncrementStock adjusts stock by delta. No floor is applied; stock can
	// go negative.
	IncrementStock(ctx context.Context, id primitive.ObjectID, delta int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderStore is the orders collection.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// FindByUser returns the user's orders sorted by creation time.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	// UpdateStatus persists the status and, when deliveredAt is non-zero,
	// the delivery timestamp. Other fields are left as stored.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
