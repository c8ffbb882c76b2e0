package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a single user's review embedded in a product.
type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User    primitive.ObjectID `bson:"user" json:"user"`
	Name    string             `bson:"name" json:"name"`
	Rating  float64            `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
}

// Product represents a catalog item. Rating and NumberOfReviews are derived
// from Reviews and recomputed on every review mutation.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Images          []Image            `bson:"image" json:"image"`
	Price           float64            `bson:"price" json:"price"`
	Rating          float64            `bson:"rating" json:"rating"`
	Category        string             `bson:"category" json:"category"`
	Stock           int                `bson:"stock" json:"stock"`
	NumberOfReviews int                `bson:"number_of_reviews" json:"numberOfReviews"`
	Reviews         []Review           `bson:"reviews" json:"reviews"`
	Description     string             `bson:"description" json:"description"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// UpsertReview records one review per user: a second submission by the same
// user overwrites the first in place. Rating and review count are recomputed.
func (p *Product) UpsertReview(review Review) {
	for i := range p.Reviews {
		if p.Reviews[i].User == review.User {
			p.Reviews[i].Rating = review.Rating
			p.Reviews[i].Comment = review.Comment
			p.RecalculateRating()
			return
		}
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	p.Reviews = append(p.Reviews, review)
	p.RecalculateRating()
}

// RemoveReview deletes the review with the given id and recomputes the
// aggregates. It reports whether a review was removed.
func (p *Product) RemoveReview(reviewID primitive.ObjectID) bool {
	kept := p.Reviews[:0]
	for _, r := range p.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(p.Reviews) {
		return false
	}
	p.Reviews = kept
	p.RecalculateRating()
	return true
}

// RecalculateRating refreshes NumberOfReviews and the mean Rating (0 when
// there are no reviews).
func (p *Product) RecalculateRating() {
	p.NumberOfReviews = len(p.Reviews)
	if len(p.Reviews) == 0 {
		p.Rating = 0
		return
	}
	sum := 0.0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = sum / float64(len(p.Reviews))
}
