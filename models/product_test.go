package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpsertReviewAppendsAndRecomputes(t *testing.T) {
	p := &Product{}
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	p.UpsertReview(Review{User: alice, Name: "Alice", Rating: 4, Comment: "nice"})
	p.UpsertReview(Review{User: bob, Name: "Bob", Rating: 2, Comment: "meh"})

	assert.Len(t, p.Reviews, 2)
	assert.Equal(t, 2, p.NumberOfReviews)
	assert.Equal(t, 3.0, p.Rating)
	assert.False(t, p.Reviews[0].ID.IsZero())
}

func TestUpsertReviewSecondSubmissionWins(t *testing.T) {
	p := &Product{}
	user := primitive.NewObjectID()

	p.UpsertReview(Review{User: user, Name: "Alice", Rating: 4, Comment: "first"})
	firstID := p.Reviews[0].ID
	p.UpsertReview(Review{User: user, Name: "Alice", Rating: 2, Comment: "second"})

	assert.Len(t, p.Reviews, 1)
	assert.Equal(t, 1, p.NumberOfReviews)
	assert.Equal(t, 2.0, p.Reviews[0].Rating)
	assert.Equal(t, "second", p.Reviews[0].Comment)
	assert.Equal(t, firstID, p.Reviews[0].ID)
}

func TestRemoveReviewRecomputes(t *testing.T) {
	p := &Product{}
	p.UpsertReview(Review{User: primitive.NewObjectID(), Name: "Alice", Rating: 5})
	p.UpsertReview(Review{User: primitive.NewObjectID(), Name: "Bob", Rating: 1})
	target := p.Reviews[1].ID

	assert.True(t, p.RemoveReview(target))
	assert.Equal(t, 1, p.NumberOfReviews)
	assert.Equal(t, 5.0, p.Rating)

	// Removing it again matches nothing.
	assert.False(t, p.RemoveReview(target))
	assert.Equal(t, 1, p.NumberOfReviews)
}

func TestRemoveLastReviewZeroesRating(t *testing.T) {
	p := &Product{}
	p.UpsertReview(Review{User: primitive.NewObjectID(), Name: "Alice", Rating: 5})
	id := p.Reviews[0].ID

	assert.True(t, p.RemoveReview(id))
	assert.Equal(t, 0, p.NumberOfReviews)
	assert.Equal(t, 0.0, p.Rating)
}

func TestRecalculateRatingMean(t *testing.T) {
	p := &Product{Reviews: []Review{
		{User: primitive.NewObjectID(), Rating: 5},
		{User: primitive.NewObjectID(), Rating: 4},
		{User: primitive.NewObjectID(), Rating: 3},
	}}
	p.RecalculateRating()

	assert.Equal(t, 3, p.NumberOfReviews)
	assert.Equal(t, 4.0, p.Rating)
}
