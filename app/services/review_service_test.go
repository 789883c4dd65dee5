package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/database"
)

func itemRating(t *testing.T, id uint) (float64, int) {
	t.Helper()

	var item models.FoodItem
	require.NoError(t, database.DB.First(&item, id).Error)
	return item.AverageRating, item.RatingCount
}

func TestReviewRequiresMatchingOrder(t *testing.T) {
	setupDB(t)
	svc := services.NewReviewService()
	asha := createUser(t, "asha@mlrit.ac.in", 0)
	ravi := createUser(t, "ravi@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)
	chai := createItem(t, "Masala Chai", 15, true)
	order := createOrderWith(t, asha.ID, dosa)

	// No such order.
	_, err := svc.Create(asha.ID, services.ReviewInput{
		FoodItemID: dosa.ID, OrderID: 9999, Rating: 5,
	})
	assert.ErrorIs(t, err, services.ErrNotEligible)

	// Someone else's order.
	_, err = svc.Create(ravi.ID, services.ReviewInput{
		FoodItemID: dosa.ID, OrderID: order.ID, Rating: 5,
	})
	assert.ErrorIs(t, err, services.ErrNotEligible)

	// Own order, but the item was not in it.
	_, err = svc.Create(asha.ID, services.ReviewInput{
		FoodItemID: chai.ID, OrderID: order.ID, Rating: 5,
	})
	assert.ErrorIs(t, err, services.ErrNotEligible)

	// Own order containing the item.
	review, err := svc.Create(asha.ID, services.ReviewInput{
		FoodItemID: dosa.ID, OrderID: order.ID, Rating: 5, Comment: "crisp",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
}

func TestRatingRecompute(t *testing.T) {
	setupDB(t)
	svc := services.NewReviewService()
	asha := createUser(t, "asha@mlrit.ac.in", 0)
	ravi := createUser(t, "ravi@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)
	ashaOrder := createOrderWith(t, asha.ID, dosa)
	raviOrder := createOrderWith(t, ravi.ID, dosa)

	_, err := svc.Create(asha.ID, services.ReviewInput{
		FoodItemID: dosa.ID, OrderID: ashaOrder.ID, Rating: 5,
	})
	require.NoError(t, err)

	low, err := svc.Create(ravi.ID, services.ReviewInput{
		FoodItemID: dosa.ID, OrderID: raviOrder.ID, Rating: 3,
	})
	require.NoError(t, err)

	avg, count := itemRating(t, dosa.ID)
	assert.InDelta(t, 4.0, avg, 0.001)
	assert.Equal(t, 2, count)

	// Deleting a review recomputes from the remaining rows.
	require.NoError(t, svc.Delete(low.ID, ravi.ID, "user"))

	avg, count = itemRating(t, dosa.ID)
	assert.InDelta(t, 5.0, avg, 0.001)
	assert.Equal(t, 1, count)
}

func TestDeleteLastReviewResetsRating(t *testing.T) {
	setupDB(t)
	svc := services.NewReviewService()
	asha := createUser(t, "asha@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)
	order := createOrderWith(t, asha.ID, dosa)

	review, err := svc.Create(asha.ID, services.ReviewInput{
		FoodItemID: dosa.ID, OrderID: order.ID, Rating: 4,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(review.ID, asha.ID, "user"))

	avg, count := itemRating(t, dosa.ID)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func TestDeleteReviewAuthorisation(t *testing.T) {
	setupDB(t)
	svc := services.NewReviewService()
	asha := createUser(t, "asha@mlrit.ac.in", 0)
	ravi := createUser(t, "ravi@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)
	order := createOrderWith(t, asha.ID, dosa)

	review, err := svc.Create(asha.ID, services.ReviewInput{
		FoodItemID: dosa.ID, OrderID: order.ID, Rating: 4,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(review.ID, ravi.ID, "user"), services.ErrAccessDenied)
	assert.NoError(t, svc.Delete(review.ID, ravi.ID, "admin"))
	assert.ErrorIs(t, svc.Delete(review.ID, asha.ID, "user"), services.ErrNotFound)
}
