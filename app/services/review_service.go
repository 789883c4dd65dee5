package services

import (
	"errors"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// ReviewService implements reviews and the derived rating aggregate.
type ReviewService struct {
	reviews *repositories.ReviewRepository
	orders  *repositories.OrderRepository
	food    *repositories.FoodRepository
}

func NewReviewService() *ReviewService {
	return &ReviewService{
		reviews: repositories.NewReviewRepository(),
		orders:  repositories.NewOrderRepository(),
		food:    repositories.NewFoodRepository(),
	}
}

// ReviewInput carries the review payload.
type ReviewInput struct {
	FoodItemID uint   `json:"food_item_id" validate:"required,gte=1"`
	OrderID    uint   `json:"order_id" validate:"required,gte=1"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string `json:"comment" validate:"nullable,max=2000"`
}

// Create adds a review after checking eligibility: the referenced order
// must belong to the caller and its snapshot must contain the item. The
// insert and the rating recompute commit in one transaction.
func (s *ReviewService) Create(userID uint, input ReviewInput) (models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return models.Review{}, ErrInvalidRating
	}

	order, err := s.orders.FindByID(input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, ErrNotEligible
		}
		return models.Review{}, err
	}
	if order.UserID != userID || !order.ContainsItem(input.FoodItemID) {
		return models.Review{}, ErrNotEligible
	}

	review := models.Review{
		UserID:     userID,
		FoodItemID: input.FoodItemID,
		OrderID:    input.OrderID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		if err := s.reviews.CreateTx(tx, &review); err != nil {
			return err
		}
		return s.recompute(tx, input.FoodItemID)
	})
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// Delete removes a review (owner or admin) and recomputes the aggregate
// in the same transaction.
func (s *ReviewService) Delete(reviewID, requesterID uint, requesterRole string) error {
	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if review.UserID != requesterID && requesterRole != "admin" {
		return ErrAccessDenied
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		if err := s.reviews.DeleteTx(tx, &review); err != nil {
			return err
		}
		return s.recompute(tx, review.FoodItemID)
	})
}

// ForFoodItem returns all reviews of one item.
func (s *ReviewService) ForFoodItem(foodItemID uint) ([]models.Review, error) {
	return s.reviews.ForFoodItem(foodItemID)
}

// ForUser returns the caller's own reviews.
func (s *ReviewService) ForUser(userID uint) ([]models.Review, error) {
	return s.reviews.ForUser(userID)
}

// recompute rebuilds AverageRating/RatingCount from the current review
// rows. Always a full recomputation, never an incremental adjustment.
func (s *ReviewService) recompute(tx *gorm.DB, foodItemID uint) error {
	avg, count, err := s.reviews.AggregateForItem(tx, foodItemID)
	if err != nil {
		return err
	}
	return s.food.UpdateRating(tx, foodItemID, avg, count)
}
