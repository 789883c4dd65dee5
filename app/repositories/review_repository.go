package repositories

import (
	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// ReviewRepository handles database operations for Review.
type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// FindByID looks up a review by primary key.
func (r *ReviewRepository) FindByID(id uint) (models.Review, error) {
	var review models.Review
	err := orm.DB().Model(&models.Review{}).Where("id = ?", id).First(&review)
	return review, err
}

// ForFoodItem returns all reviews for one food item, newest first.
func (r *ReviewRepository) ForFoodItem(foodItemID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := orm.DB().Model(&models.Review{}).
		Where("food_item_id = ?", foodItemID).
		Order("created_at desc").
		Get(&reviews)
	return reviews, err
}

// ForUser returns all reviews written by one user.
func (r *ReviewRepository) ForUser(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := orm.DB().Model(&models.Review{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Get(&reviews)
	return reviews, err
}

// CreateTx inserts a review inside tx.
func (r *ReviewRepository) CreateTx(tx *gorm.DB, review *models.Review) error {
	return tx.Create(review).Error
}

// DeleteTx removes a review inside tx.
func (r *ReviewRepository) DeleteTx(tx *gorm.DB, review *models.Review) error {
	return tx.Delete(review).Error
}

// AggregateForItem computes the average rating and count over the current
// review rows for foodItemID, inside tx so the recompute commits with the
// mutation that triggered it.
func (r *ReviewRepository) AggregateForItem(tx *gorm.DB, foodItemID uint) (float64, int, error) {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("food_item_id = ?", foodItemID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Avg, int(agg.Count), nil
}
