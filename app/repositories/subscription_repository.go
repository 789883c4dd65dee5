package repositories

import (
	"errors"
	"time"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/database"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// ErrNoMealsLeft is returned by DeductMeal when the conditional update
// matched no row with meals remaining.
var ErrNoMealsLeft = errors.New("repositories: no meals remaining")

// SubscriptionRepository handles SubscriptionPlan and UserSubscription rows.
type SubscriptionRepository struct{}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

// ─── Plans ────────────────────────────────────────────────────────────────────

// ActivePlans returns plans currently offered for purchase.
func (r *SubscriptionRepository) ActivePlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := orm.DB().Model(&models.SubscriptionPlan{}).
		Where("is_active = ?", true).
		Order("price asc").
		Get(&plans)
	return plans, err
}

// FindPlan looks up a plan by primary key.
func (r *SubscriptionRepository) FindPlan(id uint) (models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := orm.DB().Model(&models.SubscriptionPlan{}).Where("id = ?", id).First(&plan)
	return plan, err
}

// CreatePlan persists a new plan.
func (r *SubscriptionRepository) CreatePlan(plan *models.SubscriptionPlan) error {
	return orm.DB().Create(plan)
}

// UpdatePlan persists changes to a plan.
func (r *SubscriptionRepository) UpdatePlan(plan *models.SubscriptionPlan) error {
	return orm.DB().Save(plan)
}

// ─── User subscriptions ───────────────────────────────────────────────────────

// ForUser returns the user's full subscription history, newest first.
func (r *SubscriptionRepository) ForUser(userID uint) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := orm.DB().Model(&models.UserSubscription{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Get(&subs)
	return subs, err
}

// ActiveForUser returns the user's active subscription, if any.
func (r *SubscriptionRepository) ActiveForUser(userID uint) (models.UserSubscription, error) {
	var sub models.UserSubscription
	err := orm.DB().Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&sub)
	return sub, err
}

// FindSubscription looks up a subscription by primary key.
func (r *SubscriptionRepository) FindSubscription(id uint) (models.UserSubscription, error) {
	var sub models.UserSubscription
	err := orm.DB().Model(&models.UserSubscription{}).Where("id = ?", id).First(&sub)
	return sub, err
}

// CreateTx inserts a subscription inside tx.
func (r *SubscriptionRepository) CreateTx(tx *gorm.DB, sub *models.UserSubscription) error {
	return tx.Create(sub).Error
}

// DeactivateAllTx switches off every active subscription of the user
// inside tx. Used before activation so only the new row stays active.
func (r *SubscriptionRepository) DeactivateAllTx(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}

// Update persists changes to a subscription.
func (r *SubscriptionRepository) Update(sub *models.UserSubscription) error {
	return orm.DB().Save(sub)
}

// All returns every subscription row with pagination.
func (r *SubscriptionRepository) All(page, limit int) ([]models.UserSubscription, orm.Pagination, error) {
	var subs []models.UserSubscription
	pagination, err := orm.DB().Model(&models.UserSubscription{}).
		Order("created_at desc").
		GetWithPagination(&subs, page, limit)
	return subs, pagination, err
}

// DeductMeal decrements RemainingMeals on the user's active subscription
// with a conditional UPDATE so concurrent redemptions cannot overdraw.
// Returns the subscription after the decrement.
func (r *SubscriptionRepository) DeductMeal(userID uint) (models.UserSubscription, error) {
	result := database.DB.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ? AND remaining_meals > 0", userID, true).
		Update("remaining_meals", gorm.Expr("remaining_meals - 1"))
	if result.Error != nil {
		return models.UserSubscription{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.UserSubscription{}, ErrNoMealsLeft
	}

	// Last meal redeemed: the subscription ends. A conditional UPDATE,
	// not a row write-back, so a concurrent cancel is never overwritten.
	if err := database.DB.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ? AND remaining_meals <= 0", userID, true).
		Update("is_active", false).Error; err != nil {
		return models.UserSubscription{}, err
	}

	var sub models.UserSubscription
	err := database.DB.
		Where("user_id = ?", userID).
		Order("id desc").
		First(&sub).Error
	return sub, err
}

// ExpireOverdue deactivates subscriptions whose EndDate has passed.
// Returns the number of rows swept.
func (r *SubscriptionRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := database.DB.Model(&models.UserSubscription{}).
		Where("is_active = ? AND end_date < ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
