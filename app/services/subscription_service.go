package services

import (
	"errors"
	"time"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/pkg/event"
	"github.com/shashiranjanraj/campuseats/pkg/logger"
	"github.com/shashiranjanraj/campuseats/pkg/metrics"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// SubscriptionService implements meal plans and user subscriptions.
type SubscriptionService struct {
	subs *repositories.SubscriptionRepository
}

func NewSubscriptionService() *SubscriptionService {
	return &SubscriptionService{subs: repositories.NewSubscriptionRepository()}
}

// ─── Plans ────────────────────────────────────────────────────────────────────

// ListPlans returns plans currently offered for purchase.
func (s *SubscriptionService) ListPlans() ([]models.SubscriptionPlan, error) {
	return s.subs.ActivePlans()
}

// GetPlan returns one plan or ErrNotFound.
func (s *SubscriptionService) GetPlan(id uint) (models.SubscriptionPlan, error) {
	plan, err := s.subs.FindPlan(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SubscriptionPlan{}, ErrNotFound
		}
		return models.SubscriptionPlan{}, err
	}
	return plan, nil
}

// PlanInput carries create/update payloads for plans.
type PlanInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"nullable,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Duration    int     `json:"duration" validate:"required,gte=1,lte=365"`
	MealsPerDay int     `json:"meals_per_day" validate:"required,gte=1,lte=5"`
}

// CreatePlan adds a new plan.
func (s *SubscriptionService) CreatePlan(input PlanInput) (models.SubscriptionPlan, error) {
	plan := models.SubscriptionPlan{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		MealsPerDay: input.MealsPerDay,
		IsActive:    true,
	}
	if err := s.subs.CreatePlan(&plan); err != nil {
		return models.SubscriptionPlan{}, err
	}
	return plan, nil
}

// UpdatePlan edits an existing plan.
func (s *SubscriptionService) UpdatePlan(id uint, input PlanInput) (models.SubscriptionPlan, error) {
	plan, err := s.GetPlan(id)
	if err != nil {
		return models.SubscriptionPlan{}, err
	}
	plan.Name = input.Name
	plan.Description = input.Description
	plan.Price = input.Price
	plan.Duration = input.Duration
	plan.MealsPerDay = input.MealsPerDay
	if err := s.subs.UpdatePlan(&plan); err != nil {
		return models.SubscriptionPlan{}, err
	}
	return plan, nil
}

// DeletePlan soft-deletes a plan (IsActive=false) so rows that reference
// it keep a valid target.
func (s *SubscriptionService) DeletePlan(id uint) error {
	plan, err := s.GetPlan(id)
	if err != nil {
		return err
	}
	plan.IsActive = false
	return s.subs.UpdatePlan(&plan)
}

// ─── User subscriptions ───────────────────────────────────────────────────────

// History returns the caller's full subscription history.
func (s *SubscriptionService) History(userID uint) ([]models.UserSubscription, error) {
	return s.subs.ForUser(userID)
}

// Active returns the caller's active subscription or ErrNoActiveSubscription.
func (s *SubscriptionService) Active(userID uint) (models.UserSubscription, error) {
	sub, err := s.subs.ActiveForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UserSubscription{}, ErrNoActiveSubscription
		}
		return models.UserSubscription{}, err
	}
	return sub, nil
}

// HasActive reports whether the user currently holds an active subscription.
func (s *SubscriptionService) HasActive(userID uint) (bool, error) {
	_, err := s.subs.ActiveForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Activate creates the subscription after a confirmed payment. Meal
// allowance is duration × mealsPerDay; the window starts now. Called from
// webhook reconciliation inside its transaction.
//
// Intent creation already blocks while a subscription is active, but two
// intents opened before either payment lands can both succeed. The
// confirmed payment wins: any row still active at activation time is
// deactivated here, in the same transaction, so at most one remains.
func (s *SubscriptionService) Activate(tx *gorm.DB, userID, planID uint, paymentRef string) (models.UserSubscription, error) {
	var plan models.SubscriptionPlan
	if err := tx.Where("id = ?", planID).First(&plan).Error; err != nil {
		return models.UserSubscription{}, err
	}

	if err := s.subs.DeactivateAllTx(tx, userID); err != nil {
		return models.UserSubscription{}, err
	}

	start := time.Now()
	sub := models.UserSubscription{
		UserID:         userID,
		PlanID:         plan.ID,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, plan.Duration),
		IsActive:       true,
		PaymentID:      paymentRef,
		RemainingMeals: plan.TotalMeals(),
	}
	if err := s.subs.CreateTx(tx, &sub); err != nil {
		return models.UserSubscription{}, err
	}

	event.FireAsync("subscription.activated", sub)
	return sub, nil
}

// RedeemMeal deducts one meal from the active subscription. The decrement
// is a conditional UPDATE, so concurrent redemptions cannot overdraw.
func (s *SubscriptionService) RedeemMeal(userID uint) (models.UserSubscription, error) {
	if _, err := s.Active(userID); err != nil {
		return models.UserSubscription{}, err
	}

	sub, err := s.subs.DeductMeal(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoMealsLeft) {
			return models.UserSubscription{}, ErrNoMealsRemaining
		}
		return models.UserSubscription{}, err
	}

	metrics.MealsRedeemed.Inc()
	return sub, nil
}

// Cancel deactivates the caller's subscription. No refund; remaining
// meals are forfeited.
func (s *SubscriptionService) Cancel(subscriptionID, userID uint) (models.UserSubscription, error) {
	sub, err := s.subs.FindSubscription(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UserSubscription{}, ErrNotFound
		}
		return models.UserSubscription{}, err
	}
	if sub.UserID != userID {
		return models.UserSubscription{}, ErrAccessDenied
	}
	if !sub.IsActive {
		return sub, nil
	}

	sub.IsActive = false
	if err := s.subs.Update(&sub); err != nil {
		return models.UserSubscription{}, err
	}
	return sub, nil
}

// ListAll returns every subscription row (admin view).
func (s *SubscriptionService) ListAll(page, limit int) ([]models.UserSubscription, orm.Pagination, error) {
	return s.subs.All(page, limit)
}

// ExpireOverdue sweeps subscriptions whose end date has passed. Wired to
// the daily scheduler.
func (s *SubscriptionService) ExpireOverdue() {
	n, err := s.subs.ExpireOverdue(time.Now())
	if err != nil {
		logger.Error("subscriptions: expiry sweep failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("subscriptions: expired", "count", n)
	}
}
