package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan is a purchasable meal plan. Deleting a plan is a soft
// delete (IsActive=false) so existing subscriptions keep their reference.
type SubscriptionPlan struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Duration    int     `gorm:"not null" json:"duration"` // days
	MealsPerDay int     `gorm:"not null" json:"meals_per_day"`
	IsActive    bool    `gorm:"not null;default:true" json:"is_active"`
}

// TotalMeals is the meal allowance granted on activation.
func (p *SubscriptionPlan) TotalMeals() int { return p.Duration * p.MealsPerDay }

// UserSubscription is an activated plan instance. At most one row per user
// has IsActive=true at any time.
type UserSubscription struct {
	gorm.Model
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	PlanID         uint      `gorm:"not null;index" json:"plan_id"`
	StartDate      time.Time `gorm:"not null" json:"start_date"`
	EndDate        time.Time `gorm:"not null;index" json:"end_date"`
	IsActive       bool      `gorm:"not null;default:true;index" json:"is_active"`
	PaymentID      string    `gorm:"size:255" json:"payment_id"`
	RemainingMeals int       `gorm:"not null" json:"remaining_meals"`
}
