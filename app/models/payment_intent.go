package models

import "gorm.io/gorm"

// PaymentIntent purposes.
const (
	IntentPurposeOrder        = "order"
	IntentPurposeSubscription = "subscription"
	IntentPurposeWalletTopup  = "wallet_topup"
)

// PaymentIntent statuses.
const (
	IntentStatusPending   = "pending"
	IntentStatusCompleted = "completed"
	IntentStatusFailed    = "failed"
)

// PaymentIntent records one attempted gateway payment. The unique Reference
// is the gateway's id and anchors webhook idempotency: once an intent
// reaches a terminal status, redelivered events are no-ops.
type PaymentIntent struct {
	gorm.Model
	Reference string  `gorm:"uniqueIndex;size:255;not null" json:"reference"`
	Purpose   string  `gorm:"size:50;not null;index" json:"purpose"`
	Amount    float64 `gorm:"not null" json:"amount"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	OrderID   *uint   `gorm:"index" json:"order_id,omitempty"`
	PlanID    *uint   `json:"plan_id,omitempty"`
	Status    string  `gorm:"size:50;not null;default:pending" json:"status"`
}

// Terminal reports whether the intent already reached a final status.
func (p *PaymentIntent) Terminal() bool {
	return p.Status == IntentStatusCompleted || p.Status == IntentStatusFailed
}
