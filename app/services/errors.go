package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these to
// HTTP statuses; messages are safe to show to clients.
var (
	// Auth
	ErrEmailDomain        = errors.New("registration is restricted to institutional email addresses")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Generic
	ErrNotFound     = errors.New("resource not found")
	ErrAccessDenied = errors.New("access denied")

	// Orders
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrItemUnavailable = errors.New("one or more items are unavailable")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrInvalidStatus   = errors.New("invalid status transition")

	// Wallet / payments
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrAmountMismatch    = errors.New("amount does not match the order total")
	ErrUpstreamPayment   = errors.New("payment gateway is unavailable")
	ErrBadSignature      = errors.New("webhook signature verification failed")

	// Reviews
	ErrNotEligible   = errors.New("no qualifying order found for this item")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// Subscriptions
	ErrNoActiveSubscription     = errors.New("no active subscription")
	ErrNoMealsRemaining         = errors.New("no meals remaining on the active subscription")
	ErrActiveSubscriptionExists = errors.New("an active subscription already exists")
	ErrPlanInactive             = errors.New("subscription plan is not available")
)
