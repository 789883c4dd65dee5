package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/pkg/logger"
	"github.com/shashiranjanraj/campuseats/pkg/metrics"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// Webhook event types sent by the gateway.
const (
	eventIntentSucceeded = "payment_intent.succeeded"
	eventIntentFailed    = "payment_intent.payment_failed"
)

// PaymentService implements intent creation and webhook reconciliation.
type PaymentService struct {
	gateway  *Gateway
	payments *repositories.PaymentRepository
	orders   *repositories.OrderRepository
	subs     *repositories.SubscriptionRepository
	orderSvc *OrderService
	subSvc   *SubscriptionService
	wallet   *WalletService
}

// NewPaymentService wires the service against the given gateway. Tests
// pass a gateway pointed at a stub transport.
func NewPaymentService(gateway *Gateway) *PaymentService {
	return &PaymentService{
		gateway:  gateway,
		payments: repositories.NewPaymentRepository(),
		orders:   repositories.NewOrderRepository(),
		subs:     repositories.NewSubscriptionRepository(),
		orderSvc: NewOrderService(),
		subSvc:   NewSubscriptionService(),
		wallet:   NewWalletService(),
	}
}

// IntentResult is returned to the client to complete the payment.
type IntentResult struct {
	ClientSecret string `json:"client_secret"`
	Reference    string `json:"reference"`
}

// CreateOrderIntent opens a gateway intent for an existing order. The
// caller must own the order and the amount must equal the order total.
// Nothing beyond the pending intent row is mutated before the webhook.
func (s *PaymentService) CreateOrderIntent(userID, orderID uint, amount float64) (IntentResult, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IntentResult{}, ErrNotFound
		}
		return IntentResult{}, err
	}
	if order.UserID != userID {
		return IntentResult{}, ErrAccessDenied
	}
	if math.Abs(amount-order.Total) > 0.009 {
		return IntentResult{}, ErrAmountMismatch
	}

	gi, err := s.gateway.CreateIntent(amount, map[string]string{
		"purpose":  models.IntentPurposeOrder,
		"order_id": fmt.Sprint(order.ID),
	})
	if err != nil {
		return IntentResult{}, err
	}

	oid := order.ID
	intent := models.PaymentIntent{
		Reference: gi.ID,
		Purpose:   models.IntentPurposeOrder,
		Amount:    amount,
		UserID:    userID,
		OrderID:   &oid,
		Status:    models.IntentStatusPending,
	}
	if err := s.payments.Create(&intent); err != nil {
		return IntentResult{}, err
	}

	if err := s.orders.UpdateFields(order.ID, map[string]interface{}{
		"payment_id":     gi.ID,
		"payment_status": models.PaymentStatusPending,
	}); err != nil {
		return IntentResult{}, err
	}

	return IntentResult{ClientSecret: gi.ClientSecret, Reference: gi.ID}, nil
}

// CreateSubscriptionIntent opens a gateway intent for a plan purchase.
// Blocked while the user already holds an active subscription.
func (s *PaymentService) CreateSubscriptionIntent(userID, planID uint) (IntentResult, error) {
	plan, err := s.subs.FindPlan(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IntentResult{}, ErrNotFound
		}
		return IntentResult{}, err
	}
	if !plan.IsActive {
		return IntentResult{}, ErrPlanInactive
	}

	if _, err := s.subs.ActiveForUser(userID); err == nil {
		return IntentResult{}, ErrActiveSubscriptionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return IntentResult{}, err
	}

	gi, err := s.gateway.CreateIntent(plan.Price, map[string]string{
		"purpose": models.IntentPurposeSubscription,
		"plan_id": fmt.Sprint(plan.ID),
	})
	if err != nil {
		return IntentResult{}, err
	}

	pid := plan.ID
	intent := models.PaymentIntent{
		Reference: gi.ID,
		Purpose:   models.IntentPurposeSubscription,
		Amount:    plan.Price,
		UserID:    userID,
		PlanID:    &pid,
		Status:    models.IntentStatusPending,
	}
	if err := s.payments.Create(&intent); err != nil {
		return IntentResult{}, err
	}

	return IntentResult{ClientSecret: gi.ClientSecret, Reference: gi.ID}, nil
}

// CreateTopupIntent opens a gateway intent for a wallet top-up. The
// balance is credited only when the webhook confirms the payment.
func (s *PaymentService) CreateTopupIntent(userID uint, amount float64) (IntentResult, error) {
	if !validAmount(amount) {
		return IntentResult{}, ErrInvalidAmount
	}

	gi, err := s.gateway.CreateIntent(amount, map[string]string{
		"purpose": models.IntentPurposeWalletTopup,
		"user_id": fmt.Sprint(userID),
	})
	if err != nil {
		return IntentResult{}, err
	}

	intent := models.PaymentIntent{
		Reference: gi.ID,
		Purpose:   models.IntentPurposeWalletTopup,
		Amount:    amount,
		UserID:    userID,
		Status:    models.IntentStatusPending,
	}
	if err := s.payments.Create(&intent); err != nil {
		return IntentResult{}, err
	}

	return IntentResult{ClientSecret: gi.ClientSecret, Reference: gi.ID}, nil
}

// webhookEvent is the gateway's webhook wire format.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandleWebhook verifies the signature and reconciles the referenced
// intent. Reconciliation runs in one transaction keyed on the intent row.
// The intent is claimed first with a conditional UPDATE (pending → the
// terminal status), so of any concurrent duplicate deliveries exactly one
// applies the side effects; the rest match nothing and become no-ops.
func (s *PaymentService) HandleWebhook(body []byte, signature string) error {
	if !s.gateway.VerifySignature(body, signature) {
		return ErrBadSignature
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("payments: decode webhook: %w", err)
	}
	if ev.Type != eventIntentSucceeded && ev.Type != eventIntentFailed {
		logger.Info("payments: ignoring webhook event", "type", ev.Type)
		return nil
	}

	target := models.IntentStatusCompleted
	if ev.Type == eventIntentFailed {
		target = models.IntentStatusFailed
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		intent, claimed, err := s.payments.ClaimPendingTx(tx, ev.Data.ID, target)
		if err != nil {
			return err
		}
		if !claimed {
			// Either the reference is unknown or the intent already
			// settled; only the former is an error.
			settled, err := s.payments.FindByReferenceTx(tx, ev.Data.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if !settled.Terminal() {
				return fmt.Errorf("payments: intent %s unclaimable in status %s",
					settled.Reference, settled.Status)
			}
			logger.Info("payments: duplicate webhook ignored",
				"reference", settled.Reference, "status", settled.Status)
			return nil
		}

		if ev.Type == eventIntentFailed {
			return s.applyFailure(tx, intent)
		}
		return s.applySuccess(tx, intent)
	})
}

func (s *PaymentService) applySuccess(tx *gorm.DB, intent models.PaymentIntent) error {
	switch intent.Purpose {
	case models.IntentPurposeOrder:
		if intent.OrderID != nil {
			if err := s.orderSvc.MarkPaid(tx, *intent.OrderID, intent.Reference); err != nil {
				return err
			}
		}
	case models.IntentPurposeSubscription:
		if intent.PlanID != nil {
			if _, err := s.subSvc.Activate(tx, intent.UserID, *intent.PlanID, intent.Reference); err != nil {
				return err
			}
		}
	case models.IntentPurposeWalletTopup:
		if err := s.wallet.Credit(tx, intent.UserID, intent.Amount); err != nil {
			return err
		}
	}

	metrics.PaymentsReconciled.WithLabelValues(intent.Purpose, "completed").Inc()
	return nil
}

func (s *PaymentService) applyFailure(tx *gorm.DB, intent models.PaymentIntent) error {
	if intent.Purpose == models.IntentPurposeOrder && intent.OrderID != nil {
		if err := s.orderSvc.MarkPaymentFailed(tx, *intent.OrderID, intent.Reference); err != nil {
			return err
		}
	}

	metrics.PaymentsReconciled.WithLabelValues(intent.Purpose, "failed").Inc()
	return nil
}
