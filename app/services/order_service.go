package services

import (
	"errors"
	"time"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/config"
	"github.com/shashiranjanraj/campuseats/pkg/collection"
	"github.com/shashiranjanraj/campuseats/pkg/crypt"
	"github.com/shashiranjanraj/campuseats/pkg/event"
	"github.com/shashiranjanraj/campuseats/pkg/metrics"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// statusRank orders the fulfilment states; transitions may only move to a
// strictly higher rank.
var statusRank = map[string]int{
	models.OrderStatusPending:        0,
	models.OrderStatusPreparing:      1,
	models.OrderStatusOutForDelivery: 2,
	models.OrderStatusDelivered:      3,
}

// OrderService implements checkout and order lifecycle management.
type OrderService struct {
	orders *repositories.OrderRepository
	food   *repositories.FoodRepository
	users  *repositories.UserRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders: repositories.NewOrderRepository(),
		food:   repositories.NewFoodRepository(),
		users:  repositories.NewUserRepository(),
	}
}

// OrderLineInput is one requested cart line. Only the item ID and
// quantity matter; prices are resolved server-side from the catalog.
type OrderLineInput struct {
	FoodItemID uint `json:"food_item_id" validate:"required,gte=1"`
	Quantity   int  `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderInput carries the checkout payload.
type PlaceOrderInput struct {
	Items         []OrderLineInput `json:"items" validate:"required"`
	DeliveryType  string           `json:"delivery_type" validate:"required,in=pickup,hostel"`
	HostelType    string           `json:"hostel_type" validate:"nullable,max=50"`
	HostelBlock   string           `json:"hostel_block" validate:"nullable,max=50"`
	RoomNumber    string           `json:"room_number" validate:"nullable,max=50"`
	PaymentMethod string           `json:"payment_method" validate:"required,in=gateway,wallet"`
}

// Place creates an order from the cart. Line prices come from the current
// catalog; the client's idea of prices is ignored. Wallet orders are paid
// immediately with an atomic debit and start preparing; gateway orders
// stay pending until the webhook confirms payment.
func (s *OrderService) Place(userID uint, input PlaceOrderInput) (models.Order, error) {
	if len(input.Items) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	for _, line := range input.Items {
		if line.Quantity < 1 {
			return models.Order{}, ErrInvalidQuantity
		}
	}
	ids := collection.Map(input.Items, func(l OrderLineInput) uint { return l.FoodItemID })

	catalog, err := s.food.FindByIDs(ids)
	if err != nil {
		return models.Order{}, err
	}
	byID := collection.KeyBy(catalog, func(i models.FoodItem) uint { return i.ID })

	var snapshot models.OrderItems
	var subtotal float64
	for _, line := range input.Items {
		item, ok := byID[line.FoodItemID]
		if !ok || !item.Available {
			return models.Order{}, ErrItemUnavailable
		}
		snapshot = append(snapshot, models.OrderItem{
			FoodItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   line.Quantity,
		})
		subtotal += item.Price * float64(line.Quantity)
	}

	deliveryFee := 0.0
	if input.DeliveryType == models.DeliveryTypeHostel {
		deliveryFee = config.DeliveryFee()
	}

	eta := time.Now().Add(config.EstimatedDeliveryWindow())
	order := models.Order{
		UserID:                userID,
		Items:                 snapshot,
		Subtotal:              subtotal,
		DeliveryFee:           deliveryFee,
		Total:                 subtotal + deliveryFee,
		Status:                models.OrderStatusPending,
		DeliveryType:          input.DeliveryType,
		HostelType:            input.HostelType,
		HostelBlock:           input.HostelBlock,
		RoomNumber:            input.RoomNumber,
		PaymentStatus:         models.PaymentStatusPending,
		PaymentMethod:         input.PaymentMethod,
		EstimatedDeliveryTime: &eta,
	}

	if input.PaymentMethod == models.PaymentMethodWallet {
		err = orm.Transaction(func(tx *gorm.DB) error {
			if err := s.users.DebitWallet(tx, userID, order.Total); err != nil {
				return err
			}
			order.PaymentStatus = models.PaymentStatusCompleted
			order.Status = models.OrderStatusPreparing
			return s.orders.CreateTx(tx, &order)
		})
		if err != nil {
			if errors.Is(err, repositories.ErrInsufficientBalance) {
				metrics.WalletOps.WithLabelValues("debit", "insufficient").Inc()
				return models.Order{}, ErrInsufficientFunds
			}
			return models.Order{}, err
		}
		metrics.WalletOps.WithLabelValues("debit", "ok").Inc()
	} else {
		if err := s.orders.Create(&order); err != nil {
			return models.Order{}, err
		}
	}

	metrics.OrdersPlaced.WithLabelValues(order.PaymentMethod).Inc()
	event.FireAsync("order.placed", order)
	return order, nil
}

// ListForUser returns the caller's own orders.
func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	return s.orders.ForUser(userID)
}

// ListAll returns every order (admin view).
func (s *OrderService) ListAll(page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.All(page, limit)
}

// Get returns an order for its owner or an admin; anyone else gets
// ErrAccessDenied.
func (s *OrderService) Get(orderID, requesterID uint, requesterRole string) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	if order.UserID != requesterID && requesterRole != "admin" {
		return models.Order{}, ErrAccessDenied
	}
	return order, nil
}

// UpdateStatus moves an order forward through the fulfilment states.
// Backward or unknown targets are rejected; delivered stamps DeliveredAt.
func (s *OrderService) UpdateStatus(orderID uint, target string) (models.Order, error) {
	targetRank, known := statusRank[target]
	if !known {
		return models.Order{}, ErrInvalidStatus
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}

	if targetRank <= statusRank[order.Status] {
		return models.Order{}, ErrInvalidStatus
	}

	fields := map[string]interface{}{"status": target}
	if target == models.OrderStatusDelivered {
		now := time.Now()
		fields["delivered_at"] = &now
		order.DeliveredAt = &now
	}
	if err := s.orders.UpdateFields(order.ID, fields); err != nil {
		return models.Order{}, err
	}
	order.Status = target

	metrics.OrderStatusChanges.WithLabelValues(target).Inc()
	event.FireAsync("order.status_changed", order)
	return order, nil
}

// verificationPayload is the encrypted content of an order's receipt code.
type verificationPayload struct {
	OrderID  uint      `json:"order_id"`
	UserID   uint      `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// AttachVerificationCode issues the one-time receipt code once the order
// is out for delivery. Calling it again returns the existing code.
func (s *OrderService) AttachVerificationCode(orderID uint) (string, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if order.Status != models.OrderStatusOutForDelivery && order.Status != models.OrderStatusDelivered {
		return "", ErrInvalidStatus
	}
	if order.VerificationCode != "" {
		return order.VerificationCode, nil
	}

	code, err := crypt.EncryptJSON(verificationPayload{
		OrderID:  order.ID,
		UserID:   order.UserID,
		IssuedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}

	if err := s.orders.UpdateFields(order.ID, map[string]interface{}{
		"verification_code": code,
	}); err != nil {
		return "", err
	}
	return code, nil
}

// MarkPaid flips an order's payment to completed and starts preparation.
// Called by webhook reconciliation inside its transaction.
func (s *OrderService) MarkPaid(tx *gorm.DB, orderID uint, paymentRef string) error {
	return tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusCompleted,
			"payment_id":     paymentRef,
			"status":         models.OrderStatusPreparing,
		}).Error
}

// MarkPaymentFailed records a failed gateway payment on the order.
func (s *OrderService) MarkPaymentFailed(tx *gorm.DB, orderID uint, paymentRef string) error {
	return tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
			"payment_id":     paymentRef,
		}).Error
}
