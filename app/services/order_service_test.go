package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/database"
)

func TestPlaceOrderTotals(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)
	chai := createItem(t, "Masala Chai", 15, true)

	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []services.OrderLineInput{
			{FoodItemID: dosa.ID, Quantity: 2},
			{FoodItemID: chai.ID, Quantity: 1},
		},
		DeliveryType:  models.DeliveryTypeHostel,
		HostelBlock:   "B",
		RoomNumber:    "214",
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	assert.Equal(t, 135.0, order.Subtotal)
	assert.Equal(t, 20.0, order.DeliveryFee)
	assert.Equal(t, order.Subtotal+order.DeliveryFee, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.NotNil(t, order.EstimatedDeliveryTime)

	// Line prices are snapshotted from the catalog, not the client.
	require.Len(t, order.Items, 2)
	assert.Equal(t, 60.0, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestPlacePickupHasNoDeliveryFee(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 60.0, order.Total)
}

func TestPlaceWalletPaysImmediately(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 200)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 2}},
		DeliveryType:  models.DeliveryTypeHostel,
		PaymentMethod: models.PaymentMethodWallet,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assert.Equal(t, models.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, 200.0-order.Total, walletBalance(t, user.ID))
}

func TestPlaceWalletInsufficientRollsBack(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 10)
	dosa := createItem(t, "Masala Dosa", 60, true)

	_, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodWallet,
	})
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)

	assert.Equal(t, 10.0, walletBalance(t, user.ID))

	var count int64
	require.NoError(t, database.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceRejectsUnavailableAndEmpty(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	offMenu := createItem(t, "Seasonal Special", 90, false)

	_, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: offMenu.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	assert.ErrorIs(t, err, services.ErrItemUnavailable)

	_, err = svc.Place(user.ID, services.PlaceOrderInput{
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	assert.ErrorIs(t, err, services.ErrEmptyOrder)

	_, err = svc.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: 9999, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	assert.ErrorIs(t, err, services.ErrItemUnavailable)
}

func TestUpdateStatusMonotonic(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	order, err = svc.UpdateStatus(order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)

	// Backward and repeated transitions are rejected.
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusPending)
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusPreparing)
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	_, err = svc.UpdateStatus(order.ID, "cancelled")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	order, err = svc.UpdateStatus(order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.NotNil(t, order.DeliveredAt)

	_, err = svc.UpdateStatus(order.ID, models.OrderStatusOutForDelivery)
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestVerificationCode(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypeHostel,
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	// Too early: not out for delivery yet.
	_, err = svc.AttachVerificationCode(order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = svc.UpdateStatus(order.ID, models.OrderStatusOutForDelivery)
	require.NoError(t, err)

	code, err := svc.AttachVerificationCode(order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	// Reissuing returns the same code.
	again, err := svc.AttachVerificationCode(order.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestGetEnforcesOwnership(t *testing.T) {
	setupDB(t)
	svc := services.NewOrderService()
	owner := createUser(t, "asha@mlrit.ac.in", 0)
	other := createUser(t, "ravi@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := svc.Place(owner.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	_, err = svc.Get(order.ID, owner.ID, "user")
	assert.NoError(t, err)

	_, err = svc.Get(order.ID, other.ID, "user")
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	_, err = svc.Get(order.ID, other.ID, "admin")
	assert.NoError(t, err)

	_, err = svc.Get(9999, owner.ID, "user")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
