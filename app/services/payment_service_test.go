package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/database"
)

const testWebhookSecret = "whsec_test"

// newStubGateway spins up a fake provider that issues sequential intent IDs.
func newStubGateway(t *testing.T) *services.Gateway {
	t.Helper()

	var seq int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seq++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"pi_test_%d","client_secret":"cs_test_%d","status":"requires_payment_method"}`, seq, seq)
	}))
	t.Cleanup(ts.Close)

	return services.NewGateway(ts.URL, "sk_test", testWebhookSecret, 2*time.Second)
}

func signedEvent(t *testing.T, eventType, reference string) (body []byte, signature string) {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": map[string]string{"id": reference},
	})
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return body, hex.EncodeToString(mac.Sum(nil))
}

func orderByID(t *testing.T, id uint) models.Order {
	t.Helper()

	var order models.Order
	require.NoError(t, database.DB.First(&order, id).Error)
	return order
}

func intentByRef(t *testing.T, ref string) models.PaymentIntent {
	t.Helper()

	var intent models.PaymentIntent
	require.NoError(t, database.DB.Where("reference = ?", ref).First(&intent).Error)
	return intent
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))

	body, _ := signedEvent(t, "payment_intent.succeeded", "pi_test_1")
	err := svc.HandleWebhook(body, "deadbeef")
	assert.ErrorIs(t, err, services.ErrBadSignature)
}

func TestWebhookIgnoresUnknownEvents(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))

	body, sig := signedEvent(t, "charge.refunded", "pi_test_1")
	assert.NoError(t, svc.HandleWebhook(body, sig))
}

func TestOrderIntentAmountMustMatch(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	orders := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	other := createUser(t, "ravi@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := orders.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypeHostel,
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	_, err = svc.CreateOrderIntent(user.ID, order.ID, order.Total+10)
	assert.ErrorIs(t, err, services.ErrAmountMismatch)

	_, err = svc.CreateOrderIntent(other.ID, order.ID, order.Total)
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	_, err = svc.CreateOrderIntent(user.ID, 9999, order.Total)
	assert.ErrorIs(t, err, services.ErrNotFound)

	result, err := svc.CreateOrderIntent(user.ID, order.ID, order.Total)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ClientSecret)
	assert.NotEmpty(t, result.Reference)
}

func TestOrderPaymentReconciliation(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	orders := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := orders.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	result, err := svc.CreateOrderIntent(user.ID, order.ID, order.Total)
	require.NoError(t, err)

	body, sig := signedEvent(t, "payment_intent.succeeded", result.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))

	stored := orderByID(t, order.ID)
	assert.Equal(t, models.PaymentStatusCompleted, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusPreparing, stored.Status)
	assert.Equal(t, models.IntentStatusCompleted, intentByRef(t, result.Reference).Status)
}

func TestFailedPaymentMarksOrder(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	orders := services.NewOrderService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	dosa := createItem(t, "Masala Dosa", 60, true)

	order, err := orders.Place(user.ID, services.PlaceOrderInput{
		Items:         []services.OrderLineInput{{FoodItemID: dosa.ID, Quantity: 1}},
		DeliveryType:  models.DeliveryTypePickup,
		PaymentMethod: models.PaymentMethodGateway,
	})
	require.NoError(t, err)

	result, err := svc.CreateOrderIntent(user.ID, order.ID, order.Total)
	require.NoError(t, err)

	body, sig := signedEvent(t, "payment_intent.payment_failed", result.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))

	stored := orderByID(t, order.ID)
	assert.Equal(t, models.PaymentStatusFailed, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Equal(t, models.IntentStatusFailed, intentByRef(t, result.Reference).Status)
}

func TestTopupWebhookIsIdempotent(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	user := createUser(t, "asha@mlrit.ac.in", 0)

	result, err := svc.CreateTopupIntent(user.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, walletBalance(t, user.ID))

	body, sig := signedEvent(t, "payment_intent.succeeded", result.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))
	assert.Equal(t, 500.0, walletBalance(t, user.ID))

	// The gateway retries deliveries; a replay must not credit twice.
	require.NoError(t, svc.HandleWebhook(body, sig))
	assert.Equal(t, 500.0, walletBalance(t, user.ID))
}

func TestSubscriptionPurchaseFlow(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	subs := services.NewSubscriptionService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	plan := createPlan(t, 7, 2)

	result, err := svc.CreateSubscriptionIntent(user.ID, plan.ID)
	require.NoError(t, err)

	body, sig := signedEvent(t, "payment_intent.succeeded", result.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))

	sub, err := subs.Active(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 14, sub.RemainingMeals)
	assert.Equal(t, result.Reference, sub.PaymentID)

	// One active subscription at a time.
	_, err = svc.CreateSubscriptionIntent(user.ID, plan.ID)
	assert.ErrorIs(t, err, services.ErrActiveSubscriptionExists)
}

func TestRacedSubscriptionPaymentsKeepOneActive(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	subs := services.NewSubscriptionService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	plan := createPlan(t, 7, 2)

	// Nothing is active yet, so both intents open successfully.
	first, err := svc.CreateSubscriptionIntent(user.ID, plan.ID)
	require.NoError(t, err)
	second, err := svc.CreateSubscriptionIntent(user.ID, plan.ID)
	require.NoError(t, err)

	// Both payments land.
	body, sig := signedEvent(t, "payment_intent.succeeded", first.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))
	body, sig = signedEvent(t, "payment_intent.succeeded", second.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))

	var active int64
	require.NoError(t, database.DB.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)

	// The latest confirmed payment owns the active row.
	sub, err := subs.Active(user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Reference, sub.PaymentID)

	history, err := subs.History(user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestWebhookCannotFlipSettledIntent(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	user := createUser(t, "asha@mlrit.ac.in", 0)

	result, err := svc.CreateTopupIntent(user.ID, 500)
	require.NoError(t, err)

	body, sig := signedEvent(t, "payment_intent.payment_failed", result.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))
	assert.Equal(t, models.IntentStatusFailed, intentByRef(t, result.Reference).Status)

	// A success event for the settled intent must not claim it again.
	body, sig = signedEvent(t, "payment_intent.succeeded", result.Reference)
	require.NoError(t, svc.HandleWebhook(body, sig))
	assert.Equal(t, models.IntentStatusFailed, intentByRef(t, result.Reference).Status)
	assert.Equal(t, 0.0, walletBalance(t, user.ID))
}

func TestSubscriptionIntentRejectsInactivePlan(t *testing.T) {
	setupDB(t)
	svc := services.NewPaymentService(newStubGateway(t))
	subs := services.NewSubscriptionService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	plan := createPlan(t, 7, 1)
	require.NoError(t, subs.DeletePlan(plan.ID))

	_, err := svc.CreateSubscriptionIntent(user.ID, plan.ID)
	assert.ErrorIs(t, err, services.ErrPlanInactive)
}

func TestGatewayDownIsUpstreamError(t *testing.T) {
	setupDB(t)
	user := createUser(t, "asha@mlrit.ac.in", 0)

	gateway := services.NewGateway("http://127.0.0.1:1", "sk_test", testWebhookSecret, 200*time.Millisecond)
	svc := services.NewPaymentService(gateway)

	_, err := svc.CreateTopupIntent(user.ID, 100)
	assert.ErrorIs(t, err, services.ErrUpstreamPayment)
}
