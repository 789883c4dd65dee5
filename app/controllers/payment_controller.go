package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
)

// PaymentController handles intent creation and the gateway webhook.
type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

// CreateOrderIntent opens a payment intent for an order.
func (pc *PaymentController) CreateOrderIntent(c *ctx.Context) {
	var input struct {
		Amount  float64 `json:"amount" validate:"required,gt=0"`
		OrderID uint    `json:"order_id" validate:"required,gte=1"`
	}
	if !c.BindJSON(&input) {
		return
	}

	result, err := pc.service.CreateOrderIntent(c.UserID(), input.OrderID, input.Amount)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(result)
}

// CreateSubscriptionIntent opens a payment intent for a plan purchase.
func (pc *PaymentController) CreateSubscriptionIntent(c *ctx.Context) {
	var input struct {
		PlanID uint `json:"plan_id" validate:"required,gte=1"`
	}
	if !c.BindJSON(&input) {
		return
	}

	result, err := pc.service.CreateSubscriptionIntent(c.UserID(), input.PlanID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(result)
}

// Webhook receives server-to-server payment events. The signature is
// checked against the raw body before anything is parsed.
func (pc *PaymentController) Webhook(c *ctx.Context) {
	body, err := c.Body()
	if err != nil {
		c.Error(http.StatusBadRequest, "unreadable body")
		return
	}

	if err := pc.service.HandleWebhook(body, c.Header("X-Gateway-Signature")); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("ok")
}
