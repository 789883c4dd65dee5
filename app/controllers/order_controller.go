package controllers

import (
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
)

// OrderController handles checkout and the order lifecycle.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

// Store places an order from the cart payload.
func (oc *OrderController) Store(c *ctx.Context) {
	var input services.PlaceOrderInput
	if !c.BindJSON(&input) {
		return
	}

	order, err := oc.service.Place(c.UserID(), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Created(order)
}

// Index lists the caller's own orders.
func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.service.ListForUser(c.UserID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(orders)
}

// Show returns one order for its owner or an admin.
func (oc *OrderController) Show(c *ctx.Context) {
	principal, _ := c.Principal()
	order, err := oc.service.Get(c.ParamUint("id"), principal.ID, principal.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(order)
}

// AdminIndex lists every order (admin).
func (oc *OrderController) AdminIndex(c *ctx.Context) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	orders, pagination, err := oc.service.ListAll(page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Paginated(orders, pagination)
}

// UpdateStatus moves an order forward through fulfilment (admin).
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	var input struct {
		Status string `json:"status" validate:"required,in=pending,preparing,out_for_delivery,delivered"`
	}
	if !c.BindJSON(&input) {
		return
	}

	order, err := oc.service.UpdateStatus(c.ParamUint("id"), input.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(order)
}

// IssueVerificationCode attaches the one-time receipt code (admin).
// Repeat calls return the same code.
func (oc *OrderController) IssueVerificationCode(c *ctx.Context) {
	code, err := oc.service.AttachVerificationCode(c.ParamUint("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(map[string]string{"verification_code": code})
}
