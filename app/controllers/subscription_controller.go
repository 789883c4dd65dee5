package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
)

// SubscriptionController handles meal plans and user subscriptions.
type SubscriptionController struct {
	service *services.SubscriptionService
}

func NewSubscriptionController() *SubscriptionController {
	return &SubscriptionController{service: services.NewSubscriptionService()}
}

// Plans lists plans open for purchase.
func (sc *SubscriptionController) Plans(c *ctx.Context) {
	plans, err := sc.service.ListPlans()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(plans)
}

// ShowPlan returns one plan.
func (sc *SubscriptionController) ShowPlan(c *ctx.Context) {
	plan, err := sc.service.GetPlan(c.ParamUint("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(plan)
}

// StorePlan creates a plan (admin).
func (sc *SubscriptionController) StorePlan(c *ctx.Context) {
	var input services.PlanInput
	if !c.BindJSON(&input) {
		return
	}
	plan, err := sc.service.CreatePlan(input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Created(plan)
}

// UpdatePlan edits a plan (admin).
func (sc *SubscriptionController) UpdatePlan(c *ctx.Context) {
	var input services.PlanInput
	if !c.BindJSON(&input) {
		return
	}
	plan, err := sc.service.UpdatePlan(c.ParamUint("id"), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(plan)
}

// DestroyPlan soft-deletes a plan (admin).
func (sc *SubscriptionController) DestroyPlan(c *ctx.Context) {
	if err := sc.service.DeletePlan(c.ParamUint("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// History lists the caller's subscriptions, past and present.
func (sc *SubscriptionController) History(c *ctx.Context) {
	subs, err := sc.service.History(c.UserID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(subs)
}

// Active returns the caller's active subscription, 404 when none.
func (sc *SubscriptionController) Active(c *ctx.Context) {
	sub, err := sc.service.Active(c.UserID())
	if err != nil {
		if err == services.ErrNoActiveSubscription {
			c.NotFound(err.Error())
			return
		}
		respondErr(c, err)
		return
	}
	c.Success(sub)
}

// RedeemMeal deducts one meal from the active subscription.
func (sc *SubscriptionController) RedeemMeal(c *ctx.Context) {
	sub, err := sc.service.RedeemMeal(c.UserID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(sub)
}

// Cancel deactivates the caller's subscription.
func (sc *SubscriptionController) Cancel(c *ctx.Context) {
	var input struct {
		SubscriptionID uint `json:"subscription_id" validate:"required,gte=1"`
	}
	if !c.BindJSON(&input) {
		return
	}

	sub, err := sc.service.Cancel(input.SubscriptionID, c.UserID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(sub)
}

// AdminIndex lists every subscription row (admin).
func (sc *SubscriptionController) AdminIndex(c *ctx.Context) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	subs, pagination, err := sc.service.ListAll(page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Paginated(subs, pagination)
}
