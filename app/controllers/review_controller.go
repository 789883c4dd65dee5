package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
)

// ReviewController handles review creation, listing and removal.
type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController() *ReviewController {
	return &ReviewController{service: services.NewReviewService()}
}

// Store creates a review for an item the caller has ordered.
func (rc *ReviewController) Store(c *ctx.Context) {
	var input services.ReviewInput
	if !c.BindJSON(&input) {
		return
	}

	review, err := rc.service.Create(c.UserID(), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Created(review)
}

// ForFoodItem lists reviews of one menu entry.
func (rc *ReviewController) ForFoodItem(c *ctx.Context) {
	reviews, err := rc.service.ForFoodItem(c.ParamUint("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(reviews)
}

// Mine lists the caller's own reviews.
func (rc *ReviewController) Mine(c *ctx.Context) {
	reviews, err := rc.service.ForUser(c.UserID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(reviews)
}

// Destroy removes a review (owner or admin).
func (rc *ReviewController) Destroy(c *ctx.Context) {
	principal, _ := c.Principal()
	if err := rc.service.Delete(c.ParamUint("id"), principal.ID, principal.Role); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
