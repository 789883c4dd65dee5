// Package controllers holds the HTTP handlers. Each controller is a thin
// adapter: bind + validate the payload, call a service, translate the
// result into the JSON envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
	"github.com/shashiranjanraj/campuseats/pkg/logger"
)

// respondErr maps service sentinel errors to HTTP statuses. Unknown
// errors are logged and collapse to a generic 500 so internals never
// leak to clients.
func respondErr(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrAccessDenied),
		errors.Is(err, services.ErrNotEligible):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrActiveSubscriptionExists):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUpstreamPayment):
		c.Error(http.StatusBadGateway, err.Error())
	case errors.Is(err, services.ErrEmailDomain),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrAmountMismatch),
		errors.Is(err, services.ErrBadSignature),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrNoActiveSubscription),
		errors.Is(err, services.ErrNoMealsRemaining),
		errors.Is(err, services.ErrPlanInactive):
		c.Error(http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "path", c.Path(), "error", err)
		c.Error(http.StatusInternalServerError, "Something went wrong")
	}
}
