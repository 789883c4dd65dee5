// Package jobs defines the background jobs processed by queue workers.
package jobs

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/pkg/mail"
	"github.com/shashiranjanraj/campuseats/pkg/queue"
	"gorm.io/gorm"
)

// RegisterAll makes every job type known to the queue so workers can
// deserialize envelopes. Call once at boot.
func RegisterAll() {
	queue.Register("jobs.OrderReceiptJob", func() queue.Job { return &OrderReceiptJob{} })
	queue.Register("jobs.SubscriptionActivatedJob", func() queue.Job { return &SubscriptionActivatedJob{} })
}

// ─── OrderReceiptJob ──────────────────────────────────────────────────────────

// OrderReceiptJob mails the order receipt to the buyer.
type OrderReceiptJob struct {
	OrderID uint `json:"order_id"`
}

func (j OrderReceiptJob) Handle() error {
	orders := repositories.NewOrderRepository()
	users := repositories.NewUserRepository()

	order, err := orders.FindByID(j.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // order deleted since dispatch, nothing to send
		}
		return err
	}
	user, err := users.FindByID(order.UserID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<h2>Order #%d received</h2><p>Hi %s, your order for ₹%.2f is %s.</p>",
		order.ID, user.Name, order.Total, order.Status,
	)
	return mail.To(user.Email).
		Subject(fmt.Sprintf("CampusEats order #%d", order.ID)).
		Body(body).
		Send()
}

// ─── SubscriptionActivatedJob ─────────────────────────────────────────────────

// SubscriptionActivatedJob mails a confirmation when a plan activates.
type SubscriptionActivatedJob struct {
	SubscriptionID uint `json:"subscription_id"`
}

func (j SubscriptionActivatedJob) Handle() error {
	subs := repositories.NewSubscriptionRepository()
	users := repositories.NewUserRepository()

	sub, err := subs.FindSubscription(j.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	user, err := users.FindByID(sub.UserID)
	if err != nil {
		return err
	}

	var plan models.SubscriptionPlan
	if plan, err = subs.FindPlan(sub.PlanID); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<h2>%s is active</h2><p>Hi %s, you have %d meals until %s.</p>",
		plan.Name, user.Name, sub.RemainingMeals, sub.EndDate.Format("02 Jan 2006"),
	)
	return mail.To(user.Email).
		Subject("Your meal subscription is active").
		Body(body).
		Send()
}
