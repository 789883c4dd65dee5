// Package events wires domain events to their side effects: WebSocket
// broadcasts, queued emails and admin notifications.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/campuseats/app/jobs"
	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/config"
	"github.com/shashiranjanraj/campuseats/pkg/event"
	"github.com/shashiranjanraj/campuseats/pkg/logger"
	"github.com/shashiranjanraj/campuseats/pkg/notification"
	"github.com/shashiranjanraj/campuseats/pkg/queue"
	"github.com/shashiranjanraj/campuseats/pkg/ws"
)

// Register hooks all listeners up. Call once at boot, after the hub and
// queue exist.
func Register(hub *ws.Hub) {
	event.Listen("order.placed", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}

		broadcastStatus(hub, order)

		if err := queue.Dispatch(jobs.OrderReceiptJob{OrderID: order.ID}); err != nil {
			logger.Error("events: dispatch receipt job", "order_id", order.ID, "error", err)
		}

		notifyAdmin(order)
	})

	event.Listen("order.status_changed", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		broadcastStatus(hub, order)

		if order.Status == models.OrderStatusDelivered {
			notifyDelivered(order)
		}
	})

	event.Listen("subscription.activated", func(payload interface{}) {
		sub, ok := payload.(models.UserSubscription)
		if !ok {
			return
		}
		if err := queue.Dispatch(jobs.SubscriptionActivatedJob{SubscriptionID: sub.ID}); err != nil {
			logger.Error("events: dispatch activation job", "subscription_id", sub.ID, "error", err)
		}
	})
}

// broadcastStatus pushes {order_id, status} to every connected client.
func broadcastStatus(hub *ws.Hub, order models.Order) {
	if hub == nil {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	if err != nil {
		return
	}
	hub.Broadcast <- msg
}

// orderPlacedNotification pings the kitchen's webhook (and optionally
// mail) whenever an order lands.
type orderPlacedNotification struct {
	Order models.Order
}

func (n *orderPlacedNotification) Via() []string { return []string{"webhook"} }

func (n *orderPlacedNotification) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		URL: config.Get("ADMIN_WEBHOOK_URL", ""),
		Payload: map[string]interface{}{
			"event":    "order.placed",
			"order_id": n.Order.ID,
			"total":    n.Order.Total,
			"items":    len(n.Order.Items),
			"delivery": n.Order.DeliveryType,
		},
	}
}

func notifyAdmin(order models.Order) {
	if config.Get("ADMIN_WEBHOOK_URL", "") == "" {
		return
	}
	notification.SendAsync(fmt.Sprintf("order-%d", order.ID), &orderPlacedNotification{Order: order})
}

// orderDeliveredNotification mails the customer once their order lands.
type orderDeliveredNotification struct {
	Order models.Order
}

func (n *orderDeliveredNotification) Via() []string { return []string{"mail"} }

func (n *orderDeliveredNotification) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Order #%d delivered", n.Order.ID),
		Body: fmt.Sprintf("<p>Your order #%d has been delivered. Enjoy your meal!</p>",
			n.Order.ID),
		Text: fmt.Sprintf("Your order #%d has been delivered. Enjoy your meal!", n.Order.ID),
	}
}

func notifyDelivered(order models.Order) {
	user, err := repositories.NewUserRepository().FindByID(order.UserID)
	if err != nil {
		logger.Error("events: load user for delivery mail", "order_id", order.ID, "error", err)
		return
	}
	notification.SendAsync(user.Email, &orderDeliveredNotification{Order: order})
}
