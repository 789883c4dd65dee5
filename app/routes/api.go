package routes

import (
	"net/http"

	"github.com/shashiranjanraj/campuseats/app/controllers"
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
	"github.com/shashiranjanraj/campuseats/pkg/middleware"
	"github.com/shashiranjanraj/campuseats/pkg/rbac"
	"github.com/shashiranjanraj/campuseats/pkg/router"
	"github.com/shashiranjanraj/campuseats/pkg/ws"
)

// Deps carries the shared singletons routes need. Tests inject their own
// payment service (stub gateway) and hub.
type Deps struct {
	Payments *services.PaymentService
	Hub      *ws.Hub
}

// RegisterAPI mounts every route.
func RegisterAPI(r *router.Router, deps Deps) {
	if deps.Payments == nil {
		deps.Payments = services.NewPaymentService(services.NewGatewayFromConfig())
	}

	authService := services.NewAuthService()
	authController := controllers.NewAuthController()
	catalogController := controllers.NewCatalogController()
	orderController := controllers.NewOrderController()
	walletController := controllers.NewWalletController(deps.Payments)
	subController := controllers.NewSubscriptionController()
	reviewController := controllers.NewReviewController()
	paymentController := controllers.NewPaymentController(deps.Payments)

	// Fresh row per request so role changes apply immediately.
	lookup := middleware.LookupFunc(func(id uint) (middleware.Principal, bool) {
		user, ok := authService.Lookup(id)
		if !ok {
			return middleware.Principal{}, false
		}
		return middleware.Principal{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		}, true
	})
	authed := middleware.Auth(lookup)

	api := r.Group("/api")

	// ── Public ──────────────────────────────────────────────────────────
	api.Post("/auth/register", "auth.register", ctx.Wrap(authController.Register), rbac.Guest)
	api.Post("/auth/login", "auth.login", ctx.Wrap(authController.Login), rbac.Guest)

	api.Get("/food-items", "catalog.index", ctx.Wrap(catalogController.Index))
	api.Get("/food-items/{id}", "catalog.show", ctx.Wrap(catalogController.Show))
	api.Get("/food-items/{id}/reviews", "reviews.for_item", ctx.Wrap(reviewController.ForFoodItem))

	api.Get("/subscription-plans", "plans.index", ctx.Wrap(subController.Plans))
	api.Get("/subscription-plans/{id}", "plans.show", ctx.Wrap(subController.ShowPlan))

	// Server-to-server; authenticated by signature, not session.
	api.Post("/payment-webhook", "payments.webhook", ctx.Wrap(paymentController.Webhook))

	// ── Authenticated ───────────────────────────────────────────────────
	user := api.Group("", authed)

	user.Post("/auth/logout", "auth.logout", ctx.Wrap(authController.Logout))
	user.Get("/auth/user", "auth.user", ctx.Wrap(authController.CurrentUser))
	user.Put("/profile", "profile.update", ctx.Wrap(authController.UpdateProfile))

	user.Post("/orders", "orders.store", ctx.Wrap(orderController.Store))
	user.Get("/orders", "orders.index", ctx.Wrap(orderController.Index))
	user.Get("/orders/{id}", "orders.show", ctx.Wrap(orderController.Show))

	user.Post("/create-payment-intent", "payments.order_intent", ctx.Wrap(paymentController.CreateOrderIntent))
	user.Post("/create-subscription-payment", "payments.subscription_intent", ctx.Wrap(paymentController.CreateSubscriptionIntent))

	user.Get("/wallet/balance", "wallet.balance", ctx.Wrap(walletController.Balance))
	user.Post("/wallet/add", "wallet.add", ctx.Wrap(walletController.Add))
	user.Post("/wallet/deduct", "wallet.deduct", ctx.Wrap(walletController.Deduct))

	user.Get("/user/subscriptions", "subscriptions.history", ctx.Wrap(subController.History))
	user.Get("/user/active-subscription", "subscriptions.active", ctx.Wrap(subController.Active))
	user.Post("/subscriptions/meals/deduct", "subscriptions.redeem", ctx.Wrap(subController.RedeemMeal))
	user.Post("/user/subscription/cancel", "subscriptions.cancel", ctx.Wrap(subController.Cancel))

	user.Post("/reviews", "reviews.store", ctx.Wrap(reviewController.Store))
	user.Get("/user/reviews", "reviews.mine", ctx.Wrap(reviewController.Mine))
	user.Delete("/reviews/{id}", "reviews.destroy", ctx.Wrap(reviewController.Destroy))

	// ── Admin ───────────────────────────────────────────────────────────
	admin := api.Group("/admin", authed, rbac.HasRole("admin"))

	admin.Post("/food-items", "admin.catalog.store", ctx.Wrap(catalogController.Store))
	admin.Put("/food-items/{id}", "admin.catalog.update", ctx.Wrap(catalogController.Update))
	admin.Delete("/food-items/{id}", "admin.catalog.destroy", ctx.Wrap(catalogController.Destroy))
	admin.Post("/food-items/{id}/image", "admin.catalog.image", ctx.Wrap(catalogController.UploadImage))

	admin.Get("/orders", "admin.orders.index", ctx.Wrap(orderController.AdminIndex))
	admin.Patch("/orders/{id}/status", "admin.orders.status", ctx.Wrap(orderController.UpdateStatus))
	admin.Post("/orders/{id}/verification-code", "admin.orders.code", ctx.Wrap(orderController.IssueVerificationCode))

	admin.Post("/subscription-plans", "admin.plans.store", ctx.Wrap(subController.StorePlan))
	admin.Put("/subscription-plans/{id}", "admin.plans.update", ctx.Wrap(subController.UpdatePlan))
	admin.Delete("/subscription-plans/{id}", "admin.plans.destroy", ctx.Wrap(subController.DestroyPlan))
	admin.Get("/subscriptions", "admin.subscriptions.index", ctx.Wrap(subController.AdminIndex))

	admin.Post("/wallet/deduct", "admin.wallet.deduct", ctx.Wrap(walletController.AdminDeduct))

	// ── Realtime ────────────────────────────────────────────────────────
	if deps.Hub != nil {
		hub := deps.Hub
		r.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, req *http.Request) {
			ws.Upgrade(w, req, hub)
		}, authed)
	}
}
