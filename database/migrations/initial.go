package migrations

import (
	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260201000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260201000001_create_food_items_table", &CreateFoodItemsTable{})
	migration.Register("20260201000002_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260201000003_create_reviews_table", &CreateReviewsTable{})
	migration.Register("20260201000004_create_subscription_tables", &CreateSubscriptionTables{})
	migration.Register("20260201000005_create_payment_intents_table", &CreatePaymentIntentsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: food items --------

type CreateFoodItemsTable struct{}

func (m *CreateFoodItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.FoodItem{})
}

func (m *CreateFoodItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("food_items")
}

// -------- 0003: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}

// -------- 0004: reviews --------

type CreateReviewsTable struct{}

func (m *CreateReviewsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Review{})
}

func (m *CreateReviewsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("reviews")
}

// -------- 0005: subscription plans + user subscriptions --------

type CreateSubscriptionTables struct{}

func (m *CreateSubscriptionTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.SubscriptionPlan{}, &models.UserSubscription{})
}

func (m *CreateSubscriptionTables) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("user_subscriptions"); err != nil {
		return err
	}
	return db.Migrator().DropTable("subscription_plans")
}

// -------- 0006: payment intents --------

type CreatePaymentIntentsTable struct{}

func (m *CreatePaymentIntentsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.PaymentIntent{})
}

func (m *CreatePaymentIntentsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("payment_intents")
}
