package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/auth"
	"github.com/shashiranjanraj/campuseats/pkg/database"
)

// setupDB points the global connection at a fresh in-memory database.
// Tests share the global handle, so none of them run in parallel.
func setupDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FoodItem{},
		&models.Order{},
		&models.Review{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.PaymentIntent{},
	))

	database.DB = db
}

func createUser(t *testing.T, email string, balance float64) models.User {
	t.Helper()

	hashed, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := models.User{
		Name:          "Test Student",
		Email:         email,
		Password:      hashed,
		Role:          "user",
		UserType:      "student",
		WalletBalance: balance,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func createItem(t *testing.T, name string, price float64, available bool) models.FoodItem {
	t.Helper()

	item := models.FoodItem{Name: name, Price: price, Category: "lunch", Available: true}
	require.NoError(t, database.DB.Create(&item).Error)

	// The column defaults to true, so an unavailable item needs an
	// explicit update after insert.
	if !available {
		require.NoError(t, database.DB.Model(&item).Update("available", false).Error)
		item.Available = false
	}
	return item
}

func createOrderWith(t *testing.T, userID uint, item models.FoodItem) models.Order {
	t.Helper()

	order := models.Order{
		UserID: userID,
		Items: models.OrderItems{
			{FoodItemID: item.ID, Name: item.Name, Price: item.Price, Quantity: 1},
		},
		Subtotal:      item.Price,
		Total:         item.Price,
		Status:        models.OrderStatusDelivered,
		DeliveryType:  models.DeliveryTypePickup,
		PaymentStatus: models.PaymentStatusCompleted,
		PaymentMethod: models.PaymentMethodWallet,
	}
	require.NoError(t, database.DB.Create(&order).Error)
	return order
}

func walletBalance(t *testing.T, userID uint) float64 {
	t.Helper()

	var user models.User
	require.NoError(t, database.DB.First(&user, userID).Error)
	return user.WalletBalance
}
