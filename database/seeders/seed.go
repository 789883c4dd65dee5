package seeders

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/config"
	"github.com/shashiranjanraj/campuseats/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("menu", SeedMenu)
	Register("plans", SeedPlans)
}

// SeedAdmin creates the initial admin account. Only runs when ADMIN_EMAIL
// and ADMIN_PASSWORD are configured, and never overwrites an existing row.
func SeedAdmin(db *gorm.DB) error {
	email := strings.ToLower(config.Get("ADMIN_EMAIL", ""))
	password := config.Get("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     config.Get("ADMIN_NAME", "Canteen Admin"),
		Email:    email,
		Password: hashed,
		Role:     "admin",
		UserType: "staff",
	}).Error
}

// SeedMenu inserts a starter menu when the catalog is empty.
func SeedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.FoodItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.FoodItem{
		{Name: "Masala Dosa", Description: "Crisp dosa with potato filling", Price: 60, Category: "breakfast", Available: true},
		{Name: "Idli Sambar", Description: "Two idlis with sambar and chutney", Price: 40, Category: "breakfast", Available: true},
		{Name: "Veg Thali", Description: "Rice, dal, two curries, curd and papad", Price: 110, Category: "lunch", Available: true},
		{Name: "Chicken Biryani", Description: "Hyderabadi dum biryani with raita", Price: 150, Category: "lunch", Available: true},
		{Name: "Paneer Roll", Description: "Paneer tikka wrap", Price: 80, Category: "snacks", Available: true},
		{Name: "Samosa", Description: "Two pieces with mint chutney", Price: 25, Category: "snacks", Available: true},
		{Name: "Masala Chai", Description: "Hot spiced tea", Price: 15, Category: "beverages", Available: true},
		{Name: "Cold Coffee", Description: "Iced coffee with milk", Price: 50, Category: "beverages", Available: true},
	}
	return db.Create(&items).Error
}

// SeedPlans inserts the default meal plans when none exist.
func SeedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.SubscriptionPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plans := []models.SubscriptionPlan{
		{Name: "Weekly Lunch", Description: "One lunch every day for a week", Price: 650, Duration: 7, MealsPerDay: 1, IsActive: true},
		{Name: "Weekly Full Board", Description: "Two meals a day for a week", Price: 1200, Duration: 7, MealsPerDay: 2, IsActive: true},
		{Name: "Monthly Lunch", Description: "One lunch every day for a month", Price: 2400, Duration: 30, MealsPerDay: 1, IsActive: true},
		{Name: "Monthly Full Board", Description: "Two meals a day for a month", Price: 4500, Duration: 30, MealsPerDay: 2, IsActive: true},
	}
	return db.Create(&plans).Error
}
