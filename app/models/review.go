package models

import "gorm.io/gorm"

// Review is a user's rating of a food item, tied to the order that
// qualifies them to review it.
type Review struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	FoodItemID uint   `gorm:"not null;index" json:"food_item_id"`
	OrderID    uint   `gorm:"not null;index" json:"order_id"`
	Rating     int    `gorm:"not null" json:"rating"` // 1..5
	Comment    string `gorm:"type:text" json:"comment"`
}
