package models

import "gorm.io/gorm"

// FoodItem represents a menu entry in the catalog. AverageRating and
// RatingCount are derived from review rows and recomputed on every review
// mutation; they are never edited directly.
type FoodItem struct {
	gorm.Model
	Name          string  `gorm:"size:255;not null;index" json:"name"`
	Description   string  `gorm:"type:text"               json:"description"`
	Price         float64 `gorm:"not null;default:0"      json:"price"`
	ImageURL      string  `gorm:"size:500"                json:"image_url"`
	Category      string  `gorm:"size:100;index"          json:"category"`
	Available     bool    `gorm:"not null;default:true"   json:"available"`
	AverageRating float64 `gorm:"not null;default:0"      json:"average_rating"`
	RatingCount   int     `gorm:"not null;default:0"      json:"rating_count"`
}
