// Package resources shapes models into API responses.
package resources

import (
	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/resource"
)

// UserResource hides internal columns and exposes the profile shape the
// client expects.
type UserResource struct{ resource.Base }

func (r *UserResource) ToArray(v interface{}) resource.Map {
	u, ok := v.(models.User)
	if !ok {
		return resource.Map{}
	}
	return resource.Map{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"role":           u.Role,
		"user_type":      u.UserType,
		"hostel_type":    u.HostelType,
		"hostel_block":   u.HostelBlock,
		"room_number":    u.RoomNumber,
		"wallet_balance": u.WalletBalance,
		"created_at":     u.CreatedAt,
	}
}

// UserMap is a convenience for controllers that respond inside the
// standard envelope rather than through resource.Respond.
func UserMap(u models.User) resource.Map {
	return (&UserResource{}).ToArray(u)
}

// FoodItemResource exposes a menu entry with its derived rating.
type FoodItemResource struct{ resource.Base }

func (r *FoodItemResource) ToArray(v interface{}) resource.Map {
	item, ok := v.(models.FoodItem)
	if !ok {
		return resource.Map{}
	}
	return resource.Map{
		"id":             item.ID,
		"name":           item.Name,
		"description":    item.Description,
		"price":          item.Price,
		"image_url":      item.ImageURL,
		"category":       item.Category,
		"available":      item.Available,
		"average_rating": item.AverageRating,
		"rating_count":   item.RatingCount,
	}
}

// FoodItemMap is the envelope-friendly counterpart of FoodItemResource.
func FoodItemMap(item models.FoodItem) resource.Map {
	return (&FoodItemResource{}).ToArray(item)
}
