package repositories

import (
	"time"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/cache"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

const foodCacheKey = "campuseats:catalog:all"

// FoodRepository handles database operations for FoodItem.
type FoodRepository struct{}

func NewFoodRepository() *FoodRepository {
	return &FoodRepository{}
}

// All returns the full catalog, read through the cache.
func (r *FoodRepository) All() ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := orm.DB().Model(&models.FoodItem{}).
		Order("id asc").
		Cache(foodCacheKey, 5*time.Minute, &items)
	return items, err
}

// FindByID looks up a food item by primary key.
func (r *FoodRepository) FindByID(id uint) (models.FoodItem, error) {
	var item models.FoodItem
	err := orm.DB().Model(&models.FoodItem{}).Where("id = ?", id).First(&item)
	return item, err
}

// FindByIDs returns the items matching ids (unordered).
func (r *FoodRepository) FindByIDs(ids []uint) ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := orm.DB().Model(&models.FoodItem{}).Where("id IN ?", ids).Get(&items)
	return items, err
}

// Create persists a new food item and busts the catalog cache.
func (r *FoodRepository) Create(item *models.FoodItem) error {
	if err := orm.DB().Create(item); err != nil {
		return err
	}
	cache.Forget(foodCacheKey)
	return nil
}

// Update persists changes to a food item and busts the catalog cache.
func (r *FoodRepository) Update(item *models.FoodItem) error {
	if err := orm.DB().Save(item); err != nil {
		return err
	}
	cache.Forget(foodCacheKey)
	return nil
}

// Delete removes a food item permanently. Order snapshots keep their own
// copy of the line items, so history is unaffected.
func (r *FoodRepository) Delete(item *models.FoodItem) error {
	if err := orm.DB().Unscoped().Delete(item); err != nil {
		return err
	}
	cache.Forget(foodCacheKey)
	return nil
}

// UpdateRating writes the recomputed aggregate inside tx.
func (r *FoodRepository) UpdateRating(tx *gorm.DB, foodItemID uint, avg float64, count int) error {
	err := tx.Model(&models.FoodItem{}).
		Where("id = ?", foodItemID).
		Updates(map[string]interface{}{
			"average_rating": avg,
			"rating_count":   count,
		}).Error
	if err != nil {
		return err
	}
	cache.Forget(foodCacheKey)
	return nil
}
