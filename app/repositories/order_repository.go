package repositories

import (
	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// FindByID looks up an order by primary key.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).Where("id = ?", id).First(&order)
	return order, err
}

// Create persists a new order.
func (r *OrderRepository) Create(order *models.Order) error {
	return orm.DB().Create(order)
}

// CreateTx persists a new order inside tx.
func (r *OrderRepository) CreateTx(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

// Update persists changes to an order.
func (r *OrderRepository) Update(order *models.Order) error {
	return orm.DB().Save(order)
}

// ForUser returns the user's orders, newest first.
func (r *OrderRepository) ForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Get(&orders)
	return orders, err
}

// All returns every order with pagination, newest first.
func (r *OrderRepository) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Order("created_at desc").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// UpdateFields applies a partial update to the order row.
func (r *OrderRepository) UpdateFields(orderID uint, fields map[string]interface{}) error {
	return orm.DB().Model(&models.Order{}).Where("id = ?", orderID).Updates(fields)
}
