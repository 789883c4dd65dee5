package repositories

import (
	"errors"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/database"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned by DebitWallet when the conditional
// update matched no row.
var ErrInsufficientBalance = errors.New("repositories: insufficient wallet balance")

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// EmailExists reports whether any user already uses email.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var n int64
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).Count(&n)
	return n > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// All returns all users with pagination.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := orm.DB().Model(&models.User{}).GetWithPagination(&users, page, limit)
	return users, pagination, err
}

// CreditWallet adds amount to the user's balance in a single UPDATE.
func (r *UserRepository) CreditWallet(tx *gorm.DB, userID uint, amount float64) error {
	if tx == nil {
		tx = database.DB
	}
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error
}

// DebitWallet subtracts amount from the user's balance with a conditional
// UPDATE so the balance can never go negative, even under concurrent
// debits. Returns ErrInsufficientBalance when the guard fails.
func (r *UserRepository) DebitWallet(tx *gorm.DB, userID uint, amount float64) error {
	if tx == nil {
		tx = database.DB
	}
	result := tx.Model(&models.User{}).
		Where("id = ? AND wallet_balance >= ?", userID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
