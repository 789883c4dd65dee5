package services

import (
	"errors"
	"math"

	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/pkg/metrics"
	"gorm.io/gorm"
)

// WalletService implements the prepaid wallet ledger.
type WalletService struct {
	users *repositories.UserRepository
}

func NewWalletService() *WalletService {
	return &WalletService{users: repositories.NewUserRepository()}
}

// validAmount rejects zero, negative, NaN and Inf amounts before they can
// reach the ledger.
func validAmount(amount float64) bool {
	return amount > 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// Balance returns the user's current wallet balance.
func (s *WalletService) Balance(userID uint) (float64, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return user.WalletBalance, nil
}

// Credit adds amount to the user's balance. Only webhook reconciliation
// and admin tooling call this; top-ups never credit directly.
func (s *WalletService) Credit(tx *gorm.DB, userID uint, amount float64) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if err := s.users.CreditWallet(tx, userID, amount); err != nil {
		metrics.WalletOps.WithLabelValues("credit", "error").Inc()
		return err
	}
	metrics.WalletOps.WithLabelValues("credit", "ok").Inc()
	return nil
}

// Debit removes amount from the user's balance atomically. A failed debit
// leaves the balance untouched.
func (s *WalletService) Debit(userID uint, amount float64) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if err := s.users.DebitWallet(nil, userID, amount); err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			metrics.WalletOps.WithLabelValues("debit", "insufficient").Inc()
			return ErrInsufficientFunds
		}
		metrics.WalletOps.WithLabelValues("debit", "error").Inc()
		return err
	}
	metrics.WalletOps.WithLabelValues("debit", "ok").Inc()
	return nil
}
