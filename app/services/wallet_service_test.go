package services_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/campuseats/app/services"
)

func TestDebitInsufficientLeavesBalanceUntouched(t *testing.T) {
	setupDB(t)
	svc := services.NewWalletService()
	user := createUser(t, "asha@mlrit.ac.in", 50)

	err := svc.Debit(user.ID, 80)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	assert.Equal(t, 50.0, walletBalance(t, user.ID))
}

func TestCreditAndDebit(t *testing.T) {
	setupDB(t)
	svc := services.NewWalletService()
	user := createUser(t, "asha@mlrit.ac.in", 50)

	require.NoError(t, svc.Credit(nil, user.ID, 100))
	assert.Equal(t, 150.0, walletBalance(t, user.ID))

	require.NoError(t, svc.Debit(user.ID, 150))
	assert.Equal(t, 0.0, walletBalance(t, user.ID))

	// Balance can reach exactly zero but never below.
	err := svc.Debit(user.ID, 0.01)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
}

func TestInvalidAmounts(t *testing.T) {
	setupDB(t)
	svc := services.NewWalletService()
	user := createUser(t, "asha@mlrit.ac.in", 50)

	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, svc.Debit(user.ID, amount), services.ErrInvalidAmount)
		assert.ErrorIs(t, svc.Credit(nil, user.ID, amount), services.ErrInvalidAmount)
	}
	assert.Equal(t, 50.0, walletBalance(t, user.ID))
}

func TestBalanceUnknownUser(t *testing.T) {
	setupDB(t)
	svc := services.NewWalletService()

	_, err := svc.Balance(9999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
