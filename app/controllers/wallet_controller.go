package controllers

import (
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
)

// WalletController exposes the prepaid wallet.
type WalletController struct {
	wallet   *services.WalletService
	payments *services.PaymentService
}

func NewWalletController(payments *services.PaymentService) *WalletController {
	return &WalletController{
		wallet:   services.NewWalletService(),
		payments: payments,
	}
}

// Balance returns the caller's wallet balance.
func (wc *WalletController) Balance(c *ctx.Context) {
	balance, err := wc.wallet.Balance(c.UserID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(map[string]float64{"balance": balance})
}

// Add opens a gateway intent for a top-up. The balance is credited only
// when the webhook confirms the payment.
func (wc *WalletController) Add(c *ctx.Context) {
	var input struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if !c.BindJSON(&input) {
		return
	}

	result, err := wc.payments.CreateTopupIntent(c.UserID(), input.Amount)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(result)
}

// Deduct debits the caller's wallet atomically.
func (wc *WalletController) Deduct(c *ctx.Context) {
	var input struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if !c.BindJSON(&input) {
		return
	}

	if err := wc.wallet.Debit(c.UserID(), input.Amount); err != nil {
		respondErr(c, err)
		return
	}

	balance, err := wc.wallet.Balance(c.UserID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(map[string]float64{"balance": balance})
}

// AdminDeduct debits any user's wallet (admin).
func (wc *WalletController) AdminDeduct(c *ctx.Context) {
	var input struct {
		UserID uint    `json:"user_id" validate:"required,gte=1"`
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if !c.BindJSON(&input) {
		return
	}

	if err := wc.wallet.Debit(input.UserID, input.Amount); err != nil {
		respondErr(c, err)
		return
	}
	c.Message("Wallet debited")
}
