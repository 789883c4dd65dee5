package repositories

import (
	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/pkg/orm"
	"gorm.io/gorm"
)

// PaymentRepository handles database operations for PaymentIntent.
type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// Create persists a new payment intent.
func (r *PaymentRepository) Create(intent *models.PaymentIntent) error {
	return orm.DB().Create(intent)
}

// FindByReference looks up an intent by the gateway reference.
func (r *PaymentRepository) FindByReference(reference string) (models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := orm.DB().Model(&models.PaymentIntent{}).
		Where("reference = ?", reference).
		First(&intent)
	return intent, err
}

// FindByReferenceTx looks up an intent by reference inside tx.
func (r *PaymentRepository) FindByReferenceTx(tx *gorm.DB, reference string) (models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := tx.Model(&models.PaymentIntent{}).
		Where("reference = ?", reference).
		First(&intent).Error
	return intent, err
}

// ClaimPendingTx moves a pending intent to its terminal status with a
// conditional UPDATE, so only one of any concurrent duplicate deliveries
// wins the row. Returns the claimed intent and whether the claim matched.
func (r *PaymentRepository) ClaimPendingTx(tx *gorm.DB, reference, status string) (models.PaymentIntent, bool, error) {
	result := tx.Model(&models.PaymentIntent{}).
		Where("reference = ? AND status = ?", reference, models.IntentStatusPending).
		Update("status", status)
	if result.Error != nil {
		return models.PaymentIntent{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PaymentIntent{}, false, nil
	}

	intent, err := r.FindByReferenceTx(tx, reference)
	if err != nil {
		return models.PaymentIntent{}, false, err
	}
	return intent, true, nil
}
