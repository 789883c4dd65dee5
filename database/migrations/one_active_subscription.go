package migrations

import (
	"github.com/shashiranjanraj/campuseats/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260830000000_add_one_active_subscription_index", &AddOneActiveSubscriptionIndex{})
}

// -------- 0007: one active subscription per user --------

// AddOneActiveSubscriptionIndex enforces at most one active subscription
// per user at the schema level, backing up the application-level check.
// Partial unique indexes exist on sqlite and postgres; the other drivers
// rely on the application check alone.
type AddOneActiveSubscriptionIndex struct{}

const oneActiveIndex = "idx_user_subscriptions_one_active"

func (m *AddOneActiveSubscriptionIndex) Up(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "sqlite", "postgres":
		return db.Exec(
			"CREATE UNIQUE INDEX IF NOT EXISTS " + oneActiveIndex +
				" ON user_subscriptions (user_id) WHERE is_active",
		).Error
	}
	return nil
}

func (m *AddOneActiveSubscriptionIndex) Down(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "sqlite", "postgres":
		return db.Exec("DROP INDEX IF EXISTS " + oneActiveIndex).Error
	}
	return nil
}
