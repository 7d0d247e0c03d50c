package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents the wallets table - the per-user store of spendable balance.
// Created once per user, mutated only through ledger operations, never deleted.
type Wallet struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID is the owning user; exactly one wallet exists per user
	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex"`
	// Balance is the spendable amount; never negative, always equal to the sum of
	// the wallet's signed transaction deltas
	Balance decimal.Decimal `gorm:"column:balance;not null;type:numeric(12,2);default:0"`
	// CreatedAt is the timestamp when the wallet was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last balance mutation
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Transactions []Transaction `gorm:"foreignKey:WalletID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the Wallet model
func (Wallet) TableName() string {
	return "wallets"
}
