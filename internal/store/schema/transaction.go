package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes balance increases from decreases
type TransactionKind string

const (
	// TransactionKindCredit increases the wallet balance
	TransactionKindCredit TransactionKind = "credit"
	// TransactionKindDebit decreases the wallet balance
	TransactionKindDebit TransactionKind = "debit"
)

// TransactionPurpose tags what a balance mutation paid for
type TransactionPurpose string

const (
	// PurposeWalletTopup is a credit adding spendable funds
	PurposeWalletTopup TransactionPurpose = "wallet_topup"
	// PurposeTemplateDownload is a debit paying for a template download
	PurposeTemplateDownload TransactionPurpose = "template_download"
)

// Transaction represents the transactions table - the immutable audit record of
// one wallet balance mutation. Exactly one row is appended per ledger operation,
// in the same atomic unit as the balance change; rows are never updated or deleted.
type Transaction struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TransactionID is the external identifier in the form TXN-<12 hex chars>
	TransactionID string `gorm:"column:transaction_id;not null;uniqueIndex;type:varchar(100)"`
	// WalletID references the wallet this mutation applied to
	WalletID uint64 `gorm:"column:wallet_id;not null;index"`
	// UserID is the wallet owner, denormalized for per-user history queries
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// Kind is credit or debit
	Kind TransactionKind `gorm:"column:kind;not null;type:text"`
	// Purpose tags what the mutation paid for (wallet_topup, template_download)
	Purpose TransactionPurpose `gorm:"column:purpose;not null;type:text;index"`
	// Amount is the positive magnitude of the mutation; the sign comes from Kind
	Amount decimal.Decimal `gorm:"column:amount;not null;type:numeric(12,2)"`
	// BalanceBefore is the wallet balance observed under the row lock before the mutation
	BalanceBefore decimal.Decimal `gorm:"column:balance_before;not null;type:numeric(12,2)"`
	// BalanceAfter is the wallet balance written by the same atomic unit
	BalanceAfter decimal.Decimal `gorm:"column:balance_after;not null;type:numeric(12,2)"`
	// Description is free text supplied by the caller
	Description string `gorm:"column:description;type:text"`
	// CreatedAt is the timestamp when the transaction committed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Wallet Wallet `gorm:"foreignKey:WalletID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount returns the amount with the sign implied by Kind, so the ledger
// reconciliation invariant (balance == sum of signed amounts) can be checked
// by simple summation.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == TransactionKindDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
