package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/formlane/template-billing/internal/pricing"
	"github.com/formlane/template-billing/internal/store/schema"
)

// CreditInput is the input for adding funds to a wallet
type CreditInput struct {
	UserID      uint64
	Amount      decimal.Decimal
	Purpose     schema.TransactionPurpose
	Description string
}

// DebitInput is the input for deducting funds from a wallet
type DebitInput struct {
	UserID      uint64
	Amount      decimal.Decimal
	Purpose     schema.TransactionPurpose
	Description string
}

// CreateTemplateInput is the input for creating a template. PageCount is the
// validated count extracted at the boundary; Config is stored opaquely.
type CreateTemplateInput struct {
	UserID      uint64
	Name        string
	Description string
	PageCount   int
	Config      datatypes.JSON
	IsDefault   bool
	Pricing     pricing.Config
}

// UpdateTemplateInput is the input for editing a template. Nil pointer fields
// are left unchanged; a non-nil PageCount triggers price-change detection.
type UpdateTemplateInput struct {
	TemplateID  uint64
	UserID      uint64
	Name        *string
	Description *string
	PageCount   *int
	Config      datatypes.JSON
	IsActive    *bool
	IsDefault   *bool
	Pricing     pricing.Config
}

// TemplateUpdateResult carries the updated template and, when the edit
// repriced a template that had already been downloaded, the history row
// created in the same atomic unit.
type TemplateUpdateResult struct {
	Template    *schema.Template
	PriceChange *schema.TemplatePriceHistory
}

// DownloadTemplateInput is the input for a paid template download
type DownloadTemplateInput struct {
	TemplateID uint64
	UserID     uint64
}

// DownloadResult carries everything the download unit committed
type DownloadResult struct {
	Download    *schema.TemplateDownload
	Transaction *schema.Transaction
	Template    *schema.Template
}

// TemplateQueryFilter filters template listings
type TemplateQueryFilter struct {
	UserID   uint64
	IsActive *bool
	Limit    int
	Offset   uint64
}

// PriceChangeFilter filters price history listings
type PriceChangeFilter struct {
	UnnotifiedOnly bool
	// OldestFirst orders rows changed_at ASC for sequential consumption.
	// Display listings default to newest first.
	OldestFirst bool
	Limit       int
	Offset      uint64
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetWallet retrieves a user's wallet, nil when none exists yet
	GetWallet(ctx context.Context, userID uint64) (*schema.Wallet, error)
	// Credit adds funds to a user's wallet, creating the wallet on first use.
	// The balance change and the transaction row commit as one atomic unit.
	Credit(ctx context.Context, input CreditInput) (*schema.Transaction, error)
	// Debit deducts funds from a user's wallet. The balance check, the balance
	// change, and the transaction row are one atomic unit under a wallet row
	// lock; a debit exceeding the balance fails with InsufficientFundsError
	// and leaves the balance untouched.
	Debit(ctx context.Context, input DebitInput) (*schema.Transaction, error)
	// ListTransactions returns a user's transactions, newest first, with total count
	ListTransactions(ctx context.Context, userID uint64, limit int, offset uint64) ([]schema.Transaction, uint64, error)

	// CreateTemplate persists a new template with its price computed at creation
	// time; a requested default flag clears competing defaults in the same unit
	CreateTemplate(ctx context.Context, input CreateTemplateInput) (*schema.Template, error)
	// GetTemplateByID retrieves a template, nil when it does not exist
	GetTemplateByID(ctx context.Context, templateID uint64) (*schema.Template, error)
	// ListTemplates returns a user's templates, newest first, with total count
	ListTemplates(ctx context.Context, filter TemplateQueryFilter) ([]schema.Template, uint64, error)
	// ApplyTemplateUpdate edits a template. A page-count change recomputes the
	// price; when downloads already exist a TemplatePriceHistory row is inserted
	// in the same atomic unit.
	ApplyTemplateUpdate(ctx context.Context, input UpdateTemplateInput) (*TemplateUpdateResult, error)
	// DownloadTemplate charges the template's current price and records the
	// download; the debit and the download row commit or roll back together
	DownloadTemplate(ctx context.Context, input DownloadTemplateInput) (*DownloadResult, error)
	// ListDownloads returns a user's download history, newest first, with total count
	ListDownloads(ctx context.Context, userID uint64, limit int, offset uint64) ([]schema.TemplateDownload, uint64, error)

	// ListPriceChanges returns price history rows, newest first, with total count
	ListPriceChanges(ctx context.Context, filter PriceChangeFilter) ([]schema.TemplatePriceHistory, uint64, error)
	// MarkPriceChangeNotified flips a history row's notification flag to true.
	// Idempotent: marking an already-notified row is a no-op.
	MarkPriceChangeNotified(ctx context.Context, historyID uint64) (*schema.TemplatePriceHistory, error)
}
