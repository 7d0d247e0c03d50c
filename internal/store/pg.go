package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/formlane/template-billing/internal/domain"
	"github.com/formlane/template-billing/internal/pricing"
	"github.com/formlane/template-billing/internal/store/schema"
)

// conflictRetryLimit bounds transparent retries of transient commit conflicts
// before they surface as ErrStorageConflict
const conflictRetryLimit = 3

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the billing tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Wallet{},
		&schema.Transaction{},
		&schema.Template{},
		&schema.TemplateDownload{},
		&schema.TemplatePriceHistory{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults: 20 open, 5 idle,
// 5 minute lifetime, 10 minute idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// isRetryableConflict reports whether an error is a transient commit conflict
// (serialization failure or deadlock) worth retrying transparently
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// withConflictRetry runs op, retrying transient commit conflicts with
// exponential backoff up to conflictRetryLimit times. Exhausted retries
// surface as ErrStorageConflict; every other error passes through unchanged.
func (s *pgStore) withConflictRetry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 200 * time.Millisecond

	err := backoff.Retry(func() error {
		if err := op(); err != nil {
			if isRetryableConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, conflictRetryLimit), ctx))

	if err != nil && isRetryableConflict(err) {
		return fmt.Errorf("%w: %s", domain.ErrStorageConflict, err)
	}
	return err
}

// newTransactionID generates an external transaction identifier (TXN-<12 hex>)
func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(hex[:12])
}

// newDownloadNumber generates an external download identifier (DL-YYYYMMDD-<8 hex>)
func newDownloadNumber(now time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("DL-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(hex[:8]))
}

// GetWallet retrieves a user's wallet, nil when none exists yet
func (s *pgStore) GetWallet(ctx context.Context, userID uint64) (*schema.Wallet, error) {
	var wallet schema.Wallet
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// Credit adds funds to a user's wallet, creating the wallet on first use
func (s *pgStore) Credit(ctx context.Context, input CreditInput) (*schema.Transaction, error) {
	if input.Amount.Sign() <= 0 {
		return nil, domain.NewValidationError("amount must be greater than zero")
	}

	var txn *schema.Transaction
	err := s.withConflictRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			wallet, err := lockOrCreateWallet(tx, input.UserID)
			if err != nil {
				return err
			}

			txn, err = appendTransaction(tx, wallet, ledgerEntry{
				Kind:        schema.TransactionKindCredit,
				Purpose:     input.Purpose,
				Amount:      input.Amount,
				Description: input.Description,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// Debit deducts funds from a user's wallet under a row lock; the balance
// check and the mutation are one atomic unit so two concurrent debits can
// never both observe a stale sufficient balance
func (s *pgStore) Debit(ctx context.Context, input DebitInput) (*schema.Transaction, error) {
	if input.Amount.Sign() <= 0 {
		return nil, domain.NewValidationError("amount must be greater than zero")
	}

	var txn *schema.Transaction
	err := s.withConflictRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			txn, err = debitWallet(tx, input)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// ListTransactions returns a user's transactions, newest first, with total count
func (s *pgStore) ListTransactions(ctx context.Context, userID uint64, limit int, offset uint64) ([]schema.Transaction, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []schema.Transaction
	err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(int(offset)). //nolint:gosec,G115
		Find(&transactions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, uint64(total), nil //nolint:gosec,G115
}

// ledgerEntry describes one balance mutation to append
type ledgerEntry struct {
	Kind        schema.TransactionKind
	Purpose     schema.TransactionPurpose
	Amount      decimal.Decimal
	Description string
}

// lockOrCreateWallet loads a wallet FOR UPDATE, creating it with zero balance
// when the user has none yet
func lockOrCreateWallet(tx *gorm.DB, userID uint64) (*schema.Wallet, error) {
	var wallet schema.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	wallet = schema.Wallet{UserID: userID, Balance: decimal.Zero}
	if err := tx.Create(&wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return &wallet, nil
}

// lockWallet loads a wallet FOR UPDATE, failing with ErrWalletNotFound when
// the user has never been credited
func lockWallet(tx *gorm.DB, userID uint64) (*schema.Wallet, error) {
	var wallet schema.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

// debitWallet performs the balance check and mutation against a locked wallet
// row. It runs inside the caller's transaction so the download flow can share
// the same atomic unit.
func debitWallet(tx *gorm.DB, input DebitInput) (*schema.Transaction, error) {
	wallet, err := lockWallet(tx, input.UserID)
	if err != nil {
		return nil, err
	}

	if wallet.Balance.LessThan(input.Amount) {
		return nil, &domain.InsufficientFundsError{
			Required:  input.Amount,
			Available: wallet.Balance,
		}
	}

	return appendTransaction(tx, wallet, ledgerEntry{
		Kind:        schema.TransactionKindDebit,
		Purpose:     input.Purpose,
		Amount:      input.Amount,
		Description: input.Description,
	})
}

// appendTransaction writes the new balance and exactly one transaction row in
// the caller's unit. Balance before/after are captured from the locked row,
// never recomputed later.
func appendTransaction(tx *gorm.DB, wallet *schema.Wallet, entry ledgerEntry) (*schema.Transaction, error) {
	balanceBefore := wallet.Balance
	var balanceAfter decimal.Decimal
	if entry.Kind == schema.TransactionKindCredit {
		balanceAfter = balanceBefore.Add(entry.Amount)
	} else {
		balanceAfter = balanceBefore.Sub(entry.Amount)
	}

	err := tx.Model(&schema.Wallet{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"balance":    balanceAfter,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}

	txn := schema.Transaction{
		TransactionID: newTransactionID(),
		WalletID:      wallet.ID,
		UserID:        wallet.UserID,
		Kind:          entry.Kind,
		Purpose:       entry.Purpose,
		Amount:        entry.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Description:   entry.Description,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	wallet.Balance = balanceAfter
	return &txn, nil
}

// CreateTemplate persists a new template with its price computed at creation time
func (s *pgStore) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*schema.Template, error) {
	quote, err := pricing.Calculate(input.PageCount, input.Pricing)
	if err != nil {
		return nil, err
	}

	template := schema.Template{
		UserID:        input.UserID,
		Name:          input.Name,
		Description:   input.Description,
		PageCount:     input.PageCount,
		BasePrice:     quote.BasePrice,
		IncludedPages: quote.IncludedPages,
		ExtraPageRate: quote.ExtraPageRate,
		CurrentPrice:  quote.Price,
		Config:        input.Config,
		IsActive:      true,
		IsDefault:     input.IsDefault,
	}

	err = s.withConflictRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if input.IsDefault {
				if err := clearDefaultTemplates(tx, input.UserID, 0); err != nil {
					return err
				}
			}

			if err := tx.Create(&template).Error; err != nil {
				return fmt.Errorf("failed to create template: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &template, nil
}

// GetTemplateByID retrieves a template, nil when it does not exist
func (s *pgStore) GetTemplateByID(ctx context.Context, templateID uint64) (*schema.Template, error) {
	var template schema.Template
	err := s.db.WithContext(ctx).Where("id = ?", templateID).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

// ListTemplates returns a user's templates, newest first, with total count
func (s *pgStore) ListTemplates(ctx context.Context, filter TemplateQueryFilter) ([]schema.Template, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Template{}).Where("user_id = ?", filter.UserID)
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	var templates []schema.Template
	err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(filter.Limit).Offset(int(filter.Offset)). //nolint:gosec,G115
		Find(&templates).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, uint64(total), nil //nolint:gosec,G115
}

// ApplyTemplateUpdate edits a template under a row lock. A page-count change
// recomputes the price from the supplied pricing snapshot; when the template
// has already been downloaded, a TemplatePriceHistory row capturing the old
// and new values is inserted in the same atomic unit.
func (s *pgStore) ApplyTemplateUpdate(ctx context.Context, input UpdateTemplateInput) (*TemplateUpdateResult, error) {
	if input.PageCount != nil {
		if err := pricing.ValidatePageCount(*input.PageCount); err != nil {
			return nil, err
		}
	}

	var result *TemplateUpdateResult
	err := s.withConflictRetry(ctx, func() error {
		result = nil
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			template, err := lockTemplate(tx, input.TemplateID, input.UserID)
			if err != nil {
				return err
			}

			updates := map[string]interface{}{
				"updated_at": gorm.Expr("now()"),
			}

			var history *schema.TemplatePriceHistory
			if input.PageCount != nil {
				change, err := pricing.DetectChange(template.PageCount, *input.PageCount, template.CurrentPrice, input.Pricing)
				if err != nil {
					return err
				}

				if change != nil {
					var downloadCount int64
					err := tx.Model(&schema.TemplateDownload{}).
						Where("template_id = ?", template.ID).
						Count(&downloadCount).Error
					if err != nil {
						return fmt.Errorf("failed to count downloads: %w", err)
					}

					updates["page_count"] = change.NewPageCount
					updates["current_price"] = change.NewPrice
					updates["base_price"] = input.Pricing.BasePrice
					updates["included_pages"] = input.Pricing.IncludedPages
					updates["extra_page_rate"] = input.Pricing.ExtraPageRate

					// Money already changed hands at the old price, so the
					// repricing gets an audit row awaiting notification
					if downloadCount > 0 {
						history = &schema.TemplatePriceHistory{
							TemplateID:            template.ID,
							UserID:                input.UserID,
							OldPageCount:          change.OldPageCount,
							NewPageCount:          change.NewPageCount,
							OldPrice:              change.OldPrice,
							NewPrice:              change.NewPrice,
							DownloadsBeforeChange: downloadCount,
							NotificationSent:      false,
						}
						if err := tx.Create(history).Error; err != nil {
							return fmt.Errorf("failed to create price history: %w", err)
						}
					}
				}
			}

			if input.Config != nil {
				updates["config"] = input.Config
			}
			if input.Name != nil {
				updates["name"] = *input.Name
			}
			if input.Description != nil {
				updates["description"] = *input.Description
			}
			if input.IsActive != nil {
				updates["is_active"] = *input.IsActive
			}
			if input.IsDefault != nil {
				if *input.IsDefault {
					if err := clearDefaultTemplates(tx, input.UserID, template.ID); err != nil {
						return err
					}
				}
				updates["is_default"] = *input.IsDefault
			}

			err = tx.Model(&schema.Template{}).
				Where("id = ?", template.ID).
				Updates(updates).Error
			if err != nil {
				return fmt.Errorf("failed to update template: %w", err)
			}

			var updated schema.Template
			if err := tx.Where("id = ?", template.ID).First(&updated).Error; err != nil {
				return fmt.Errorf("failed to reload template: %w", err)
			}

			result = &TemplateUpdateResult{Template: &updated, PriceChange: history}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DownloadTemplate charges the template's stored current price and records the
// download. The debit, the transaction row, the download row, and the
// last-used bump are one atomic unit: if any step fails the whole unit rolls
// back, so money is never taken without a download record.
func (s *pgStore) DownloadTemplate(ctx context.Context, input DownloadTemplateInput) (*DownloadResult, error) {
	var result *DownloadResult
	err := s.withConflictRetry(ctx, func() error {
		result = nil
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			template, err := lockTemplate(tx, input.TemplateID, input.UserID)
			if err != nil {
				return err
			}
			if !template.IsActive {
				return domain.ErrTemplateInactive
			}

			// The stored computed price is charged as-is, never recomputed
			// from the page count at download time
			txn, err := debitWallet(tx, DebitInput{
				UserID:  input.UserID,
				Amount:  template.CurrentPrice,
				Purpose: schema.PurposeTemplateDownload,
				Description: fmt.Sprintf("Template download: %s (%d pages)",
					template.Name, template.PageCount),
			})
			if err != nil {
				return err
			}

			download := schema.TemplateDownload{
				DownloadNumber:  newDownloadNumber(time.Now()),
				TemplateID:      template.ID,
				UserID:          input.UserID,
				PagesAtDownload: template.PageCount,
				PriceCharged:    template.CurrentPrice,
				TransactionID:   txn.ID,
			}
			if err := tx.Create(&download).Error; err != nil {
				return fmt.Errorf("failed to create download: %w", err)
			}

			err = tx.Model(&schema.Template{}).
				Where("id = ?", template.ID).
				Updates(map[string]interface{}{
					"last_used_at": gorm.Expr("now()"),
					"updated_at":   gorm.Expr("now()"),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update template last used: %w", err)
			}

			result = &DownloadResult{
				Download:    &download,
				Transaction: txn,
				Template:    template,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListDownloads returns a user's download history, newest first, with total count
func (s *pgStore) ListDownloads(ctx context.Context, userID uint64, limit int, offset uint64) ([]schema.TemplateDownload, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.TemplateDownload{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count downloads: %w", err)
	}

	var downloads []schema.TemplateDownload
	err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(int(offset)). //nolint:gosec,G115
		Find(&downloads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list downloads: %w", err)
	}

	return downloads, uint64(total), nil //nolint:gosec,G115
}

// ListPriceChanges returns price history rows with total count, newest first
// unless the filter asks for oldest first
func (s *pgStore) ListPriceChanges(ctx context.Context, filter PriceChangeFilter) ([]schema.TemplatePriceHistory, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.TemplatePriceHistory{})
	if filter.UnnotifiedOnly {
		query = query.Where("notification_sent = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count price changes: %w", err)
	}

	ordering := "changed_at DESC, id DESC"
	if filter.OldestFirst {
		ordering = "changed_at ASC, id ASC"
	}

	var history []schema.TemplatePriceHistory
	err := query.
		Order(ordering).
		Limit(filter.Limit).Offset(int(filter.Offset)). //nolint:gosec,G115
		Find(&history).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list price changes: %w", err)
	}

	return history, uint64(total), nil //nolint:gosec,G115
}

// MarkPriceChangeNotified flips a history row's notification flag to true and
// stamps the acknowledgment time. The conditional update makes the false->true
// transition happen exactly once; marking an already-notified row is a no-op.
func (s *pgStore) MarkPriceChangeNotified(ctx context.Context, historyID uint64) (*schema.TemplatePriceHistory, error) {
	err := s.db.WithContext(ctx).Model(&schema.TemplatePriceHistory{}).
		Where("id = ? AND notification_sent = ?", historyID, false).
		Updates(map[string]interface{}{
			"notification_sent": true,
			"notified_at":       gorm.Expr("now()"),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark price change notified: %w", err)
	}

	var history schema.TemplatePriceHistory
	err = s.db.WithContext(ctx).Where("id = ?", historyID).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPriceChangeNotFound
		}
		return nil, fmt.Errorf("failed to get price change: %w", err)
	}

	return &history, nil
}

// clearDefaultTemplates unsets the default flag on the user's other templates
// so at most one default exists per user. excludeID 0 means no exclusion.
func clearDefaultTemplates(tx *gorm.DB, userID uint64, excludeID uint64) error {
	query := tx.Model(&schema.Template{}).
		Where("user_id = ? AND is_default = ?", userID, true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to clear default templates: %w", err)
	}
	return nil
}

// lockTemplate loads a template FOR UPDATE and verifies ownership
func lockTemplate(tx *gorm.DB, templateID, userID uint64) (*schema.Template, error) {
	var template schema.Template
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", templateID).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to lock template: %w", err)
	}
	if template.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return &template, nil
}
