package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/formlane/template-billing/internal/domain"
	"github.com/formlane/template-billing/internal/pricing"
	"github.com/formlane/template-billing/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTopup creates a wallet topup input
func buildTopup(userID uint64, amount string) CreditInput {
	return CreditInput{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Purpose:     schema.PurposeWalletTopup,
		Description: "Wallet topup",
	}
}

// buildCharge creates a download charge input
func buildCharge(userID uint64, amount string) DebitInput {
	return DebitInput{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Purpose:     schema.PurposeTemplateDownload,
		Description: "Template download",
	}
}

// buildTemplate creates a template input with the default pricing model
func buildTemplate(userID uint64, name string, pageCount int) CreateTemplateInput {
	return CreateTemplateInput{
		UserID:    userID,
		Name:      name,
		PageCount: pageCount,
		Config:    datatypes.JSON(`{"orientation":"portrait","margins":"normal"}`),
		Pricing:   pricing.DefaultConfig(),
	}
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(mustDecimal(expected)),
		"expected %s, got %s", expected, actual)
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

// =============================================================================
// Wallet Tests
// =============================================================================

func testCreditWallet(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(1001)

	// No wallet until the first credit
	wallet, err := store.GetWallet(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, wallet)

	txn, err := store.Credit(ctx, buildTopup(userID, "100.00"))
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.True(t, strings.HasPrefix(txn.TransactionID, "TXN-"))
	assert.Len(t, txn.TransactionID, 16)
	assert.Equal(t, schema.TransactionKindCredit, txn.Kind)
	assert.Equal(t, schema.PurposeWalletTopup, txn.Purpose)
	assertDecimalEqual(t, "100.00", txn.Amount)
	assertDecimalEqual(t, "0", txn.BalanceBefore)
	assertDecimalEqual(t, "100.00", txn.BalanceAfter)

	wallet, err = store.GetWallet(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, userID, wallet.UserID)
	assertDecimalEqual(t, "100.00", wallet.Balance)

	// Second credit reuses the wallet
	txn2, err := store.Credit(ctx, buildTopup(userID, "25.50"))
	require.NoError(t, err)
	assertDecimalEqual(t, "100.00", txn2.BalanceBefore)
	assertDecimalEqual(t, "125.50", txn2.BalanceAfter)
	assert.Equal(t, txn.WalletID, txn2.WalletID)
}

func testCreditValidation(t *testing.T, store Store) {
	ctx := context.Background()

	var valErr *domain.ValidationError

	_, err := store.Credit(ctx, buildTopup(1002, "0"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &valErr)

	_, err = store.Credit(ctx, buildTopup(1002, "-5.00"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &valErr)

	// Nothing was created
	wallet, err := store.GetWallet(ctx, 1002)
	require.NoError(t, err)
	assert.Nil(t, wallet)
}

func testDebitWallet(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(1003)

	_, err := store.Credit(ctx, buildTopup(userID, "100.00"))
	require.NoError(t, err)

	txn, err := store.Debit(ctx, buildCharge(userID, "37.00"))
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.Equal(t, schema.TransactionKindDebit, txn.Kind)
	assert.Equal(t, schema.PurposeTemplateDownload, txn.Purpose)
	assertDecimalEqual(t, "100.00", txn.BalanceBefore)
	assertDecimalEqual(t, "63.00", txn.BalanceAfter)
	assertDecimalEqual(t, "-37.00", txn.SignedAmount())

	// Draining the wallet to exactly zero is allowed
	_, err = store.Debit(ctx, buildCharge(userID, "63.00"))
	require.NoError(t, err)

	wallet, err := store.GetWallet(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assertDecimalEqual(t, "0", wallet.Balance)
}

func testDebitInsufficientFunds(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(1004)

	_, err := store.Credit(ctx, buildTopup(userID, "10.00"))
	require.NoError(t, err)

	_, err = store.Debit(ctx, buildCharge(userID, "37.00"))
	require.Error(t, err)

	var fundsErr *domain.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assertDecimalEqual(t, "37.00", fundsErr.Required)
	assertDecimalEqual(t, "10.00", fundsErr.Available)
	assert.Contains(t, fundsErr.Error(), "insufficient balance")

	// The failed debit left no trace
	wallet, err := store.GetWallet(ctx, userID)
	require.NoError(t, err)
	assertDecimalEqual(t, "10.00", wallet.Balance)

	_, total, err := store.ListTransactions(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
}

func testDebitWithoutWallet(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Debit(ctx, buildCharge(1005, "1.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func testListTransactions(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(1006)

	amounts := []string{"10.00", "20.00", "30.00"}
	for _, amount := range amounts {
		_, err := store.Credit(ctx, buildTopup(userID, amount))
		require.NoError(t, err)
	}

	transactions, total, err := store.ListTransactions(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, transactions, 3)

	// Newest first
	assertDecimalEqual(t, "30.00", transactions[0].Amount)
	assertDecimalEqual(t, "10.00", transactions[2].Amount)

	// Pagination
	page, total, err := store.ListTransactions(ctx, userID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, page, 2)
	assertDecimalEqual(t, "20.00", page[0].Amount)

	// Other users see nothing
	_, total, err = store.ListTransactions(ctx, 999999, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
}

// =============================================================================
// Template Tests
// =============================================================================

func testCreateTemplate(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(2001)

	template, err := store.CreateTemplate(ctx, buildTemplate(userID, "Invoice", 35))
	require.NoError(t, err)
	require.NotNil(t, template)

	assert.Equal(t, userID, template.UserID)
	assert.Equal(t, "Invoice", template.Name)
	assert.Equal(t, 35, template.PageCount)
	assertDecimalEqual(t, "42.00", template.CurrentPrice)
	assertDecimalEqual(t, "37.00", template.BasePrice)
	assert.Equal(t, 30, template.IncludedPages)
	assertDecimalEqual(t, "1.00", template.ExtraPageRate)
	assert.True(t, template.IsActive)
	assert.False(t, template.IsDefault)
	assert.Nil(t, template.LastUsedAt)

	// Pages at or under the included allowance cost the base price
	small, err := store.CreateTemplate(ctx, buildTemplate(userID, "Letter", 12))
	require.NoError(t, err)
	assertDecimalEqual(t, "37.00", small.CurrentPrice)
}

func testCreateTemplateValidation(t *testing.T, store Store) {
	ctx := context.Background()

	var valErr *domain.ValidationError

	input := buildTemplate(2002, "Empty", 0)
	_, err := store.CreateTemplate(ctx, input)
	require.Error(t, err)
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "template must have at least 1 page", valErr.Error())

	input = buildTemplate(2002, "Huge", 1001)
	_, err = store.CreateTemplate(ctx, input)
	require.Error(t, err)
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "template cannot exceed 1000 pages", valErr.Error())
}

func testDefaultTemplateExclusivity(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(2003)

	first := buildTemplate(userID, "First", 10)
	first.IsDefault = true
	created1, err := store.CreateTemplate(ctx, first)
	require.NoError(t, err)
	assert.True(t, created1.IsDefault)

	second := buildTemplate(userID, "Second", 20)
	second.IsDefault = true
	created2, err := store.CreateTemplate(ctx, second)
	require.NoError(t, err)
	assert.True(t, created2.IsDefault)

	// Creating a second default demoted the first
	reloaded1, err := store.GetTemplateByID(ctx, created1.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded1)
	assert.False(t, reloaded1.IsDefault)

	// Promoting via update demotes the current default too
	result, err := store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: created1.ID,
		UserID:     userID,
		IsDefault:  boolPtr(true),
		Pricing:    pricing.DefaultConfig(),
	})
	require.NoError(t, err)
	assert.True(t, result.Template.IsDefault)

	reloaded2, err := store.GetTemplateByID(ctx, created2.ID)
	require.NoError(t, err)
	assert.False(t, reloaded2.IsDefault)
}

func testListTemplates(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(2004)

	for i, name := range []string{"A", "B", "C"} {
		created, err := store.CreateTemplate(ctx, buildTemplate(userID, name, 10+i))
		require.NoError(t, err)

		if name == "C" {
			_, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
				TemplateID: created.ID,
				UserID:     userID,
				IsActive:   boolPtr(false),
				Pricing:    pricing.DefaultConfig(),
			})
			require.NoError(t, err)
		}
	}

	templates, total, err := store.ListTemplates(ctx, TemplateQueryFilter{UserID: userID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Len(t, templates, 3)

	active, total, err := store.ListTemplates(ctx, TemplateQueryFilter{
		UserID:   userID,
		IsActive: boolPtr(true),
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	for _, template := range active {
		assert.True(t, template.IsActive)
	}

	// Missing template reads as nil, not an error
	missing, err := store.GetTemplateByID(ctx, 12345678)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testApplyTemplateUpdate(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(2005)

	created, err := store.CreateTemplate(ctx, buildTemplate(userID, "Report", 35))
	require.NoError(t, err)

	// Metadata-only edit keeps the price and creates no history
	result, err := store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID:  created.ID,
		UserID:      userID,
		Name:        stringPtr("Quarterly Report"),
		Description: stringPtr("Q3 figures"),
		Pricing:     pricing.DefaultConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", result.Template.Name)
	assert.Equal(t, "Q3 figures", result.Template.Description)
	assertDecimalEqual(t, "42.00", result.Template.CurrentPrice)
	assert.Nil(t, result.PriceChange)

	// Repricing before any download also creates no history
	result, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: created.ID,
		UserID:     userID,
		PageCount:  intPtr(50),
		Pricing:    pricing.DefaultConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Template.PageCount)
	assertDecimalEqual(t, "57.00", result.Template.CurrentPrice)
	assert.Nil(t, result.PriceChange)

	// Same page count within the included allowance keeps the base price
	result, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: created.ID,
		UserID:     userID,
		PageCount:  intPtr(25),
		Pricing:    pricing.DefaultConfig(),
	})
	require.NoError(t, err)
	assertDecimalEqual(t, "37.00", result.Template.CurrentPrice)

	// Ownership and existence checks
	_, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: created.ID,
		UserID:     userID + 1,
		Pricing:    pricing.DefaultConfig(),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: 12345678,
		UserID:     userID,
		Pricing:    pricing.DefaultConfig(),
	})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	var valErr *domain.ValidationError
	_, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: created.ID,
		UserID:     userID,
		PageCount:  intPtr(5000),
		Pricing:    pricing.DefaultConfig(),
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &valErr)
}

// =============================================================================
// Download Tests
// =============================================================================

func testDownloadTemplate(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(3001)

	_, err := store.Credit(ctx, buildTopup(userID, "100.00"))
	require.NoError(t, err)

	template, err := store.CreateTemplate(ctx, buildTemplate(userID, "Contract", 35))
	require.NoError(t, err)

	result, err := store.DownloadTemplate(ctx, DownloadTemplateInput{
		TemplateID: template.ID,
		UserID:     userID,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	download := result.Download
	assert.True(t, strings.HasPrefix(download.DownloadNumber,
		fmt.Sprintf("DL-%s-", time.Now().UTC().Format("20060102"))))
	assert.Equal(t, 35, download.PagesAtDownload)
	assertDecimalEqual(t, "42.00", download.PriceCharged)
	assert.Equal(t, result.Transaction.ID, download.TransactionID)

	txn := result.Transaction
	assert.Equal(t, schema.TransactionKindDebit, txn.Kind)
	assert.Equal(t, schema.PurposeTemplateDownload, txn.Purpose)
	assert.Equal(t, "Template download: Contract (35 pages)", txn.Description)
	assertDecimalEqual(t, "100.00", txn.BalanceBefore)
	assertDecimalEqual(t, "58.00", txn.BalanceAfter)

	updated, err := store.GetTemplateByID(ctx, template.ID)
	require.NoError(t, err)
	assert.NotNil(t, updated.LastUsedAt)
}

func testDownloadTemplateErrors(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(3002)

	_, err := store.Credit(ctx, buildTopup(userID, "5.00"))
	require.NoError(t, err)

	template, err := store.CreateTemplate(ctx, buildTemplate(userID, "Brochure", 35))
	require.NoError(t, err)

	// Missing template
	_, err = store.DownloadTemplate(ctx, DownloadTemplateInput{TemplateID: 12345678, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	// Someone else's template
	_, err = store.DownloadTemplate(ctx, DownloadTemplateInput{TemplateID: template.ID, UserID: userID + 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Balance below the price
	_, err = store.DownloadTemplate(ctx, DownloadTemplateInput{TemplateID: template.ID, UserID: userID})
	var fundsErr *domain.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assertDecimalEqual(t, "42.00", fundsErr.Required)
	assertDecimalEqual(t, "5.00", fundsErr.Available)

	// The failed charge recorded no download
	_, total, err := store.ListDownloads(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)

	// Deactivated template refuses downloads
	_, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: template.ID,
		UserID:     userID,
		IsActive:   boolPtr(false),
		Pricing:    pricing.DefaultConfig(),
	})
	require.NoError(t, err)

	_, err = store.DownloadTemplate(ctx, DownloadTemplateInput{TemplateID: template.ID, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrTemplateInactive)
}

func testListDownloads(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(3003)

	_, err := store.Credit(ctx, buildTopup(userID, "200.00"))
	require.NoError(t, err)

	template, err := store.CreateTemplate(ctx, buildTemplate(userID, "Flyer", 10))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.DownloadTemplate(ctx, DownloadTemplateInput{
			TemplateID: template.ID,
			UserID:     userID,
		})
		require.NoError(t, err)
	}

	downloads, total, err := store.ListDownloads(ctx, userID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Len(t, downloads, 2)

	// Each 37.00 charge landed on the ledger
	wallet, err := store.GetWallet(ctx, userID)
	require.NoError(t, err)
	assertDecimalEqual(t, "89.00", wallet.Balance)
}

// =============================================================================
// Price History Tests
// =============================================================================

func testPriceChangeAfterDownload(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(4001)

	_, err := store.Credit(ctx, buildTopup(userID, "100.00"))
	require.NoError(t, err)

	template, err := store.CreateTemplate(ctx, buildTemplate(userID, "Handbook", 35))
	require.NoError(t, err)

	_, err = store.DownloadTemplate(ctx, DownloadTemplateInput{
		TemplateID: template.ID,
		UserID:     userID,
	})
	require.NoError(t, err)

	// Growing a downloaded template from 35 to 40 pages reprices 42 -> 47
	// and leaves an audit row
	result, err := store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: template.ID,
		UserID:     userID,
		PageCount:  intPtr(40),
		Pricing:    pricing.DefaultConfig(),
	})
	require.NoError(t, err)
	require.NotNil(t, result.PriceChange)

	history := result.PriceChange
	assert.Equal(t, template.ID, history.TemplateID)
	assert.Equal(t, 35, history.OldPageCount)
	assert.Equal(t, 40, history.NewPageCount)
	assertDecimalEqual(t, "42.00", history.OldPrice)
	assertDecimalEqual(t, "47.00", history.NewPrice)
	assert.Equal(t, int64(1), history.DownloadsBeforeChange)
	assert.False(t, history.NotificationSent)
	assert.Nil(t, history.NotifiedAt)

	assertDecimalEqual(t, "47.00", result.Template.CurrentPrice)
	assert.Equal(t, 40, result.Template.PageCount)

	// A page-count edit that keeps the price makes no history
	result, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: template.ID,
		UserID:     userID,
		PageCount:  intPtr(40),
		Pricing:    pricing.DefaultConfig(),
	})
	require.NoError(t, err)
	assert.Nil(t, result.PriceChange)

	// Shrinking back is recorded the same way
	result, err = store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
		TemplateID: template.ID,
		UserID:     userID,
		PageCount:  intPtr(35),
		Pricing:    pricing.DefaultConfig(),
	})
	require.NoError(t, err)
	require.NotNil(t, result.PriceChange)
	assertDecimalEqual(t, "47.00", result.PriceChange.OldPrice)
	assertDecimalEqual(t, "42.00", result.PriceChange.NewPrice)
	assert.Equal(t, int64(1), result.PriceChange.DownloadsBeforeChange)
}

func testListAndMarkPriceChanges(t *testing.T, store Store) {
	ctx := context.Background()
	userID := uint64(4002)

	_, err := store.Credit(ctx, buildTopup(userID, "100.00"))
	require.NoError(t, err)

	template, err := store.CreateTemplate(ctx, buildTemplate(userID, "Catalog", 35))
	require.NoError(t, err)

	_, err = store.DownloadTemplate(ctx, DownloadTemplateInput{
		TemplateID: template.ID,
		UserID:     userID,
	})
	require.NoError(t, err)

	for _, pages := range []int{40, 45} {
		result, err := store.ApplyTemplateUpdate(ctx, UpdateTemplateInput{
			TemplateID: template.ID,
			UserID:     userID,
			PageCount:  intPtr(pages),
			Pricing:    pricing.DefaultConfig(),
		})
		require.NoError(t, err)
		require.NotNil(t, result.PriceChange)
	}

	pending, total, err := store.ListPriceChanges(ctx, PriceChangeFilter{
		UnnotifiedOnly: true,
		Limit:          10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	require.Len(t, pending, 2)

	// Default ordering is newest first, OldestFirst flips it so a batched
	// consumer drains the backlog in arrival order
	assert.Equal(t, 45, pending[0].NewPageCount)
	assert.Equal(t, 40, pending[1].NewPageCount)

	oldest, _, err := store.ListPriceChanges(ctx, PriceChangeFilter{
		UnnotifiedOnly: true,
		OldestFirst:    true,
		Limit:          1,
	})
	require.NoError(t, err)
	require.Len(t, oldest, 1)
	assert.Equal(t, pending[1].ID, oldest[0].ID)
	assert.Equal(t, 40, oldest[0].NewPageCount)

	// Acknowledge the first pending change
	marked, err := store.MarkPriceChangeNotified(ctx, pending[0].ID)
	require.NoError(t, err)
	assert.True(t, marked.NotificationSent)
	require.NotNil(t, marked.NotifiedAt)
	firstNotifiedAt := *marked.NotifiedAt

	// Marking again is a no-op and keeps the original timestamp
	marked, err = store.MarkPriceChangeNotified(ctx, pending[0].ID)
	require.NoError(t, err)
	assert.True(t, marked.NotificationSent)
	assert.True(t, marked.NotifiedAt.Equal(firstNotifiedAt))

	remaining, total, err := store.ListPriceChanges(ctx, PriceChangeFilter{
		UnnotifiedOnly: true,
		Limit:          10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, remaining, 1)
	assert.Equal(t, pending[1].ID, remaining[0].ID)

	// The full listing still shows both
	_, total, err = store.ListPriceChanges(ctx, PriceChangeFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)

	// Unknown history row
	_, err = store.MarkPriceChangeNotified(ctx, 12345678)
	assert.ErrorIs(t, err, domain.ErrPriceChangeNotFound)
}

// =============================================================================
// Suite Runner
// =============================================================================

func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"CreditWallet", testCreditWallet},
		{"CreditValidation", testCreditValidation},
		{"DebitWallet", testDebitWallet},
		{"DebitInsufficientFunds", testDebitInsufficientFunds},
		{"DebitWithoutWallet", testDebitWithoutWallet},
		{"ListTransactions", testListTransactions},
		{"CreateTemplate", testCreateTemplate},
		{"CreateTemplateValidation", testCreateTemplateValidation},
		{"DefaultTemplateExclusivity", testDefaultTemplateExclusivity},
		{"ListTemplates", testListTemplates},
		{"ApplyTemplateUpdate", testApplyTemplateUpdate},
		{"DownloadTemplate", testDownloadTemplate},
		{"DownloadTemplateErrors", testDownloadTemplateErrors},
		{"ListDownloads", testListDownloads},
		{"PriceChangeAfterDownload", testPriceChangeAfterDownload},
		{"ListAndMarkPriceChanges", testListAndMarkPriceChanges},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
