package executor_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/template-billing/internal/api/shared/dto"
	apierrors "github.com/formlane/template-billing/internal/api/shared/errors"
	"github.com/formlane/template-billing/internal/api/shared/executor"
	"github.com/formlane/template-billing/internal/domain"
	"github.com/formlane/template-billing/internal/logger"
	"github.com/formlane/template-billing/internal/mocks"
	"github.com/formlane/template-billing/internal/pricing"
	"github.com/formlane/template-billing/internal/store"
	"github.com/formlane/template-billing/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testExecutorMocks contains all the mocks needed for testing the executor
type testExecutorMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	publisher *mocks.MockPublisher
	executor  executor.Executor
}

// setupTestExecutor creates all the mocks and executor for testing
func setupTestExecutor(t *testing.T) *testExecutorMocks {
	ctrl := gomock.NewController(t)

	tm := &testExecutorMocks{
		ctrl:      ctrl,
		store:     mocks.NewMockStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}

	tm.executor = executor.NewExecutor(tm.store, tm.publisher, pricing.DefaultConfig())

	t.Cleanup(ctrl.Finish)

	return tm
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestGetWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("existing wallet", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().GetWallet(ctx, uint64(42)).Return(&schema.Wallet{
			ID:      7,
			UserID:  42,
			Balance: mustDecimal(t, "63.00"),
		}, nil)

		wallet, err := tm.executor.GetWallet(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), wallet.UserID)
		assert.Equal(t, "63.00", wallet.Balance)
	})

	t.Run("user without a wallet reads as zero balance", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().GetWallet(ctx, uint64(42)).Return(nil, nil)

		wallet, err := tm.executor.GetWallet(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), wallet.UserID)
		assert.Equal(t, "0.00", wallet.Balance)
		assert.Nil(t, wallet.UpdatedAt)
	})

	t.Run("store failure wraps as database error", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().GetWallet(ctx, uint64(42)).Return(nil, errors.New("connection reset"))

		wallet, err := tm.executor.GetWallet(ctx, 42)
		assert.Nil(t, wallet)

		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierrors.ErrCodeDatabaseError, apiErr.Code)
	})
}

func TestTopup(t *testing.T) {
	ctx := context.Background()

	t.Run("valid topup", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().Credit(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, input store.CreditInput) (*schema.Transaction, error) {
				assert.Equal(t, uint64(42), input.UserID)
				assert.True(t, input.Amount.Equal(mustDecimal(t, "100.00")))
				assert.Equal(t, schema.PurposeWalletTopup, input.Purpose)
				assert.Equal(t, "Monthly budget", input.Description)

				return &schema.Transaction{
					TransactionID: "TXN-00DEADBEEF42",
					UserID:        input.UserID,
					Kind:          schema.TransactionKindCredit,
					Purpose:       input.Purpose,
					Amount:        input.Amount,
					BalanceBefore: decimal.Zero,
					BalanceAfter:  input.Amount,
					Description:   input.Description,
				}, nil
			})

		txn, err := tm.executor.Topup(ctx, 42, dto.TopupRequest{
			Amount:      "100.00",
			Description: "Monthly budget",
		})
		require.NoError(t, err)
		assert.Equal(t, "TXN-00DEADBEEF42", txn.TransactionID)
		assert.Equal(t, "credit", txn.Kind)
		assert.Equal(t, "100.00", txn.Amount)
		assert.Equal(t, "100.00", txn.BalanceAfter)
	})

	t.Run("empty description gets a default", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().Credit(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, input store.CreditInput) (*schema.Transaction, error) {
				assert.Equal(t, "Wallet topup", input.Description)
				return &schema.Transaction{
					TransactionID: "TXN-00DEADBEEF43",
					Amount:        input.Amount,
				}, nil
			})

		_, err := tm.executor.Topup(ctx, 42, dto.TopupRequest{Amount: "5.00"})
		require.NoError(t, err)
	})

	t.Run("invalid amounts never reach the store", func(t *testing.T) {
		for _, amount := range []string{"", "abc", "0", "-5.00"} {
			tm := setupTestExecutor(t)

			_, err := tm.executor.Topup(ctx, 42, dto.TopupRequest{Amount: amount})

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr, "amount %q", amount)
			assert.Equal(t, apierrors.ErrCodeValidationFailed, apiErr.Code)
		}
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults applied when pagination is absent", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().ListTransactions(ctx, uint64(42), 20, uint64(0)).
			Return([]schema.Transaction{{TransactionID: "TXN-000000000001"}}, uint64(1), nil)

		result, err := tm.executor.ListTransactions(ctx, 42, nil, nil)
		require.NoError(t, err)
		assert.Len(t, result.Transactions, 1)
		assert.Equal(t, uint64(1), result.Total)
		assert.Nil(t, result.NextOffset)
	})

	t.Run("limit is capped and next offset computed", func(t *testing.T) {
		tm := setupTestExecutor(t)

		rows := make([]schema.Transaction, 100)
		tm.store.EXPECT().ListTransactions(ctx, uint64(42), 100, uint64(50)).
			Return(rows, uint64(500), nil)

		limit := 5000
		offset := uint64(50)
		result, err := tm.executor.ListTransactions(ctx, 42, &limit, &offset)
		require.NoError(t, err)
		require.NotNil(t, result.NextOffset)
		assert.Equal(t, uint64(150), *result.NextOffset)
	})
}

func TestQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("pages beyond the included count are itemized", func(t *testing.T) {
		tm := setupTestExecutor(t)

		quote, err := tm.executor.Quote(ctx, 35)
		require.NoError(t, err)
		assert.Equal(t, 35, quote.TotalPages)
		assert.Equal(t, "37.00", quote.BasePrice)
		assert.Equal(t, 5, quote.ExtraPages)
		assert.Equal(t, "42.00", quote.Price)
		assert.NotEmpty(t, quote.Breakdown)
	})

	t.Run("page count out of range", func(t *testing.T) {
		tm := setupTestExecutor(t)

		_, err := tm.executor.Quote(ctx, 0)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)

		_, err = tm.executor.Quote(ctx, 1001)
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestGetTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("owned template", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().GetTemplateByID(ctx, uint64(9)).Return(&schema.Template{
			ID:           9,
			UserID:       42,
			Name:         "Invoice",
			PageCount:    12,
			CurrentPrice: mustDecimal(t, "37.00"),
		}, nil)

		template, err := tm.executor.GetTemplate(ctx, 42, 9)
		require.NoError(t, err)
		assert.Equal(t, "Invoice", template.Name)
		assert.Equal(t, "37.00", template.CurrentPrice)
	})

	t.Run("missing template", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().GetTemplateByID(ctx, uint64(9)).Return(nil, nil)

		_, err := tm.executor.GetTemplate(ctx, 42, 9)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("someone else's template", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().GetTemplateByID(ctx, uint64(9)).Return(&schema.Template{
			ID:     9,
			UserID: 7,
		}, nil)

		_, err := tm.executor.GetTemplate(ctx, 42, 9)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestUpdateTemplate(t *testing.T) {
	ctx := context.Background()

	history := func() *schema.TemplatePriceHistory {
		return &schema.TemplatePriceHistory{
			ID:                    3,
			TemplateID:            9,
			UserID:                42,
			OldPageCount:          35,
			NewPageCount:          40,
			OldPrice:              decimal.NewFromInt(42),
			NewPrice:              decimal.NewFromInt(47),
			DownloadsBeforeChange: 2,
			ChangedAt:             time.Now(),
		}
	}

	t.Run("metadata edit publishes nothing", func(t *testing.T) {
		tm := setupTestExecutor(t)

		name := "Renamed"
		tm.store.EXPECT().ApplyTemplateUpdate(ctx, gomock.Any()).Return(&store.TemplateUpdateResult{
			Template: &schema.Template{ID: 9, UserID: 42, Name: name},
		}, nil)

		template, err := tm.executor.UpdateTemplate(ctx, 42, 9, dto.UpdateTemplateRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", template.Name)
	})

	t.Run("repricing publishes the event and marks the row notified", func(t *testing.T) {
		tm := setupTestExecutor(t)

		pageCount := 40
		h := history()
		tm.store.EXPECT().ApplyTemplateUpdate(ctx, gomock.Any()).Return(&store.TemplateUpdateResult{
			Template:    &schema.Template{ID: 9, UserID: 42, PageCount: 40},
			PriceChange: h,
		}, nil)

		tm.publisher.EXPECT().PublishPriceChange(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, event *domain.PriceChangeEvent) error {
				assert.NotEmpty(t, event.EventID)
				assert.Equal(t, h.ID, event.HistoryID)
				assert.Equal(t, h.TemplateID, event.TemplateID)
				assert.Equal(t, 35, event.OldPageCount)
				assert.Equal(t, 40, event.NewPageCount)
				assert.True(t, event.OldPrice.Equal(h.OldPrice))
				assert.True(t, event.NewPrice.Equal(h.NewPrice))
				assert.Equal(t, int64(2), event.DownloadsBeforeChange)
				return nil
			})
		tm.store.EXPECT().MarkPriceChangeNotified(ctx, h.ID).Return(h, nil)

		_, err := tm.executor.UpdateTemplate(ctx, 42, 9, dto.UpdateTemplateRequest{PageCount: &pageCount})
		require.NoError(t, err)
	})

	t.Run("publish failure leaves the row for the dispatcher", func(t *testing.T) {
		tm := setupTestExecutor(t)

		pageCount := 40
		tm.store.EXPECT().ApplyTemplateUpdate(ctx, gomock.Any()).Return(&store.TemplateUpdateResult{
			Template:    &schema.Template{ID: 9, UserID: 42, PageCount: 40},
			PriceChange: history(),
		}, nil)

		tm.publisher.EXPECT().PublishPriceChange(ctx, gomock.Any()).Return(errors.New("broker down"))
		// No MarkPriceChangeNotified expectation: the row must stay unnotified

		template, err := tm.executor.UpdateTemplate(ctx, 42, 9, dto.UpdateTemplateRequest{PageCount: &pageCount})
		require.NoError(t, err)
		assert.Equal(t, 40, template.PageCount)
	})

	t.Run("nil publisher keeps the update working", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)
		mockStore := mocks.NewMockStore(ctrl)
		exec := executor.NewExecutor(mockStore, nil, pricing.DefaultConfig())

		pageCount := 40
		mockStore.EXPECT().ApplyTemplateUpdate(ctx, gomock.Any()).Return(&store.TemplateUpdateResult{
			Template:    &schema.Template{ID: 9, UserID: 42, PageCount: 40},
			PriceChange: history(),
		}, nil)

		_, err := exec.UpdateTemplate(ctx, 42, 9, dto.UpdateTemplateRequest{PageCount: &pageCount})
		require.NoError(t, err)
	})

	t.Run("invalid page count never reaches the store", func(t *testing.T) {
		tm := setupTestExecutor(t)

		pageCount := 5000
		_, err := tm.executor.UpdateTemplate(ctx, 42, 9, dto.UpdateTemplateRequest{PageCount: &pageCount})

		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierrors.ErrCodeValidationFailed, apiErr.Code)
	})
}

func TestDownloadTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("successful download carries the charge details", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().DownloadTemplate(ctx, store.DownloadTemplateInput{
			TemplateID: 9,
			UserID:     42,
		}).Return(&store.DownloadResult{
			Download: &schema.TemplateDownload{
				DownloadNumber:  "DL-20260831-0A1B2C3D",
				TemplateID:      9,
				UserID:          42,
				PagesAtDownload: 35,
				PriceCharged:    mustDecimal(t, "42.00"),
			},
			Transaction: &schema.Transaction{
				TransactionID: "TXN-00DEADBEEF44",
				BalanceAfter:  mustDecimal(t, "58.00"),
			},
			Template: &schema.Template{ID: 9, Name: "Invoice"},
		}, nil)

		download, err := tm.executor.DownloadTemplate(ctx, 42, 9)
		require.NoError(t, err)
		assert.Equal(t, "DL-20260831-0A1B2C3D", download.DownloadNumber)
		assert.Equal(t, "Invoice", download.TemplateName)
		assert.Equal(t, "42.00", download.PriceCharged)
		assert.Equal(t, "TXN-00DEADBEEF44", download.TransactionID)
		assert.Equal(t, "58.00", download.BalanceAfter)
	})

	t.Run("store errors pass through untouched", func(t *testing.T) {
		tm := setupTestExecutor(t)

		fundsErr := &domain.InsufficientFundsError{
			Required:  mustDecimal(t, "42.00"),
			Available: mustDecimal(t, "10.00"),
		}
		tm.store.EXPECT().DownloadTemplate(ctx, gomock.Any()).Return(nil, fundsErr)

		_, err := tm.executor.DownloadTemplate(ctx, 42, 9)
		var gotErr *domain.InsufficientFundsError
		require.ErrorAs(t, err, &gotErr)
		assert.True(t, gotErr.Available.Equal(fundsErr.Available))
	})
}

func TestListPriceChanges(t *testing.T) {
	ctx := context.Background()

	tm := setupTestExecutor(t)

	tm.store.EXPECT().ListPriceChanges(ctx, store.PriceChangeFilter{
		UnnotifiedOnly: true,
		Limit:          20,
		Offset:         0,
	}).Return([]schema.TemplatePriceHistory{
		{ID: 3, TemplateID: 9, OldPrice: decimal.NewFromInt(42), NewPrice: decimal.NewFromInt(47)},
	}, uint64(1), nil)

	result, err := tm.executor.ListPriceChanges(ctx, true, nil, nil)
	require.NoError(t, err)
	require.Len(t, result.PriceChanges, 1)
	assert.Equal(t, "42.00", result.PriceChanges[0].OldPrice)
	assert.Equal(t, "47.00", result.PriceChanges[0].NewPrice)
}

func TestAcknowledgePriceChange(t *testing.T) {
	ctx := context.Background()

	t.Run("acknowledged", func(t *testing.T) {
		tm := setupTestExecutor(t)

		notifiedAt := time.Now()
		tm.store.EXPECT().MarkPriceChangeNotified(ctx, uint64(3)).Return(&schema.TemplatePriceHistory{
			ID:               3,
			NotificationSent: true,
			NotifiedAt:       &notifiedAt,
		}, nil)

		history, err := tm.executor.AcknowledgePriceChange(ctx, 3)
		require.NoError(t, err)
		assert.True(t, history.NotificationSent)
		assert.NotNil(t, history.NotifiedAt)
	})

	t.Run("missing row", func(t *testing.T) {
		tm := setupTestExecutor(t)

		tm.store.EXPECT().MarkPriceChangeNotified(ctx, uint64(3)).
			Return(nil, domain.ErrPriceChangeNotFound)

		_, err := tm.executor.AcknowledgePriceChange(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrPriceChangeNotFound)
	})
}
