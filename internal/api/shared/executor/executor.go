package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/formlane/template-billing/internal/api/shared/constants"
	"github.com/formlane/template-billing/internal/api/shared/dto"
	apierrors "github.com/formlane/template-billing/internal/api/shared/errors"
	"github.com/formlane/template-billing/internal/domain"
	"github.com/formlane/template-billing/internal/logger"
	"github.com/formlane/template-billing/internal/messaging"
	"github.com/formlane/template-billing/internal/pricing"
	"github.com/formlane/template-billing/internal/store"
	"github.com/formlane/template-billing/internal/store/schema"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetWallet retrieves a user's wallet; a user who has never topped up
	// reads as a zero balance
	GetWallet(ctx context.Context, userID uint64) (*dto.WalletResponse, error)

	// Topup adds funds to a user's wallet
	Topup(ctx context.Context, userID uint64, req dto.TopupRequest) (*dto.TransactionResponse, error)

	// ListTransactions retrieves a user's ledger entries, newest first
	ListTransactions(ctx context.Context, userID uint64, limit *int, offset *uint64) (*dto.TransactionListResponse, error)

	// Quote computes the price for a page count without touching any state
	Quote(ctx context.Context, pageCount int) (*dto.QuoteResponse, error)

	// CreateTemplate creates a template priced at the current model
	CreateTemplate(ctx context.Context, userID uint64, req dto.CreateTemplateRequest) (*dto.TemplateResponse, error)

	// GetTemplate retrieves one of the user's templates
	GetTemplate(ctx context.Context, userID uint64, templateID uint64) (*dto.TemplateResponse, error)

	// ListTemplates retrieves the user's templates, newest first
	ListTemplates(ctx context.Context, userID uint64, isActive *bool, limit *int, offset *uint64) (*dto.TemplateListResponse, error)

	// UpdateTemplate edits a template; a repricing of a downloaded template
	// emits a price-change event
	UpdateTemplate(ctx context.Context, userID uint64, templateID uint64, req dto.UpdateTemplateRequest) (*dto.TemplateResponse, error)

	// DownloadTemplate charges the template's current price and records the download
	DownloadTemplate(ctx context.Context, userID uint64, templateID uint64) (*dto.DownloadResponse, error)

	// ListDownloads retrieves the user's download history, newest first
	ListDownloads(ctx context.Context, userID uint64, limit *int, offset *uint64) (*dto.DownloadListResponse, error)

	// ListPriceChanges retrieves repricing audit rows (admin)
	ListPriceChanges(ctx context.Context, unnotifiedOnly bool, limit *int, offset *uint64) (*dto.PriceChangeListResponse, error)

	// AcknowledgePriceChange marks a repricing audit row as notified (admin)
	AcknowledgePriceChange(ctx context.Context, historyID uint64) (*dto.PriceChangeResponse, error)
}

type executor struct {
	store     store.Store
	publisher messaging.Publisher
	pricing   pricing.Config
}

// NewExecutor creates the shared executor. publisher may be nil when event
// publishing is disabled; price changes then stay queued for the dispatcher.
func NewExecutor(store store.Store, publisher messaging.Publisher, pricingCfg pricing.Config) Executor {
	return &executor{store: store, publisher: publisher, pricing: pricingCfg}
}

func (e *executor) GetWallet(ctx context.Context, userID uint64) (*dto.WalletResponse, error) {
	wallet, err := e.store.GetWallet(ctx, userID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get wallet: %v", err))
	}

	if wallet == nil {
		// Wallets materialize on first topup
		return &dto.WalletResponse{UserID: userID, Balance: "0.00"}, nil
	}

	return dto.MapWalletToDTO(wallet), nil
}

func (e *executor) Topup(ctx context.Context, userID uint64, req dto.TopupRequest) (*dto.TransactionResponse, error) {
	amount, err := req.Validate()
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "Wallet topup"
	}

	txn, err := e.store.Credit(ctx, store.CreditInput{
		UserID:      userID,
		Amount:      amount,
		Purpose:     schema.PurposeWalletTopup,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	return dto.MapTransactionToDTO(txn), nil
}

func (e *executor) ListTransactions(ctx context.Context, userID uint64, limit *int, offset *uint64) (*dto.TransactionListResponse, error) {
	pageLimit, pageOffset := normalizePage(limit, offset, constants.DEFAULT_TRANSACTIONS_LIMIT)

	transactions, total, err := e.store.ListTransactions(ctx, userID, pageLimit, pageOffset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list transactions: %v", err))
	}

	items := make([]dto.TransactionResponse, len(transactions))
	for i := range transactions {
		items[i] = *dto.MapTransactionToDTO(&transactions[i])
	}

	return &dto.TransactionListResponse{
		Transactions: items,
		Total:        total,
		NextOffset:   nextOffset(pageOffset, len(items), total),
	}, nil
}

func (e *executor) Quote(ctx context.Context, pageCount int) (*dto.QuoteResponse, error) {
	quote, err := pricing.Calculate(pageCount, e.pricing)
	if err != nil {
		return nil, err
	}

	return dto.MapQuoteToDTO(quote), nil
}

func (e *executor) CreateTemplate(ctx context.Context, userID uint64, req dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	template, err := e.store.CreateTemplate(ctx, store.CreateTemplateInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		PageCount:   req.PageCount,
		Config:      datatypes.JSON(req.Config),
		IsDefault:   req.IsDefault,
		Pricing:     e.pricing,
	})
	if err != nil {
		return nil, err
	}

	return dto.MapTemplateToDTO(template), nil
}

func (e *executor) GetTemplate(ctx context.Context, userID uint64, templateID uint64) (*dto.TemplateResponse, error) {
	template, err := e.store.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get template: %v", err))
	}

	if template == nil {
		return nil, domain.ErrTemplateNotFound
	}
	if template.UserID != userID {
		return nil, domain.ErrForbidden
	}

	return dto.MapTemplateToDTO(template), nil
}

func (e *executor) ListTemplates(ctx context.Context, userID uint64, isActive *bool, limit *int, offset *uint64) (*dto.TemplateListResponse, error) {
	pageLimit, pageOffset := normalizePage(limit, offset, constants.DEFAULT_TEMPLATES_LIMIT)

	templates, total, err := e.store.ListTemplates(ctx, store.TemplateQueryFilter{
		UserID:   userID,
		IsActive: isActive,
		Limit:    pageLimit,
		Offset:   pageOffset,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list templates: %v", err))
	}

	items := make([]dto.TemplateResponse, len(templates))
	for i := range templates {
		items[i] = *dto.MapTemplateToDTO(&templates[i])
	}

	return &dto.TemplateListResponse{
		Templates:  items,
		Total:      total,
		NextOffset: nextOffset(pageOffset, len(items), total),
	}, nil
}

func (e *executor) UpdateTemplate(ctx context.Context, userID uint64, templateID uint64, req dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := e.store.ApplyTemplateUpdate(ctx, store.UpdateTemplateInput{
		TemplateID:  templateID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		PageCount:   req.PageCount,
		Config:      datatypes.JSON(req.Config),
		IsActive:    req.IsActive,
		IsDefault:   req.IsDefault,
		Pricing:     e.pricing,
	})
	if err != nil {
		return nil, err
	}

	if result.PriceChange != nil {
		e.notifyPriceChange(ctx, result.PriceChange)
	}

	return dto.MapTemplateToDTO(result.Template), nil
}

// notifyPriceChange publishes the repricing event and marks the audit row
// notified on success. Failures are logged only; the dispatcher picks up
// whatever stays unnotified.
func (e *executor) notifyPriceChange(ctx context.Context, history *schema.TemplatePriceHistory) {
	if e.publisher == nil {
		return
	}

	event := messaging.NewPriceChangeEvent(ulid.Make().String(), history)
	if err := e.publisher.PublishPriceChange(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to publish price change event"),
			zap.Uint64("history_id", history.ID))
		return
	}

	if _, err := e.store.MarkPriceChangeNotified(ctx, history.ID); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to mark price change notified"),
			zap.Uint64("history_id", history.ID))
	}
}

func (e *executor) DownloadTemplate(ctx context.Context, userID uint64, templateID uint64) (*dto.DownloadResponse, error) {
	result, err := e.store.DownloadTemplate(ctx, store.DownloadTemplateInput{
		TemplateID: templateID,
		UserID:     userID,
	})
	if err != nil {
		return nil, err
	}

	response := dto.MapDownloadToDTO(result.Download)
	response.TemplateName = result.Template.Name
	response.TransactionID = result.Transaction.TransactionID
	response.BalanceAfter = result.Transaction.BalanceAfter.StringFixed(2)

	return response, nil
}

func (e *executor) ListDownloads(ctx context.Context, userID uint64, limit *int, offset *uint64) (*dto.DownloadListResponse, error) {
	pageLimit, pageOffset := normalizePage(limit, offset, constants.DEFAULT_DOWNLOADS_LIMIT)

	downloads, total, err := e.store.ListDownloads(ctx, userID, pageLimit, pageOffset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list downloads: %v", err))
	}

	items := make([]dto.DownloadResponse, len(downloads))
	for i := range downloads {
		items[i] = *dto.MapDownloadToDTO(&downloads[i])
	}

	return &dto.DownloadListResponse{
		Downloads:  items,
		Total:      total,
		NextOffset: nextOffset(pageOffset, len(items), total),
	}, nil
}

func (e *executor) ListPriceChanges(ctx context.Context, unnotifiedOnly bool, limit *int, offset *uint64) (*dto.PriceChangeListResponse, error) {
	pageLimit, pageOffset := normalizePage(limit, offset, constants.DEFAULT_PRICE_CHANGES_LIMIT)

	history, total, err := e.store.ListPriceChanges(ctx, store.PriceChangeFilter{
		UnnotifiedOnly: unnotifiedOnly,
		Limit:          pageLimit,
		Offset:         pageOffset,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list price changes: %v", err))
	}

	items := make([]dto.PriceChangeResponse, len(history))
	for i := range history {
		items[i] = *dto.MapPriceChangeToDTO(&history[i])
	}

	return &dto.PriceChangeListResponse{
		PriceChanges: items,
		Total:        total,
		NextOffset:   nextOffset(pageOffset, len(items), total),
	}, nil
}

func (e *executor) AcknowledgePriceChange(ctx context.Context, historyID uint64) (*dto.PriceChangeResponse, error) {
	history, err := e.store.MarkPriceChangeNotified(ctx, historyID)
	if err != nil {
		if errors.Is(err, domain.ErrPriceChangeNotFound) {
			return nil, err
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to acknowledge price change: %v", err))
	}

	return dto.MapPriceChangeToDTO(history), nil
}

// normalizePage applies defaults and caps to pagination parameters
func normalizePage(limit *int, offset *uint64, defaultLimit int) (int, uint64) {
	pageLimit := defaultLimit
	if limit != nil && *limit > 0 {
		pageLimit = *limit
	}
	if pageLimit > constants.MAX_PAGE_SIZE {
		pageLimit = constants.MAX_PAGE_SIZE
	}

	pageOffset := constants.DEFAULT_OFFSET
	if offset != nil {
		pageOffset = *offset
	}

	return pageLimit, pageOffset
}

// nextOffset computes the offset of the next page, nil when exhausted
func nextOffset(offset uint64, returned int, total uint64) *uint64 {
	next := offset + uint64(returned)
	if next >= total {
		return nil
	}
	return &next
}
