package dto

import (
	"encoding/json"
	"time"

	"github.com/formlane/template-billing/internal/pricing"
	"github.com/formlane/template-billing/internal/store/schema"
)

// WalletResponse represents a user's wallet
type WalletResponse struct {
	UserID    uint64     `json:"user_id"`
	Balance   string     `json:"balance"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TransactionResponse represents a single ledger entry
type TransactionResponse struct {
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	Purpose       string    `json:"purpose"`
	Amount        string    `json:"amount"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionListResponse represents a paginated list of ledger entries
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        uint64                `json:"total"`
	NextOffset   *uint64               `json:"next_offset,omitempty"`
}

// QuoteResponse represents a price quote for a page count
type QuoteResponse struct {
	TotalPages    int      `json:"total_pages"`
	BasePrice     string   `json:"base_price"`
	IncludedPages int      `json:"included_pages"`
	ExtraPages    int      `json:"extra_pages"`
	ExtraPageRate string   `json:"extra_page_rate"`
	Price         string   `json:"price"`
	Breakdown     string   `json:"breakdown"`
}

// TemplateResponse represents a template with its current price
type TemplateResponse struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	PageCount     int             `json:"page_count"`
	CurrentPrice  string          `json:"current_price"`
	BasePrice     string          `json:"base_price"`
	IncludedPages int             `json:"included_pages"`
	ExtraPageRate string          `json:"extra_page_rate"`
	Config        json.RawMessage `json:"config,omitempty"`
	IsActive      bool            `json:"is_active"`
	IsDefault     bool            `json:"is_default"`
	LastUsedAt    *time.Time      `json:"last_used_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TemplateListResponse represents a paginated list of templates
type TemplateListResponse struct {
	Templates  []TemplateResponse `json:"templates"`
	Total      uint64             `json:"total"`
	NextOffset *uint64            `json:"next_offset,omitempty"`
}

// DownloadResponse represents a paid template download
type DownloadResponse struct {
	DownloadNumber  string    `json:"download_number"`
	TemplateID      uint64    `json:"template_id"`
	TemplateName    string    `json:"template_name,omitempty"`
	PagesAtDownload int       `json:"pages_at_download"`
	PriceCharged    string    `json:"price_charged"`
	TransactionID   string    `json:"transaction_id,omitempty"`
	BalanceAfter    string    `json:"balance_after,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// DownloadListResponse represents a paginated list of downloads
type DownloadListResponse struct {
	Downloads  []DownloadResponse `json:"downloads"`
	Total      uint64             `json:"total"`
	NextOffset *uint64            `json:"next_offset,omitempty"`
}

// PriceChangeResponse represents a template repricing audit row
type PriceChangeResponse struct {
	ID                    uint64     `json:"id"`
	TemplateID            uint64     `json:"template_id"`
	UserID                uint64     `json:"user_id"`
	OldPageCount          int        `json:"old_page_count"`
	NewPageCount          int        `json:"new_page_count"`
	OldPrice              string     `json:"old_price"`
	NewPrice              string     `json:"new_price"`
	DownloadsBeforeChange int64      `json:"downloads_before_change"`
	NotificationSent      bool       `json:"notification_sent"`
	NotifiedAt            *time.Time `json:"notified_at,omitempty"`
	ChangedAt             time.Time  `json:"changed_at"`
}

// PriceChangeListResponse represents a paginated list of repricing audit rows
type PriceChangeListResponse struct {
	PriceChanges []PriceChangeResponse `json:"price_changes"`
	Total        uint64                `json:"total"`
	NextOffset   *uint64               `json:"next_offset,omitempty"`
}

// MapWalletToDTO maps a wallet row to its response shape
func MapWalletToDTO(wallet *schema.Wallet) *WalletResponse {
	updatedAt := wallet.UpdatedAt
	return &WalletResponse{
		UserID:    wallet.UserID,
		Balance:   wallet.Balance.StringFixed(2),
		UpdatedAt: &updatedAt,
	}
}

// MapTransactionToDTO maps a transaction row to its response shape
func MapTransactionToDTO(txn *schema.Transaction) *TransactionResponse {
	return &TransactionResponse{
		TransactionID: txn.TransactionID,
		Kind:          string(txn.Kind),
		Purpose:       string(txn.Purpose),
		Amount:        txn.Amount.StringFixed(2),
		BalanceBefore: txn.BalanceBefore.StringFixed(2),
		BalanceAfter:  txn.BalanceAfter.StringFixed(2),
		Description:   txn.Description,
		CreatedAt:     txn.CreatedAt,
	}
}

// MapQuoteToDTO maps a price quote to its response shape
func MapQuoteToDTO(quote pricing.Quote) *QuoteResponse {
	return &QuoteResponse{
		TotalPages:    quote.TotalPages,
		BasePrice:     quote.BasePrice.StringFixed(2),
		IncludedPages: quote.IncludedPages,
		ExtraPages:    quote.ExtraPages,
		ExtraPageRate: quote.ExtraPageRate.StringFixed(2),
		Price:         quote.Price.StringFixed(2),
		Breakdown:     quote.Breakdown,
	}
}

// MapTemplateToDTO maps a template row to its response shape
func MapTemplateToDTO(template *schema.Template) *TemplateResponse {
	return &TemplateResponse{
		ID:            template.ID,
		Name:          template.Name,
		Description:   template.Description,
		PageCount:     template.PageCount,
		CurrentPrice:  template.CurrentPrice.StringFixed(2),
		BasePrice:     template.BasePrice.StringFixed(2),
		IncludedPages: template.IncludedPages,
		ExtraPageRate: template.ExtraPageRate.StringFixed(2),
		Config:        json.RawMessage(template.Config),
		IsActive:      template.IsActive,
		IsDefault:     template.IsDefault,
		LastUsedAt:    template.LastUsedAt,
		CreatedAt:     template.CreatedAt,
		UpdatedAt:     template.UpdatedAt,
	}
}

// MapDownloadToDTO maps a download row to its response shape
func MapDownloadToDTO(download *schema.TemplateDownload) *DownloadResponse {
	return &DownloadResponse{
		DownloadNumber:  download.DownloadNumber,
		TemplateID:      download.TemplateID,
		PagesAtDownload: download.PagesAtDownload,
		PriceCharged:    download.PriceCharged.StringFixed(2),
		CreatedAt:       download.CreatedAt,
	}
}

// MapPriceChangeToDTO maps a repricing audit row to its response shape
func MapPriceChangeToDTO(history *schema.TemplatePriceHistory) *PriceChangeResponse {
	return &PriceChangeResponse{
		ID:                    history.ID,
		TemplateID:            history.TemplateID,
		UserID:                history.UserID,
		OldPageCount:          history.OldPageCount,
		NewPageCount:          history.NewPageCount,
		OldPrice:              history.OldPrice.StringFixed(2),
		NewPrice:              history.NewPrice.StringFixed(2),
		DownloadsBeforeChange: history.DownloadsBeforeChange,
		NotificationSent:      history.NotificationSent,
		NotifiedAt:            history.NotifiedAt,
		ChangedAt:             history.ChangedAt,
	}
}
