package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceChangeEvent is emitted to the notifier when a template's page count,
// and therefore its price, changed after the template had already been
// downloaded at the old price.
type PriceChangeEvent struct {
	// EventID is a unique, time-sortable identifier (ULID) for this emission
	EventID string `json:"event_id"`
	// HistoryID references the TemplatePriceHistory row this event was built from
	HistoryID    uint64          `json:"history_id"`
	TemplateID   uint64          `json:"template_id"`
	UserID       uint64          `json:"user_id"`
	OldPageCount int             `json:"old_page_count"`
	NewPageCount int             `json:"new_page_count"`
	OldPrice     decimal.Decimal `json:"old_price"`
	NewPrice     decimal.Decimal `json:"new_price"`
	// DownloadsBeforeChange is how many downloads were charged at the old price
	DownloadsBeforeChange int64     `json:"downloads_before_change"`
	ChangedAt             time.Time `json:"changed_at"`
}
