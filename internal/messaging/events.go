package messaging

import (
	"github.com/formlane/template-billing/internal/domain"
	"github.com/formlane/template-billing/internal/store/schema"
)

// NewPriceChangeEvent builds the broker payload for a repricing audit row
func NewPriceChangeEvent(eventID string, history *schema.TemplatePriceHistory) *domain.PriceChangeEvent {
	return &domain.PriceChangeEvent{
		EventID:               eventID,
		HistoryID:             history.ID,
		TemplateID:            history.TemplateID,
		UserID:                history.UserID,
		OldPageCount:          history.OldPageCount,
		NewPageCount:          history.NewPageCount,
		OldPrice:              history.OldPrice,
		NewPrice:              history.NewPrice,
		DownloadsBeforeChange: history.DownloadsBeforeChange,
		ChangedAt:             history.ChangedAt,
	}
}
