package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplatePriceHistory represents the template_price_history table - the audit
// record created when a template's page count changed after the template had
// already been downloaded. Created synchronously inside the template-update
// unit; the notification flag transitions false -> true exactly once, on
// delivery acknowledgment, and never back.
type TemplatePriceHistory struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TemplateID references the repriced template
	TemplateID uint64 `gorm:"column:template_id;not null;index"`
	// UserID is the template owner who made the edit
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// OldPageCount is the page count before the edit
	OldPageCount int `gorm:"column:old_page_count;not null"`
	// NewPageCount is the page count after the edit
	NewPageCount int `gorm:"column:new_page_count;not null"`
	// OldPrice is the computed price before the edit
	OldPrice decimal.Decimal `gorm:"column:old_price;not null;type:numeric(12,2)"`
	// NewPrice is the computed price after the edit
	NewPrice decimal.Decimal `gorm:"column:new_price;not null;type:numeric(12,2)"`
	// DownloadsBeforeChange is how many downloads were charged at the old price;
	// always > 0, edits with zero prior downloads create no history row
	DownloadsBeforeChange int64 `gorm:"column:downloads_before_change;not null"`
	// NotificationSent is false until delivery of the price-change event is acknowledged
	NotificationSent bool `gorm:"column:notification_sent;not null;default:false;index"`
	// NotifiedAt is the timestamp of the acknowledgment
	NotifiedAt *time.Time `gorm:"column:notified_at;type:timestamptz"`
	// ChangedAt is the timestamp when the repricing unit committed
	ChangedAt time.Time `gorm:"column:changed_at;not null;default:now();type:timestamptz"`

	// Associations
	Template Template `gorm:"foreignKey:TemplateID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the TemplatePriceHistory model
func (TemplatePriceHistory) TableName() string {
	return "template_price_history"
}
