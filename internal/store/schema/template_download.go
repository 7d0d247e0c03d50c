package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateDownload represents the template_downloads table - one chargeable
// consumption event against a template. A row exists if and only if its linked
// debit transaction committed; both are written in the same atomic unit, so a
// "charged but not delivered" state cannot occur. Rows are immutable.
type TemplateDownload struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DownloadNumber is the external identifier in the form DL-YYYYMMDD-<8 hex chars>
	DownloadNumber string `gorm:"column:download_number;not null;uniqueIndex;type:varchar(100)"`
	// TemplateID references the downloaded template
	TemplateID uint64 `gorm:"column:template_id;not null;index"`
	// UserID is the user who was charged
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// PagesAtDownload is the template's page count at the instant of the charge
	PagesAtDownload int `gorm:"column:pages_at_download;not null"`
	// PriceCharged equals the template's current price when the debit committed
	PriceCharged decimal.Decimal `gorm:"column:price_charged;not null;type:numeric(12,2)"`
	// TransactionID links the debit transaction that paid for this download
	TransactionID uint64 `gorm:"column:transaction_id;not null;uniqueIndex"`
	// CreatedAt is the timestamp when the download committed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Template    Template    `gorm:"foreignKey:TemplateID;constraint:OnDelete:RESTRICT"`
	Transaction Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the TemplateDownload model
func (TemplateDownload) TableName() string {
	return "template_downloads"
}
