package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Template represents the templates table - a priced, page-counted document
// definition owned by a user. The page content itself is an opaque blob the
// billing core never inspects beyond the validated page count; the current
// price is always the calculator's output for the stored page count and
// pricing snapshot, never independently settable.
type Template struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID is the owning user
	UserID uint64 `gorm:"column:user_id;not null;index:idx_templates_user_default,priority:1"`
	// Name is the user-facing template name
	Name string `gorm:"column:name;not null;type:varchar(255)"`
	// Description is optional free text
	Description string `gorm:"column:description;type:text"`
	// PageCount is the validated number of pages, bounded [1, 1000]
	PageCount int `gorm:"column:page_count;not null"`
	// BasePrice is the pricing snapshot's flat price at the last price computation
	BasePrice decimal.Decimal `gorm:"column:base_price;not null;type:numeric(12,2)"`
	// IncludedPages is the page count covered by BasePrice in the same snapshot
	IncludedPages int `gorm:"column:included_pages;not null"`
	// ExtraPageRate is the per-extra-page price in the same snapshot
	ExtraPageRate decimal.Decimal `gorm:"column:extra_page_rate;not null;type:numeric(12,2)"`
	// CurrentPrice is the computed download price for the stored page count
	CurrentPrice decimal.Decimal `gorm:"column:current_price;not null;type:numeric(12,2)"`
	// Config is the raw page content blob, stored opaquely
	Config datatypes.JSON `gorm:"column:config;type:jsonb"`
	// IsActive is false for soft-deactivated templates; downloads are refused but
	// download history stays valid
	IsActive bool `gorm:"column:is_active;not null;default:true"`
	// IsDefault marks the at-most-one default template per user
	IsDefault bool `gorm:"column:is_default;not null;default:false;index:idx_templates_user_default,priority:2"`
	// LastUsedAt is the timestamp of the most recent download
	LastUsedAt *time.Time `gorm:"column:last_used_at;type:timestamptz"`
	// CreatedAt is the timestamp when the template was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last mutation
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Downloads    []TemplateDownload     `gorm:"foreignKey:TemplateID;constraint:OnDelete:RESTRICT"`
	PriceHistory []TemplatePriceHistory `gorm:"foreignKey:TemplateID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the Template model
func (Template) TableName() string {
	return "templates"
}
