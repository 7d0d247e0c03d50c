package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/formlane/template-billing/internal/domain"
)

const (
	// MinPageCount is the smallest page count a template may have
	MinPageCount = 1
	// MaxPageCount is the largest page count a template may have
	MaxPageCount = 1000
)

// Config is an immutable pricing snapshot. It is passed by value into every
// calculation so concurrent administrative changes never mutate shared state;
// a change produces a new snapshot for subsequent calls.
type Config struct {
	// BasePrice is the flat price covering up to IncludedPages pages
	BasePrice decimal.Decimal
	// IncludedPages is the page count covered by the base price
	IncludedPages int
	// ExtraPageRate is the price charged per page beyond IncludedPages
	ExtraPageRate decimal.Decimal
}

// DefaultConfig returns the stock pricing: 37.00 base covering 30 pages,
// 1.00 per extra page.
func DefaultConfig() Config {
	return Config{
		BasePrice:     decimal.NewFromInt(37),
		IncludedPages: 30,
		ExtraPageRate: decimal.NewFromInt(1),
	}
}

// Quote is the result of a price calculation. It carries enough detail for a
// caller to show a breakdown without recomputing anything.
type Quote struct {
	TotalPages    int             `json:"total_pages"`
	BasePrice     decimal.Decimal `json:"base_price"`
	IncludedPages int             `json:"included_pages"`
	ExtraPages    int             `json:"extra_pages"`
	ExtraPageRate decimal.Decimal `json:"extra_page_rate"`
	Price         decimal.Decimal `json:"price"`
	Breakdown     string          `json:"breakdown"`
}

// ValidatePageCount rejects page counts outside [MinPageCount, MaxPageCount]
func ValidatePageCount(totalPages int) error {
	if totalPages < MinPageCount {
		return domain.NewValidationError("template must have at least %d page", MinPageCount)
	}
	if totalPages > MaxPageCount {
		return domain.NewValidationError("template cannot exceed %d pages", MaxPageCount)
	}
	return nil
}

// Calculate derives a template price from its page count.
//
// Up to cfg.IncludedPages pages the price is cfg.BasePrice; every page beyond
// that adds cfg.ExtraPageRate. Pure and deterministic: no storage, no side
// effects, safe for standalone price quotes.
func Calculate(totalPages int, cfg Config) (Quote, error) {
	if err := ValidatePageCount(totalPages); err != nil {
		return Quote{}, err
	}

	quote := Quote{
		TotalPages:    totalPages,
		BasePrice:     cfg.BasePrice,
		IncludedPages: cfg.IncludedPages,
		ExtraPageRate: cfg.ExtraPageRate,
	}

	if totalPages <= cfg.IncludedPages {
		quote.Price = cfg.BasePrice
		quote.Breakdown = fmt.Sprintf("%d pages within %d included: %s standard price",
			totalPages, cfg.IncludedPages, cfg.BasePrice)
		return quote, nil
	}

	extraPages := totalPages - cfg.IncludedPages
	extraCharge := cfg.ExtraPageRate.Mul(decimal.NewFromInt(int64(extraPages)))

	quote.ExtraPages = extraPages
	quote.Price = cfg.BasePrice.Add(extraCharge)
	quote.Breakdown = fmt.Sprintf("%s base + %d extra pages x %s = %s",
		cfg.BasePrice, extraPages, cfg.ExtraPageRate, quote.Price)

	return quote, nil
}
