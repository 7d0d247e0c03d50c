package pricing

import (
	"github.com/shopspring/decimal"
)

// Change describes a page-count edit that altered the computed price.
// Increases and decreases are treated identically: both reprice the template
// and, once money has moved, both are worth recording.
type Change struct {
	OldPageCount int
	NewPageCount int
	OldPrice     decimal.Decimal
	NewPrice     decimal.Decimal
}

// DetectChange compares a template's current page count against an edit.
//
// Returns nil when the page count is unchanged, so callers can skip all
// pricing logic while still applying unrelated field updates. When the count
// changed, the new price is computed from cfg and returned alongside the old
// values; deciding whether the change needs a history entry additionally
// requires the template's download count, which only the caller's storage
// unit can observe consistently.
func DetectChange(oldPageCount, newPageCount int, oldPrice decimal.Decimal, cfg Config) (*Change, error) {
	if newPageCount == oldPageCount {
		return nil, nil
	}

	quote, err := Calculate(newPageCount, cfg)
	if err != nil {
		return nil, err
	}

	return &Change{
		OldPageCount: oldPageCount,
		NewPageCount: newPageCount,
		OldPrice:     oldPrice,
		NewPrice:     quote.Price,
	}, nil
}
