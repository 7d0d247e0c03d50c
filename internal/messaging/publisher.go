package messaging

import (
	"context"

	"github.com/formlane/template-billing/internal/domain"
)

// Publisher defines the interface for publishing events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishPriceChange publishes a template price-change event
	PublishPriceChange(ctx context.Context, event *domain.PriceChangeEvent) error
	// Close closes the connection
	Close()
}
