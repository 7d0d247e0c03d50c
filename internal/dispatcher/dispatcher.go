package dispatcher

import (
	"context"
)

// Dispatcher defines the interface for dispatcher implementations
// Dispatchers are long-running background tasks that deliver queued events
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher
type Dispatcher interface {
	// Start begins the dispatcher's main loop
	// This is a blocking call that runs until the context is canceled
	Start(ctx context.Context) error

	// Stop gracefully stops the dispatcher
	// This should wait for any in-progress work to complete
	Stop(ctx context.Context) error

	// Name returns the dispatcher's name for logging and identification
	Name() string
}
