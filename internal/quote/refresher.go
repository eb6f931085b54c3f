package quote

import (
	"context"
	"log"
	"sync"
	"time"
)

// Generator produces a motivational quote from the AI backend
type Generator interface {
	GenerateQuote(ctx context.Context) (string, error)
}

// Store is the slice of the progress store the refresher needs
type Store interface {
	LastQuoteDate() string
	CommitQuote(quote, date string) error
}

// Refresher requests a new daily quote at most once per calendar day. The
// refresh date only advances on success, so a failed fetch is retried on the
// next observation until the call succeeds or the date rolls over.
type Refresher struct {
	store     Store
	generator Generator
	now       func() time.Time

	mu       sync.Mutex
	inFlight bool
}

// New creates a refresher using the local wall clock
func New(store Store, generator Generator) *Refresher {
	return &Refresher{
		store:     store,
		generator: generator,
		now:       time.Now,
	}
}

// RefreshIfStale fetches a new quote when the stored one is from an earlier
// date. Generator failures are logged and swallowed; the previous quote and
// date stay untouched. Concurrent observations trigger at most one fetch.
func (r *Refresher) RefreshIfStale(ctx context.Context) {
	today := r.now().Format("2006-01-02")
	if r.store.LastQuoteDate() == today {
		return
	}

	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	}()

	quote, err := r.generator.GenerateQuote(ctx)
	if err != nil {
		log.Printf("Failed to refresh daily quote: %v", err)
		return
	}

	if err := r.store.CommitQuote(quote, today); err != nil {
		log.Printf("Failed to persist daily quote: %v", err)
	}
}
