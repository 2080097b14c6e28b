package client

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Poll intervals per view kind. Chat-style views refresh faster than
// list views.
const (
	ChatPollInterval = 3 * time.Second
	ListPollInterval = 5 * time.Second
)

// ViewState is the lifecycle of one polled view.
type ViewState int

const (
	// ViewIdle means the poller has not started fetching yet.
	ViewIdle ViewState = iota
	// ViewFetching means a fetch is in flight.
	ViewFetching
	// ViewRendered means the last fetch succeeded.
	ViewRendered
	// ViewStale means the last fetch failed; the previously rendered
	// data remains on display until the next tick succeeds.
	ViewStale
)

func (s ViewState) String() string {
	switch s {
	case ViewIdle:
		return "idle"
	case ViewFetching:
		return "fetching"
	case ViewRendered:
		return "rendered"
	case ViewStale:
		return "stale"
	default:
		return "unknown"
	}
}

// FetchFunc loads one view's data from the server. A returned error
// leaves the view stale; it does not stop the poller.
type FetchFunc func(ctx context.Context) error

// Poller keeps one view eventually consistent with server state by
// re-fetching on a fixed interval. Invalidate forces an immediate
// out-of-cycle re-fetch after a local mutation. At most one fetch is in
// flight at a time; there is no retry beyond the next regular tick.
type Poller struct {
	mu sync.Mutex

	name     string
	interval time.Duration
	fetch    FetchFunc

	state      ViewState
	invalidate chan struct{}
	done       chan struct{}
	running    bool
}

// NewPoller creates a poller for one view. name is used for logging
// only.
func NewPoller(name string, interval time.Duration, fetch FetchFunc) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		fetch:    fetch,
		state:    ViewIdle,
		// Buffer of one: an invalidation during a fetch coalesces into
		// a single follow-up fetch.
		invalidate: make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Start begins polling: one immediate fetch, then one per interval,
// until Stop is called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller %s already running", p.name)
	}
	p.running = true
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.pollLoop(ctx)
	return nil
}

// Stop stops the poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	close(p.done)
}

// IsRunning returns true if the poller is running.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// State returns the view's current state.
func (p *Poller) State() ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Invalidate schedules an immediate re-fetch, coalescing with any
// already-pending invalidation. Call it after a local mutation so the
// view catches up without waiting for the next tick. Invalidation is
// per poller: mutating one view never re-fetches another.
func (p *Poller) Invalidate() {
	select {
	case p.invalidate <- struct{}{}:
	default:
	}
}

func (p *Poller) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial fetch before the first tick
	p.runFetch(ctx)

	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return
		case <-p.done:
			return
		case <-ticker.C:
			p.runFetch(ctx)
		case <-p.invalidate:
			p.runFetch(ctx)
		}
	}
}

// runFetch performs one fetch. The loop is serial, so at most one fetch
// is ever in flight for this view.
func (p *Poller) runFetch(ctx context.Context) {
	p.setState(ViewFetching)

	if err := p.fetch(ctx); err != nil {
		// Keep the last-known-good data; the next tick retries.
		log.Printf("[poller:%s] fetch failed: %v", p.name, err)
		p.setState(ViewStale)
		return
	}
	p.setState(ViewRendered)
}

func (p *Poller) setState(s ViewState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
