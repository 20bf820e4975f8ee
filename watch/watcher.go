// Package watch implements the polling observer for a proposal record:
// a fixed-interval re-fetch loop that reports each status or response
// change exactly once.
package watch

import (
	"context"
	"sync"
	"time"

	"proposalcard-backend/models"
)

// DefaultInterval is the re-fetch period when none is given.
const DefaultInterval = 3 * time.Second

// FetchFunc re-reads the observed record, normally by id.
type FetchFunc func(ctx context.Context) (*models.Proposal, error)

// Watcher polls a single proposal and emits the new record on Updates
// whenever its status or response message differs from the last observed
// values. Fetch errors skip the tick; consumers may observe a change up to
// one interval late.
type Watcher struct {
	interval time.Duration
	fetch    FetchFunc
	updates  chan *models.Proposal

	stop     chan struct{}
	stopOnce sync.Once

	lastStatus  string
	lastMessage string
	seeded      bool
}

func New(interval time.Duration, fetch FetchFunc) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		interval: interval,
		fetch:    fetch,
		updates:  make(chan *models.Proposal, 1),
		stop:     make(chan struct{}),
	}
}

// SetBaseline seeds the last-observed values so the record's current state
// is not reported as a change. Without a baseline, the first successful
// fetch seeds it instead.
func (w *Watcher) SetBaseline(p *models.Proposal) {
	w.lastStatus = p.Status
	w.lastMessage = p.ResponseMessage
	w.seeded = true
}

// Updates delivers each observed change once. Closed when the watcher
// stops.
func (w *Watcher) Updates() <-chan *models.Proposal {
	return w.updates
}

// Start begins polling in a new goroutine. The loop ends when Stop is
// called or ctx is canceled; no timer survives either.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop halts polling. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.updates)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
		}

		p, err := w.fetch(ctx)
		if err != nil {
			continue // transient; try again next tick
		}

		if !w.seeded {
			w.SetBaseline(p)
			continue
		}
		if p.Status == w.lastStatus && p.ResponseMessage == w.lastMessage {
			continue
		}
		w.SetBaseline(p)

		select {
		case w.updates <- p:
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		}
	}
}
