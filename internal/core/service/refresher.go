package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eaglecrew/rules-service/internal/core/domain"
	"github.com/eaglecrew/rules-service/internal/core/ports"
)

// defaultDebounce coalesces bursts of change notifications into one refetch.
const defaultDebounce = 180 * time.Millisecond

type refreshState int

const (
	refreshIdle refreshState = iota
	refreshFetching
	refreshFetchingPending
)

// Refresher owns the in-memory snapshot of currently visible rules served by
// the list endpoint, and keeps it fresh from change notifications.
//
// Refreshes are serialized per process: at most one fetch is in flight. A
// notification arriving mid-fetch moves the state machine to
// refreshFetchingPending, which triggers exactly one trailing re-run when the
// in-flight fetch completes. The state machine is
// Idle -> Fetching -> Fetching+Pending -> Idle; there is no path that runs
// two fetches concurrently.
type Refresher struct {
	rules    ports.RuleService
	log      zerolog.Logger
	debounce time.Duration

	mu           sync.Mutex
	state        refreshState
	timer        *time.Timer
	snapshot     []*domain.Rule
	lastSyncedAt time.Time
	syncErr      error

	// baseCtx is the lifetime context for background fetches, set by Start.
	baseCtx context.Context
}

func NewRefresher(rules ports.RuleService, debounce time.Duration, log zerolog.Logger) *Refresher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Refresher{
		rules:    rules,
		log:      log,
		debounce: debounce,
		baseCtx:  context.Background(),
	}
}

// Start performs the initial fetch synchronously so the first list request
// already has data, then arms the refresher for change notifications until
// ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	r.baseCtx = ctx
	r.state = refreshFetching
	r.mu.Unlock()

	r.fetch()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		r.mu.Unlock()
	}()
}

// Notify records a change notification. The actual refetch is debounced so a
// burst of notifications (one mutation fans out as several store events)
// causes a single fetch.
func (r *Refresher) Notify(event string) {
	r.log.Debug().Str("event", event).Msg("rules change notification")

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.requestRefresh)
}

// Snapshot returns the current visible rules, the last successful sync time,
// and the last sync error. The returned slice is a copy.
func (r *Refresher) Snapshot() ([]*domain.Rule, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Rule, len(r.snapshot))
	copy(out, r.snapshot)
	return out, r.lastSyncedAt, r.syncErr
}

// requestRefresh drives the state machine. Idle starts a fetch; Fetching
// records that one trailing re-run is owed; FetchingPending stays put, which
// is what makes overlapping requests coalesce.
func (r *Refresher) requestRefresh() {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case refreshIdle:
		r.state = refreshFetching
		go r.fetch()
	case refreshFetching:
		r.state = refreshFetchingPending
	case refreshFetchingPending:
		// already owed a re-run
	}
}

func (r *Refresher) fetch() {
	r.mu.Lock()
	ctx := r.baseCtx
	r.mu.Unlock()

	r.runFetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == refreshFetchingPending {
		r.state = refreshFetching
		go r.fetch()
		return
	}
	r.state = refreshIdle
}

// runFetch fetches and swaps the snapshot. A failed fetch keeps the previous
// snapshot so readers still see the last known-good list.
func (r *Refresher) runFetch(ctx context.Context) {
	rules, err := r.rules.ListVisibleRules(ctx, time.Now().UTC())

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.syncErr = err
		r.log.Error().Err(err).Msg("rules refresh failed")
		return
	}
	r.snapshot = rules
	r.lastSyncedAt = time.Now().UTC()
	r.syncErr = nil
}
