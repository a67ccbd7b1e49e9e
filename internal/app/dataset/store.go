package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tanmay/placementdesk/internal/app/models"
)

// DefaultRefreshInterval matches the consuming view's polling cadence.
const DefaultRefreshInterval = 60 * time.Second

// Fetcher retrieves the complete current record set. There is no pagination
// or delta fetch; every call is a full read.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.PlacementRecord, error)
}

// Snapshot is the store's current view of the dataset. When the last refresh
// failed, Err is set and Records holds the last successfully fetched data
// (or nil if none yet).
type Snapshot struct {
	Records   []models.PlacementRecord
	FetchedAt time.Time
	Err       error
}

// Store owns the in-memory dataset for a consuming view. It refreshes on
// demand and on a fixed interval while started, and notifies subscribers
// after every refresh attempt. The last completed refresh wins; overlapping
// fetches are not guarded beyond that.
type Store struct {
	fetcher  Fetcher
	interval time.Duration
	logger   zerolog.Logger

	// now and newTicker are injectable for tests.
	now       func() time.Time
	newTicker func(d time.Duration) (<-chan time.Time, func())

	mu    sync.RWMutex
	snap  Snapshot
	subs  []chan struct{}
	stop  context.CancelFunc
	runWG sync.WaitGroup
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) StoreOption {
	return func(s *Store) { s.interval = d }
}

// WithClock injects the time source and ticker factory used for polling.
func WithClock(now func() time.Time, newTicker func(d time.Duration) (<-chan time.Time, func())) StoreOption {
	return func(s *Store) {
		s.now = now
		s.newTicker = newTicker
	}
}

// NewStore creates a store over the given fetch collaborator.
func NewStore(fetcher Fetcher, logger zerolog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		fetcher:  fetcher,
		interval: DefaultRefreshInterval,
		logger:   logger,
		now:      time.Now,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh performs one full fetch and replaces the snapshot. On failure the
// previous records are kept and the error becomes part of the snapshot so
// consumers can surface it.
func (s *Store) Refresh(ctx context.Context) error {
	records, err := s.fetcher.FetchAll(ctx)

	s.mu.Lock()
	if err != nil {
		s.snap.Err = err
	} else {
		s.snap = Snapshot{Records: records, FetchedAt: s.now()}
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("Dataset refresh failed, keeping previous snapshot")
	}
	s.notify()
	return err
}

// Snapshot returns the current view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe returns a channel that receives a signal after every refresh
// attempt. Signals are dropped rather than queued if the subscriber lags.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Start refreshes immediately and then keeps the snapshot fresh on the
// configured interval until Stop is called or ctx is cancelled.
func (s *Store) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		cancel()
		return
	}
	s.stop = cancel
	s.mu.Unlock()

	s.runWG.Add(1)
	go func() {
		defer s.runWG.Done()

		_ = s.Refresh(ctx)

		ticks, stopTicker := s.newTicker(s.interval)
		defer stopTicker()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				_ = s.Refresh(ctx)
			}
		}
	}()
}

// Stop cancels the polling loop and waits for it to finish. The snapshot
// remains available after Stop.
func (s *Store) Stop() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
		s.runWG.Wait()
	}
}
