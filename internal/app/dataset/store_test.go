package dataset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmay/placementdesk/internal/app/models"
)

// fakeFetcher returns canned responses in sequence.
type fakeFetcher struct {
	mu        sync.Mutex
	responses []fetchResponse
	calls     int
}

type fetchResponse struct {
	records []models.PlacementRecord
	err     error
}

func (f *fakeFetcher) FetchAll(ctx context.Context) ([]models.PlacementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp := f.responses[f.calls%len(f.responses)]
	f.calls++
	return resp.records, resp.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStore_RefreshReplacesSnapshot(t *testing.T) {
	records := []models.PlacementRecord{{ID: "1", Name: "John"}}
	fetcher := &fakeFetcher{responses: []fetchResponse{{records: records}}}
	store := NewStore(fetcher, zerolog.Nop())

	require.NoError(t, store.Refresh(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, records, snap.Records)
	assert.NoError(t, snap.Err)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestStore_FailedRefreshKeepsLastGoodData(t *testing.T) {
	records := []models.PlacementRecord{{ID: "1", Name: "John"}}
	fetchErr := errors.New("connection refused")
	fetcher := &fakeFetcher{responses: []fetchResponse{
		{records: records},
		{err: fetchErr},
	}}
	store := NewStore(fetcher, zerolog.Nop())

	require.NoError(t, store.Refresh(context.Background()))
	require.Error(t, store.Refresh(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, records, snap.Records, "previous snapshot must survive a failed refresh")
	assert.ErrorIs(t, snap.Err, fetchErr, "error state must be visible to consumers")
}

func TestStore_FailureBeforeAnyDataLeavesEmptySnapshot(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResponse{{err: errors.New("down")}}}
	store := NewStore(fetcher, zerolog.Nop())

	require.Error(t, store.Refresh(context.Background()))

	snap := store.Snapshot()
	assert.Empty(t, snap.Records)
	assert.Error(t, snap.Err)
}

func TestStore_SubscribersNotifiedOnRefresh(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResponse{{}}}
	store := NewStore(fetcher, zerolog.Nop())

	sub := store.Subscribe()
	require.NoError(t, store.Refresh(context.Background()))

	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified after refresh")
	}
}

func TestStore_PollsOnInjectedTicker(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResponse{{}}}
	ticks := make(chan time.Time)
	store := NewStore(fetcher, zerolog.Nop(),
		WithInterval(time.Minute),
		WithClock(time.Now, func(d time.Duration) (<-chan time.Time, func()) {
			return ticks, func() {}
		}),
	)
	sub := store.Subscribe()

	store.Start(context.Background())
	defer store.Stop()

	// Initial refresh on start.
	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("no refresh on start")
	}

	// Each tick triggers another full fetch.
	ticks <- time.Now()
	select {
	case <-sub:
	case <-time.After(time.Second):
		t.Fatal("no refresh on tick")
	}

	assert.GreaterOrEqual(t, fetcher.callCount(), 2)
}

func TestStore_StopCancelsPolling(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResponse{{}}}
	ticks := make(chan time.Time)
	store := NewStore(fetcher, zerolog.Nop(),
		WithClock(time.Now, func(d time.Duration) (<-chan time.Time, func()) {
			return ticks, func() {}
		}),
	)

	store.Start(context.Background())
	store.Stop()

	calls := fetcher.callCount()
	select {
	case ticks <- time.Now():
		t.Fatal("ticker still being read after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, calls, fetcher.callCount())

	// Snapshot remains readable after teardown.
	_ = store.Snapshot()
}
