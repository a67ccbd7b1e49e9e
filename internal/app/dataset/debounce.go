package dataset

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period before a search term is committed.
const DefaultDebounceDelay = 300 * time.Millisecond

// timerFactory schedules fn after d and returns a cancel func. Injectable so
// tests can fire the timer deterministically.
type timerFactory func(d time.Duration, fn func()) (cancel func())

// Debouncer commits only the most recent value once input has been stable
// for the configured delay. Values set during the quiet window are discarded.
type Debouncer struct {
	delay    time.Duration
	newTimer timerFactory

	mu      sync.Mutex
	pending string
	cancel  func()
	commit  func(value string)
}

// NewDebouncer creates a debouncer that calls commit with the settled value.
func NewDebouncer(delay time.Duration, commit func(value string)) *Debouncer {
	return &Debouncer{
		delay:  delay,
		commit: commit,
		newTimer: func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		},
	}
}

// NewDebouncerWithTimer is like NewDebouncer with an injected timer factory.
func NewDebouncerWithTimer(delay time.Duration, commit func(value string), newTimer timerFactory) *Debouncer {
	d := NewDebouncer(delay, commit)
	d.newTimer = newTimer
	return d
}

// Set records a new input value and restarts the quiet period.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.pending = value
	d.cancel = d.newTimer(d.delay, func() {
		d.mu.Lock()
		settled := d.pending
		d.cancel = nil
		d.mu.Unlock()
		d.commit(settled)
	})
}

// Cancel drops any pending value without committing it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
