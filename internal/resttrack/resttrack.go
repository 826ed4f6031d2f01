// Package resttrack maintains the process-wide "currently in rest"
// snapshot. A single writer updates it on each roster refresh (and on a
// periodic re-evaluation tick); any number of readers take lock-free
// snapshots through an atomic pointer.
package resttrack

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/crewlog/crewlog/internal/roster"
	"github.com/crewlog/crewlog/internal/scanloop"
)

// Snapshot is an immutable view of the current rest state. While InRest
// is true, duty-period displays report the rest indicator and suppress
// the in-progress duty accumulation instead of showing a stale count.
type Snapshot struct {
	InRest   bool
	Label    string
	Location string
	Start    time.Time
	End      time.Time
	TakenAt  time.Time
}

// Remaining reports how much of the rest window is left at now. Zero
// when not in rest or the window has elapsed.
func (s Snapshot) Remaining(now time.Time) time.Duration {
	if !s.InRest || !now.Before(s.End) {
		return 0
	}
	return s.End.Sub(now)
}

// Tracker owns the rest snapshot. Updates are serialized by a mutex;
// Current never blocks.
type Tracker struct {
	mu   sync.Mutex // single-writer discipline for Update/Reevaluate
	rest []roster.NonFlightEvent

	snap atomic.Pointer[Snapshot]
}

// NewTracker returns a Tracker holding an empty (not in rest) snapshot.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.snap.Store(&Snapshot{})
	return t
}

// Update replaces the tracked event set from a fresh parse and
// re-evaluates the snapshot. Only rest-classified events are retained.
func (t *Tracker) Update(events []roster.NonFlightEvent, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rest = t.rest[:0]
	for _, ev := range events {
		if ev.Type.IsRest() {
			t.rest = append(t.rest, ev)
		}
	}
	t.publish(now)
}

// Reevaluate recomputes the snapshot against now from the retained
// events, so the countdown stays current between feed refreshes.
func (t *Tracker) Reevaluate(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publish(now)
}

// Current returns the latest snapshot without blocking.
func (t *Tracker) Current() Snapshot {
	return *t.snap.Load()
}

// Run re-evaluates the snapshot at a jittered interval until stopCh is
// closed.
func (t *Tracker) Run(stopCh <-chan struct{}, interval time.Duration) {
	scanloop.Run(stopCh, interval, interval/10, func() {
		t.Reevaluate(time.Now().UTC())
	})
}

// publish picks the most recent rest event whose interval contains now.
// Caller holds mu.
func (t *Tracker) publish(now time.Time) {
	next := &Snapshot{TakenAt: now}
	for _, ev := range t.rest {
		if now.Before(ev.Start) || !now.Before(ev.End) {
			continue
		}
		if next.InRest && !ev.Start.After(next.Start) {
			continue
		}
		next.InRest = true
		next.Label = ev.Label
		next.Location = ev.Location
		next.Start = ev.Start
		next.End = ev.End
	}
	t.snap.Store(next)
}
