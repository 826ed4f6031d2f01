package resttrack

import (
	"testing"
	"time"

	"github.com/crewlog/crewlog/internal/roster"
)

func restEvent(loc string, start, end time.Time) roster.NonFlightEvent {
	return roster.NonFlightEvent{
		Type:     roster.TypeRest,
		Label:    roster.TypeRest.DefaultLabel(),
		Location: loc,
		Start:    start,
		End:      end,
	}
}

func TestTrackerStartsEmpty(t *testing.T) {
	tr := NewTracker()
	if snap := tr.Current(); snap.InRest {
		t.Fatal("fresh tracker must not be in rest")
	}
}

func TestUpdatePicksContainingWindow(t *testing.T) {
	now := time.Date(2025, 4, 2, 23, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)
	end := now.Add(10 * time.Hour)

	tr := NewTracker()
	tr.Update([]roster.NonFlightEvent{
		restEvent("KEF", start, end),
		{Type: roster.TypeStandby, Start: start, End: end}, // not rest
	}, now)

	snap := tr.Current()
	if !snap.InRest {
		t.Fatal("expected in rest")
	}
	if snap.Location != "KEF" || !snap.End.Equal(end) {
		t.Fatalf("snapshot = %q ending %v, want KEF ending %v", snap.Location, snap.End, end)
	}
	if got := snap.Remaining(now); got != 10*time.Hour {
		t.Fatalf("Remaining = %v, want 10h", got)
	}
}

func TestMostRecentWindowWins(t *testing.T) {
	now := time.Date(2025, 4, 2, 23, 0, 0, 0, time.UTC)

	tr := NewTracker()
	tr.Update([]roster.NonFlightEvent{
		restEvent("AMS", now.Add(-6*time.Hour), now.Add(4*time.Hour)),
		restEvent("KEF", now.Add(-1*time.Hour), now.Add(9*time.Hour)),
	}, now)

	if snap := tr.Current(); snap.Location != "KEF" {
		t.Fatalf("location = %q, want the later-starting KEF window", snap.Location)
	}
}

func TestReevaluateExpiresWindow(t *testing.T) {
	now := time.Date(2025, 4, 2, 23, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Update([]roster.NonFlightEvent{
		restEvent("KEF", now.Add(-1*time.Hour), now.Add(1*time.Hour)),
	}, now)
	if !tr.Current().InRest {
		t.Fatal("expected in rest before the window elapses")
	}

	tr.Reevaluate(now.Add(2 * time.Hour))
	snap := tr.Current()
	if snap.InRest {
		t.Fatal("expected rest window to have expired")
	}
	if snap.Remaining(now) != 0 {
		t.Fatal("Remaining must be zero when not in rest")
	}
}

func TestUpdateReplacesEventSet(t *testing.T) {
	now := time.Date(2025, 4, 2, 23, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Update([]roster.NonFlightEvent{
		restEvent("KEF", now.Add(-1*time.Hour), now.Add(9*time.Hour)),
	}, now)

	// A refresh that no longer carries the rest event clears the state.
	tr.Update(nil, now)
	if tr.Current().InRest {
		t.Fatal("stale rest event survived an update")
	}
}
