package reconcile

import (
	"sort"
	"time"

	"github.com/crewlog/crewlog/internal/roster"
)

// GroupTrips groups non-deadhead flight events into trips: events are
// ordered by scheduled departure (falling back to the record start), and
// consecutive events sharing a flight number form one trip. A
// flight-number change starts a new trip. Deadheads are positioning, not
// trip legs, and are excluded entirely.
func GroupTrips(flights []roster.FlightEvent) [][]roster.FlightEvent {
	var line []roster.FlightEvent
	for _, ev := range flights {
		if ev.Deadhead {
			continue
		}
		line = append(line, ev)
	}
	sort.SliceStable(line, func(i, j int) bool {
		return departureOf(line[i]).Before(departureOf(line[j]))
	})

	var groups [][]roster.FlightEvent
	for _, ev := range line {
		n := len(groups)
		if n > 0 && groups[n-1][0].FlightNumber == ev.FlightNumber {
			groups[n-1] = append(groups[n-1], ev)
			continue
		}
		groups = append(groups, []roster.FlightEvent{ev})
	}
	return groups
}

func departureOf(ev roster.FlightEvent) time.Time {
	if !ev.ScheduledOut.IsZero() {
		return ev.ScheduledOut
	}
	return ev.Start
}
