package fingerprint

import (
	"strings"
	"time"

	"github.com/crewlog/crewlog/internal/model"
	"github.com/crewlog/crewlog/internal/roster"
)

// Matches reports whether two legs describe the same flight: identical
// O-D pair, flight numbers equal or either blank (wildcard), and the
// same UTC calendar day. Legs without a resolved date never match.
func Matches(a, b *model.Leg) bool {
	return matchFields(
		a.Origin, a.Destination, a.FlightNumber, a.FlightDate(),
		b.Origin, b.Destination, b.FlightNumber, b.FlightDate(),
	)
}

// MatchesEvent reports whether a parsed feed event describes the same
// flight as an existing leg, under the same wildcard rules as Matches.
func MatchesEvent(l *model.Leg, ev *roster.FlightEvent) bool {
	return matchFields(
		l.Origin, l.Destination, l.FlightNumber, l.FlightDate(),
		ev.Origin, ev.Destination, ev.FlightNumber, EventDate(ev),
	)
}

func matchFields(ao, ad, an string, adate time.Time, bo, bd, bn string, bdate time.Time) bool {
	if !strings.EqualFold(ao, bo) || !strings.EqualFold(ad, bd) {
		return false
	}
	if an != "" && bn != "" && !strings.EqualFold(an, bn) {
		return false
	}
	if adate.IsZero() || bdate.IsZero() {
		return false
	}
	ay, am, ad2 := adate.UTC().Date()
	by, bm, bd2 := bdate.UTC().Date()
	return ay == by && am == bm && ad2 == bd2
}
