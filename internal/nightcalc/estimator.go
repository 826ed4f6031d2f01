// Package nightcalc estimates how much of a flight happens at night. The
// Estimator interface has two implementations: a clock-window heuristic
// that needs nothing but the out/in times, and a solar-elevation model
// that interpolates the great-circle track between airport coordinates.
// An async Service fronts the estimators with a bounded worker pool and a
// per-leg result cache.
package nightcalc

import (
	"errors"
	"time"

	"github.com/crewlog/crewlog/internal/blocktime"
)

// Estimator computes the night portion of a flight in seconds.
type Estimator interface {
	NightSeconds(origin, dest string, out, in time.Time) (int64, error)
}

// ErrNoPosition reports that an estimator lacks the position data it
// needs; callers degrade to the heuristic.
var ErrNoPosition = errors.New("nightcalc: no position data")

// Heuristic estimates night time from departure and arrival clock times
// alone, using the configured night/dusk windows. Origin and destination
// are ignored.
type Heuristic struct {
	Rule blocktime.NightRule
}

// NewHeuristic returns a Heuristic with the given rule.
func NewHeuristic(rule blocktime.NightRule) Heuristic {
	return Heuristic{Rule: rule}
}

// NightSeconds applies the window heuristic to the span's endpoints.
func (h Heuristic) NightSeconds(_, _ string, out, in time.Time) (int64, error) {
	if out.IsZero() || in.IsZero() {
		return 0, errors.New("nightcalc: missing out/in times")
	}
	o := clockOf(out)
	i := clockOf(in)
	return int64(h.Rule.NightMinutes(o, i)) * 60, nil
}

func clockOf(t time.Time) blocktime.ClockTime {
	t = t.UTC()
	return blocktime.ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}
