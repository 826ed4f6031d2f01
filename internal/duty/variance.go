package duty

import (
	"time"

	"github.com/crewlog/crewlog/internal/blocktime"
	"github.com/crewlog/crewlog/internal/config"
	"github.com/crewlog/crewlog/internal/model"
)

// VarianceClass classifies a leg's actual-vs-scheduled deviation.
type VarianceClass string

const (
	VarianceOnTime VarianceClass = "ON_TIME"
	VarianceEarly  VarianceClass = "EARLY"
	VarianceLate   VarianceClass = "LATE"
)

// Severity tiers a block-time variance by magnitude.
type Severity string

const (
	SeverityNone        Severity = "NONE"
	SeverityMinor       Severity = "MINOR"
	SeverityModerate    Severity = "MODERATE"
	SeveritySignificant Severity = "SIGNIFICANT"
)

// Variance is a signed actual-minus-scheduled deviation in minutes.
type Variance struct {
	Minutes int
	Class   VarianceClass
}

// ClassifyVariance buckets a signed deviation under the profile's
// on-time tolerance.
func ClassifyVariance(p config.Profile, minutes int) VarianceClass {
	switch {
	case minutes < -p.OnTimeToleranceMinutes:
		return VarianceEarly
	case minutes > p.OnTimeToleranceMinutes:
		return VarianceLate
	default:
		return VarianceOnTime
	}
}

// BlockSeverity tiers an absolute block-time deviation: none within the
// on-time tolerance, then minor, moderate and significant per the
// profile's tier bounds.
func BlockSeverity(p config.Profile, minutes int) Severity {
	if minutes < 0 {
		minutes = -minutes
	}
	switch {
	case minutes <= p.OnTimeToleranceMinutes:
		return SeverityNone
	case minutes <= p.VarianceMinorMaxMinutes:
		return SeverityMinor
	case minutes <= p.VarianceModerateMaxMinutes:
		return SeverityModerate
	default:
		return SeveritySignificant
	}
}

// DepartureVariance compares a leg's actual out time against its
// scheduled departure. The actual compact time is read on the scheduled
// time's UTC day; deviations are normalized to the nearest wheel
// direction so a departure just past midnight reads as minutes late, not
// a day early. Reports ok=false when either side is absent.
func (c *Calculator) DepartureVariance(leg *model.Leg) (Variance, bool) {
	return c.variance(leg.EffectiveOut(), leg.ScheduledOut())
}

// ArrivalVariance compares a leg's actual in time against its scheduled
// arrival, under the same rules as DepartureVariance.
func (c *Calculator) ArrivalVariance(leg *model.Leg) (Variance, bool) {
	return c.variance(leg.EffectiveIn(), leg.ScheduledIn())
}

// BlockVariance compares a leg's actual block minutes against the
// scheduled span and tiers the deviation.
func (c *Calculator) BlockVariance(leg *model.Leg) (int, Severity, bool) {
	actual, ok := leg.BlockMinutes()
	if !ok {
		return 0, SeverityNone, false
	}
	schedOut, schedIn := leg.ScheduledOut(), leg.ScheduledIn()
	if schedOut.IsZero() || schedIn.IsZero() {
		return 0, SeverityNone, false
	}
	scheduled := int(schedIn.Sub(schedOut) / time.Minute)
	diff := actual - scheduled
	return diff, BlockSeverity(c.Profile, diff), true
}

func (c *Calculator) variance(actual string, scheduled time.Time) (Variance, bool) {
	if scheduled.IsZero() {
		return Variance{}, false
	}
	a, ok := blocktime.ParseCompact(actual)
	if !ok {
		return Variance{}, false
	}
	s := blocktime.ClockTime{Hour: scheduled.UTC().Hour(), Minute: scheduled.UTC().Minute()}

	// Shortest direction around the wheel.
	diff := a.Minutes() - s.Minutes()
	const day = 24 * 60
	if diff > day/2 {
		diff -= day
	} else if diff < -day/2 {
		diff += day
	}
	return Variance{Minutes: diff, Class: ClassifyVariance(c.Profile, diff)}, true
}
