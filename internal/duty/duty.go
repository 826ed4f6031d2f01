// Package duty derives effective duty periods from trips and their legs,
// aggregates duty totals, and classifies schedule variance. All elapsed
// time goes through the blocktime wheel arithmetic; this package anchors a
// span exactly once and never re-applies the midnight correction — the
// historical defect this guards against was the correction stacking across
// layers until a four-hour trip reported twenty-two hours of duty.
package duty

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/crewlog/crewlog/internal/blocktime"
	"github.com/crewlog/crewlog/internal/config"
	"github.com/crewlog/crewlog/internal/model"
)

// AnomalyKind classifies a suspect duty duration.
type AnomalyKind string

const (
	// AnomalyExcessive marks a duty period longer than the profile's
	// maximum. This is the signature of the overnight-wraparound defect.
	AnomalyExcessive AnomalyKind = "EXCESSIVE_DUTY"
	// AnomalyTooShort marks a duty period under the profile's minimum
	// despite at least one valid leg.
	AnomalyTooShort AnomalyKind = "SHORT_DUTY"
)

// Anomaly is a diagnostic attached to a duty result. It is returned to
// the caller alongside the computed value, never used to clamp it.
type Anomaly struct {
	Kind    AnomalyKind
	TripID  string
	Minutes int
	Detail  string
}

// Result is a computed duty period with any diagnostics raised while
// computing it.
type Result struct {
	Start   time.Time
	End     time.Time
	Minutes int

	// Valid is false when the trip has no usable duty bounds (no manual
	// override and no valid legs). Start/End/Minutes are zero then.
	Valid bool

	Anomalies []Anomaly
}

// Hours returns the duty duration in hours, floored at zero.
func (r Result) Hours() float64 {
	if r.Minutes <= 0 {
		return 0
	}
	return float64(r.Minutes) / 60
}

// Calculator evaluates duty periods under a calculation profile.
type Calculator struct {
	Profile config.Profile
}

// NewCalculator returns a Calculator with the given profile.
func NewCalculator(p config.Profile) *Calculator {
	return &Calculator{Profile: p}
}

// EffectiveDutyStart returns the trip's duty start: the manual override
// when set, otherwise the first valid leg's actual out time minus the
// pre-duty buffer, anchored to the trip's calendar date.
func (c *Calculator) EffectiveDutyStart(trip *model.Trip, legs []*model.Leg) (time.Time, bool) {
	r := c.Evaluate(trip, legs)
	return r.Start, r.Valid
}

// EffectiveDutyEnd returns the trip's duty end: the manual override when
// set, otherwise the last valid leg's actual in time plus the post-duty
// buffer.
func (c *Calculator) EffectiveDutyEnd(trip *model.Trip, legs []*model.Leg) (time.Time, bool) {
	r := c.Evaluate(trip, legs)
	return r.End, r.Valid
}

// TotalDutyHours returns the trip's duty duration in hours, floored at
// zero, plus any anomalies raised while computing it.
func (c *Calculator) TotalDutyHours(trip *model.Trip, legs []*model.Leg) (float64, []Anomaly) {
	r := c.Evaluate(trip, legs)
	return r.Hours(), r.Anomalies
}

// Evaluate computes the full duty period for a trip. Manual bounds
// override per side; auto bounds come from the first/last contributing
// leg's actual out/in on the 24-hour wheel, anchored once to the trip
// date via blocktime.AnchorSpan, with the pre/post buffers applied after
// anchoring so they can never trigger a second midnight roll.
func (c *Calculator) Evaluate(trip *model.Trip, legs []*model.Leg) Result {
	manualStart := nsTime(trip.ManualDutyStartNs)
	manualEnd := nsTime(trip.ManualDutyEndNs)

	contributing := contributingLegs(legs)

	start, end, _ := c.autoBounds(trip, contributing)
	if !manualStart.IsZero() {
		start = manualStart
	}
	if !manualEnd.IsZero() {
		end = manualEnd
	}
	if start.IsZero() || end.IsZero() {
		return Result{}
	}

	minutes := int(end.Sub(start) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	r := Result{Start: start, End: end, Minutes: minutes, Valid: true}
	r.Anomalies = c.checkAnomalies(trip, contributing, minutes)
	for _, a := range r.Anomalies {
		log.Printf("[duty] warning: %s trip=%s minutes=%d %s", a.Kind, a.TripID, a.Minutes, a.Detail)
	}
	return r
}

// autoBounds derives the unbuffered-then-buffered duty bounds from the
// contributing legs.
func (c *Calculator) autoBounds(trip *model.Trip, legs []*model.Leg) (time.Time, time.Time, bool) {
	if len(legs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	date := trip.Date()
	if date.IsZero() {
		date = legs[0].FlightDate()
	}
	if date.IsZero() {
		return time.Time{}, time.Time{}, false
	}

	firstOut, ok := blocktime.ParseCompact(legs[0].EffectiveOut())
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	lastIn, ok := blocktime.ParseCompact(legs[len(legs)-1].EffectiveIn())
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	// The one and only wraparound decision for this duty period.
	start, end := blocktime.AnchorSpan(date, firstOut, lastIn)
	start = start.Add(-time.Duration(c.Profile.PreDutyBufferMinutes) * time.Minute)
	end = end.Add(time.Duration(c.Profile.PostDutyBufferMinutes) * time.Minute)
	return start, end, true
}

func (c *Calculator) checkAnomalies(trip *model.Trip, legs []*model.Leg, minutes int) []Anomaly {
	var out []Anomaly
	if minutes > c.Profile.DutyAnomalyMaxMinutes {
		out = append(out, Anomaly{
			Kind:    AnomalyExcessive,
			TripID:  trip.ID,
			Minutes: minutes,
			Detail:  fmt.Sprintf("exceeds %d min limit; check for stacked midnight correction", c.Profile.DutyAnomalyMaxMinutes),
		})
	}
	if minutes < c.Profile.DutyAnomalyMinMinutes && len(legs) > 0 {
		out = append(out, Anomaly{
			Kind:    AnomalyTooShort,
			TripID:  trip.ID,
			Minutes: minutes,
			Detail:  fmt.Sprintf("under %d min with %d valid legs", c.Profile.DutyAnomalyMinMinutes, len(legs)),
		})
	}
	return out
}

// contributingLegs filters to legs that count toward totals and have at
// least one actual time, ordered by sequence.
func contributingLegs(legs []*model.Leg) []*model.Leg {
	var out []*model.Leg
	for _, l := range legs {
		if l.Status.CountsTowardTotals() && l.IsValid() {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func nsTime(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
