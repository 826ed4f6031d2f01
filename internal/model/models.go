// Package model defines the durable domain records shared across the
// reconciliation, calculation and persistence layers.
package model

import (
	"time"

	"github.com/crewlog/crewlog/internal/blocktime"
)

// Leg is the canonical per-segment record. Actual times are compact
// "HHMM" strings entered by the user or device; scheduled times are
// absolute timestamps attached by reconciliation from the roster feed.
type Leg struct {
	ID           string `json:"id"`
	TripID       string `json:"trip_id"`
	Seq          int    `json:"seq"`
	FlightNumber string `json:"flight_number"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	Role         string `json:"role"`
	Deadhead     bool   `json:"deadhead"`

	// Actual times, compact "HHMM".
	OutTime string `json:"out_time"`
	OffTime string `json:"off_time"`
	OnTime  string `json:"on_time"`
	InTime  string `json:"in_time"`

	// Deadhead inputs. The two modes are mutually exclusive; use the
	// setters to keep them that way.
	DeadheadOut   string  `json:"deadhead_out"`
	DeadheadIn    string  `json:"deadhead_in"`
	DeadheadHours float64 `json:"deadhead_hours"`

	// Written back by reconciliation, never by hand.
	ScheduledOutNs        int64  `json:"scheduled_out_ns"`
	ScheduledInNs         int64  `json:"scheduled_in_ns"`
	ScheduledFlightNumber string `json:"scheduled_flight_number"`
	RosterSourceID        string `json:"roster_source_id"`

	FlightDateNs int64     `json:"flight_date_ns"` // UTC midnight of the leg's day, 0 when unknown
	Status       LegStatus `json:"status"`

	NightTakeoff bool `json:"night_takeoff"`
	NightLanding bool `json:"night_landing"`

	CreatedAtNs int64 `json:"created_at_ns"`
	UpdatedAtNs int64 `json:"updated_at_ns"`
}

// IsValid reports whether the leg contributes to totals: at least one
// actual time field (out/in or the deadhead equivalents) is populated.
func (l *Leg) IsValid() bool {
	if l.OutTime != "" || l.InTime != "" {
		return true
	}
	if l.Deadhead && (l.DeadheadOut != "" || l.DeadheadIn != "" || l.DeadheadHours > 0) {
		return true
	}
	return false
}

// EffectiveOut returns the out time used for spans and fingerprints,
// substituting the deadhead field on deadhead legs.
func (l *Leg) EffectiveOut() string {
	if l.Deadhead && l.DeadheadOut != "" {
		return l.DeadheadOut
	}
	return l.OutTime
}

// EffectiveIn returns the in time used for spans and fingerprints,
// substituting the deadhead field on deadhead legs.
func (l *Leg) EffectiveIn() string {
	if l.Deadhead && l.DeadheadIn != "" {
		return l.DeadheadIn
	}
	return l.InTime
}

// SetDeadheadTimes records dedicated deadhead out/in strings and clears
// the manual decimal-hours value.
func (l *Leg) SetDeadheadTimes(out, in string) {
	l.DeadheadOut = out
	l.DeadheadIn = in
	l.DeadheadHours = 0
}

// SetDeadheadHours records a manual decimal-hours value and clears the
// dedicated deadhead time strings.
func (l *Leg) SetDeadheadHours(hours float64) {
	l.DeadheadHours = hours
	l.DeadheadOut = ""
	l.DeadheadIn = ""
}

// BlockMinutes returns the leg's block time. Deadhead legs entered as
// decimal hours convert directly; everything else goes through the wheel
// arithmetic on the effective out/in pair.
func (l *Leg) BlockMinutes() (int, bool) {
	if l.Deadhead && l.DeadheadOut == "" && l.DeadheadIn == "" {
		if l.DeadheadHours > 0 {
			return blocktime.DecimalHoursMinutes(l.DeadheadHours), true
		}
		return 0, false
	}
	return blocktime.BlockMinutes(l.EffectiveOut(), l.EffectiveIn())
}

// FlightMinutes returns wheels-off to wheels-on time, when both are set.
func (l *Leg) FlightMinutes() (int, bool) {
	if l.OffTime == "" || l.OnTime == "" {
		return 0, false
	}
	return blocktime.FlightMinutes(l.OffTime, l.OnTime)
}

// FlightDate returns the leg's UTC day, or the zero time when unknown.
func (l *Leg) FlightDate() time.Time {
	if l.FlightDateNs == 0 {
		return time.Time{}
	}
	return time.Unix(0, l.FlightDateNs).UTC()
}

// ScheduledOut returns the scheduled departure, or the zero time.
func (l *Leg) ScheduledOut() time.Time {
	if l.ScheduledOutNs == 0 {
		return time.Time{}
	}
	return time.Unix(0, l.ScheduledOutNs).UTC()
}

// ScheduledIn returns the scheduled arrival, or the zero time.
func (l *Leg) ScheduledIn() time.Time {
	if l.ScheduledInNs == 0 {
		return time.Time{}
	}
	return time.Unix(0, l.ScheduledInNs).UTC()
}

// Trip is an ordered group of legs sharing a calendar day and duty
// period. Manual duty bounds, when set, are authoritative over the
// calculated ones; each side overrides independently.
type Trip struct {
	ID     string     `json:"id"`
	DateNs int64      `json:"date_ns"` // UTC midnight of the trip's day
	Status TripStatus `json:"status"`

	ManualDutyStartNs int64 `json:"manual_duty_start_ns"`
	ManualDutyEndNs   int64 `json:"manual_duty_end_ns"`

	CreatedAtNs int64 `json:"created_at_ns"`
	UpdatedAtNs int64 `json:"updated_at_ns"`
}

// Date returns the trip's UTC day, or the zero time when unset.
func (t *Trip) Date() time.Time {
	if t.DateNs == 0 {
		return time.Time{}
	}
	return time.Unix(0, t.DateNs).UTC()
}

// CollisionNote flags a reconciliation ambiguity for manual review: two
// distinct legs produced the same relaxed fingerprint, and the most
// recently seen one was preferred.
type CollisionNote struct {
	ID              string `json:"id"`
	Fingerprint     string `json:"fingerprint"`
	KeptLegID       string `json:"kept_leg_id"`
	SupersededLegID string `json:"superseded_leg_id"`
	ObservedAtNs    int64  `json:"observed_at_ns"`
	Resolved        bool   `json:"resolved"`
}
