package model

import "fmt"

// LegStatus is the lifecycle state of a leg.
type LegStatus string

const (
	LegStandby   LegStatus = "STANDBY"
	LegActive    LegStatus = "ACTIVE"
	LegCompleted LegStatus = "COMPLETED"
	LegSkipped   LegStatus = "SKIPPED"
)

// Transition table: from -> allowed tos. Completed legs reopen only
// through trip reactivation, which bypasses the table deliberately.
var legTransitions = map[LegStatus][]LegStatus{
	LegStandby:   {LegActive, LegSkipped},
	LegActive:    {LegCompleted, LegSkipped},
	LegCompleted: {},
	LegSkipped:   {},
}

// IsValid reports whether the status is a known value.
func (s LegStatus) IsValid() bool {
	switch s {
	case LegStandby, LegActive, LegCompleted, LegSkipped:
		return true
	}
	return false
}

// CountsTowardTotals reports whether legs in this state contribute to
// duty/block totals. Standby and skipped never do.
func (s LegStatus) CountsTowardTotals() bool {
	return s == LegActive || s == LegCompleted
}

// CanTransitionLeg checks whether moving a leg from one status to another
// is allowed.
func CanTransitionLeg(from, to LegStatus) bool {
	allowed, ok := legTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionLeg applies a validated status change to the leg.
func (l *Leg) TransitionLeg(to LegStatus) error {
	if !CanTransitionLeg(l.Status, to) {
		return fmt.Errorf("invalid leg transition from %s to %s", l.Status, to)
	}
	l.Status = to
	return nil
}

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripPlanning  TripStatus = "PLANNING"
	TripActive    TripStatus = "ACTIVE"
	TripCompleted TripStatus = "COMPLETED"
)

var tripTransitions = map[TripStatus][]TripStatus{
	TripPlanning:  {TripActive},
	TripActive:    {TripCompleted},
	TripCompleted: {TripActive}, // reactivation
}

// IsValid reports whether the status is a known value.
func (s TripStatus) IsValid() bool {
	switch s {
	case TripPlanning, TripActive, TripCompleted:
		return true
	}
	return false
}

// CanTransitionTrip checks whether moving a trip from one status to
// another is allowed.
func CanTransitionTrip(from, to TripStatus) bool {
	allowed, ok := tripTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionTrip applies a validated status change to the trip.
func (t *Trip) TransitionTrip(to TripStatus) error {
	if !CanTransitionTrip(t.Status, to) {
		return fmt.Errorf("invalid trip transition from %s to %s", t.Status, to)
	}
	t.Status = to
	return nil
}

// ReactivateTrip reopens a completed trip and resets its completed legs
// to active. This is the only path that reopens a completed leg.
func ReactivateTrip(t *Trip, legs []*Leg) error {
	if err := t.TransitionTrip(TripActive); err != nil {
		return err
	}
	for _, l := range legs {
		if l.Status == LegCompleted {
			l.Status = LegActive
		}
	}
	return nil
}
