// Package roster parses the crew-roster calendar text feed into typed
// flight and non-flight events. Parsing is best-effort: malformed records
// are skipped with a diagnostic, never an error, because the feed format
// is not formally specified and varies by source.
package roster

import "time"

// FlightEvent is a single scheduled flight segment extracted from the
// feed. It is transient: produced on every fetch, consumed by
// reconciliation, then discarded.
type FlightEvent struct {
	FlightNumber string
	Origin       string
	Destination  string
	Role         string
	Deadhead     bool

	// Zulu tags from the description, absolute (zero when absent).
	CheckIn      time.Time
	ScheduledOut time.Time
	ScheduledIn  time.Time
	CheckOut     time.Time

	// Interval tags from the description, minutes (0 when absent).
	DutyMinutes  int
	BlockMinutes int

	AircraftType string
	TailNumber   string

	SourceUID string
	Start     time.Time
	End       time.Time
	Body      string // unescaped description, retained for re-parsing
}

// NonFlightEvent is a non-flying duty/rest/reserve period.
type NonFlightEvent struct {
	Type            NonFlightType
	Label           string // display label, possibly overridden by the feed
	Location        string
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Notes           string

	SourceUID string
	Body      string
}

// NonFlightType is the fixed vocabulary of non-flight duty codes.
type NonFlightType string

const (
	TypeDayOff         NonFlightType = "OFF"
	TypeWorkingOff     NonFlightType = "WOFF"
	TypeDutyNoFlying   NonFlightType = "DUTY"
	TypeRest           NonFlightType = "REST"
	TypeStandby        NonFlightType = "SBY"
	TypeAirportStandby NonFlightType = "ASBY"
	TypeReserve        NonFlightType = "RSV"
	TypeHoliday        NonFlightType = "HOL"
	TypeVacation       NonFlightType = "VAC"
	TypeTraining       NonFlightType = "TRG"
)

// Display labels live in a lookup table, not on the type.
var nonFlightLabels = map[NonFlightType]string{
	TypeDayOff:         "Day Off",
	TypeWorkingOff:     "Working Day Off",
	TypeDutyNoFlying:   "On Duty (No Flying)",
	TypeRest:           "Rest Period",
	TypeStandby:        "Standby",
	TypeAirportStandby: "Airport Standby",
	TypeReserve:        "Reserve",
	TypeHoliday:        "Public Holiday",
	TypeVacation:       "Vacation",
	TypeTraining:       "Training",
}

// ParseNonFlightType maps a summary type code to the vocabulary.
func ParseNonFlightType(code string) (NonFlightType, bool) {
	t := NonFlightType(code)
	if _, ok := nonFlightLabels[t]; ok {
		return t, true
	}
	return "", false
}

// IsValid reports whether the type is a known vocabulary code.
func (t NonFlightType) IsValid() bool {
	_, ok := nonFlightLabels[t]
	return ok
}

// DefaultLabel returns the display label for the code.
func (t NonFlightType) DefaultLabel() string {
	return nonFlightLabels[t]
}

// IsOff reports a non-working day (day off, holiday, vacation).
func (t NonFlightType) IsOff() bool {
	return t == TypeDayOff || t == TypeHoliday || t == TypeVacation
}

// IsWorkingOff reports a working day off.
func (t NonFlightType) IsWorkingOff() bool {
	return t == TypeWorkingOff
}

// IsOnDuty reports ground duty (office/training) without flying.
func (t NonFlightType) IsOnDuty() bool {
	return t == TypeDutyNoFlying || t == TypeTraining
}

// IsRest reports a rest period.
func (t NonFlightType) IsRest() bool {
	return t == TypeRest
}

// IsStandby reports any standby or reserve code.
func (t NonFlightType) IsStandby() bool {
	return t == TypeStandby || t == TypeAirportStandby || t == TypeReserve
}

// DiagKind distinguishes why a record was skipped.
type DiagKind string

const (
	DiagMissingField        DiagKind = "MISSING_FIELD"
	DiagMalformedField      DiagKind = "MALFORMED_FIELD"
	DiagUnrecognizedSummary DiagKind = "UNRECOGNIZED_SUMMARY"
)

// Diagnostic describes one skipped record. UID may be empty when the
// record never carried one.
type Diagnostic struct {
	UID    string
	Kind   DiagKind
	Field  string
	Detail string
}
