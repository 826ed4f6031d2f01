// Package blocktime implements compact time-of-day parsing and the
// wheel arithmetic used for block, flight and duty spans. All elapsed-time
// computations that may cross midnight go through this package so the
// 24-hour wraparound correction is applied exactly once per span.
package blocktime

import "fmt"

// ClockTime is a time of day with minute resolution, detached from any
// calendar date.
type ClockTime struct {
	Hour   int
	Minute int
}

// Minutes returns the offset from midnight in minutes.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String renders the compact "HHMM" form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d%02d", c.Hour, c.Minute)
}

// ParseCompact parses a compact "HHMM" time string. Three-digit input is
// left-padded to four ("930" reads as 09:30). Anything shorter, any
// non-digit content, or an out-of-range hour/minute reports ok=false.
func ParseCompact(s string) (ClockTime, bool) {
	if len(s) < 3 || len(s) > 4 {
		return ClockTime{}, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ClockTime{}, false
		}
	}
	if len(s) == 3 {
		s = "0" + s
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[2]-'0')*10 + int(s[3]-'0')
	if h > 23 || m > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: h, Minute: m}, true
}

// ParseHoursMinutes parses an "HH:MM" interval (a duration, not a clock
// time) into total minutes. Hours may exceed 24; minutes must be under 60.
func ParseHoursMinutes(s string) (int, bool) {
	sep := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			sep = i
			break
		}
	}
	if sep < 1 || sep > len(s)-2 || len(s)-sep-1 != 2 {
		return 0, false
	}
	h, ok := parseDigits(s[:sep])
	if !ok {
		return 0, false
	}
	m, ok := parseDigits(s[sep+1:])
	if !ok || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > 10000 {
			return 0, false
		}
	}
	return n, true
}

// DecimalHoursMinutes converts a manually entered decimal-hours value
// (e.g. 1.5 for ninety minutes) to whole minutes, rounding to nearest.
func DecimalHoursMinutes(hours float64) int {
	if hours <= 0 {
		return 0
	}
	return int(hours*60 + 0.5)
}
