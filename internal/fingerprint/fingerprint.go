// Package fingerprint builds comparable keys from flight attributes to
// detect duplicate imports and to match scheduled records against actual
// legs across independently-sourced feeds. Fingerprints are derived on
// demand and never persisted.
package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/crewlog/crewlog/internal/blocktime"
	"github.com/crewlog/crewlog/internal/model"
	"github.com/crewlog/crewlog/internal/roster"
)

// Hash is a 128-bit digest of a fingerprint key. Two records with the
// same canonical key produce the same Hash.
type Hash [16]byte

// Zero is the zero-value Hash.
var Zero Hash

// noDate is the sentinel date token for records without a resolved
// calendar day.
const noDate = "NODATE"

const dayLayout = "20060102"

// ForLeg computes the strict fingerprint: UTC date, O-D pair, flight
// number and effective out/in times, with deadhead times substituted on
// deadhead legs.
func ForLeg(l *model.Leg) Hash {
	return hashKey(strictKey(
		dayToken(l.FlightDate()),
		l.Origin, l.Destination, l.FlightNumber,
		normalizeCompact(l.EffectiveOut()), normalizeCompact(l.EffectiveIn()),
	))
}

// RelaxedForLeg computes the fingerprint without times, used to pair a
// scheduled record with this leg.
func RelaxedForLeg(l *model.Leg) Hash {
	return hashKey(relaxedKey(dayToken(l.FlightDate()), l.Origin, l.Destination, l.FlightNumber))
}

// ForFlightEvent computes the strict fingerprint of a parsed feed event,
// using its scheduled out/in clock times.
func ForFlightEvent(ev *roster.FlightEvent) Hash {
	return hashKey(strictKey(
		dayToken(EventDate(ev)),
		ev.Origin, ev.Destination, ev.FlightNumber,
		clockToken(ev.ScheduledOut), clockToken(ev.ScheduledIn),
	))
}

// RelaxedForFlightEvent computes the event fingerprint without times.
func RelaxedForFlightEvent(ev *roster.FlightEvent) Hash {
	return hashKey(relaxedKey(dayToken(EventDate(ev)), ev.Origin, ev.Destination, ev.FlightNumber))
}

// EventDate resolves the calendar day of a feed event: the scheduled
// departure's UTC day when present, else the record's start day.
func EventDate(ev *roster.FlightEvent) time.Time {
	if !ev.ScheduledOut.IsZero() {
		return ev.ScheduledOut.UTC().Truncate(24 * time.Hour)
	}
	if !ev.Start.IsZero() {
		return ev.Start.UTC().Truncate(24 * time.Hour)
	}
	return time.Time{}
}

func strictKey(day, origin, dest, number, out, in string) string {
	return relaxedKey(day, origin, dest, number) + "|" + out + "|" + in
}

func relaxedKey(day, origin, dest, number string) string {
	return strings.Join([]string{
		day,
		strings.ToUpper(origin) + "-" + strings.ToUpper(dest),
		strings.ToUpper(number),
	}, "|")
}

func dayToken(t time.Time) string {
	if t.IsZero() {
		return noDate
	}
	return t.UTC().Format(dayLayout)
}

// clockToken renders the HHMM portion of an absolute timestamp, empty
// when the timestamp is absent.
func clockToken(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("1504")
}

// normalizeCompact canonicalizes a compact time string so short-padded
// entries ("930") fingerprint identically to their padded form ("0930").
// Unparseable input becomes the empty token.
func normalizeCompact(s string) string {
	c, ok := blocktime.ParseCompact(s)
	if !ok {
		return ""
	}
	return c.String()
}

// Hex returns the lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements fmt.Stringer.
func (h Hash) String() string {
	return h.Hex()
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Zero
}

// ParseHex decodes a 32-character hex string into a Hash.
func ParseHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("fingerprint.ParseHex: %w", err)
	}
	if len(b) != 16 {
		return Zero, fmt.Errorf("fingerprint.ParseHex: expected 16 bytes, got %d", len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// hashKey computes xxh3-128 of the canonical key string.
func hashKey(key string) Hash {
	h128 := xxh3.Hash128([]byte(key))
	var h Hash
	binary.LittleEndian.PutUint64(h[:8], h128.Lo)
	binary.LittleEndian.PutUint64(h[8:], h128.Hi)
	return h
}
