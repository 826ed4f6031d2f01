package blocktime

import "time"

const dayMinutes = 24 * 60

// IsOvernight reports whether a span from out to in crosses midnight on
// the 24-hour wheel. This is the single source of truth for "overnight";
// callers must not re-derive it from anchored timestamps.
func IsOvernight(out, in ClockTime) bool {
	return in.Minutes() < out.Minutes()
}

// SpanMinutes computes the elapsed minutes from one clock time to the
// next occurrence of another. A negative raw difference gets the 24-hour
// correction added once; equal times yield zero, never a full day.
func SpanMinutes(from, to ClockTime) int {
	d := to.Minutes() - from.Minutes()
	if d < 0 {
		d += dayMinutes
	}
	return d
}

// BlockMinutes computes out-to-in block time from compact strings.
// Reports ok=false when either side fails to parse.
func BlockMinutes(out, in string) (int, bool) {
	o, ok := ParseCompact(out)
	if !ok {
		return 0, false
	}
	i, ok := ParseCompact(in)
	if !ok {
		return 0, false
	}
	return SpanMinutes(o, i), true
}

// FlightMinutes computes wheels-off to wheels-on flight time from compact
// strings, under the same wheel rule as BlockMinutes.
func FlightMinutes(off, on string) (int, bool) {
	return BlockMinutes(off, on)
}

// AnchorDate places a clock time on the UTC calendar day of ref.
func AnchorDate(c ClockTime, ref time.Time) time.Time {
	ref = ref.UTC()
	return time.Date(ref.Year(), ref.Month(), ref.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// AnchorAfter places a clock time on ref's UTC day, rolling forward one
// day when the result lands before ref. Used to make roster "HHMM Z"
// times absolute relative to an event's start timestamp.
func AnchorAfter(c ClockTime, ref time.Time) time.Time {
	t := AnchorDate(c, ref)
	if t.Before(ref.UTC()) {
		t = t.Add(24 * time.Hour)
	}
	return t
}

// AnchorSpan anchors a from/to clock pair to the UTC day of date,
// advancing the end by one day when it precedes the start. The correction
// happens here and nowhere else; callers adding buffers to the returned
// pair must not roll again.
func AnchorSpan(date time.Time, from, to ClockTime) (time.Time, time.Time) {
	start := AnchorDate(from, date)
	end := AnchorDate(to, date)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}
