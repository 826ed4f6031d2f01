package blocktime

// NightRule holds the thresholds and attribution percentages for the
// heuristic night-time estimate, in minutes from midnight. A precise
// estimator backed by position data overrides this heuristic entirely.
type NightRule struct {
	NightStart int // window opens at or after this minute (default 19:00)
	NightEnd   int // window closes before this minute (default 06:00)
	DuskStart  int // dusk departures begin here (default 15:00)

	BothEndpointsPct int // both endpoints in window (default 80)
	OneEndpointPct   int // exactly one endpoint in window (default 40)
	DuskDeparturePct int // dusk departure, night arrival (default 80)
}

// DefaultNightRule returns the documented heuristic thresholds.
func DefaultNightRule() NightRule {
	return NightRule{
		NightStart:       19 * 60,
		NightEnd:         6 * 60,
		DuskStart:        15 * 60,
		BothEndpointsPct: 80,
		OneEndpointPct:   40,
		DuskDeparturePct: 80,
	}
}

// InWindow reports whether a clock time falls in the night window.
func (r NightRule) InWindow(c ClockTime) bool {
	m := c.Minutes()
	return m >= r.NightStart || m < r.NightEnd
}

func (r NightRule) inDusk(c ClockTime) bool {
	m := c.Minutes()
	return m >= r.DuskStart && m < r.NightStart
}

// NightMinutes estimates how many of the span's block minutes fall at
// night. Both endpoints in the window attribute BothEndpointsPct of the
// block; a dusk departure with a night arrival attributes DuskDeparturePct
// of the portion past the window start; a single endpoint in the window
// attributes OneEndpointPct; anything else none.
func (r NightRule) NightMinutes(out, in ClockTime) int {
	block := SpanMinutes(out, in)
	if block == 0 {
		return 0
	}
	outNight := r.InWindow(out)
	inNight := r.InWindow(in)
	switch {
	case outNight && inNight:
		return block * r.BothEndpointsPct / 100
	case r.inDusk(out) && inNight:
		after := SpanMinutes(ClockTime{Hour: r.NightStart / 60, Minute: r.NightStart % 60}, in)
		return after * r.DuskDeparturePct / 100
	case outNight || inNight:
		return block * r.OneEndpointPct / 100
	default:
		return 0
	}
}
