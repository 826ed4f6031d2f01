package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/crewlog/crewlog/internal/blocktime"
)

// Profile holds all calculation tunables: duty buffers, night/dusk window
// bounds, variance thresholds and the duty anomaly bounds. It is threaded
// through calculator calls rather than read from a global, so tests can
// override any value per call.
type Profile struct {
	// Duty buffers
	PreDutyBufferMinutes  int `yaml:"pre_duty_buffer_minutes"`
	PostDutyBufferMinutes int `yaml:"post_duty_buffer_minutes"`

	// Night heuristic windows, minutes from midnight.
	NightStartMinute int `yaml:"night_start_minute"`
	NightEndMinute   int `yaml:"night_end_minute"`
	DuskStartMinute  int `yaml:"dusk_start_minute"`

	// Night attribution percentages.
	NightBothEndpointsPct int `yaml:"night_both_endpoints_pct"`
	NightOneEndpointPct   int `yaml:"night_one_endpoint_pct"`
	NightDuskDeparturePct int `yaml:"night_dusk_departure_pct"`

	// Schedule variance: deviations within the tolerance count as on-time.
	OnTimeToleranceMinutes int `yaml:"on_time_tolerance_minutes"`

	// Block-variance severity tier upper bounds (minutes, absolute).
	VarianceMinorMaxMinutes    int `yaml:"variance_minor_max_minutes"`
	VarianceModerateMaxMinutes int `yaml:"variance_moderate_max_minutes"`

	// Duty anomaly bounds. Durations outside (Min, Max) with at least one
	// valid leg are surfaced as diagnostics, never clamped.
	DutyAnomalyMaxMinutes int `yaml:"duty_anomaly_max_minutes"`
	DutyAnomalyMinMinutes int `yaml:"duty_anomaly_min_minutes"`
}

// DefaultProfile returns the documented calculation defaults.
func DefaultProfile() Profile {
	return Profile{
		PreDutyBufferMinutes:  60,
		PostDutyBufferMinutes: 15,

		NightStartMinute: 19 * 60,
		NightEndMinute:   6 * 60,
		DuskStartMinute:  15 * 60,

		NightBothEndpointsPct: 80,
		NightOneEndpointPct:   40,
		NightDuskDeparturePct: 80,

		OnTimeToleranceMinutes: 5,

		VarianceMinorMaxMinutes:    15,
		VarianceModerateMaxMinutes: 30,

		DutyAnomalyMaxMinutes: 16 * 60,
		DutyAnomalyMinMinutes: 30,
	}
}

// LoadProfile reads a YAML profile file and merges it over the defaults.
// Zero-valued fields in the file keep their defaults, so a profile only
// needs to name the values it changes. An empty path returns the defaults.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile %s: %w", path, err)
	}
	var overlay Profile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	p.merge(overlay)
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// NightRule exposes the profile's night thresholds in the form the
// arithmetic core consumes.
func (p Profile) NightRule() blocktime.NightRule {
	return blocktime.NightRule{
		NightStart:       p.NightStartMinute,
		NightEnd:         p.NightEndMinute,
		DuskStart:        p.DuskStartMinute,
		BothEndpointsPct: p.NightBothEndpointsPct,
		OneEndpointPct:   p.NightOneEndpointPct,
		DuskDeparturePct: p.NightDuskDeparturePct,
	}
}

func (p *Profile) merge(o Profile) {
	mergeInt(&p.PreDutyBufferMinutes, o.PreDutyBufferMinutes)
	mergeInt(&p.PostDutyBufferMinutes, o.PostDutyBufferMinutes)
	mergeInt(&p.NightStartMinute, o.NightStartMinute)
	mergeInt(&p.NightEndMinute, o.NightEndMinute)
	mergeInt(&p.DuskStartMinute, o.DuskStartMinute)
	mergeInt(&p.NightBothEndpointsPct, o.NightBothEndpointsPct)
	mergeInt(&p.NightOneEndpointPct, o.NightOneEndpointPct)
	mergeInt(&p.NightDuskDeparturePct, o.NightDuskDeparturePct)
	mergeInt(&p.OnTimeToleranceMinutes, o.OnTimeToleranceMinutes)
	mergeInt(&p.VarianceMinorMaxMinutes, o.VarianceMinorMaxMinutes)
	mergeInt(&p.VarianceModerateMaxMinutes, o.VarianceModerateMaxMinutes)
	mergeInt(&p.DutyAnomalyMaxMinutes, o.DutyAnomalyMaxMinutes)
	mergeInt(&p.DutyAnomalyMinMinutes, o.DutyAnomalyMinMinutes)
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func (p Profile) validate() error {
	const dayMinutes = 24 * 60
	switch {
	case p.PreDutyBufferMinutes < 0 || p.PostDutyBufferMinutes < 0:
		return fmt.Errorf("duty buffers must not be negative")
	case p.NightStartMinute < 0 || p.NightStartMinute >= dayMinutes,
		p.NightEndMinute < 0 || p.NightEndMinute >= dayMinutes,
		p.DuskStartMinute < 0 || p.DuskStartMinute >= dayMinutes:
		return fmt.Errorf("night window bounds must be within a day")
	case p.DuskStartMinute >= p.NightStartMinute:
		return fmt.Errorf("dusk_start_minute must precede night_start_minute")
	case p.NightBothEndpointsPct < 0 || p.NightBothEndpointsPct > 100,
		p.NightOneEndpointPct < 0 || p.NightOneEndpointPct > 100,
		p.NightDuskDeparturePct < 0 || p.NightDuskDeparturePct > 100:
		return fmt.Errorf("night attribution percentages must be 0-100")
	case p.OnTimeToleranceMinutes < 0:
		return fmt.Errorf("on_time_tolerance_minutes must not be negative")
	case p.VarianceMinorMaxMinutes <= p.OnTimeToleranceMinutes,
		p.VarianceModerateMaxMinutes <= p.VarianceMinorMaxMinutes:
		return fmt.Errorf("variance tiers must be strictly increasing")
	case p.DutyAnomalyMinMinutes <= 0, p.DutyAnomalyMaxMinutes <= p.DutyAnomalyMinMinutes:
		return fmt.Errorf("duty anomaly bounds must satisfy 0 < min < max")
	}
	return nil
}
