package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfileEmptyPath(t *testing.T) {
	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p != DefaultProfile() {
		t.Fatalf("empty path must return the defaults, got %+v", p)
	}
}

func TestLoadProfileMergesOverDefaults(t *testing.T) {
	path := writeProfile(t, "pre_duty_buffer_minutes: 90\non_time_tolerance_minutes: 10\n")

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.PreDutyBufferMinutes != 90 || p.OnTimeToleranceMinutes != 10 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	// Everything the file does not name keeps its default.
	if p.PostDutyBufferMinutes != 15 || p.NightBothEndpointsPct != 80 || p.DutyAnomalyMaxMinutes != 960 {
		t.Fatalf("defaults lost in merge: %+v", p)
	}
}

func TestLoadProfileRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"dusk after night start", "dusk_start_minute: 1200\nnight_start_minute: 1100\n"},
		{"percentage out of range", "night_one_endpoint_pct: 140\n"},
		{"inverted variance tiers", "variance_minor_max_minutes: 40\nvariance_moderate_max_minutes: 20\n"},
		{"anomaly min above max", "duty_anomaly_min_minutes: 2000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadProfile(writeProfile(t, tt.yaml)); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestLoadProfileRejectsMalformedYAML(t *testing.T) {
	if _, err := LoadProfile(writeProfile(t, "{not yaml")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected a read error")
	}
}

func TestProfileNightRule(t *testing.T) {
	rule := DefaultProfile().NightRule()
	if rule.NightStart != 19*60 || rule.NightEnd != 6*60 || rule.DuskStart != 15*60 {
		t.Fatalf("window bounds wrong: %+v", rule)
	}
	if rule.BothEndpointsPct != 80 || rule.OneEndpointPct != 40 || rule.DuskDeparturePct != 80 {
		t.Fatalf("percentages wrong: %+v", rule)
	}
}
