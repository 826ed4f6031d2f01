package duty

import (
	"testing"
	"time"

	"github.com/crewlog/crewlog/internal/config"
	"github.com/crewlog/crewlog/internal/model"
)

func TestClassifyVariance(t *testing.T) {
	p := config.DefaultProfile()
	tests := []struct {
		minutes int
		want    VarianceClass
	}{
		{0, VarianceOnTime},
		{5, VarianceOnTime},
		{-5, VarianceOnTime},
		{6, VarianceLate},
		{-6, VarianceEarly},
		{45, VarianceLate},
	}
	for _, tt := range tests {
		if got := ClassifyVariance(p, tt.minutes); got != tt.want {
			t.Errorf("ClassifyVariance(%d) = %s, want %s", tt.minutes, got, tt.want)
		}
	}
}

func TestBlockSeverityTiers(t *testing.T) {
	p := config.DefaultProfile()
	tests := []struct {
		minutes int
		want    Severity
	}{
		{0, SeverityNone},
		{5, SeverityNone},
		{-5, SeverityNone},
		{6, SeverityMinor},
		{15, SeverityMinor},
		{16, SeverityModerate},
		{30, SeverityModerate},
		{31, SeveritySignificant},
		{-31, SeveritySignificant},
	}
	for _, tt := range tests {
		if got := BlockSeverity(p, tt.minutes); got != tt.want {
			t.Errorf("BlockSeverity(%d) = %s, want %s", tt.minutes, got, tt.want)
		}
	}
}

func TestDepartureVariance(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	sched := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		actual  string
		wantMin int
		want    VarianceClass
	}{
		{"on time", "1000", 0, VarianceOnTime},
		{"three late", "1003", 3, VarianceOnTime},
		{"ten late", "1010", 10, VarianceLate},
		{"eight early", "0952", -8, VarianceEarly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg := &model.Leg{OutTime: tt.actual, ScheduledOutNs: sched.UnixNano()}
			v, ok := calc.DepartureVariance(leg)
			if !ok {
				t.Fatal("expected a variance")
			}
			if v.Minutes != tt.wantMin || v.Class != tt.want {
				t.Fatalf("variance = %d %s, want %d %s", v.Minutes, v.Class, tt.wantMin, tt.want)
			}
		})
	}
}

// A departure just past midnight against a pre-midnight schedule reads
// as minutes late, not most of a day early.
func TestVarianceAcrossMidnight(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	sched := time.Date(2025, 4, 2, 23, 50, 0, 0, time.UTC)
	leg := &model.Leg{OutTime: "0010", ScheduledOutNs: sched.UnixNano()}

	v, ok := calc.DepartureVariance(leg)
	if !ok {
		t.Fatal("expected a variance")
	}
	if v.Minutes != 20 || v.Class != VarianceLate {
		t.Fatalf("variance = %d %s, want 20 LATE", v.Minutes, v.Class)
	}
}

func TestVarianceAbsentSides(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	if _, ok := calc.DepartureVariance(&model.Leg{OutTime: "1000"}); ok {
		t.Fatal("no scheduled time must yield no variance")
	}
	sched := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	if _, ok := calc.DepartureVariance(&model.Leg{ScheduledOutNs: sched.UnixNano()}); ok {
		t.Fatal("no actual time must yield no variance")
	}
}

func TestBlockVariance(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	out := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	in := time.Date(2025, 4, 2, 11, 30, 0, 0, time.UTC)
	leg := &model.Leg{
		OutTime:        "1000",
		InTime:         "1150", // 20 min over the 90 min schedule
		ScheduledOutNs: out.UnixNano(),
		ScheduledInNs:  in.UnixNano(),
	}
	diff, sev, ok := calc.BlockVariance(leg)
	if !ok {
		t.Fatal("expected a block variance")
	}
	if diff != 20 || sev != SeverityModerate {
		t.Fatalf("block variance = %d %s, want 20 MODERATE", diff, sev)
	}
}
