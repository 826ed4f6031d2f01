package duty

import (
	"testing"
	"time"

	"github.com/crewlog/crewlog/internal/config"
	"github.com/crewlog/crewlog/internal/model"
)

func dayNs(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixNano()
}

func tripWithLegs(outFirst, inLast string, extra int) (*model.Trip, []*model.Leg) {
	trip := &model.Trip{ID: "trip-1", DateNs: dayNs(2025, 4, 2), Status: model.TripActive}
	legs := []*model.Leg{
		{ID: "leg-1", TripID: trip.ID, Seq: 0, OutTime: outFirst, InTime: "1100",
			FlightDateNs: trip.DateNs, Status: model.LegCompleted},
	}
	for i := 0; i < extra; i++ {
		legs = append(legs, &model.Leg{
			ID: "leg-mid", TripID: trip.ID, Seq: i + 1, OutTime: "1130", InTime: "1230",
			FlightDateNs: trip.DateNs, Status: model.LegCompleted,
		})
	}
	legs = append(legs, &model.Leg{
		ID: "leg-last", TripID: trip.ID, Seq: 99, OutTime: "1300", InTime: inLast,
		FlightDateNs: trip.DateNs, Status: model.LegCompleted,
	})
	return trip, legs
}

// A same-day 1000-1350 trip with default buffers is 5h05m of duty. It
// must never come out near the 22-hour figure the old overnight
// miscalculation produced, no matter how many legs sit in between.
func TestTotalDutyNoDoubleWraparound(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	for _, extraLegs := range []int{0, 1, 5} {
		trip, legs := tripWithLegs("1000", "1350", extraLegs)
		r := calc.Evaluate(trip, legs)
		if !r.Valid {
			t.Fatalf("extra=%d: expected a valid duty period", extraLegs)
		}
		want := 3*60 + 50 + 60 + 15 // 10:00-13:50 plus 60+15 buffers
		if r.Minutes != want {
			t.Fatalf("extra=%d: duty = %d min, want %d", extraLegs, r.Minutes, want)
		}
		if r.Hours() > 16 {
			t.Fatalf("extra=%d: duty hours %.2f shows the wraparound defect", extraLegs, r.Hours())
		}
		if len(r.Anomalies) != 0 {
			t.Fatalf("extra=%d: unexpected anomalies %v", extraLegs, r.Anomalies)
		}
	}
}

func TestDutyBuffersAnchorToTripDate(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	trip, legs := tripWithLegs("1000", "1350", 0)

	start, ok := calc.EffectiveDutyStart(trip, legs)
	if !ok {
		t.Fatal("expected duty start")
	}
	wantStart := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("duty start = %v, want %v", start, wantStart)
	}

	end, ok := calc.EffectiveDutyEnd(trip, legs)
	if !ok {
		t.Fatal("expected duty end")
	}
	wantEnd := time.Date(2025, 4, 2, 14, 5, 0, 0, time.UTC)
	if !end.Equal(wantEnd) {
		t.Fatalf("duty end = %v, want %v", end, wantEnd)
	}
}

// An overnight trip rolls the end across midnight exactly once; the
// post-duty buffer must not trigger a second roll.
func TestDutyOvernightSingleCorrection(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	trip, legs := tripWithLegs("2200", "0130", 0)
	// Middle legs at 1130-1230 would sort before; keep only first/last.
	legs = []*model.Leg{legs[0], legs[len(legs)-1]}
	legs[0].OutTime, legs[0].InTime = "2200", "2320"
	legs[1].OutTime, legs[1].InTime = "2359", "0130"

	r := calc.Evaluate(trip, legs)
	if !r.Valid {
		t.Fatal("expected a valid duty period")
	}
	want := 3*60 + 30 + 60 + 15 // 22:00-01:30 next day plus buffers
	if r.Minutes != want {
		t.Fatalf("duty = %d min, want %d", r.Minutes, want)
	}
	wantEnd := time.Date(2025, 4, 3, 1, 45, 0, 0, time.UTC)
	if !r.End.Equal(wantEnd) {
		t.Fatalf("duty end = %v, want %v", r.End, wantEnd)
	}
}

func TestManualDutyBoundsAreAuthoritative(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	trip, legs := tripWithLegs("1000", "1350", 0)
	trip.ManualDutyStartNs = time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC).UnixNano()
	trip.ManualDutyEndNs = time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC).UnixNano()

	r := calc.Evaluate(trip, legs)
	if r.Minutes != 7*60 {
		t.Fatalf("duty = %d min, want 420 (manual bounds)", r.Minutes)
	}
}

func TestManualOverrideOneSide(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	trip, legs := tripWithLegs("1000", "1350", 0)
	trip.ManualDutyEndNs = time.Date(2025, 4, 2, 16, 0, 0, 0, time.UTC).UnixNano()

	r := calc.Evaluate(trip, legs)
	// Auto start 09:00, manual end 16:00.
	if r.Minutes != 7*60 {
		t.Fatalf("duty = %d min, want 420", r.Minutes)
	}
}

func TestStandbyAndSkippedLegsExcluded(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	trip, legs := tripWithLegs("1000", "1350", 0)
	legs = append(legs, &model.Leg{
		ID: "leg-sby", TripID: trip.ID, Seq: 200, OutTime: "1500", InTime: "2300",
		FlightDateNs: trip.DateNs, Status: model.LegStandby,
	})
	legs = append(legs, &model.Leg{
		ID: "leg-skip", TripID: trip.ID, Seq: 201, OutTime: "1600", InTime: "2330",
		FlightDateNs: trip.DateNs, Status: model.LegSkipped,
	})

	r := calc.Evaluate(trip, legs)
	want := 3*60 + 50 + 75
	if r.Minutes != want {
		t.Fatalf("duty = %d min, want %d (standby/skipped must not contribute)", r.Minutes, want)
	}
}

func TestDutyAnomalies(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())

	t.Run("excessive duty surfaces diagnostic", func(t *testing.T) {
		trip, legs := tripWithLegs("0100", "2330", 0)
		legs = []*model.Leg{legs[0]}
		legs[0].OutTime, legs[0].InTime = "0100", "2330"
		r := calc.Evaluate(trip, legs)
		if !r.Valid {
			t.Fatal("anomalous duty must still be returned, not rejected")
		}
		if len(r.Anomalies) != 1 || r.Anomalies[0].Kind != AnomalyExcessive {
			t.Fatalf("anomalies = %v, want one EXCESSIVE_DUTY", r.Anomalies)
		}
		// Never clamped.
		if r.Minutes != 22*60+30+75 {
			t.Fatalf("duty = %d min, want the raw value", r.Minutes)
		}
	})

	t.Run("no legs means no result", func(t *testing.T) {
		trip := &model.Trip{ID: "t", DateNs: dayNs(2025, 4, 2)}
		r := calc.Evaluate(trip, nil)
		if r.Valid || len(r.Anomalies) != 0 {
			t.Fatalf("empty trip: got %+v", r)
		}
	})
}

func TestTotalDutyHoursFloorsAtZero(t *testing.T) {
	calc := NewCalculator(config.DefaultProfile())
	trip, legs := tripWithLegs("1000", "1350", 0)
	trip.ManualDutyStartNs = time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC).UnixNano()
	trip.ManualDutyEndNs = time.Date(2025, 4, 2, 14, 0, 0, 0, time.UTC).UnixNano()

	hours, _ := calc.TotalDutyHours(trip, legs)
	if hours != 0 {
		t.Fatalf("hours = %f, want 0 for inverted manual bounds", hours)
	}
}
