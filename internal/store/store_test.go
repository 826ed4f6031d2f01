package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/crewlog/crewlog/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "crewlog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ns(hh int) int64 {
	return time.Date(2025, 4, 2, hh, 0, 0, 0, time.UTC).UnixNano()
}

func testTrip(id string, dateNs int64) *model.Trip {
	return &model.Trip{
		ID:          id,
		DateNs:      dateNs,
		Status:      model.TripPlanning,
		CreatedAtNs: dateNs,
		UpdatedAtNs: dateNs,
	}
}

func testLeg(id, tripID string, seq int, dateNs int64) *model.Leg {
	return &model.Leg{
		ID:           id,
		TripID:       tripID,
		Seq:          seq,
		FlightNumber: "UJ100",
		Origin:       "KEF",
		Destination:  "AMS",
		OutTime:      "0815",
		InTime:       "1009",
		FlightDateNs: dateNs,
		Status:       model.LegCompleted,
		CreatedAtNs:  dateNs,
		UpdatedAtNs:  dateNs,
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crewlog.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s.UpsertTrip(testTrip("trip-1", ns(0))); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopening runs migrations again; an up-to-date schema is a no-op.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()
	if _, err := s2.TripByID("trip-1"); err != nil {
		t.Fatalf("trip lost across reopen: %v", err)
	}
}

func TestTripRoundTrip(t *testing.T) {
	s := openTest(t)

	trip := testTrip("trip-1", ns(0))
	trip.ManualDutyStartNs = ns(7)
	if err := s.UpsertTrip(trip); err != nil {
		t.Fatal(err)
	}

	got, err := s.TripByID("trip-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.TripPlanning || got.ManualDutyStartNs != ns(7) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Upsert over the same id updates in place.
	trip.Status = model.TripActive
	if err := s.UpsertTrip(trip); err != nil {
		t.Fatal(err)
	}
	got, err = s.TripByID("trip-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.TripActive {
		t.Fatalf("status = %s after upsert, want ACTIVE", got.Status)
	}
}

func TestNotFound(t *testing.T) {
	s := openTest(t)
	if _, err := s.TripByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TripByID err = %v, want ErrNotFound", err)
	}
	if _, err := s.LegByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LegByID err = %v, want ErrNotFound", err)
	}
	if err := s.ResolveCollision("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ResolveCollision err = %v, want ErrNotFound", err)
	}
}

func TestLegBatchAndQueries(t *testing.T) {
	s := openTest(t)

	if err := s.UpsertTrip(testTrip("trip-1", ns(0))); err != nil {
		t.Fatal(err)
	}
	day2 := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC).UnixNano()
	if err := s.UpsertTrip(testTrip("trip-2", day2)); err != nil {
		t.Fatal(err)
	}

	legs := []*model.Leg{
		testLeg("leg-1", "trip-1", 0, ns(0)),
		testLeg("leg-2", "trip-1", 1, ns(0)),
		testLeg("leg-3", "trip-2", 0, day2),
	}
	n, err := s.UpsertLegs(legs)
	if err != nil {
		t.Fatalf("UpsertLegs: %v", err)
	}
	if n != 3 {
		t.Fatalf("wrote %d legs, want 3", n)
	}

	forTrip, err := s.LegsForTrip("trip-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(forTrip) != 2 || forTrip[0].ID != "leg-1" || forTrip[1].ID != "leg-2" {
		t.Fatalf("LegsForTrip order wrong: %v", forTrip)
	}

	all, err := s.AllLegs()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("AllLegs = %d, want 3", len(all))
	}

	window, err := s.LegsInWindow(ns(0), day2)
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 2 {
		t.Fatalf("half-open window returned %d legs, want 2", len(window))
	}

	unbounded, err := s.LegsInWindow(ns(0), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(unbounded) != 3 {
		t.Fatalf("unbounded window returned %d legs, want 3", len(unbounded))
	}
}

func TestBatchSkipsBadRow(t *testing.T) {
	s := openTest(t)
	if err := s.UpsertTrip(testTrip("trip-1", ns(0))); err != nil {
		t.Fatal(err)
	}

	legs := []*model.Leg{
		testLeg("leg-1", "trip-1", 0, ns(0)),
		testLeg("leg-2", "no-such-trip", 1, ns(0)), // violates the trip FK
	}
	n, err := s.UpsertLegs(legs)
	if err != nil {
		t.Fatalf("UpsertLegs: %v", err)
	}
	if n != 1 {
		t.Fatalf("wrote %d legs, want the FK-violating row skipped", n)
	}
	if _, err := s.LegByID("leg-1"); err != nil {
		t.Fatalf("good row lost: %v", err)
	}
}

func TestDeletingTripCascadesToLegs(t *testing.T) {
	s := openTest(t)
	if err := s.UpsertTrip(testTrip("trip-1", ns(0))); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertLeg(testLeg("leg-1", "trip-1", 0, ns(0))); err != nil {
		t.Fatal(err)
	}

	if _, err := s.db.Exec(`DELETE FROM trips WHERE id = ?`, "trip-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LegByID("leg-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("leg survived trip deletion: %v", err)
	}
}

func TestTripsInWindow(t *testing.T) {
	s := openTest(t)
	day2 := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC).UnixNano()
	if err := s.UpsertTrip(testTrip("trip-1", ns(0))); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertTrip(testTrip("trip-2", day2)); err != nil {
		t.Fatal(err)
	}

	trips, err := s.TripsInWindow(ns(0), day2)
	if err != nil {
		t.Fatal(err)
	}
	if len(trips) != 1 || trips[0].ID != "trip-1" {
		t.Fatalf("window = %v, want just trip-1", trips)
	}
}

func TestCollisionLifecycle(t *testing.T) {
	s := openTest(t)
	if err := s.UpsertTrip(testTrip("trip-1", ns(0))); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"leg-1", "leg-2"} {
		if err := s.UpsertLeg(testLeg(id, "trip-1", 0, ns(0))); err != nil {
			t.Fatal(err)
		}
	}

	note := &model.CollisionNote{
		ID:              "col-1",
		Fingerprint:     "abc123",
		KeptLegID:       "leg-2",
		SupersededLegID: "leg-1",
		ObservedAtNs:    ns(9),
	}
	if err := s.InsertCollision(note); err != nil {
		t.Fatal(err)
	}

	pending, err := s.PendingCollisions()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].KeptLegID != "leg-2" {
		t.Fatalf("pending = %v", pending)
	}

	if err := s.ResolveCollision("col-1"); err != nil {
		t.Fatal(err)
	}
	pending, err = s.PendingCollisions()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatal("resolved collision still pending")
	}
}

func TestImportLogPruning(t *testing.T) {
	s := openTest(t)
	for i := 0; i < 5; i++ {
		rec := &ImportRecord{SourceID: "feed-1", StartedAtNs: ns(i), FlightsParsed: i}
		if err := s.AppendImport(rec); err != nil {
			t.Fatal(err)
		}
		if rec.ID == 0 {
			t.Fatal("AppendImport did not backfill the row id")
		}
	}

	if err := s.PruneImports(2); err != nil {
		t.Fatal(err)
	}
	recent, err := s.RecentImports(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("retained %d rows, want 2", len(recent))
	}
	if recent[0].FlightsParsed != 4 || recent[1].FlightsParsed != 3 {
		t.Fatalf("wrong rows retained: %+v %+v", recent[0], recent[1])
	}
}
