// Package reconcile merges freshly parsed roster events into the
// canonical leg and trip records. Matching runs on fingerprints: a
// strict key drops exact duplicate imports, a relaxed key pairs a
// scheduled record with an existing leg so its scheduled fields can be
// attached without ever touching actual times or status.
package reconcile

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/crewlog/crewlog/internal/fingerprint"
	"github.com/crewlog/crewlog/internal/model"
	"github.com/crewlog/crewlog/internal/roster"
)

// Store is the slice of persistence the reconciler writes through.
type Store interface {
	UpsertTrip(*model.Trip) error
	UpsertLeg(*model.Leg) error
	UpsertLegs([]*model.Leg) (int, error)
	LegByID(string) (*model.Leg, error)
	InsertCollision(*model.CollisionNote) error
	AllLegs() ([]*model.Leg, error)
}

// Result summarizes one import run.
type Result struct {
	TripsCreated int
	LegsCreated  int
	LegsUpdated  int
	Duplicates   int
	Collisions   int
}

// Reconciler holds the live leg index. Imports are serialized by a
// mutex: no roster refresh runs concurrently with another.
type Reconciler struct {
	store Store

	importMu sync.Mutex

	// relaxed fingerprint -> leg id, the pairing index.
	index *xsync.Map[fingerprint.Hash, string]
	// strict fingerprint -> leg id, duplicate detection.
	seen *xsync.Map[fingerprint.Hash, string]
}

// New creates a Reconciler over the store.
func New(st Store) *Reconciler {
	return &Reconciler{
		store: st,
		index: xsync.NewMap[fingerprint.Hash, string](),
		seen:  xsync.NewMap[fingerprint.Hash, string](),
	}
}

// Rebuild reloads the fingerprint indexes from every persisted leg.
// Called once at startup before the first import.
func (r *Reconciler) Rebuild() error {
	r.importMu.Lock()
	defer r.importMu.Unlock()

	legs, err := r.store.AllLegs()
	if err != nil {
		return fmt.Errorf("reconcile: rebuild index: %w", err)
	}
	r.index = xsync.NewMap[fingerprint.Hash, string]()
	r.seen = xsync.NewMap[fingerprint.Hash, string]()
	for _, l := range legs {
		r.registerLeg(l, time.Unix(0, l.UpdatedAtNs).UTC(), nil)
	}
	return nil
}

// Import merges parsed flight events into the store. Matched legs get
// their scheduled fields refreshed; unmatched events become new trips
// and legs via grouping; exact duplicates are dropped.
func (r *Reconciler) Import(flights []roster.FlightEvent, sourceID string, now time.Time) (Result, error) {
	r.importMu.Lock()
	defer r.importMu.Unlock()

	var res Result
	var fresh []roster.FlightEvent

	for _, ev := range flights {
		strict := fingerprint.ForFlightEvent(&ev)
		if _, dup := r.seen.Load(strict); dup {
			res.Duplicates++
			continue
		}

		relaxed := fingerprint.RelaxedForFlightEvent(&ev)
		if legID, ok := r.index.Load(relaxed); ok {
			updated, err := r.attachSchedule(legID, &ev, sourceID, now, strict)
			if err != nil {
				return res, err
			}
			if updated {
				res.LegsUpdated++
				continue
			}
			// Relaxed keys agreed but the wildcard match declined; the
			// event describes a different flight and falls through to
			// creation.
		}
		fresh = append(fresh, ev)
	}

	created, err := r.createFromEvents(fresh, sourceID, now, &res)
	if err != nil {
		return res, err
	}
	if _, err := r.store.UpsertLegs(created); err != nil {
		return res, fmt.Errorf("reconcile: persist new legs: %w", err)
	}
	return res, nil
}

// attachSchedule writes the scheduled fields from a matched event onto
// an existing leg. Actual times and status are never overwritten here.
// Reports false without error when the wildcard match declines the pair,
// leaving the event to the caller.
func (r *Reconciler) attachSchedule(legID string, ev *roster.FlightEvent, sourceID string, now time.Time, strict fingerprint.Hash) (bool, error) {
	leg, err := r.store.LegByID(legID)
	if err != nil {
		return false, fmt.Errorf("reconcile: load matched leg %s: %w", legID, err)
	}
	if !fingerprint.MatchesEvent(leg, ev) {
		return false, nil
	}
	leg.ScheduledOutNs = nsOf(ev.ScheduledOut)
	leg.ScheduledInNs = nsOf(ev.ScheduledIn)
	leg.ScheduledFlightNumber = ev.FlightNumber
	leg.RosterSourceID = sourceIDOf(sourceID, ev)
	leg.UpdatedAtNs = now.UnixNano()
	if err := r.store.UpsertLeg(leg); err != nil {
		return false, fmt.Errorf("reconcile: update leg %s: %w", legID, err)
	}
	r.seen.Store(strict, leg.ID)
	return true, nil
}

// createFromEvents turns unmatched events into new trips and legs. Trip
// grouping runs over non-deadheads; each deadhead becomes its own
// single-leg positioning trip.
func (r *Reconciler) createFromEvents(fresh []roster.FlightEvent, sourceID string, now time.Time, res *Result) ([]*model.Leg, error) {
	var created []*model.Leg

	groups := GroupTrips(fresh)
	for _, ev := range fresh {
		if ev.Deadhead {
			groups = append(groups, []roster.FlightEvent{ev})
		}
	}

	for _, group := range groups {
		trip := &model.Trip{
			ID:          uuid.New().String(),
			DateNs:      nsOf(dayOf(group[0])),
			Status:      model.TripPlanning,
			CreatedAtNs: now.UnixNano(),
			UpdatedAtNs: now.UnixNano(),
		}
		if err := r.store.UpsertTrip(trip); err != nil {
			return created, fmt.Errorf("reconcile: create trip: %w", err)
		}
		res.TripsCreated++

		for i, ev := range group {
			leg := legFromEvent(&ev, trip.ID, i, sourceID, now)
			r.registerLeg(leg, now, res)
			// Also remember the event's own strict key so re-importing
			// the same feed drops it as a duplicate.
			r.seen.Store(fingerprint.ForFlightEvent(&ev), leg.ID)
			created = append(created, leg)
			res.LegsCreated++
		}
	}
	return created, nil
}

// registerLeg indexes a leg by its fingerprints. When the relaxed key
// already maps to a different leg the records are ambiguous: the most
// recently seen leg takes the index slot, and the pair is flagged for
// manual review instead of being silently merged.
func (r *Reconciler) registerLeg(leg *model.Leg, at time.Time, res *Result) {
	relaxed := fingerprint.RelaxedForLeg(leg)
	strict := fingerprint.ForLeg(leg)

	// A nil res means we are replaying persisted legs after a restart;
	// any collision among them was already flagged when the legs were
	// first imported, so only the index is refreshed.
	if prev, ok := r.index.Load(relaxed); ok && prev != leg.ID && res != nil {
		note := &model.CollisionNote{
			ID:              uuid.New().String(),
			Fingerprint:     relaxed.Hex(),
			KeptLegID:       leg.ID,
			SupersededLegID: prev,
			ObservedAtNs:    at.UnixNano(),
		}
		log.Printf("[reconcile] warning: relaxed fingerprint collision %s: keeping %s over %s",
			note.Fingerprint, note.KeptLegID, note.SupersededLegID)
		if err := r.store.InsertCollision(note); err != nil {
			log.Printf("[reconcile] warning: record collision: %v", err)
		}
		res.Collisions++
	}
	r.index.Store(relaxed, leg.ID)
	if !strict.IsZero() {
		r.seen.Store(strict, leg.ID)
	}
}

func legFromEvent(ev *roster.FlightEvent, tripID string, seq int, sourceID string, now time.Time) *model.Leg {
	return &model.Leg{
		ID:           uuid.New().String(),
		TripID:       tripID,
		Seq:          seq,
		FlightNumber: ev.FlightNumber,
		Origin:       ev.Origin,
		Destination:  ev.Destination,
		Role:         ev.Role,
		Deadhead:     ev.Deadhead,

		ScheduledOutNs:        nsOf(ev.ScheduledOut),
		ScheduledInNs:         nsOf(ev.ScheduledIn),
		ScheduledFlightNumber: ev.FlightNumber,
		RosterSourceID:        sourceIDOf(sourceID, ev),

		FlightDateNs: nsOf(dayOf(*ev)),
		Status:       model.LegStandby,

		CreatedAtNs: now.UnixNano(),
		UpdatedAtNs: now.UnixNano(),
	}
}

func dayOf(ev roster.FlightEvent) time.Time {
	return fingerprint.EventDate(&ev)
}

func sourceIDOf(sourceID string, ev *roster.FlightEvent) string {
	if ev.SourceUID != "" {
		return ev.SourceUID
	}
	return sourceID
}

func nsOf(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
