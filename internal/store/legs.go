package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/crewlog/crewlog/internal/model"
)

const legColumns = `id, trip_id, seq, flight_number, origin, destination, role, deadhead,
	out_time, off_time, on_time, in_time, deadhead_out, deadhead_in, deadhead_hours,
	scheduled_out_ns, scheduled_in_ns, scheduled_flight_number, roster_source_id,
	flight_date_ns, status, night_takeoff, night_landing, created_at_ns, updated_at_ns`

const legUpsert = `INSERT INTO legs (` + legColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT(id) DO UPDATE SET
		trip_id=excluded.trip_id,
		seq=excluded.seq,
		flight_number=excluded.flight_number,
		origin=excluded.origin,
		destination=excluded.destination,
		role=excluded.role,
		deadhead=excluded.deadhead,
		out_time=excluded.out_time,
		off_time=excluded.off_time,
		on_time=excluded.on_time,
		in_time=excluded.in_time,
		deadhead_out=excluded.deadhead_out,
		deadhead_in=excluded.deadhead_in,
		deadhead_hours=excluded.deadhead_hours,
		scheduled_out_ns=excluded.scheduled_out_ns,
		scheduled_in_ns=excluded.scheduled_in_ns,
		scheduled_flight_number=excluded.scheduled_flight_number,
		roster_source_id=excluded.roster_source_id,
		flight_date_ns=excluded.flight_date_ns,
		status=excluded.status,
		night_takeoff=excluded.night_takeoff,
		night_landing=excluded.night_landing,
		updated_at_ns=excluded.updated_at_ns`

// UpsertLeg inserts or replaces a single leg row.
func (s *Store) UpsertLeg(l *model.Leg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(legUpsert, legArgs(l)...); err != nil {
		return fmt.Errorf("upsert leg %s: %w", l.ID, err)
	}
	return nil
}

// UpsertLegs batch-writes legs inside one transaction. A failing row is
// logged and skipped; the rest of the batch still commits. Returns the
// number of rows written.
func (s *Store) UpsertLegs(legs []*model.Leg) (int, error) {
	if len(legs) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin legs tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(legUpsert)
	if err != nil {
		return 0, fmt.Errorf("prepare leg upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, l := range legs {
		if _, err := stmt.Exec(legArgs(l)...); err != nil {
			log.Printf("[store] warning: skip leg %s: %v", l.ID, err)
			continue
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit legs tx: %w", err)
	}
	return written, nil
}

// LegByID loads one leg. Returns ErrNotFound when absent.
func (s *Store) LegByID(id string) (*model.Leg, error) {
	row := s.db.QueryRow(`SELECT `+legColumns+` FROM legs WHERE id = ?`, id)
	l, err := scanLeg(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("leg %s: %w", id, ErrNotFound)
	}
	return l, err
}

// LegsForTrip returns a trip's legs in sequence order.
func (s *Store) LegsForTrip(tripID string) ([]*model.Leg, error) {
	return s.queryLegs(`SELECT `+legColumns+` FROM legs WHERE trip_id = ? ORDER BY seq, id`, tripID)
}

// AllLegs returns every leg, ordered by flight date then sequence. Used
// to rebuild the reconciler's in-memory index at startup.
func (s *Store) AllLegs() ([]*model.Leg, error) {
	return s.queryLegs(`SELECT ` + legColumns + ` FROM legs ORDER BY flight_date_ns, trip_id, seq`)
}

// LegsInWindow returns legs whose flight date falls in [fromNs, toNs).
// A zero toNs means no upper bound.
func (s *Store) LegsInWindow(fromNs, toNs int64) ([]*model.Leg, error) {
	q := `SELECT ` + legColumns + ` FROM legs WHERE flight_date_ns >= ?`
	args := []any{fromNs}
	if toNs > 0 {
		q += ` AND flight_date_ns < ?`
		args = append(args, toNs)
	}
	q += ` ORDER BY flight_date_ns, trip_id, seq`
	return s.queryLegs(q, args...)
}

func (s *Store) queryLegs(q string, args ...any) ([]*model.Leg, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query legs: %w", err)
	}
	defer rows.Close()

	var out []*model.Leg
	for rows.Next() {
		l, err := scanLeg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func legArgs(l *model.Leg) []any {
	return []any{
		l.ID, l.TripID, l.Seq, l.FlightNumber, l.Origin, l.Destination, l.Role, boolInt(l.Deadhead),
		l.OutTime, l.OffTime, l.OnTime, l.InTime, l.DeadheadOut, l.DeadheadIn, l.DeadheadHours,
		l.ScheduledOutNs, l.ScheduledInNs, l.ScheduledFlightNumber, l.RosterSourceID,
		l.FlightDateNs, l.Status, boolInt(l.NightTakeoff), boolInt(l.NightLanding),
		l.CreatedAtNs, l.UpdatedAtNs,
	}
}

func scanLeg(r rowScanner) (*model.Leg, error) {
	l := &model.Leg{}
	var deadhead, nightTO, nightLDG int
	err := r.Scan(
		&l.ID, &l.TripID, &l.Seq, &l.FlightNumber, &l.Origin, &l.Destination, &l.Role, &deadhead,
		&l.OutTime, &l.OffTime, &l.OnTime, &l.InTime, &l.DeadheadOut, &l.DeadheadIn, &l.DeadheadHours,
		&l.ScheduledOutNs, &l.ScheduledInNs, &l.ScheduledFlightNumber, &l.RosterSourceID,
		&l.FlightDateNs, &l.Status, &nightTO, &nightLDG, &l.CreatedAtNs, &l.UpdatedAtNs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan leg: %w", err)
	}
	l.Deadhead = deadhead != 0
	l.NightTakeoff = nightTO != 0
	l.NightLanding = nightLDG != 0
	return l, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
