package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/crewlog/crewlog/internal/model"
)

const tripColumns = `id, date_ns, status, manual_duty_start_ns, manual_duty_end_ns, created_at_ns, updated_at_ns`

// UpsertTrip inserts or replaces a trip row.
func (s *Store) UpsertTrip(t *model.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO trips (`+tripColumns+`) VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			date_ns=excluded.date_ns,
			status=excluded.status,
			manual_duty_start_ns=excluded.manual_duty_start_ns,
			manual_duty_end_ns=excluded.manual_duty_end_ns,
			updated_at_ns=excluded.updated_at_ns`,
		t.ID, t.DateNs, t.Status, t.ManualDutyStartNs, t.ManualDutyEndNs, t.CreatedAtNs, t.UpdatedAtNs)
	if err != nil {
		return fmt.Errorf("upsert trip %s: %w", t.ID, err)
	}
	return nil
}

// TripByID loads one trip. Returns ErrNotFound when absent.
func (s *Store) TripByID(id string) (*model.Trip, error) {
	row := s.db.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	return t, err
}

// TripsInWindow returns trips whose date falls in [fromNs, toNs),
// ordered by date. A zero toNs means no upper bound.
func (s *Store) TripsInWindow(fromNs, toNs int64) ([]*model.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE date_ns >= ?`
	args := []any{fromNs}
	if toNs > 0 {
		q += ` AND date_ns < ?`
		args = append(args, toNs)
	}
	q += ` ORDER BY date_ns, id`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var out []*model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(r rowScanner) (*model.Trip, error) {
	t := &model.Trip{}
	err := r.Scan(&t.ID, &t.DateNs, &t.Status, &t.ManualDutyStartNs, &t.ManualDutyEndNs, &t.CreatedAtNs, &t.UpdatedAtNs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan trip: %w", err)
	}
	return t, nil
}
