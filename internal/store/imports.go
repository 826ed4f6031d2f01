package store

import "fmt"

// ImportRecord is one row of the refresh audit log.
type ImportRecord struct {
	ID            int64
	SourceID      string
	StartedAtNs   int64
	DurationNs    int64
	FlightsParsed int
	EventsParsed  int
	LegsCreated   int
	LegsUpdated   int
	Duplicates    int
	Collisions    int
	Diagnostics   int
	Error         string
}

// AppendImport appends an audit row.
func (s *Store) AppendImport(rec *ImportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`INSERT INTO import_log
		(source_id, started_at_ns, duration_ns, flights_parsed, events_parsed,
		 legs_created, legs_updated, duplicates, collisions, diagnostics, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.SourceID, rec.StartedAtNs, rec.DurationNs, rec.FlightsParsed, rec.EventsParsed,
		rec.LegsCreated, rec.LegsUpdated, rec.Duplicates, rec.Collisions, rec.Diagnostics, rec.Error)
	if err != nil {
		return fmt.Errorf("append import record: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// RecentImports returns the newest audit rows, newest first.
func (s *Store) RecentImports(limit int) ([]*ImportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, source_id, started_at_ns, duration_ns, flights_parsed,
		events_parsed, legs_created, legs_updated, duplicates, collisions, diagnostics, error
		FROM import_log ORDER BY started_at_ns DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import log: %w", err)
	}
	defer rows.Close()

	var out []*ImportRecord
	for rows.Next() {
		rec := &ImportRecord{}
		if err := rows.Scan(&rec.ID, &rec.SourceID, &rec.StartedAtNs, &rec.DurationNs,
			&rec.FlightsParsed, &rec.EventsParsed, &rec.LegsCreated, &rec.LegsUpdated,
			&rec.Duplicates, &rec.Collisions, &rec.Diagnostics, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan import record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneImports keeps only the newest retain rows.
func (s *Store) PruneImports(retain int) error {
	if retain <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM import_log WHERE id NOT IN
		(SELECT id FROM import_log ORDER BY started_at_ns DESC, id DESC LIMIT ?)`, retain)
	if err != nil {
		return fmt.Errorf("prune import log: %w", err)
	}
	return nil
}
