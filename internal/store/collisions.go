package store

import (
	"fmt"

	"github.com/crewlog/crewlog/internal/model"
)

// InsertCollision records a reconciliation ambiguity for manual review.
func (s *Store) InsertCollision(c *model.CollisionNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO collisions
		(id, fingerprint, kept_leg_id, superseded_leg_id, observed_at_ns, resolved)
		VALUES (?,?,?,?,?,?)`,
		c.ID, c.Fingerprint, c.KeptLegID, c.SupersededLegID, c.ObservedAtNs, boolInt(c.Resolved))
	if err != nil {
		return fmt.Errorf("insert collision %s: %w", c.ID, err)
	}
	return nil
}

// PendingCollisions returns unresolved collisions, oldest first.
func (s *Store) PendingCollisions() ([]*model.CollisionNote, error) {
	rows, err := s.db.Query(`SELECT id, fingerprint, kept_leg_id, superseded_leg_id, observed_at_ns, resolved
		FROM collisions WHERE resolved = 0 ORDER BY observed_at_ns, id`)
	if err != nil {
		return nil, fmt.Errorf("query collisions: %w", err)
	}
	defer rows.Close()

	var out []*model.CollisionNote
	for rows.Next() {
		c := &model.CollisionNote{}
		var resolved int
		if err := rows.Scan(&c.ID, &c.Fingerprint, &c.KeptLegID, &c.SupersededLegID, &c.ObservedAtNs, &resolved); err != nil {
			return nil, fmt.Errorf("scan collision: %w", err)
		}
		c.Resolved = resolved != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

// ResolveCollision marks a collision reviewed. Returns ErrNotFound when
// the id does not exist.
func (s *Store) ResolveCollision(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`UPDATE collisions SET resolved = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("resolve collision %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve collision %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("collision %s: %w", id, ErrNotFound)
	}
	return nil
}
