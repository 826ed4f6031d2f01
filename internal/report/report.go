// Package report aggregates legs and trips over a date window into the
// period totals used for compliance display.
package report

import (
	"fmt"
	"log"

	"github.com/crewlog/crewlog/internal/duty"
	"github.com/crewlog/crewlog/internal/model"
)

// Store is the slice of persistence the report reads.
type Store interface {
	TripsInWindow(fromNs, toNs int64) ([]*model.Trip, error)
	LegsForTrip(tripID string) ([]*model.Leg, error)
}

// NightEstimator resolves a leg's night minutes. Optional; legs without
// an estimate contribute zero night time.
type NightEstimator interface {
	EstimateSync(leg *model.Leg) (int64, error)
}

// Period holds the aggregated totals for one window.
type Period struct {
	Trips     int
	Legs      int
	Deadheads int

	BlockMinutes  int
	FlightMinutes int
	NightMinutes  int
	DutyMinutes   int

	// Block-variance counts per severity tier, legs with both actual
	// and scheduled spans only.
	VarianceBySeverity map[duty.Severity]int

	// Duty anomalies raised while aggregating; callers surface these as
	// "needs review" rather than rejecting the totals.
	Anomalies []duty.Anomaly
}

// Hours converts a minute total to hours.
func Hours(minutes int) float64 { return float64(minutes) / 60 }

// Builder evaluates windows against the store.
type Builder struct {
	Store Store
	Calc  *duty.Calculator
	Night NightEstimator
}

// Build aggregates completed and active legs in [fromNs, toNs).
// Standby and skipped legs never contribute.
func (b *Builder) Build(fromNs, toNs int64) (*Period, error) {
	trips, err := b.Store.TripsInWindow(fromNs, toNs)
	if err != nil {
		return nil, fmt.Errorf("report: load trips: %w", err)
	}

	p := &Period{VarianceBySeverity: map[duty.Severity]int{}}
	for _, trip := range trips {
		legs, err := b.Store.LegsForTrip(trip.ID)
		if err != nil {
			return nil, fmt.Errorf("report: load legs for trip %s: %w", trip.ID, err)
		}

		r := b.Calc.Evaluate(trip, legs)
		if r.Valid {
			p.DutyMinutes += r.Minutes
			p.Anomalies = append(p.Anomalies, r.Anomalies...)
		}
		p.Trips++

		for _, leg := range legs {
			if !leg.Status.CountsTowardTotals() || !leg.IsValid() {
				continue
			}
			p.Legs++
			if leg.Deadhead {
				p.Deadheads++
			}
			if m, ok := leg.BlockMinutes(); ok && !leg.Deadhead {
				p.BlockMinutes += m
			}
			if m, ok := leg.FlightMinutes(); ok && !leg.Deadhead {
				p.FlightMinutes += m
			}
			if b.Night != nil && !leg.Deadhead {
				secs, err := b.Night.EstimateSync(leg)
				if err != nil {
					log.Printf("[report] night estimate leg %s: %v", leg.ID, err)
				} else {
					p.NightMinutes += int(secs / 60)
				}
			}
			if _, sev, ok := b.Calc.BlockVariance(leg); ok {
				p.VarianceBySeverity[sev]++
			}
		}
	}
	return p, nil
}
