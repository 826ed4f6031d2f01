package feed

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crewlog/crewlog/internal/importlog"
	"github.com/crewlog/crewlog/internal/reconcile"
	"github.com/crewlog/crewlog/internal/resttrack"
	"github.com/crewlog/crewlog/internal/roster"
	"github.com/crewlog/crewlog/internal/store"
)

// SchedulerConfig configures the refresh scheduler.
type SchedulerConfig struct {
	Source     Source
	Reconciler *reconcile.Reconciler
	RestTrack  *resttrack.Tracker
	ImportLog  *importlog.Service // optional
	Schedule   string             // cron expression
}

// Scheduler runs the fetch → parse → reconcile → rest-update pipeline on
// a cron schedule. Refreshes are serialized: an overlapping tick is
// skipped with a warning rather than queued.
type Scheduler struct {
	source     Source
	reconciler *reconcile.Reconciler
	restTrack  *resttrack.Tracker
	importLog  *importlog.Service

	cron      *cron.Cron
	refreshMu sync.Mutex
}

// NewScheduler creates a Scheduler; the schedule expression is assumed
// pre-validated by config loading.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	s := &Scheduler{
		source:     cfg.Source,
		reconciler: cfg.Reconciler,
		restTrack:  cfg.RestTrack,
		importLog:  cfg.ImportLog,
		cron:       cron.New(),
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, func() {
		if !s.refreshMu.TryLock() {
			log.Printf("[feed] warning: refresh still running, skipping tick")
			return
		}
		defer s.refreshMu.Unlock()
		if _, err := s.refresh(context.Background()); err != nil {
			log.Printf("[feed] scheduled refresh failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("feed: invalid cron expression %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// Start begins scheduled refreshes.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for an in-flight refresh.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	// Barrier: a RefreshNow in flight must finish before Stop returns.
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
}

// RefreshNow runs one refresh immediately, serialized against the
// scheduled ones.
func (s *Scheduler) RefreshNow(ctx context.Context) (reconcile.Result, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refresh(ctx)
}

func (s *Scheduler) refresh(ctx context.Context) (reconcile.Result, error) {
	started := time.Now().UTC()

	raw, sourceID, err := s.source.Fetch(ctx)
	if err != nil {
		s.audit(store.ImportRecord{
			SourceID:    sourceID,
			StartedAtNs: started.UnixNano(),
			DurationNs:  int64(time.Since(started)),
			Error:       err.Error(),
		})
		return reconcile.Result{}, err
	}

	flights, events, diags := roster.Parse(raw)
	for _, d := range diags {
		log.Printf("[feed] skipped record uid=%s kind=%s field=%s %s", d.UID, d.Kind, d.Field, d.Detail)
	}

	res, err := s.reconciler.Import(flights, sourceID, started)
	rec := store.ImportRecord{
		SourceID:      sourceID,
		StartedAtNs:   started.UnixNano(),
		DurationNs:    int64(time.Since(started)),
		FlightsParsed: len(flights),
		EventsParsed:  len(events),
		LegsCreated:   res.LegsCreated,
		LegsUpdated:   res.LegsUpdated,
		Duplicates:    res.Duplicates,
		Collisions:    res.Collisions,
		Diagnostics:   len(diags),
	}
	if err != nil {
		rec.Error = err.Error()
		s.audit(rec)
		return res, fmt.Errorf("feed: reconcile %s: %w", sourceID, err)
	}

	if s.restTrack != nil {
		s.restTrack.Update(events, time.Now().UTC())
	}
	s.audit(rec)

	log.Printf("[feed] refreshed %s: %d flights, %d events, %d new legs, %d updated, %d dup, %d collisions",
		sourceID, len(flights), len(events), res.LegsCreated, res.LegsUpdated, res.Duplicates, res.Collisions)
	return res, nil
}

func (s *Scheduler) audit(rec store.ImportRecord) {
	if s.importLog != nil {
		s.importLog.Emit(rec)
	}
}
