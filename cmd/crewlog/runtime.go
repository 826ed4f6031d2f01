package main

import (
	"fmt"

	"github.com/crewlog/crewlog/internal/config"
	"github.com/crewlog/crewlog/internal/duty"
	"github.com/crewlog/crewlog/internal/importlog"
	"github.com/crewlog/crewlog/internal/nightcalc"
	"github.com/crewlog/crewlog/internal/reconcile"
	"github.com/crewlog/crewlog/internal/resttrack"
	"github.com/crewlog/crewlog/internal/store"
)

// appRuntime wires the shared services a command needs. Commands close
// it when done.
type appRuntime struct {
	cfg     *config.EnvConfig
	profile config.Profile

	store      *store.Store
	reconciler *reconcile.Reconciler
	restTrack  *resttrack.Tracker
	calc       *duty.Calculator
	nightSvc   *nightcalc.Service
	importLog  *importlog.Service
}

func newRuntime(cfg *config.EnvConfig) (*appRuntime, error) {
	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	rec := reconcile.New(st)
	if err := rec.Rebuild(); err != nil {
		st.Close()
		return nil, err
	}

	rule := profile.NightRule()
	nightSvc := nightcalc.NewService(nightcalc.ServiceConfig{
		Precise:     nightcalc.NewSolar(),
		Fallback:    nightcalc.NewHeuristic(rule),
		Concurrency: cfg.NightWorkers,
	})

	importLog := importlog.NewService(importlog.ServiceConfig{
		Sink:        st,
		QueueSize:   cfg.ImportLogQueueSize,
		RetainCount: cfg.ImportLogRetainCount,
	})
	importLog.Start()

	return &appRuntime{
		cfg:        cfg,
		profile:    profile,
		store:      st,
		reconciler: rec,
		restTrack:  resttrack.NewTracker(),
		calc:       duty.NewCalculator(profile),
		nightSvc:   nightSvc,
		importLog:  importLog,
	}, nil
}

func (rt *appRuntime) Close() error {
	rt.nightSvc.Stop()
	rt.importLog.Stop()
	if err := rt.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
