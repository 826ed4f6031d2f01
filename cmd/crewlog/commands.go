package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crewlog/crewlog/internal/airports"
	"github.com/crewlog/crewlog/internal/config"
	"github.com/crewlog/crewlog/internal/duty"
	"github.com/crewlog/crewlog/internal/feed"
	"github.com/crewlog/crewlog/internal/model"
	"github.com/crewlog/crewlog/internal/report"
)

const dateLayout = "2006-01-02"

func cmdImport(cfg *config.EnvConfig, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("import: at least one roster file required")
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	for _, path := range paths {
		sched, err := feed.NewScheduler(feed.SchedulerConfig{
			Source:     feed.FileSource{Path: path},
			Reconciler: rt.reconciler,
			RestTrack:  rt.restTrack,
			ImportLog:  rt.importLog,
			Schedule:   cfg.RefreshSchedule,
		})
		if err != nil {
			return err
		}
		res, err := sched.RefreshNow(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d trips created, %d legs created, %d updated, %d duplicates, %d collisions\n",
			path, res.TripsCreated, res.LegsCreated, res.LegsUpdated, res.Duplicates, res.Collisions)
	}
	return printPeriod(rt, 0, 0)
}

func cmdWatch(cfg *config.EnvConfig) error {
	if cfg.FeedPath == "" {
		return fmt.Errorf("watch: CREWLOG_FEED_PATH must be set")
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	source, err := feed.NewSource(cfg.FeedPath)
	if err != nil {
		return err
	}
	sched, err := feed.NewScheduler(feed.SchedulerConfig{
		Source:     source,
		Reconciler: rt.reconciler,
		RestTrack:  rt.restTrack,
		ImportLog:  rt.importLog,
		Schedule:   cfg.RefreshSchedule,
	})
	if err != nil {
		return err
	}

	// Initial refresh before the first cron tick.
	if _, err := sched.RefreshNow(context.Background()); err != nil {
		log.Printf("[main] initial refresh failed: %v", err)
	}

	// Warm the night cache so the first report does not estimate inline.
	if legs, err := rt.store.AllLegs(); err == nil {
		for _, leg := range legs {
			if !leg.Deadhead {
				rt.nightSvc.TriggerLeg(leg)
			}
		}
	}
	sched.Start()

	stopCh := make(chan struct{})
	go rt.restTrack.Run(stopCh, cfg.RestTickInterval)

	log.Printf("[main] crewlog watching %s (schedule %q)", cfg.FeedPath, cfg.RefreshSchedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("[main] received signal %s, shutting down", sig)

	close(stopCh)
	sched.Stop()
	return nil
}

func cmdReport(cfg *config.EnvConfig, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	from := fs.String("from", "", "window start (YYYY-MM-DD, inclusive)")
	to := fs.String("to", "", "window end (YYYY-MM-DD, exclusive)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fromNs, toNs, err := windowBounds(*from, *to)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return printPeriod(rt, fromNs, toNs)
}

func cmdTrips(cfg *config.EnvConfig, args []string) error {
	fs := flag.NewFlagSet("trips", flag.ExitOnError)
	activeOnly := fs.Bool("active", false, "only active trips")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	trips, err := rt.store.TripsInWindow(0, 0)
	if err != nil {
		return err
	}
	rest := rt.restTrack.Current()
	for _, trip := range trips {
		if *activeOnly && trip.Status != model.TripActive {
			continue
		}
		legs, err := rt.store.LegsForTrip(trip.ID)
		if err != nil {
			return err
		}
		r := rt.calc.Evaluate(trip, legs)

		line := fmt.Sprintf("%s  %s  %s  %d legs", trip.Date().Format(dateLayout), trip.ID[:8], trip.Status, len(legs))
		switch {
		case rest.InRest && trip.Status == model.TripActive:
			// In rest: suppress the in-progress accumulation.
			line += fmt.Sprintf("  in rest until %s", rest.End.Format("15:04"))
		case r.Valid:
			line += fmt.Sprintf("  duty %.2fh (%s-%s)", r.Hours(), r.Start.Format("15:04"), r.End.Format("15:04"))
		default:
			line += "  duty n/a"
		}
		for _, a := range r.Anomalies {
			line += fmt.Sprintf("  [needs review: %s %dmin]", a.Kind, a.Minutes)
		}
		fmt.Println(line)
	}
	return nil
}

func cmdRest(cfg *config.EnvConfig) error {
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	// The tracker is process-wide state; a one-shot invocation seeds it
	// from the configured feed first.
	if cfg.FeedPath != "" {
		source, err := feed.NewSource(cfg.FeedPath)
		if err != nil {
			return err
		}
		sched, err := feed.NewScheduler(feed.SchedulerConfig{
			Source:     source,
			Reconciler: rt.reconciler,
			RestTrack:  rt.restTrack,
			ImportLog:  rt.importLog,
			Schedule:   cfg.RefreshSchedule,
		})
		if err != nil {
			return err
		}
		if _, err := sched.RefreshNow(context.Background()); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	snap := rt.restTrack.Current()
	if !snap.InRest {
		fmt.Printf("not in rest%s\n", homeBaseClock(cfg.HomeBase, now))
		return nil
	}
	fmt.Printf("in rest at %s until %s (%s remaining)%s\n",
		snap.Location, snap.End.Format("2006-01-02 15:04Z"), snap.Remaining(now).Round(time.Minute),
		homeBaseClock(cfg.HomeBase, now))
	return nil
}

// homeBaseClock renders the configured home base's standard-time clock,
// empty when the base is unset or unknown.
func homeBaseClock(base string, now time.Time) string {
	a, ok := airports.Lookup(base)
	if !ok {
		return ""
	}
	local := now.Add(time.Duration(a.UTCOffsetMinutes) * time.Minute)
	return fmt.Sprintf("  (%s %s)", a.IATA, local.Format("15:04"))
}

func cmdCollisions(cfg *config.EnvConfig, args []string) error {
	fs := flag.NewFlagSet("collisions", flag.ExitOnError)
	resolve := fs.String("resolve", "", "mark a collision id reviewed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if *resolve != "" {
		if err := rt.store.ResolveCollision(*resolve); err != nil {
			return err
		}
		fmt.Printf("resolved %s\n", *resolve)
		return nil
	}

	pending, err := rt.store.PendingCollisions()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("no pending collisions")
		return nil
	}
	for _, c := range pending {
		fmt.Printf("%s  %s  kept %s  superseded %s  %s\n",
			c.ID, c.Fingerprint[:12],
			c.KeptLegID, c.SupersededLegID,
			time.Unix(0, c.ObservedAtNs).UTC().Format("2006-01-02 15:04Z"))
	}
	return nil
}

func cmdImports(cfg *config.EnvConfig, args []string) error {
	fs := flag.NewFlagSet("imports", flag.ExitOnError)
	n := fs.Int("n", 20, "number of audit rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	rows, err := rt.importLog.Recent(*n)
	if err != nil {
		return err
	}
	for _, r := range rows {
		line := fmt.Sprintf("%s  %s  %d flights  %d events  +%d legs  ~%d  dup %d  coll %d  diag %d",
			time.Unix(0, r.StartedAtNs).UTC().Format("2006-01-02 15:04Z"), r.SourceID,
			r.FlightsParsed, r.EventsParsed, r.LegsCreated, r.LegsUpdated,
			r.Duplicates, r.Collisions, r.Diagnostics)
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Println(line)
	}
	return nil
}

func printPeriod(rt *appRuntime, fromNs, toNs int64) error {
	b := &report.Builder{Store: rt.store, Calc: rt.calc, Night: rt.nightSvc}
	p, err := b.Build(fromNs, toNs)
	if err != nil {
		return err
	}
	fmt.Printf("trips %d  legs %d (%d deadhead)\n", p.Trips, p.Legs, p.Deadheads)
	fmt.Printf("block %.2fh  flight %.2fh  night %.2fh  duty %.2fh\n",
		report.Hours(p.BlockMinutes), report.Hours(p.FlightMinutes),
		report.Hours(p.NightMinutes), report.Hours(p.DutyMinutes))
	if len(p.VarianceBySeverity) > 0 {
		fmt.Printf("block variance: none %d  minor %d  moderate %d  significant %d\n",
			p.VarianceBySeverity[duty.SeverityNone], p.VarianceBySeverity[duty.SeverityMinor],
			p.VarianceBySeverity[duty.SeverityModerate], p.VarianceBySeverity[duty.SeveritySignificant])
	}
	for _, a := range p.Anomalies {
		fmt.Printf("needs review: trip %s %s (%d min)\n", a.TripID, a.Kind, a.Minutes)
	}
	return nil
}

func windowBounds(from, to string) (int64, int64, error) {
	var fromNs, toNs int64
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid -from %q: %w", from, err)
		}
		fromNs = t.UTC().UnixNano()
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid -to %q: %w", to, err)
		}
		toNs = t.UTC().UnixNano()
	}
	return fromNs, toNs, nil
}
