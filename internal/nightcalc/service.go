package nightcalc

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/maypok86/otter"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/crewlog/crewlog/internal/blocktime"
	"github.com/crewlog/crewlog/internal/fingerprint"
	"github.com/crewlog/crewlog/internal/model"
)

// ServiceConfig configures the night service.
type ServiceConfig struct {
	// Precise estimator tried first; nil means heuristic only.
	Precise Estimator
	// Fallback used when the precise estimator cannot serve a leg.
	Fallback Estimator

	Concurrency int // max concurrent estimations
	CacheSize   int // bounded per-leg result cache entries
}

// Service runs night estimations asynchronously. TriggerLeg never
// blocks; results land in a bounded cache keyed by the leg's strict
// fingerprint, so repeated display refreshes neither block nor
// re-trigger a computation already cached or in flight.
type Service struct {
	precise  Estimator
	fallback Estimator

	cache    otter.Cache[string, int64]
	inflight *xsync.Map[string, struct{}]

	sem    chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) *Service {
	conc := cfg.Concurrency
	if conc <= 0 {
		conc = 4
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 2048
	}
	cache, err := otter.MustBuilder[string, int64](size).
		Cost(func(_ string, _ int64) uint32 { return 1 }).
		Build()
	if err != nil {
		panic("nightcalc: failed to create result cache: " + err.Error())
	}
	return &Service{
		precise:  cfg.Precise,
		fallback: cfg.Fallback,
		cache:    cache,
		inflight: xsync.NewMap[string, struct{}](),
		sem:      make(chan struct{}, conc),
		stopCh:   make(chan struct{}),
	}
}

// Stop waits for in-flight estimations and prevents new ones.
func (s *Service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// NightMinutes returns the cached estimate for a leg, if present.
func (s *Service) NightMinutes(leg *model.Leg) (int, bool) {
	secs, ok := s.cache.Get(s.key(leg))
	if !ok {
		return 0, false
	}
	return int(secs / 60), true
}

// TriggerLeg schedules an estimation for the leg and returns
// immediately. Cached and in-flight legs are not re-triggered. A caller
// that stops awaiting a result loses nothing; the leg is simply safe to
// trigger again.
func (s *Service) TriggerLeg(leg *model.Leg) {
	key := s.key(leg)
	if _, ok := s.cache.Get(key); ok {
		return
	}
	if _, loaded := s.inflight.LoadOrStore(key, struct{}{}); loaded {
		return
	}

	l := *leg // estimation reads a private copy
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inflight.Delete(key)

		select {
		case s.sem <- struct{}{}:
			defer func() { <-s.sem }()
		case <-s.stopCh:
			return
		}

		secs, err := s.estimate(&l)
		if err != nil {
			log.Printf("[nightcalc] leg %s %s-%s: %v", l.FlightNumber, l.Origin, l.Destination, err)
			return
		}
		s.cache.Set(key, secs)
	}()
}

// EstimateSync computes the night seconds for a leg synchronously,
// consulting and populating the cache.
func (s *Service) EstimateSync(leg *model.Leg) (int64, error) {
	key := s.key(leg)
	if secs, ok := s.cache.Get(key); ok {
		return secs, nil
	}
	secs, err := s.estimate(leg)
	if err != nil {
		return 0, err
	}
	s.cache.Set(key, secs)
	return secs, nil
}

func (s *Service) estimate(leg *model.Leg) (int64, error) {
	out, in, ok := legSpan(leg)
	if !ok {
		return 0, errors.New("no usable out/in times")
	}
	if s.precise != nil {
		secs, err := s.precise.NightSeconds(leg.Origin, leg.Destination, out, in)
		if err == nil {
			return secs, nil
		}
		if !errors.Is(err, ErrNoPosition) {
			return 0, err
		}
		// Unknown airport: degrade to the heuristic.
	}
	if s.fallback == nil {
		return 0, ErrNoPosition
	}
	return s.fallback.NightSeconds(leg.Origin, leg.Destination, out, in)
}

func (s *Service) key(leg *model.Leg) string {
	return fingerprint.ForLeg(leg).Hex()
}

// legSpan resolves the absolute out/in pair for estimation: scheduled
// timestamps when reconciliation attached them, else the actual compact
// times anchored to the leg's flight date.
func legSpan(leg *model.Leg) (time.Time, time.Time, bool) {
	schedOut, schedIn := leg.ScheduledOut(), leg.ScheduledIn()
	if !schedOut.IsZero() && !schedIn.IsZero() {
		return schedOut, schedIn, true
	}
	date := leg.FlightDate()
	if date.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	o, ok := blocktime.ParseCompact(leg.EffectiveOut())
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	i, ok := blocktime.ParseCompact(leg.EffectiveIn())
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	out, in := blocktime.AnchorSpan(date, o, i)
	return out, in, true
}
