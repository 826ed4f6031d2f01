// Package importlog records one audit row per roster refresh through a
// buffered channel, so the refresh path never blocks on the database.
package importlog

import (
	"log"
	"sync"

	"github.com/crewlog/crewlog/internal/store"
)

// Sink is the slice of persistence the service writes through.
type Sink interface {
	AppendImport(*store.ImportRecord) error
	PruneImports(retain int) error
	RecentImports(limit int) ([]*store.ImportRecord, error)
}

// Service is an async import-log writer. Emit performs a non-blocking
// channel send (drops on overflow); a background goroutine persists
// records and prunes the log to its retention bound.
type Service struct {
	sink        Sink
	queue       chan store.ImportRecord
	retainCount int

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// ServiceConfig configures the import log service.
type ServiceConfig struct {
	Sink        Sink
	QueueSize   int
	RetainCount int
}

// NewService creates an import log service.
func NewService(cfg ServiceConfig) *Service {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	retain := cfg.RetainCount
	if retain <= 0 {
		retain = 500
	}
	return &Service{
		sink:        cfg.Sink,
		queue:       make(chan store.ImportRecord, queueSize),
		retainCount: retain,
		stopCh:      make(chan struct{}),
	}
}

// Start launches the background writer.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.writeLoop()
}

// Stop drains queued records and returns once they are persisted.
func (s *Service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Emit enqueues an audit record. Non-blocking; drops on overflow.
func (s *Service) Emit(rec store.ImportRecord) {
	select {
	case s.queue <- rec:
	default:
		log.Printf("[importlog] warning: queue full, dropping record for source %s", rec.SourceID)
	}
}

// Recent returns the newest audit rows.
func (s *Service) Recent(limit int) ([]*store.ImportRecord, error) {
	return s.sink.RecentImports(limit)
}

func (s *Service) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case rec := <-s.queue:
			s.persist(rec)
		case <-s.stopCh:
			// Drain whatever is still queued.
			for {
				select {
				case rec := <-s.queue:
					s.persist(rec)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) persist(rec store.ImportRecord) {
	if err := s.sink.AppendImport(&rec); err != nil {
		log.Printf("[importlog] warning: append record: %v", err)
		return
	}
	if err := s.sink.PruneImports(s.retainCount); err != nil {
		log.Printf("[importlog] warning: prune: %v", err)
	}
}
