// Package jobs runs background work that must stay out of the request path.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

const (
	// maxAttempts bounds upload retries for one report.
	maxAttempts = 3
	// queueSize bounds the pending-report backlog. Enqueue drops (with a
	// log line) when the archive cannot keep up; generation must not block.
	queueSize = 64

	retryDelay = 5 * time.Second
)

// ReportStore uploads one archived report.
type ReportStore interface {
	Put(ctx context.Context, report domain.ArchivedReport) error
}

// ArchiveWorker drains generated reports from a queue and uploads them to
// the report store.
type ArchiveWorker struct {
	store    ReportStore
	queue    chan domain.ArchivedReport
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewArchiveWorker creates a new ArchiveWorker instance
func NewArchiveWorker(store ReportStore) *ArchiveWorker {
	return &ArchiveWorker{
		store:    store,
		queue:    make(chan domain.ArchivedReport, queueSize),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Enqueue hands a report to the worker. It never blocks: when the backlog is
// full the report is dropped and logged.
func (w *ArchiveWorker) Enqueue(report domain.ArchivedReport) {
	select {
	case w.queue <- report:
	default:
		log.Printf("archive queue full, dropping report %s", report.ID)
	}
}

// Start begins the worker's drain loop
func (w *ArchiveWorker) Start(ctx context.Context) {
	defer close(w.doneChan)

	log.Println("archive worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("archive worker stopped: context cancelled")
			return
		case <-w.stopChan:
			w.drain(ctx)
			log.Println("archive worker stopped: stop signal received")
			return
		case report := <-w.queue:
			w.upload(ctx, report)
		}
	}
}

// Stop gracefully stops the worker after draining the backlog.
func (w *ArchiveWorker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Println("archive worker shutdown complete")
}

// drain uploads whatever is still queued at shutdown.
func (w *ArchiveWorker) drain(ctx context.Context) {
	for {
		select {
		case report := <-w.queue:
			w.upload(ctx, report)
		default:
			return
		}
	}
}

func (w *ArchiveWorker) upload(ctx context.Context, report domain.ArchivedReport) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := w.store.Put(ctx, report)
		if err == nil {
			log.Printf("report %s archived", report.ID)
			return
		}
		log.Printf("archiving report %s failed (attempt %d/%d): %v", report.ID, attempt, maxAttempts, err)
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
		}
	}
	log.Printf("report %s exceeded max archive attempts, dropping", report.ID)
}
