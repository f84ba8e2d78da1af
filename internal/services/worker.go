package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

const (
	DefaultWorkerConcurrency = 2
	DefaultQueueSize         = 100
	DefaultStaleAfter        = 30 * time.Minute
	defaultReapInterval      = time.Minute
	staleBatchSize           = 50

	interruptedMessage = "screening interrupted before completion; please upload the resumes again"
)

// ScreeningJob carries the uploaded documents in memory; they are never
// written to disk or the database.
type ScreeningJob struct {
	SessionID uuid.UUID
	Request   models.BatchRequest
}

type WorkerConfig struct {
	Concurrency  int
	QueueSize    int
	StaleAfter   time.Duration
	ReapInterval time.Duration
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(job *ScreeningJob) error
}

type worker struct {
	sessions   repositories.SessionRepository
	candidates repositories.CandidateRepository
	screener   Screener
	index      CandidateIndex
	publisher  StatusPublisher
	metrics    *Metrics
	cfg        WorkerConfig

	jobQueue chan *ScreeningJob
	inflight sync.Map
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWorker builds the async screening worker. index may be nil when no
// vector store is configured.
func NewWorker(
	sessions repositories.SessionRepository,
	candidates repositories.CandidateRepository,
	screener Screener,
	index CandidateIndex,
	publisher StatusPublisher,
	metrics *Metrics,
	cfg WorkerConfig,
) Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = defaultReapInterval
	}
	if publisher == nil {
		publisher = NewNopPublisher()
	}

	return &worker{
		sessions:   sessions,
		candidates: candidates,
		screener:   screener,
		index:      index,
		publisher:  publisher,
		metrics:    metrics,
		cfg:        cfg,
		jobQueue:   make(chan *ScreeningJob, cfg.QueueSize),
		stopChan:   make(chan struct{}),
	}
}

func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.cfg.Concurrency)

	for i := 0; i < w.cfg.Concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.reapLoop(ctx)

	log.Println("✅ Worker started successfully")
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob never blocks: a full queue is reported as ErrQueueFull. A
// queued session counts as in flight so the reaper leaves it alone until
// processJob returns.
func (w *worker) EnqueueJob(job *ScreeningJob) error {
	select {
	case <-w.stopChan:
		return fmt.Errorf("worker stopped, cannot enqueue job %s", job.SessionID)
	default:
	}

	w.inflight.Store(job.SessionID, struct{}{})

	select {
	case w.jobQueue <- job:
		w.metrics.JobEnqueued()
		log.Printf("📥 Job %s enqueued (%d resumes)\n", job.SessionID, len(job.Request.Documents))
		return nil
	default:
		w.inflight.Delete(job.SessionID)
		return fmt.Errorf("job %s: %w", job.SessionID, ErrQueueFull)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context cancelled\n", workerID)
			return
		case job := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, job.SessionID)
			if err := w.processJob(ctx, job); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, job.SessionID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, job.SessionID)
			}
		}
	}
}

func (w *worker) processJob(ctx context.Context, job *ScreeningJob) error {
	id := job.SessionID
	w.inflight.Store(id, struct{}{})
	defer w.inflight.Delete(id)

	w.metrics.JobStarted()

	if err := w.sessions.UpdateStatus(id, models.StatusProcessing); err != nil {
		return w.fail(ctx, id, fmt.Errorf("failed to mark session processing: %w", err))
	}
	w.publish(ctx, SessionEvent{SessionID: id.String(), Status: models.StatusProcessing, Total: len(job.Request.Documents)})

	outcome := w.screener.ScreenBatch(ctx, job.Request)

	records := make([]models.CandidateRecord, 0, len(outcome.Ranked.Results))
	for rank, result := range outcome.Ranked.Results {
		records = append(records, models.NewCandidateRecord(id, rank+1, result))
	}

	if err := w.candidates.CreateBatch(records); err != nil {
		return w.fail(ctx, id, err)
	}

	err := w.sessions.Complete(id, &repositories.SessionResultData{
		FitCount:     outcome.Ranked.FitCount,
		Total:        outcome.Ranked.Total,
		Metrics:      outcome.Metrics,
		MetricsError: outcome.MetricsError,
	})
	if err != nil {
		if delErr := w.candidates.DeleteBySession(id); delErr != nil {
			log.Printf("⚠️  Failed to remove candidates of session %s: %v\n", id, delErr)
		}
		return w.fail(ctx, id, err)
	}

	w.indexCandidates(ctx, id, records)

	w.metrics.JobFinished(models.StatusCompleted)
	w.publish(ctx, SessionEvent{
		SessionID: id.String(),
		Status:    models.StatusCompleted,
		FitCount:  outcome.Ranked.FitCount,
		Total:     outcome.Ranked.Total,
	})

	return nil
}

func (w *worker) indexCandidates(ctx context.Context, sessionID uuid.UUID, records []models.CandidateRecord) {
	if w.index == nil {
		return
	}

	indexed := 0
	for _, rec := range records {
		if rec.ErrorMessage != "" || rec.ResumeText == "" {
			continue
		}
		if err := w.index.IndexCandidate(ctx, sessionID, rec.ID, rec.ResumeText); err != nil {
			log.Printf("⚠️  Failed to index candidate %s: %v\n", rec.ID, err)
			continue
		}
		indexed++
	}

	if indexed > 0 {
		log.Printf("✅ Indexed %d candidate(s) for session %s\n", indexed, sessionID)
	}
}

func (w *worker) fail(ctx context.Context, id uuid.UUID, cause error) error {
	if err := w.sessions.UpdateError(id, cause.Error()); err != nil {
		log.Printf("⚠️  Failed to record error for session %s: %v\n", id, err)
	}
	w.metrics.JobFinished(models.StatusFailed)
	w.publish(ctx, SessionEvent{SessionID: id.String(), Status: models.StatusFailed, Error: cause.Error()})
	return cause
}

func (w *worker) publish(ctx context.Context, event SessionEvent) {
	if err := w.publisher.Publish(ctx, event); err != nil {
		log.Printf("⚠️  Failed to publish %s event for session %s: %v\n", event.Status, event.SessionID, err)
	}
}

func (w *worker) reapLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.cfg.ReapInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting stale session reaper")
	w.reapStaleSessions(ctx)

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Stale session reaper stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reapStaleSessions(ctx)
		}
	}
}

// reapStaleSessions fails sessions that were queued or processing when a
// previous process exited. Their uploads only ever lived in memory.
func (w *worker) reapStaleSessions(ctx context.Context) int {
	stale, err := w.sessions.FindStale(time.Now().Add(-w.cfg.StaleAfter), staleBatchSize)
	if err != nil {
		log.Printf("⚠️  Failed to fetch stale sessions: %v\n", err)
		return 0
	}

	reaped := 0
	for _, session := range stale {
		if _, busy := w.inflight.Load(session.ID); busy {
			continue
		}
		if err := w.sessions.UpdateError(session.ID, interruptedMessage); err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				log.Printf("⚠️  Failed to reap session %s: %v\n", session.ID, err)
			}
			continue
		}
		w.publish(ctx, SessionEvent{SessionID: session.ID.String(), Status: models.StatusFailed, Error: interruptedMessage})
		reaped++
	}

	if reaped > 0 {
		log.Printf("📋 Marked %d stale session(s) as failed\n", reaped)
	}
	return reaped
}
