package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/jobs"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// JobProcessor defines the interface for processing different job types
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *models.Job) error
	CanProcess(jobType models.JobType) bool
}

// knownJobTypes is the set a worker asks the queue for
var knownJobTypes = []models.JobType{
	models.JobTypePipelineRun,
	models.JobTypePublish,
}

// Worker represents a background worker that processes jobs
type Worker struct {
	id           string
	jobService   jobs.Service
	processors   []JobProcessor
	stopChan     chan struct{}
	wg           sync.WaitGroup
	pollInterval time.Duration
	jobTimeout   time.Duration
	log          *logger.Logger
}

// NewWorker creates a new worker instance
func NewWorker(id string, jobService jobs.Service, pollInterval, jobTimeout time.Duration, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Nop()
	}
	return &Worker{
		id:           id,
		jobService:   jobService,
		processors:   make([]JobProcessor, 0),
		stopChan:     make(chan struct{}),
		pollInterval: pollInterval,
		jobTimeout:   jobTimeout,
		log:          log.With("worker_id", id),
	}
}

// RegisterProcessor registers a job processor
func (w *Worker) RegisterProcessor(processor JobProcessor) {
	w.processors = append(w.processors, processor)
}

// Start starts the worker in a goroutine
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the worker and cancels the job it is running
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	w.log.Info("Worker starting")
	defer w.log.Info("Worker stopped")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.processNextJob(ctx); err != nil {
				w.log.Warn("Error processing job", "error", err)
			}
		}
	}
}

func (w *Worker) supportedTypes() []models.JobType {
	var out []models.JobType
	for _, jobType := range knownJobTypes {
		for _, p := range w.processors {
			if p.CanProcess(jobType) {
				out = append(out, jobType)
				break
			}
		}
	}
	return out
}

// processNextJob claims and processes the next available job
func (w *Worker) processNextJob(ctx context.Context) error {
	supportedTypes := w.supportedTypes()
	if len(supportedTypes) == 0 {
		return fmt.Errorf("no job processors registered")
	}

	job, err := w.jobService.ClaimNextJob(ctx, w.id, supportedTypes)
	if err != nil {
		if errors.Is(err, jobs.ErrNoJobsAvailable) {
			return nil
		}
		return err
	}
	if job == nil {
		return nil
	}

	var processor JobProcessor
	for _, p := range w.processors {
		if p.CanProcess(job.Type) {
			processor = p
			break
		}
	}
	if processor == nil {
		return fmt.Errorf("no processor found for job type %s", job.Type)
	}

	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	err = processor.ProcessJob(jobCtx, job)
	if err == nil {
		w.log.Info("Completed job", "job_id", job.ID, "type", job.Type)
		return nil
	}

	// shutdown is not the job's fault
	if ctx.Err() != nil {
		if releaseErr := w.jobService.ReleaseJob(context.Background(), job.ID); releaseErr != nil {
			w.log.Warn("Failed to release job on shutdown", "job_id", job.ID, "error", releaseErr)
		}
		return nil
	}

	jobErr := Classify(err)
	if failErr := w.jobService.FailJobWithDetails(context.Background(), job.ID,
		jobErr.Type, jobErr.Code, jobErr.Message, jobErr.Details); failErr != nil {
		w.log.Error("Failed to mark job as failed", "job_id", job.ID, "error", failErr)
	}
	return fmt.Errorf("job %d processing failed: %w", job.ID, err)
}

// WorkerPool manages multiple workers
type WorkerPool struct {
	workers    []*Worker
	jobService jobs.Service
	log        *logger.Logger
	mu         sync.RWMutex
	started    bool
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(jobService jobs.Service, workerCount int, pollInterval, jobTimeout time.Duration, log *logger.Logger) *WorkerPool {
	if log == nil {
		log = logger.Nop()
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	pool := &WorkerPool{
		jobService: jobService,
		workers:    make([]*Worker, workerCount),
		log:        log,
	}

	for i := 0; i < workerCount; i++ {
		workerID := fmt.Sprintf("worker-%d", i+1)
		pool.workers[i] = NewWorker(workerID, jobService, pollInterval, jobTimeout, log)
	}

	return pool
}

// RegisterProcessor registers a processor with all workers
func (p *WorkerPool) RegisterProcessor(processor JobProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, worker := range p.workers {
		worker.RegisterProcessor(processor)
	}
}

// Start starts all workers
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}

	p.log.Info("Starting worker pool", "workers", len(p.workers))

	for _, worker := range p.workers {
		worker.Start(ctx)
	}

	p.started = true
	return nil
}

// Stop stops all workers gracefully
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.log.Info("Stopping worker pool")

	for _, worker := range p.workers {
		worker.Stop()
	}

	p.started = false
}
