package service

import (
	"context"
	"sync"
	"time"

	"wishlane-api/internal/model"
	"wishlane-api/internal/repository"

	"github.com/sirupsen/logrus"
)

// WorkerConfig holds settings for the scraper-job worker.
type WorkerConfig struct {
	// Interval is how often pending jobs are drained.
	Interval time.Duration

	// MaxAttempts is how many enrichment attempts a job gets before it
	// is marked failed for good.
	MaxAttempts int
}

// JobWorker drains pending scraper jobs in the background. CSV imports
// only enqueue; this worker is what eventually enriches those items. The
// synchronous submit path never goes through here.
type JobWorker struct {
	store    repository.Store
	items    *ItemService
	config   WorkerConfig
	ticker   *time.Ticker
	stopCh   chan struct{}
	stopOnce sync.Once
	log      *logrus.Entry
}

// NewJobWorker creates a worker; call Start to begin draining.
func NewJobWorker(store repository.Store, items *ItemService, config WorkerConfig, log *logrus.Entry) *JobWorker {
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	return &JobWorker{
		store:  store,
		items:  items,
		config: config,
		stopCh: make(chan struct{}),
		log:    log,
	}
}

// Start begins the drain loop.
func (w *JobWorker) Start() {
	w.ticker = time.NewTicker(w.config.Interval)
	w.log.WithFields(logrus.Fields{
		"interval":     w.config.Interval,
		"max_attempts": w.config.MaxAttempts,
	}).Info("job worker started")

	go w.run()
}

func (w *JobWorker) run() {
	for {
		select {
		case <-w.ticker.C:
			w.DrainPending()
		case <-w.stopCh:
			w.log.Info("job worker stopped")
			return
		}
	}
}

// Stop stops the worker. Safe to call more than once.
func (w *JobWorker) Stop() {
	w.stopOnce.Do(func() {
		if w.ticker != nil {
			w.ticker.Stop()
		}
		close(w.stopCh)
	})
}

// DrainPending processes every currently-pending job once. Exported so an
// immediate drain can be triggered without waiting for the ticker.
func (w *JobWorker) DrainPending() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobs, err := w.store.ListPendingJobs(ctx)
	if err != nil {
		w.log.WithError(err).Error("failed to list pending jobs")
		return
	}

	for _, job := range jobs {
		select {
		case <-w.stopCh:
			return
		default:
		}
		w.processJob(ctx, job)
	}
}

// processJob claims one job, runs enrichment, and settles the job state.
func (w *JobWorker) processJob(ctx context.Context, job *model.ScraperJob) {
	item, err := w.store.GetItem(ctx, job.ItemID)
	if err != nil {
		w.log.WithError(err).WithField("job", job.ID).Error("failed to load job item")
		return
	}
	if item == nil {
		w.settle(ctx, job, model.JobStatusFailed, strPtr("item no longer exists"))
		return
	}
	if item.Status == model.ItemStatusProcessed {
		w.settle(ctx, job, model.JobStatusCompleted, nil)
		return
	}

	attempts := job.Attempts + 1
	_, err = w.store.UpdateScraperJob(ctx, job.ID, model.JobPatch{
		Status:   strPtr(model.JobStatusProcessing),
		Attempts: &attempts,
	})
	if err != nil {
		w.log.WithError(err).WithField("job", job.ID).Error("failed to claim job")
		return
	}

	enriched, err := w.items.Enrich(ctx, item)
	if err != nil {
		w.log.WithError(err).WithField("job", job.ID).Error("enrichment store fault")
		w.settle(ctx, job, model.JobStatusFailed, strPtr(err.Error()))
		return
	}

	if enriched != nil && enriched.Status == model.ItemStatusProcessed {
		w.settle(ctx, job, model.JobStatusCompleted, nil)
		return
	}

	// scrape failed; retry on a later tick until attempts run out
	var msg *string
	if enriched != nil && enriched.ErrorMessage != nil {
		msg = enriched.ErrorMessage
	}
	if attempts >= w.config.MaxAttempts {
		w.settle(ctx, job, model.JobStatusFailed, msg)
		return
	}
	_, err = w.store.UpdateScraperJob(ctx, job.ID, model.JobPatch{
		Status:       strPtr(model.JobStatusPending),
		ErrorMessage: msg,
	})
	if err != nil {
		w.log.WithError(err).WithField("job", job.ID).Error("failed to requeue job")
	}
}

func (w *JobWorker) settle(ctx context.Context, job *model.ScraperJob, status string, msg *string) {
	now := time.Now().UTC()
	_, err := w.store.UpdateScraperJob(ctx, job.ID, model.JobPatch{
		Status:       &status,
		ErrorMessage: msg,
		ProcessedAt:  &now,
	})
	if err != nil {
		w.log.WithError(err).WithField("job", job.ID).Error("failed to settle job")
	}
}
