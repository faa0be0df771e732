package service

import (
	"context"
	"errors"
	"testing"

	"wishlane-api/internal/categorizer"
	"wishlane-api/internal/model"
)

func newTestWorker(svc *ItemService, maxAttempts int) *JobWorker {
	return NewJobWorker(svc.store, svc, WorkerConfig{MaxAttempts: maxAttempts}, testLog())
}

func TestDrainPendingEnrichesImportedItems(t *testing.T) {
	ctx := context.Background()
	adapter := &fakeAdapter{data: scrapedFixture()}
	ai := &fakeAI{suggestion: categorizer.Suggestion{SuggestedCategory: "Dresses", Confidence: 0.9}}
	svc, store := newTestService(adapter, ai)

	imported, _ := svc.ImportBatch(ctx, []CSVRow{
		{URL: "https://a.com/1", Name: "First"},
		{URL: "https://b.com/2", Name: "Second"},
	})
	if imported != 2 {
		t.Fatalf("imported = %d, want 2", imported)
	}

	worker := newTestWorker(svc, 3)
	worker.DrainPending()

	items, _ := store.ListItems(ctx, "")
	for _, it := range items {
		if it.Status != model.ItemStatusProcessed {
			t.Errorf("item %q status = %q, want processed", it.Name, it.Status)
		}
	}

	jobs, _ := store.ListPendingJobs(ctx)
	if len(jobs) != 0 {
		t.Errorf("expected no pending jobs after drain, got %d", len(jobs))
	}
	if adapter.calls != 2 {
		t.Errorf("adapter called %d times, want 2", adapter.calls)
	}
}

func TestDrainPendingRetriesUntilMaxAttempts(t *testing.T) {
	ctx := context.Background()
	adapter := &fakeAdapter{err: errors.New("actor unavailable")}
	svc, store := newTestService(adapter, &fakeAI{})

	svc.ImportBatch(ctx, []CSVRow{{URL: "https://a.com/1"}})

	worker := newTestWorker(svc, 2)

	// First drain: attempt 1 fails, job requeued as pending.
	worker.DrainPending()
	jobs, _ := store.ListPendingJobs(ctx)
	if len(jobs) != 1 {
		t.Fatalf("expected job requeued after first failure, got %d pending", len(jobs))
	}
	if jobs[0].Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", jobs[0].Attempts)
	}

	// Second drain: attempt 2 fails, attempts exhausted, job failed.
	worker.DrainPending()
	jobs, _ = store.ListPendingJobs(ctx)
	if len(jobs) != 0 {
		t.Fatalf("expected no pending jobs after exhaustion, got %d", len(jobs))
	}

	items, _ := store.ListItems(ctx, "")
	if len(items) != 1 || items[0].Status != model.ItemStatusFailed {
		t.Errorf("item status = %q, want failed", items[0].Status)
	}
}

func TestDrainPendingRecoversOnLaterAttempt(t *testing.T) {
	ctx := context.Background()
	adapter := &fakeAdapter{err: errors.New("transient")}
	svc, store := newTestService(adapter, &fakeAI{})

	svc.ImportBatch(ctx, []CSVRow{{URL: "https://a.com/1"}})

	worker := newTestWorker(svc, 3)
	worker.DrainPending()

	items, _ := store.ListItems(ctx, "")
	if items[0].Status != model.ItemStatusFailed {
		t.Fatalf("status after failed attempt = %q, want failed", items[0].Status)
	}

	// Upstream recovers; the retry flips the item to processed.
	adapter.err = nil
	adapter.data = scrapedFixture()
	worker.DrainPending()

	items, _ = store.ListItems(ctx, "")
	if items[0].Status != model.ItemStatusProcessed {
		t.Errorf("status after recovery = %q, want processed", items[0].Status)
	}
	if items[0].ErrorMessage != nil {
		t.Errorf("ErrorMessage = %q, want cleared", *items[0].ErrorMessage)
	}

	jobs, _ := store.ListPendingJobs(ctx)
	if len(jobs) != 0 {
		t.Errorf("expected job settled, got %d pending", len(jobs))
	}
}

func TestDrainPendingSkipsDeletedItems(t *testing.T) {
	ctx := context.Background()
	adapter := &fakeAdapter{data: scrapedFixture()}
	svc, store := newTestService(adapter, &fakeAI{})

	svc.ImportBatch(ctx, []CSVRow{{URL: "https://a.com/1"}})

	items, _ := store.ListItems(ctx, "")
	if _, err := store.DeleteItem(ctx, items[0].ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	worker := newTestWorker(svc, 3)
	worker.DrainPending()

	jobs, _ := store.ListPendingJobs(ctx)
	if len(jobs) != 0 {
		t.Errorf("expected orphan job settled, got %d pending", len(jobs))
	}
	if adapter.calls != 0 {
		t.Errorf("adapter called %d times for a deleted item, want 0", adapter.calls)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	svc, _ := newTestService(&fakeAdapter{data: scrapedFixture()}, &fakeAI{})
	worker := newTestWorker(svc, 3)
	worker.Start()
	worker.Stop()
	worker.Stop()
}
