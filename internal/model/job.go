package model

import "time"

// Scraper job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ScraperJob records one enrichment attempt for an item. Jobs created by the
// synchronous submit path are audit records; jobs created by CSV import are
// picked up by the background worker.
type ScraperJob struct {
	ID           string     `json:"id"`
	ItemID       string     `json:"itemId"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	ErrorMessage *string    `json:"errorMessage"`
	CreatedAt    time.Time  `json:"createdAt"`
	ProcessedAt  *time.Time `json:"processedAt"`
}

// JobPatch is a shallow-merge update for scraper jobs.
type JobPatch struct {
	Status       *string
	Attempts     *int
	ErrorMessage *string
	ProcessedAt  *time.Time
}
