package repository

import (
	"context"

	"wishlane-api/internal/model"
)

// Store defines keyed storage with simple predicate queries for all entity
// kinds. Lookups return (nil, nil) when the id is absent; deletes report
// whether anything was removed. Every operation either fully succeeds or
// leaves prior state untouched.
type Store interface {
	// Items
	GetItem(ctx context.Context, id string) (*model.Item, error)
	// ListItems returns all items, optionally filtered to one list,
	// ordered by creation time descending. listID "" means unfiltered.
	ListItems(ctx context.Context, listID string) ([]*model.Item, error)
	CreateItem(ctx context.Context, ins model.InsertItem) (*model.Item, error)
	// UpdateItem is a shallow merge: nil patch fields are left unchanged.
	// updatedAt is refreshed on every update.
	UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) (bool, error)

	// Lists. ListLists excludes the reserved "All Items" pseudo-list.
	GetList(ctx context.Context, id string) (*model.List, error)
	ListLists(ctx context.Context) ([]*model.List, error)
	CreateList(ctx context.Context, ins model.InsertList) (*model.List, error)
	DeleteList(ctx context.Context, id string) (bool, error)

	// Price history (append-only per item)
	ListPriceHistory(ctx context.Context, itemID string) ([]*model.PriceHistory, error)
	AddPriceHistory(ctx context.Context, itemID, price, currency string) (*model.PriceHistory, error)
	DeletePriceHistoryByItem(ctx context.Context, itemID string) error

	// Scraper jobs
	GetScraperJob(ctx context.Context, id string) (*model.ScraperJob, error)
	// ListPendingJobs returns pending jobs oldest first.
	ListPendingJobs(ctx context.Context) ([]*model.ScraperJob, error)
	CreateScraperJob(ctx context.Context, itemID string) (*model.ScraperJob, error)
	UpdateScraperJob(ctx context.Context, id string, patch model.JobPatch) (*model.ScraperJob, error)
	DeleteScraperJobsByItem(ctx context.Context, itemID string) error

	// Activity feed
	// RecentActivity returns the limit most-recent events, newest first.
	RecentActivity(ctx context.Context, limit int) ([]*model.ActivityEvent, error)
	AddActivityEvent(ctx context.Context, ev model.ActivityEvent) (*model.ActivityEvent, error)
	DeleteActivityByItem(ctx context.Context, itemID string) error

	// Preferences singleton, created lazily on first write.
	GetPreferences(ctx context.Context) (*model.UserPreferences, error)
	UpdatePreferences(ctx context.Context, patch model.PreferencesPatch) (*model.UserPreferences, error)

	// Close releases any underlying connections.
	Close() error
}
