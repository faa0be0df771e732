package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"wishlane-api/internal/model"
	"wishlane-api/pkg/uid"
)

// MemoryStore is the default volatile store: mutex-guarded maps with linear
// scans and no indices beyond the primary key. Creation order is tracked
// with a sequence counter so same-timestamp records still sort stably.
type MemoryStore struct {
	mu      sync.RWMutex
	seq     uint64
	items   map[string]*model.Item
	itemSeq map[string]uint64
	lists   map[string]*model.List
	history map[string][]*model.PriceHistory
	jobs    map[string]*model.ScraperJob
	jobSeq  map[string]uint64
	events  []*model.ActivityEvent
	prefs   *model.UserPreferences
}

// NewMemoryStore creates an empty store seeded with the "All Items" list.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		items:   make(map[string]*model.Item),
		itemSeq: make(map[string]uint64),
		lists:   make(map[string]*model.List),
		history: make(map[string][]*model.PriceHistory),
		jobs:    make(map[string]*model.ScraperJob),
		jobSeq:  make(map[string]uint64),
	}
	s.lists[model.AllItemsListID] = &model.List{
		ID:        model.AllItemsListID,
		Name:      "All Items",
		Icon:      model.DefaultListIcon,
		CreatedAt: time.Now().UTC(),
	}
	return s
}

func (s *MemoryStore) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// GetItem retrieves an item by id.
func (s *MemoryStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

// ListItems returns items newest first, optionally filtered to one list.
func (s *MemoryStore) ListItems(ctx context.Context, listID string) ([]*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Item, 0, len(s.items))
	for _, item := range s.items {
		if listID != "" && (item.ListID == nil || *item.ListID != listID) {
			continue
		}
		out = append(out, cloneItem(item))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.itemSeq[out[i].ID] > s.itemSeq[out[j].ID]
	})
	return out, nil
}

// CreateItem creates an item in the given (or pending) state.
func (s *MemoryStore) CreateItem(ctx context.Context, ins model.InsertItem) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	status := ins.Status
	if status == "" {
		status = model.ItemStatusPending
	}
	item := &model.Item{
		ID:        uid.New(),
		URL:       ins.URL,
		Name:      ins.Name,
		Images:    []string{},
		Colors:    []model.ColorVariant{},
		Sizes:     []string{},
		InStock:   true,
		ListID:    cloneStr(ins.ListID),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.items[item.ID] = item
	s.itemSeq[item.ID] = s.nextSeq()
	return cloneItem(item), nil
}

// UpdateItem applies a shallow merge and refreshes updatedAt.
func (s *MemoryStore) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	applyItemPatch(item, patch)
	item.UpdatedAt = time.Now().UTC()
	return cloneItem(item), nil
}

// DeleteItem removes an item. Children are not cascaded here; the service
// layer sweeps price history, jobs and activity explicitly.
func (s *MemoryStore) DeleteItem(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	delete(s.itemSeq, id)
	return true, nil
}

// GetList retrieves a list by id, including the reserved pseudo-list.
func (s *MemoryStore) GetList(ctx context.Context, id string) (*model.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[id]
	if !ok {
		return nil, nil
	}
	c := *list
	return &c, nil
}

// ListLists returns user lists sorted by name, excluding "All Items".
func (s *MemoryStore) ListLists(ctx context.Context) ([]*model.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.List, 0, len(s.lists))
	for _, list := range s.lists {
		if list.ID == model.AllItemsListID {
			continue
		}
		c := *list
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// CreateList creates a named list with the given icon.
func (s *MemoryStore) CreateList(ctx context.Context, ins model.InsertList) (*model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	icon := ins.Icon
	if icon == "" {
		icon = model.DefaultListIcon
	}
	list := &model.List{
		ID:        uid.New(),
		Name:      ins.Name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}
	s.lists[list.ID] = list
	c := *list
	return &c, nil
}

// DeleteList removes a list. The reserved pseudo-list is never deleted.
// Items still referencing the list are left untouched (no referential check).
func (s *MemoryStore) DeleteList(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == model.AllItemsListID {
		return false, nil
	}
	if _, ok := s.lists[id]; !ok {
		return false, nil
	}
	delete(s.lists, id)
	return true, nil
}

// ListPriceHistory returns price points for an item, oldest first.
func (s *MemoryStore) ListPriceHistory(ctx context.Context, itemID string) ([]*model.PriceHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[itemID]
	out := make([]*model.PriceHistory, len(entries))
	for i, e := range entries {
		c := *e
		out[i] = &c
	}
	return out, nil
}

// AddPriceHistory appends an immutable price point.
func (s *MemoryStore) AddPriceHistory(ctx context.Context, itemID, price, currency string) (*model.PriceHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &model.PriceHistory{
		ID:         uid.New(),
		ItemID:     itemID,
		Price:      price,
		Currency:   currency,
		RecordedAt: time.Now().UTC(),
	}
	s.history[itemID] = append(s.history[itemID], entry)
	c := *entry
	return &c, nil
}

// DeletePriceHistoryByItem removes all price points for an item.
func (s *MemoryStore) DeletePriceHistoryByItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.history, itemID)
	return nil
}

// GetScraperJob retrieves a job by id.
func (s *MemoryStore) GetScraperJob(ctx context.Context, id string) (*model.ScraperJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return cloneJob(job), nil
}

// ListPendingJobs returns pending jobs oldest first.
func (s *MemoryStore) ListPendingJobs(ctx context.Context) ([]*model.ScraperJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.ScraperJob, 0)
	for _, job := range s.jobs {
		if job.Status == model.JobStatusPending {
			out = append(out, cloneJob(job))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return s.jobSeq[out[i].ID] < s.jobSeq[out[j].ID]
	})
	return out, nil
}

// CreateScraperJob creates a pending job with zero attempts for an item.
func (s *MemoryStore) CreateScraperJob(ctx context.Context, itemID string) (*model.ScraperJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &model.ScraperJob{
		ID:        uid.New(),
		ItemID:    itemID,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.jobs[job.ID] = job
	s.jobSeq[job.ID] = s.nextSeq()
	return cloneJob(job), nil
}

// UpdateScraperJob applies a shallow merge to a job.
func (s *MemoryStore) UpdateScraperJob(ctx context.Context, id string, patch model.JobPatch) (*model.ScraperJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Attempts != nil {
		job.Attempts = *patch.Attempts
	}
	if patch.ErrorMessage != nil {
		job.ErrorMessage = cloneStr(patch.ErrorMessage)
	}
	if patch.ProcessedAt != nil {
		t := *patch.ProcessedAt
		job.ProcessedAt = &t
	}
	return cloneJob(job), nil
}

// DeleteScraperJobsByItem removes all jobs for an item.
func (s *MemoryStore) DeleteScraperJobsByItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, job := range s.jobs {
		if job.ItemID == itemID {
			delete(s.jobs, id)
			delete(s.jobSeq, id)
		}
	}
	return nil
}

// RecentActivity returns the limit most-recent events, newest first.
func (s *MemoryStore) RecentActivity(ctx context.Context, limit int) ([]*model.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]*model.ActivityEvent, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		c := *s.events[i]
		c.OldValue = cloneStr(c.OldValue)
		c.NewValue = cloneStr(c.NewValue)
		c.ChangePercent = cloneStr(c.ChangePercent)
		out = append(out, &c)
	}
	return out, nil
}

// AddActivityEvent appends a feed entry, assigning id and timestamp.
func (s *MemoryStore) AddActivityEvent(ctx context.Context, ev model.ActivityEvent) (*model.ActivityEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = uid.New()
	ev.CreatedAt = time.Now().UTC()
	stored := ev
	s.events = append(s.events, &stored)
	c := stored
	return &c, nil
}

// DeleteActivityByItem removes all feed entries for an item.
func (s *MemoryStore) DeleteActivityByItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	for _, ev := range s.events {
		if ev.ItemID != itemID {
			kept = append(kept, ev)
		}
	}
	s.events = kept
	return nil
}

// GetPreferences returns the singleton, or nil if never written.
func (s *MemoryStore) GetPreferences(ctx context.Context) (*model.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.prefs == nil {
		return nil, nil
	}
	c := *s.prefs
	return &c, nil
}

// UpdatePreferences creates the singleton on first write, then merges.
func (s *MemoryStore) UpdatePreferences(ctx context.Context, patch model.PreferencesPatch) (*model.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs == nil {
		s.prefs = &model.UserPreferences{
			ID:       uid.New(),
			Theme:    model.DefaultTheme,
			Currency: model.DefaultCurrency,
		}
	}
	if patch.Theme != nil {
		s.prefs.Theme = *patch.Theme
	}
	if patch.Currency != nil {
		s.prefs.Currency = *patch.Currency
	}
	s.prefs.UpdatedAt = time.Now().UTC()
	c := *s.prefs
	return &c, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneItem(item *model.Item) *model.Item {
	c := *item
	c.Price = cloneStr(item.Price)
	c.Currency = cloneStr(item.Currency)
	c.SelectedSize = cloneStr(item.SelectedSize)
	c.SelectedColor = cloneStr(item.SelectedColor)
	c.ListID = cloneStr(item.ListID)
	c.ErrorMessage = cloneStr(item.ErrorMessage)
	c.StoreName = cloneStr(item.StoreName)
	c.ScraperType = cloneStr(item.ScraperType)
	c.Images = append([]string(nil), item.Images...)
	c.Colors = append([]model.ColorVariant(nil), item.Colors...)
	c.Sizes = append([]string(nil), item.Sizes...)
	return &c
}

func cloneJob(job *model.ScraperJob) *model.ScraperJob {
	c := *job
	c.ErrorMessage = cloneStr(job.ErrorMessage)
	if job.ProcessedAt != nil {
		t := *job.ProcessedAt
		c.ProcessedAt = &t
	}
	return &c
}

// applyItemPatch merges non-nil patch fields into item. ListID, the
// selected variants and ErrorMessage treat an empty string as "clear".
func applyItemPatch(item *model.Item, patch model.ItemPatch) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Price != nil {
		item.Price = cloneStr(patch.Price)
	}
	if patch.Currency != nil {
		item.Currency = cloneStr(patch.Currency)
	}
	if patch.Images != nil {
		item.Images = append([]string(nil), patch.Images...)
	}
	if patch.Colors != nil {
		item.Colors = append([]model.ColorVariant(nil), patch.Colors...)
	}
	if patch.Sizes != nil {
		item.Sizes = append([]string(nil), patch.Sizes...)
	}
	if patch.SelectedSize != nil {
		item.SelectedSize = clearable(patch.SelectedSize)
	}
	if patch.SelectedColor != nil {
		item.SelectedColor = clearable(patch.SelectedColor)
	}
	if patch.InStock != nil {
		item.InStock = *patch.InStock
	}
	if patch.ListID != nil {
		item.ListID = clearable(patch.ListID)
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.ErrorMessage != nil {
		item.ErrorMessage = clearable(patch.ErrorMessage)
	}
	if patch.StoreName != nil {
		item.StoreName = cloneStr(patch.StoreName)
	}
	if patch.ScraperType != nil {
		item.ScraperType = cloneStr(patch.ScraperType)
	}
}

func clearable(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return cloneStr(p)
}
