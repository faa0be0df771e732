package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wishlane-api/internal/cache"
	"wishlane-api/internal/categorizer"
	"wishlane-api/internal/model"
	"wishlane-api/internal/repository"
	"wishlane-api/internal/scraper"
	"wishlane-api/pkg/apierror"

	"github.com/sirupsen/logrus"
)

// confidenceThreshold is the strict lower bound a category suggestion must
// exceed before the pipeline assigns or creates a list.
const confidenceThreshold = 0.5

// ItemService runs the item ingestion and enrichment pipeline: URL
// submission -> scrape -> categorize -> persist -> activity event.
type ItemService struct {
	store    repository.Store
	adapter  scraper.Adapter
	ai       categorizer.Client
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logrus.Entry
}

// NewItemService wires the pipeline. scrapeCache may be nil to disable
// scrape-result caching.
func NewItemService(
	store repository.Store,
	adapter scraper.Adapter,
	ai categorizer.Client,
	scrapeCache cache.Cache,
	cacheTTL time.Duration,
	log *logrus.Entry,
) *ItemService {
	return &ItemService{
		store:    store,
		adapter:  adapter,
		ai:       ai,
		cache:    scrapeCache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// SubmitInput carries the caller-supplied fields for a single submission.
type SubmitInput struct {
	URL    string
	Name   string
	ListID *string
}

// Submit turns a user-supplied URL into an enriched, categorized item.
// Enrichment failure is terminal item state, not an error: the caller
// always gets an item back whose status is processed or failed. Only
// malformed input and store faults are errors.
func (s *ItemService) Submit(ctx context.Context, in SubmitInput) (*model.Item, error) {
	if err := validateURL(in.URL); err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = "Loading..."
	}

	item, err := s.store.CreateItem(ctx, model.InsertItem{
		URL:    in.URL,
		Name:   name,
		ListID: in.ListID,
		Status: model.ItemStatusPending,
	})
	if err != nil {
		return nil, apierror.Internal("failed to create item")
	}

	// Audit record; the sync path below performs enrichment inline.
	if _, err := s.store.CreateScraperJob(ctx, item.ID); err != nil {
		return nil, apierror.Internal("failed to create scraper job")
	}

	enriched, err := s.Enrich(ctx, item)
	if err != nil {
		return nil, err
	}
	return enriched, nil
}

// Enrich runs the scrape-categorize-persist step for an item. A scrape or
// categorization failure is absorbed: the item is updated to failed and
// returned with a nil error. A non-nil error means a store fault.
func (s *ItemService) Enrich(ctx context.Context, item *model.Item) (*model.Item, error) {
	platform := scraper.DetectPlatform(item.URL)

	scraped, err := s.scrapeWithCache(ctx, item.URL, platform)
	if err != nil {
		s.log.WithError(err).WithField("item", item.ID).Warn("enrichment failed")
		msg := err.Error()
		failed, uerr := s.store.UpdateItem(ctx, item.ID, model.ItemPatch{
			Status:       strPtr(model.ItemStatusFailed),
			ErrorMessage: &msg,
		})
		if uerr != nil {
			return nil, apierror.Internal("failed to record enrichment failure")
		}
		return failed, nil
	}

	targetListID := item.ListID
	if targetListID == nil {
		suggestion := s.ai.SuggestCategory(ctx, scraped.Name, scraped.StoreName)
		if suggestion.Confidence > confidenceThreshold {
			listID, lerr := s.resolveList(ctx, suggestion.SuggestedCategory)
			if lerr != nil {
				return nil, lerr
			}
			targetListID = listID
		}
	}

	oldPrice := item.Price
	oldInStock := item.InStock

	scraperType := string(scraped.Platform)
	patch := model.ItemPatch{
		Name:         &scraped.Name,
		Images:       scraped.Images,
		Colors:       scraped.Colors,
		Sizes:        scraped.Sizes,
		InStock:      &scraped.InStock,
		Status:       strPtr(model.ItemStatusProcessed),
		ScraperType:  &scraperType,
		ErrorMessage: strPtr(""), // clear a previous failure
	}
	if scraped.Price != "" {
		patch.Price = &scraped.Price
	}
	if scraped.Currency != "" {
		patch.Currency = &scraped.Currency
	}
	if scraped.StoreName != "" {
		patch.StoreName = &scraped.StoreName
	}
	if targetListID != nil {
		patch.ListID = targetListID
	}
	if patch.Colors == nil {
		patch.Colors = []model.ColorVariant{}
	}
	if patch.Sizes == nil {
		patch.Sizes = []string{}
	}

	updated, err := s.store.UpdateItem(ctx, item.ID, patch)
	if err != nil {
		return nil, apierror.Internal("failed to persist enrichment")
	}
	if updated == nil {
		// item was deleted out from under the enrichment
		return nil, apierror.NotFound("Item not found")
	}

	if scraped.Price != "" {
		currency := scraped.Currency
		if currency == "" {
			currency = model.DefaultCurrency
		}
		if _, err := s.store.AddPriceHistory(ctx, item.ID, scraped.Price, currency); err != nil {
			return nil, apierror.Internal("failed to record price history")
		}
	}

	if err := s.recordActivity(ctx, item.ID, oldPrice, oldInStock, scraped); err != nil {
		return nil, err
	}

	return updated, nil
}

// recordActivity emits the feed events for one enrichment pass. The first
// enrichment records item_added; re-enrichment of an item that already had
// a price records price movements and stock recovery.
func (s *ItemService) recordActivity(ctx context.Context, itemID string, oldPrice *string, oldInStock bool, scraped *scraper.ScrapedData) error {
	if oldPrice == nil {
		_, err := s.store.AddActivityEvent(ctx, model.ActivityEvent{
			ItemID:    itemID,
			EventType: model.EventItemAdded,
			NewValue:  &scraped.Name,
		})
		if err != nil {
			return apierror.Internal("failed to record activity")
		}
		return nil
	}

	if scraped.Price != "" {
		oldVal, ok1 := parsePrice(*oldPrice)
		newVal, ok2 := parsePrice(scraped.Price)
		if ok1 && ok2 && oldVal > 0 && newVal != oldVal {
			eventType := model.EventPriceRise
			if newVal < oldVal {
				eventType = model.EventPriceDrop
			}
			change := fmt.Sprintf("%+.1f%%", (newVal-oldVal)/oldVal*100)
			_, err := s.store.AddActivityEvent(ctx, model.ActivityEvent{
				ItemID:        itemID,
				EventType:     eventType,
				OldValue:      oldPrice,
				NewValue:      &scraped.Price,
				ChangePercent: &change,
			})
			if err != nil {
				return apierror.Internal("failed to record activity")
			}
		}
	}

	if !oldInStock && scraped.InStock {
		_, err := s.store.AddActivityEvent(ctx, model.ActivityEvent{
			ItemID:    itemID,
			EventType: model.EventBackInStock,
			OldValue:  strPtr("Out of stock"),
			NewValue:  strPtr("In stock"),
		})
		if err != nil {
			return apierror.Internal("failed to record activity")
		}
	}
	return nil
}

// scrapeWithCache consults the scrape-result cache before calling the
// adapter. Cache errors are soft: they fall through to a live scrape.
func (s *ItemService) scrapeWithCache(ctx context.Context, rawURL string, platform scraper.Platform) (*scraper.ScrapedData, error) {
	key := cache.ScrapeKey(rawURL)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var cached scraper.ScrapedData
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	scraped, err := s.adapter.Scrape(ctx, rawURL, platform)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(scraped); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				s.log.WithError(err).Debug("scrape cache write failed")
			}
		}
	}
	return scraped, nil
}

// resolveList reuses an existing list whose name matches case-insensitively,
// or creates a new one. No fuzzy fallback: a near-miss creates a new list
// rather than risking a wrong bucket.
func (s *ItemService) resolveList(ctx context.Context, name string) (*string, error) {
	// "All Items" is the implicit view of unassigned items, never a real list.
	if strings.EqualFold(name, "All Items") {
		return nil, nil
	}

	lists, err := s.store.ListLists(ctx)
	if err != nil {
		return nil, apierror.Internal("failed to load lists")
	}
	for _, list := range lists {
		if strings.EqualFold(list.Name, name) {
			id := list.ID
			return &id, nil
		}
	}

	created, err := s.store.CreateList(ctx, model.InsertList{
		Name: name,
		Icon: model.DefaultListIcon,
	})
	if err != nil {
		return nil, apierror.Internal("failed to create list")
	}
	id := created.ID
	return &id, nil
}

// ImportBatch creates a pending item and a scraper job per row. A failing
// row is logged and skipped; it does not abort the batch. No inline
// enrichment happens here: rows stay pending for the background worker.
func (s *ItemService) ImportBatch(ctx context.Context, rows []CSVRow) (imported, total int) {
	total = len(rows)
	for _, row := range rows {
		if err := validateURL(row.URL); err != nil {
			s.log.WithField("url", row.URL).Warn("skipping import row with invalid url")
			continue
		}

		name := row.Name
		if name == "" {
			name = "Imported Item"
		}

		item, err := s.store.CreateItem(ctx, model.InsertItem{
			URL:    row.URL,
			Name:   name,
			Status: model.ItemStatusPending,
		})
		if err != nil {
			s.log.WithError(err).WithField("url", row.URL).Error("failed to import item")
			continue
		}
		if _, err := s.store.CreateScraperJob(ctx, item.ID); err != nil {
			s.log.WithError(err).WithField("item", item.ID).Error("failed to enqueue scraper job")
			continue
		}
		imported++
	}
	return imported, total
}

// Get returns an item, or nil if absent.
func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, apierror.Internal("failed to fetch item")
	}
	return item, nil
}

// List returns items, optionally filtered to one list, newest first.
func (s *ItemService) List(ctx context.Context, listID string) ([]*model.Item, error) {
	items, err := s.store.ListItems(ctx, listID)
	if err != nil {
		return nil, apierror.Internal("failed to fetch items")
	}
	return items, nil
}

// Update applies a user edit. Returns nil if the item is absent.
func (s *ItemService) Update(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	item, err := s.store.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, apierror.Internal("failed to update item")
	}
	return item, nil
}

// Delete removes an item and sweeps its children (price history, jobs,
// activity). The store itself does not cascade.
func (s *ItemService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.DeleteItem(ctx, id)
	if err != nil {
		return false, apierror.Internal("failed to delete item")
	}
	if !deleted {
		return false, nil
	}

	if err := s.store.DeletePriceHistoryByItem(ctx, id); err != nil {
		return true, apierror.Internal("failed to sweep price history")
	}
	if err := s.store.DeleteScraperJobsByItem(ctx, id); err != nil {
		return true, apierror.Internal("failed to sweep scraper jobs")
	}
	if err := s.store.DeleteActivityByItem(ctx, id); err != nil {
		return true, apierror.Internal("failed to sweep activity")
	}
	return true, nil
}

// PriceHistory returns the recorded price points for an item.
func (s *ItemService) PriceHistory(ctx context.Context, itemID string) ([]*model.PriceHistory, error) {
	history, err := s.store.ListPriceHistory(ctx, itemID)
	if err != nil {
		return nil, apierror.Internal("failed to fetch price history")
	}
	return history, nil
}

// FindSimilar asks the categorizer for related products.
func (s *ItemService) FindSimilar(ctx context.Context, itemID string) ([]categorizer.SimilarProduct, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, apierror.Internal("failed to fetch item")
	}
	if item == nil {
		return nil, apierror.NotFound("Item not found")
	}
	return s.ai.FindSimilar(ctx, item.Name), nil
}

// SearchByImage extracts product candidates from an uploaded image. This
// path propagates upstream failures.
func (s *ItemService) SearchByImage(ctx context.Context, image []byte, mimeType string) ([]categorizer.ImageMatch, error) {
	results, err := s.ai.SearchByImage(ctx, image, mimeType)
	if err != nil {
		s.log.WithError(err).Warn("image search failed")
		return nil, apierror.BadGateway("Failed to search by image")
	}
	return results, nil
}

// RefreshPrices acknowledges a bulk price-update request. It does not
// re-scrape; it reports how many items would be covered.
func (s *ItemService) RefreshPrices(ctx context.Context) (int, error) {
	items, err := s.store.ListItems(ctx, "")
	if err != nil {
		return 0, apierror.Internal("failed to fetch items")
	}
	return len(items), nil
}

// validateURL accepts absolute http(s) URLs only.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return apierror.Validation("Please enter a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apierror.Validation("Please enter a valid URL")
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
