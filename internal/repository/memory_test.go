package repository

import (
	"context"
	"fmt"
	"testing"

	"wishlane-api/internal/model"
)

func TestGetItemMissingIsNilNil(t *testing.T) {
	store := NewMemoryStore()

	item, err := store.GetItem(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("item = %+v, want nil", item)
	}
}

func TestListItemsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var ids []string
	for i := 0; i < 3; i++ {
		item, err := store.CreateItem(ctx, model.InsertItem{
			URL:  fmt.Sprintf("https://example.com/%d", i),
			Name: fmt.Sprintf("Item %d", i),
		})
		if err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
		ids = append(ids, item.ID)
	}

	items, err := store.ListItems(ctx, "")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	// Creation timestamps can collide; the sequence tiebreaker must still
	// put the latest insert first.
	for i, item := range items {
		if item.ID != ids[len(ids)-1-i] {
			t.Fatalf("position %d = %q, want %q", i, item.ID, ids[len(ids)-1-i])
		}
	}
}

func TestListItemsFilterByList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	list, _ := store.CreateList(ctx, model.InsertList{Name: "Shoes"})
	store.CreateItem(ctx, model.InsertItem{URL: "https://a.com/1", Name: "In list", ListID: &list.ID})
	store.CreateItem(ctx, model.InsertItem{URL: "https://a.com/2", Name: "Unassigned"})

	items, _ := store.ListItems(ctx, list.ID)
	if len(items) != 1 || items[0].Name != "In list" {
		t.Errorf("filtered items = %+v", items)
	}
}

func TestUpdateItemShallowMerge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	item, _ := store.CreateItem(ctx, model.InsertItem{URL: "https://a.com/1", Name: "Before"})

	name := "After"
	price := "$10"
	updated, err := store.UpdateItem(ctx, item.ID, model.ItemPatch{Name: &name, Price: &price})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Name != "After" || updated.Price == nil || *updated.Price != "$10" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.URL != "https://a.com/1" {
		t.Errorf("untouched field changed: URL = %q", updated.URL)
	}
	if !updated.UpdatedAt.After(item.UpdatedAt) && !updated.UpdatedAt.Equal(item.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}

	missing, err := store.UpdateItem(ctx, "nope", model.ItemPatch{Name: &name})
	if err != nil || missing != nil {
		t.Errorf("UpdateItem(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestItemPatchClearsWithEmptyString(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	list, _ := store.CreateList(ctx, model.InsertList{Name: "Shoes"})
	item, _ := store.CreateItem(ctx, model.InsertItem{URL: "https://a.com/1", Name: "X", ListID: &list.ID})

	size := "M"
	updated, _ := store.UpdateItem(ctx, item.ID, model.ItemPatch{SelectedSize: &size})
	if updated.SelectedSize == nil || *updated.SelectedSize != "M" {
		t.Fatalf("SelectedSize = %v", updated.SelectedSize)
	}

	empty := ""
	updated, _ = store.UpdateItem(ctx, item.ID, model.ItemPatch{ListID: &empty, SelectedSize: &empty})
	if updated.ListID != nil {
		t.Errorf("ListID = %q, want cleared", *updated.ListID)
	}
	if updated.SelectedSize != nil {
		t.Errorf("SelectedSize = %q, want cleared", *updated.SelectedSize)
	}
}

func TestListListsExcludesReservedList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// The reserved pseudo-list is gettable but never enumerated.
	all, err := store.GetList(ctx, model.AllItemsListID)
	if err != nil || all == nil {
		t.Fatalf("GetList(all) = %v, %v", all, err)
	}

	lists, _ := store.ListLists(ctx)
	if len(lists) != 0 {
		t.Errorf("ListLists = %+v, want empty", lists)
	}
}

func TestListListsSortedByName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.CreateList(ctx, model.InsertList{Name: "shoes"})
	store.CreateList(ctx, model.InsertList{Name: "Bags"})
	store.CreateList(ctx, model.InsertList{Name: "dresses"})

	lists, _ := store.ListLists(ctx)
	got := []string{lists[0].Name, lists[1].Name, lists[2].Name}
	want := []string{"Bags", "dresses", "shoes"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDeleteListProtectsReservedList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	deleted, err := store.DeleteList(ctx, model.AllItemsListID)
	if err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if deleted {
		t.Error("reserved list must not be deletable")
	}
}

func TestDeleteListLeavesItemsUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	list, _ := store.CreateList(ctx, model.InsertList{Name: "Shoes"})
	item, _ := store.CreateItem(ctx, model.InsertItem{URL: "https://a.com/1", Name: "X", ListID: &list.ID})

	deleted, _ := store.DeleteList(ctx, list.ID)
	if !deleted {
		t.Fatal("DeleteList returned false")
	}

	// No referential check: the item keeps its dangling reference.
	got, _ := store.GetItem(ctx, item.ID)
	if got.ListID == nil || *got.ListID != list.ID {
		t.Errorf("ListID = %v, want dangling %q", got.ListID, list.ID)
	}
}

func TestRecentActivityLimitAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("Item %d", i)
		if _, err := store.AddActivityEvent(ctx, model.ActivityEvent{
			ItemID:    fmt.Sprintf("item-%d", i),
			EventType: model.EventItemAdded,
			NewValue:  &name,
		}); err != nil {
			t.Fatalf("AddActivityEvent: %v", err)
		}
	}

	events, err := store.RecentActivity(ctx, 2)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ItemID != "item-4" || events[1].ItemID != "item-3" {
		t.Errorf("order = %q, %q, want item-4, item-3", events[0].ItemID, events[1].ItemID)
	}
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	item, _ := store.CreateItem(ctx, model.InsertItem{URL: "https://a.com/1", Name: "X"})
	job, err := store.CreateScraperJob(ctx, item.ID)
	if err != nil {
		t.Fatalf("CreateScraperJob: %v", err)
	}
	if job.Status != model.JobStatusPending || job.Attempts != 0 {
		t.Fatalf("new job = %+v", job)
	}

	pending, _ := store.ListPendingJobs(ctx)
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	attempts := 1
	status := model.JobStatusCompleted
	updated, _ := store.UpdateScraperJob(ctx, job.ID, model.JobPatch{Status: &status, Attempts: &attempts})
	if updated.Status != model.JobStatusCompleted || updated.Attempts != 1 {
		t.Errorf("updated = %+v", updated)
	}

	pending, _ = store.ListPendingJobs(ctx)
	if len(pending) != 0 {
		t.Errorf("pending after completion = %d, want 0", len(pending))
	}

	if err := store.DeleteScraperJobsByItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteScraperJobsByItem: %v", err)
	}
	got, _ := store.GetScraperJob(ctx, job.ID)
	if got != nil {
		t.Error("job still present after delete")
	}
}

func TestPreferencesSingleton(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	prefs, err := store.GetPreferences(ctx)
	if err != nil || prefs != nil {
		t.Fatalf("GetPreferences before write = %v, %v, want nil, nil", prefs, err)
	}

	theme := "midnight-dark"
	created, err := store.UpdatePreferences(ctx, model.PreferencesPatch{Theme: &theme})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if created.Theme != "midnight-dark" {
		t.Errorf("Theme = %q", created.Theme)
	}
	if created.Currency != model.DefaultCurrency {
		t.Errorf("Currency = %q, want default %q", created.Currency, model.DefaultCurrency)
	}

	currency := "EUR"
	updated, _ := store.UpdatePreferences(ctx, model.PreferencesPatch{Currency: &currency})
	if updated.ID != created.ID {
		t.Error("singleton id changed between writes")
	}
	if updated.Theme != "midnight-dark" || updated.Currency != "EUR" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestClonesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	item, _ := store.CreateItem(ctx, model.InsertItem{URL: "https://a.com/1", Name: "X"})
	item.Name = "mutated"
	item.Images = append(item.Images, "https://evil.example.com/img")

	got, _ := store.GetItem(ctx, item.ID)
	if got.Name != "X" {
		t.Errorf("caller mutation leaked into store: Name = %q", got.Name)
	}
	if len(got.Images) != 0 {
		t.Errorf("caller mutation leaked into store: Images = %v", got.Images)
	}
}
