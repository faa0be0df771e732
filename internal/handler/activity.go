package handler

import (
	"net/http"
	"strconv"

	"wishlane-api/internal/model"
	"wishlane-api/internal/repository"
	"wishlane-api/pkg/response"
)

const defaultActivityLimit = 20

// ActivityHandler serves the recent activity feed.
type ActivityHandler struct {
	store repository.Store
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(store repository.Store) *ActivityHandler {
	return &ActivityHandler{store: store}
}

// Recent handles GET /api/activity?limit=. Each event carries the
// referenced item inline; the item is null when it has since been deleted.
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.store.RecentActivity(r.Context(), limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	feed := make([]model.ActivityWithItem, 0, len(events))
	for _, ev := range events {
		item, err := h.store.GetItem(r.Context(), ev.ItemID)
		if err != nil {
			response.Error(w, err)
			return
		}
		feed = append(feed, model.ActivityWithItem{ActivityEvent: *ev, Item: item})
	}
	response.OK(w, feed)
}
