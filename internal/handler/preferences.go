package handler

import (
	"encoding/json"
	"net/http"

	"wishlane-api/internal/model"
	"wishlane-api/internal/repository"
	"wishlane-api/pkg/apierror"
	"wishlane-api/pkg/response"
)

// PreferencesHandler handles user preference HTTP requests.
type PreferencesHandler struct {
	store repository.Store
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(store repository.Store) *PreferencesHandler {
	return &PreferencesHandler{store: store}
}

// Get handles GET /api/preferences. Returns defaults when nothing has been
// saved yet.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.GetPreferences(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if prefs == nil {
		response.OK(w, map[string]string{
			"theme":    model.DefaultTheme,
			"currency": model.DefaultCurrency,
		})
		return
	}
	response.OK(w, prefs)
}

// Update handles PATCH /api/preferences.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.PreferencesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	prefs, err := h.store.UpdatePreferences(r.Context(), patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, prefs)
}
