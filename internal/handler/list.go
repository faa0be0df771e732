package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"wishlane-api/internal/model"
	"wishlane-api/internal/repository"
	"wishlane-api/pkg/apierror"
	"wishlane-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ListHandler handles wishlist list HTTP requests.
type ListHandler struct {
	store repository.Store
}

// NewListHandler creates a new list handler.
func NewListHandler(store repository.Store) *ListHandler {
	return &ListHandler{store: store}
}

// List handles GET /api/lists
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.store.ListLists(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, lists)
}

// Get handles GET /api/lists/{id}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	list, err := h.store.GetList(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if list == nil {
		response.Error(w, apierror.NotFound("List not found"))
		return
	}
	response.OK(w, list)
}

type createListRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Create handles POST /api/lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.Error(w, apierror.Validation("List name is required"))
		return
	}
	if req.Icon == "" {
		req.Icon = model.DefaultListIcon
	}

	list, err := h.store.CreateList(r.Context(), model.InsertList{
		Name: strings.TrimSpace(req.Name),
		Icon: req.Icon,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, list)
}

// Delete handles DELETE /api/lists/{id}. Items referencing the list keep
// their listId; only the list record is removed.
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.store.DeleteList(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if !deleted {
		response.Error(w, apierror.NotFound("List not found"))
		return
	}
	response.OK(w, map[string]bool{"deleted": true})
}
