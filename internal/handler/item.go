package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"wishlane-api/internal/model"
	"wishlane-api/internal/service"
	"wishlane-api/pkg/apierror"
	"wishlane-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// maxImageMemory bounds multipart parsing for image search uploads.
const maxImageMemory = 32 << 20

// ItemHandler handles item-related HTTP requests.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// List handles GET /api/items?listId=
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	listID := r.URL.Query().Get("listId")

	items, err := h.items.List(r.Context(), listID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, items)
}

// Get handles GET /api/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if item == nil {
		response.Error(w, apierror.NotFound("Item not found"))
		return
	}
	response.OK(w, item)
}

type createItemRequest struct {
	URL    string  `json:"url"`
	Name   string  `json:"name"`
	ListID *string `json:"listId"`
}

// Create handles POST /api/items. It runs the full ingestion pipeline
// synchronously; an enrichment failure still yields a 200 with the failed
// item.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	item, err := h.items.Submit(r.Context(), service.SubmitInput{
		URL:    req.URL,
		Name:   req.Name,
		ListID: req.ListID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, item)
}

// Update handles PATCH /api/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	item, err := h.items.Update(r.Context(), id, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	if item == nil {
		response.Error(w, apierror.NotFound("Item not found"))
		return
	}
	response.OK(w, item)
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.items.Delete(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if !deleted {
		response.Error(w, apierror.NotFound("Item not found"))
		return
	}
	response.OK(w, map[string]bool{"deleted": true})
}

// PriceHistory handles GET /api/items/{id}/price-history
func (h *ItemHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	history, err := h.items.PriceHistory(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, history)
}

// FindSimilar handles POST /api/items/{id}/find-similar
func (h *ItemHandler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	results, err := h.items.FindSimilar(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"results": results})
}

// SearchByImage handles POST /api/items/search-by-image (multipart upload,
// field "image").
func (h *ItemHandler) SearchByImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageMemory); err != nil {
		response.Error(w, apierror.BadRequest("invalid multipart payload"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, apierror.BadRequest("No image provided"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read image"))
		return
	}

	results, err := h.items.SearchByImage(r.Context(), image, header.Header.Get("Content-Type"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"results": results})
}

// RefreshPrices handles POST /api/items/update-prices. Acknowledgement
// only; nothing is re-scraped.
func (h *ItemHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	count, err := h.items.RefreshPrices(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]interface{}{
		"message": "Price updates queued",
		"count":   count,
	})
}

type importCSVRequest struct {
	Items []service.CSVRow `json:"items"`
	CSV   string           `json:"csv"`
}

// ImportCSV handles POST /api/items/import-csv. Accepts either pre-parsed
// rows ({"items": [...]}) or raw CSV text ({"csv": "..."}).
func (h *ItemHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	var req importCSVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.Validation("Invalid data format"))
		return
	}

	rows := req.Items
	if req.CSV != "" {
		rows = service.ParseCSV(req.CSV)
	}
	if rows == nil {
		response.Error(w, apierror.Validation("Invalid data format"))
		return
	}

	imported, total := h.items.ImportBatch(r.Context(), rows)
	response.OK(w, map[string]int{
		"imported": imported,
		"total":    total,
	})
}
