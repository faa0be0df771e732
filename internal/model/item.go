package model

import "time"

// Item lifecycle statuses. The only transitions in the synchronous path are
// pending -> processed and pending -> failed; the background worker moves
// batch-imported items through processing first.
const (
	ItemStatusPending    = "pending"
	ItemStatusProcessing = "processing"
	ItemStatusProcessed  = "processed"
	ItemStatusFailed     = "failed"
)

// ColorVariant is one color option scraped from a product page.
type ColorVariant struct {
	Name   string `json:"name"`
	Hex    string `json:"hex,omitempty"`
	Swatch string `json:"swatch,omitempty"`
}

// Item is a wishlist entry. Price is kept as text to preserve currency
// symbols and store formatting.
type Item struct {
	ID            string         `json:"id"`
	URL           string         `json:"url"`
	Name          string         `json:"name"`
	Price         *string        `json:"price"`
	Currency      *string        `json:"currency"`
	Images        []string       `json:"images"`
	Colors        []ColorVariant `json:"colors"`
	Sizes         []string       `json:"sizes"`
	SelectedSize  *string        `json:"selectedSize"`
	SelectedColor *string        `json:"selectedColor"`
	InStock       bool           `json:"inStock"`
	ListID        *string        `json:"listId"`
	Status        string         `json:"status"`
	ErrorMessage  *string        `json:"errorMessage"`
	StoreName     *string        `json:"storeName"`
	ScraperType   *string        `json:"scraperType"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// InsertItem carries the caller-supplied fields for creating an item.
type InsertItem struct {
	URL    string  `json:"url"`
	Name   string  `json:"name"`
	ListID *string `json:"listId"`
	Status string  `json:"status"`
}

// ItemPatch is a shallow-merge update: nil fields are left unchanged.
// ListID and the selected variants may be cleared by sending an empty string.
type ItemPatch struct {
	Name          *string        `json:"name"`
	Price         *string        `json:"price"`
	Currency      *string        `json:"currency"`
	Images        []string       `json:"images"`
	Colors        []ColorVariant `json:"colors"`
	Sizes         []string       `json:"sizes"`
	SelectedSize  *string        `json:"selectedSize"`
	SelectedColor *string        `json:"selectedColor"`
	InStock       *bool          `json:"inStock"`
	ListID        *string        `json:"listId"`
	Status        *string        `json:"status"`
	ErrorMessage  *string        `json:"errorMessage"`
	StoreName     *string        `json:"storeName"`
	ScraperType   *string        `json:"scraperType"`
}
