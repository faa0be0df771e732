package model

import "time"

// PriceHistory is an immutable price point recorded on each successful
// scrape. Entries are never updated; they go away only when their item does.
type PriceHistory struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"itemId"`
	Price      string    `json:"price"`
	Currency   string    `json:"currency"`
	RecordedAt time.Time `json:"recordedAt"`
}
