package model

import "time"

// Activity event types.
const (
	EventItemAdded   = "item_added"
	EventPriceDrop   = "price_drop"
	EventPriceRise   = "price_rise"
	EventBackInStock = "back_in_stock"
)

// ActivityEvent is an append-only feed entry tied to an item.
type ActivityEvent struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	EventType     string    `json:"eventType"`
	OldValue      *string   `json:"oldValue"`
	NewValue      *string   `json:"newValue"`
	ChangePercent *string   `json:"changePercent"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ActivityWithItem embeds the owning item for feed display.
type ActivityWithItem struct {
	ActivityEvent
	Item *Item `json:"item"`
}
