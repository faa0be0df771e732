package model

import "time"

// AllItemsListID is the reserved pseudo-list holding unassigned items.
// It always exists, is not user-deletable, and is excluded from list-all.
const AllItemsListID = "all"

// DefaultListIcon is used for lists created by the auto-categorizer.
const DefaultListIcon = "shopping-bag"

// List is a named category bucket ("Dresses", "Electronics", ...).
type List struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertList carries the fields for creating a list.
type InsertList struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}
