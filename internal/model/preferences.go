package model

import "time"

// Preference defaults.
const (
	DefaultTheme    = "lavender-light"
	DefaultCurrency = "USD"
)

// UserPreferences is a singleton created lazily on first write.
type UserPreferences struct {
	ID        string    `json:"id"`
	Theme     string    `json:"theme"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PreferencesPatch is a shallow-merge update for preferences.
type PreferencesPatch struct {
	Theme    *string `json:"theme"`
	Currency *string `json:"currency"`
}
