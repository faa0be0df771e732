package scraper

import (
	"context"
	"fmt"
	"net/url"

	"wishlane-api/internal/model"
)

// MockAdapter synthesizes deterministic product records from the URL alone.
// Used when no actor token is configured, and in tests.
type MockAdapter struct{}

// NewMockAdapter creates an offline adapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// Scrape returns a placeholder product derived from the URL hostname.
func (m *MockAdapter) Scrape(ctx context.Context, rawURL string, platform Platform) (*ScrapedData, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("failed to scrape URL: invalid url %q", rawURL)
	}

	store := storeNameFromURL(rawURL)
	return &ScrapedData{
		Name:     fmt.Sprintf("Product from %s", store),
		Price:    "$99",
		Currency: "USD",
		Images: []string{
			"https://via.placeholder.com/400x500/9333ea/ffffff?text=Product+Image",
		},
		Colors: []model.ColorVariant{
			{Name: "Black", Hex: "#000000"},
			{Name: "White", Hex: "#FFFFFF"},
		},
		Sizes:     []string{"S", "M", "L", "XL"},
		InStock:   true,
		StoreName: store,
		Platform:  platform,
	}, nil
}
