// Package scraper talks to the hosted scraping-actor platform that turns a
// product URL into a normalized product record. Connector logic sits behind
// the Adapter interface; the default adapter is offline-safe mock mode.
package scraper

import (
	"context"
	"net/url"
	"strings"

	"wishlane-api/internal/model"
)

// Platform identifies which specialized scraper an URL should be routed to.
type Platform string

const (
	PlatformShopify   Platform = "shopify"
	PlatformZara      Platform = "zara"
	PlatformHM        Platform = "hm"
	PlatformUniversal Platform = "universal"
)

// ScrapedData is the normalized product record returned by an adapter.
type ScrapedData struct {
	Name      string               `json:"name"`
	Price     string               `json:"price,omitempty"`
	Currency  string               `json:"currency,omitempty"`
	Images    []string             `json:"images"`
	Colors    []model.ColorVariant `json:"colors,omitempty"`
	Sizes     []string             `json:"sizes,omitempty"`
	InStock   bool                 `json:"inStock"`
	StoreName string               `json:"storeName,omitempty"`
	Platform  Platform             `json:"platform"`
}

// Adapter abstracts the external scraping collaborator. Any upstream
// error surfaces as a single opaque wrapped error.
type Adapter interface {
	Scrape(ctx context.Context, rawURL string, platform Platform) (*ScrapedData, error)
}

// DetectPlatform maps an URL's hostname to a platform tag. It is pure and
// total: unparseable input maps to universal rather than failing.
func DetectPlatform(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUniversal
	}
	hostname := strings.ToLower(u.Hostname())

	switch {
	case strings.Contains(hostname, "shopify") || strings.Contains(hostname, "myshopify"):
		return PlatformShopify
	case strings.Contains(hostname, "zara"):
		return PlatformZara
	case strings.Contains(hostname, "hm.com"):
		return PlatformHM
	default:
		return PlatformUniversal
	}
}

// storeNameFromURL derives a display store name from the URL hostname.
func storeNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	name := strings.SplitN(host, ".", 2)[0]
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
