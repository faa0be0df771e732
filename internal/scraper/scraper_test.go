package scraper

import (
	"context"
	"testing"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Platform
	}{
		{"shopify store", "https://shop.shopify.com/products/tee", PlatformShopify},
		{"myshopify store", "https://cool-brand.myshopify.com/products/tee", PlatformShopify},
		{"zara", "https://www.zara.com/us/en/dress-p123.html", PlatformZara},
		{"hm", "https://www2.hm.com/en_us/productpage.123.html", PlatformHM},
		{"generic store", "https://www.example.com/product/1", PlatformUniversal},
		{"zara substring in path only", "https://www.example.com/zara-style", PlatformUniversal},
		{"unparseable input", "not a url", PlatformUniversal},
		{"empty input", "", PlatformUniversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPlatform(tt.url); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestStoreNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.zara.com/us/en/dress.html", "Zara"},
		{"https://shop.example.com/p/1", "Shop"},
		{"https://example.com", "Example"},
		{"not a url", ""},
	}

	for _, tt := range tests {
		if got := storeNameFromURL(tt.url); got != tt.want {
			t.Errorf("storeNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestMockAdapterIsOfflineSafe(t *testing.T) {
	adapter := NewMockAdapter()

	data, err := adapter.Scrape(context.Background(), "https://www.zara.com/us/en/dress.html", PlatformZara)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if data.Name == "" {
		t.Error("expected a placeholder product name")
	}
	if data.Price == "" || data.Currency == "" {
		t.Errorf("expected placeholder price and currency, got %q %q", data.Price, data.Currency)
	}
	if !data.InStock {
		t.Error("mock products should be in stock")
	}
	if data.Platform != PlatformZara {
		t.Errorf("Platform = %q, want %q", data.Platform, PlatformZara)
	}
	if data.StoreName != "Zara" {
		t.Errorf("StoreName = %q, want Zara", data.StoreName)
	}
}
