package categorizer

import (
	"context"
	"strings"
)

// keyword table for offline categorization.
var mockCategories = map[string]string{
	"dress":    "Dresses",
	"skirt":    "Skirts",
	"top":      "Tops",
	"shirt":    "Tops",
	"lipstick": "Makeup",
	"mascara":  "Makeup",
	"perfume":  "Perfumes",
	"shoe":     "Shoes",
	"sneaker":  "Shoes",
	"boot":     "Shoes",
	"bag":      "Bags",
	"ring":     "Jewelry",
	"necklace": "Jewelry",
	"phone":    "Electronics",
	"laptop":   "Electronics",
	"book":     "Books",
	"toy":      "Toys",
}

// MockClient categorizes via a keyword table. Used when no API key is
// configured, and in tests.
type MockClient struct{}

// NewMockClient creates an offline categorizer.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// SuggestCategory matches name keywords against the table.
func (m *MockClient) SuggestCategory(ctx context.Context, name, description string) Suggestion {
	lower := strings.ToLower(name + " " + description)
	for keyword, category := range mockCategories {
		if strings.Contains(lower, keyword) {
			return Suggestion{SuggestedCategory: category, Confidence: 0.9}
		}
	}
	return NeutralSuggestion()
}

// FindSimilar fabricates a small list of related products.
func (m *MockClient) FindSimilar(ctx context.Context, name string) []SimilarProduct {
	return []SimilarProduct{
		{Name: name + " (alternative)", Reason: "same product type"},
		{Name: name + " (budget option)", Reason: "lower price range"},
		{Name: name + " (premium option)", Reason: "higher price range"},
	}
}

// SearchByImage returns a single generic match.
func (m *MockClient) SearchByImage(ctx context.Context, image []byte, mimeType string) ([]ImageMatch, error) {
	return []ImageMatch{
		{
			Name:           "Unknown Product",
			Category:       "General",
			EstimatedPrice: "Unknown",
			Features:       []string{},
		},
	}, nil
}
