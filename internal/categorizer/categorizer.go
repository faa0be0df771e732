// Package categorizer talks to the generative-AI collaborator that suggests
// a category for an item, looks products up from an image, and finds similar
// products. Per the error policy, SuggestCategory and FindSimilar swallow
// their own downstream failures and return neutral results; only
// SearchByImage re-raises.
package categorizer

// Suggestion is a category suggestion with a confidence in [0,1].
type Suggestion struct {
	SuggestedCategory string  `json:"suggestedCategory"`
	Confidence        float64 `json:"confidence"`
}

// SimilarProduct is one entry from a find-similar lookup.
type SimilarProduct struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImageMatch is one product extracted from an image search.
type ImageMatch struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	EstimatedPrice string   `json:"estimatedPrice"`
	Features       []string `json:"features"`
}

// NeutralSuggestion is returned when categorization fails or yields nothing.
func NeutralSuggestion() Suggestion {
	return Suggestion{SuggestedCategory: "All Items", Confidence: 0}
}
