package categorizer

import "context"

// Client abstracts the external LLM collaborator.
type Client interface {
	// SuggestCategory suggests one category for an item name and optional
	// description. Failures degrade to the neutral suggestion.
	SuggestCategory(ctx context.Context, name, description string) Suggestion

	// FindSimilar suggests similar or related products. Failures degrade
	// to an empty result list.
	FindSimilar(ctx context.Context, name string) []SimilarProduct

	// SearchByImage extracts product information from an image. This is
	// the one path that propagates upstream errors.
	SearchByImage(ctx context.Context, image []byte, mimeType string) ([]ImageMatch, error)
}
