package categorizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const categoryPrompt = `You are an expert at categorizing shopping items.
Analyze the product name and description, then suggest ONE category from this list:
- Dresses
- Skirts
- Tops
- Makeup
- Perfumes
- Shoes
- Bags
- Jewelry
- Electronics
- Home
- Books
- Toys

Respond with JSON in this format:
{
  "suggestedCategory": "category name",
  "confidence": 0-1
}`

const imagePrompt = `You are helping find products from an image.
Analyze this product image and extract:
- Product name
- Category
- Likely price range
- Key features or colors

Respond with JSON format:
{
  "productName": "name",
  "category": "category",
  "priceRange": "range",
  "features": ["feature1", "feature2"]
}`

const similarPrompt = `Given a product name, suggest 3-5 similar or related products.
Return JSON array of similar products:
{
  "similar": [
    {"name": "product name", "reason": "why it's similar"},
    ...
  ]
}`

// GeminiClient calls the generative-AI REST API
// ({base}/v1beta/models/{model}:generateContent).
type GeminiClient struct {
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	client     *http.Client
	log        *logrus.Entry
}

// GeminiOptions configures a GeminiClient.
type GeminiOptions struct {
	BaseURL    string
	APIKey     string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
	Logger     *logrus.Entry
}

// NewGeminiClient validates options and builds a client.
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("APIKey is required")
	}
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-pro"
	}
	to := opts.Timeout
	if to <= 0 {
		to = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &GeminiClient{
		baseURL:    strings.TrimRight(base, "/"),
		apiKey:     opts.APIKey,
		textModel:  textModel,
		imageModel: imageModel,
		client:     &http.Client{Timeout: to},
		log:        log,
	}, nil
}

// Wire types for the generateContent endpoint.
type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent      `json:"systemInstruction,omitempty"`
	Contents          []geminiContent     `json:"contents"`
	GenerationConfig  *geminiGenerationCf `json:"generationConfig,omitempty"`
}

type geminiGenerationCf struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// generate posts one generateContent request and returns the first
// candidate's text.
func (g *GeminiClient) generate(ctx context.Context, modelName, systemPrompt string, parts []geminiPart) (string, error) {
	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents:          []geminiContent{{Parts: parts}},
		GenerationConfig:  &geminiGenerationCf{ResponseMimeType: "application/json"},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("categorize request encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("categorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("categorize call failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("categorize response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("categorize call returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("categorize response decode: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("categorize returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// SuggestCategory suggests one category for an item. Failures degrade to
// the neutral suggestion.
func (g *GeminiClient) SuggestCategory(ctx context.Context, name, description string) Suggestion {
	prompt := name
	if description != "" {
		prompt = name + "\n\n" + description
	}

	text, err := g.generate(ctx, g.textModel, categoryPrompt, []geminiPart{{Text: prompt}})
	if err != nil {
		g.log.WithError(err).Warn("failed to suggest category")
		return NeutralSuggestion()
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(text), &s); err != nil || s.SuggestedCategory == "" {
		g.log.WithError(err).Warn("unusable category suggestion")
		return NeutralSuggestion()
	}
	return s
}

// FindSimilar suggests similar products. Failures degrade to empty results.
func (g *GeminiClient) FindSimilar(ctx context.Context, name string) []SimilarProduct {
	text, err := g.generate(ctx, g.textModel, similarPrompt,
		[]geminiPart{{Text: "Find similar products to: " + name}})
	if err != nil {
		g.log.WithError(err).Warn("failed to find similar products")
		return []SimilarProduct{}
	}

	var parsed struct {
		Similar []SimilarProduct `json:"similar"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		g.log.WithError(err).Warn("unusable similar-products response")
		return []SimilarProduct{}
	}
	if parsed.Similar == nil {
		return []SimilarProduct{}
	}
	return parsed.Similar
}

// SearchByImage extracts product information from an image. Unlike the text
// paths this one propagates upstream errors, wrapped.
func (g *GeminiClient) SearchByImage(ctx context.Context, image []byte, mimeType string) ([]ImageMatch, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []geminiPart{
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
		{Text: "Analyze this product image and extract product information."},
	}

	text, err := g.generate(ctx, g.imageModel, imagePrompt, parts)
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}

	var parsed struct {
		ProductName string   `json:"productName"`
		Category    string   `json:"category"`
		PriceRange  string   `json:"priceRange"`
		Features    []string `json:"features"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("image search response decode: %w", err)
	}

	match := ImageMatch{
		Name:           parsed.ProductName,
		Category:       parsed.Category,
		EstimatedPrice: parsed.PriceRange,
		Features:       parsed.Features,
	}
	if match.Name == "" {
		match.Name = "Unknown Product"
	}
	if match.Category == "" {
		match.Category = "General"
	}
	if match.EstimatedPrice == "" {
		match.EstimatedPrice = "Unknown"
	}
	if match.Features == nil {
		match.Features = []string{}
	}
	return []ImageMatch{match}, nil
}
