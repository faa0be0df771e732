package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ActorAdapter calls a hosted scraping-actor platform over HTTP JSON:
//
//	POST {base}/v2/acts/{actorID}/run-sync-get-dataset-items?token=...
//	  body: {"url": "...", "platform": "..."}
//	  -> JSON array of dataset items; the first item is the product record.
type ActorAdapter struct {
	baseURL string
	actorID string
	token   string
	client  *http.Client
}

// ActorAdapterOptions configures an ActorAdapter.
type ActorAdapterOptions struct {
	BaseURL string
	ActorID string
	Token   string
	Timeout time.Duration
}

// NewActorAdapter validates options and builds an adapter.
func NewActorAdapter(opts ActorAdapterOptions) (*ActorAdapter, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("BaseURL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}
	if opts.Token == "" {
		return nil, errors.New("Token is required")
	}
	to := opts.Timeout
	if to <= 0 {
		to = 60 * time.Second
	}
	return &ActorAdapter{
		baseURL: strings.TrimRight(base, "/"),
		actorID: opts.ActorID,
		token:   opts.Token,
		client:  &http.Client{Timeout: to},
	}, nil
}

type actorRunInput struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// Scrape runs the actor synchronously and returns the first dataset item.
func (a *ActorAdapter) Scrape(ctx context.Context, rawURL string, platform Platform) (*ScrapedData, error) {
	body, err := json.Marshal(actorRunInput{URL: rawURL, Platform: string(platform)})
	if err != nil {
		return nil, fmt.Errorf("scrape request encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		a.baseURL, url.PathEscape(a.actorID), url.QueryEscape(a.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape call failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("scrape response read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scrape call returned status %d", resp.StatusCode)
	}

	var items []ScrapedData
	if err := json.Unmarshal(data, &items); err != nil {
		// some actors return a single object instead of a dataset array
		var single ScrapedData
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("scrape response decode: %w", err)
		}
		items = []ScrapedData{single}
	}
	if len(items) == 0 {
		return nil, errors.New("scrape returned no product data")
	}

	item := items[0]
	if item.Name == "" {
		return nil, errors.New("scrape returned a product without a name")
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	if item.StoreName == "" {
		item.StoreName = storeNameFromURL(rawURL)
	}
	item.Platform = platform
	return &item, nil
}
