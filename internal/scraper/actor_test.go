package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newActorServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestActorAdapterScrape(t *testing.T) {
	srv, captured := newActorServer(t, http.StatusOK,
		`[{"name":"Wool Coat","price":"$120","currency":"USD","images":["https://img/1.jpg"],"inStock":true}]`)

	adapter, err := NewActorAdapter(ActorAdapterOptions{
		BaseURL: srv.URL,
		ActorID: "acme~product-scraper",
		Token:   "tok-123",
	})
	if err != nil {
		t.Fatalf("NewActorAdapter: %v", err)
	}

	got, err := adapter.Scrape(context.Background(), "https://www.example.com/coat", PlatformUniversal)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if got.Name != "Wool Coat" || got.Price != "$120" {
		t.Errorf("got %+v", got)
	}
	if got.Platform != PlatformUniversal {
		t.Errorf("Platform = %q", got.Platform)
	}
	if got.StoreName != "Example" {
		t.Errorf("StoreName = %q, want derived Example", got.StoreName)
	}

	if !strings.Contains(captured.URL.Path, "/v2/acts/acme~product-scraper/run-sync-get-dataset-items") {
		t.Errorf("path = %q", captured.URL.Path)
	}
	if captured.URL.Query().Get("token") != "tok-123" {
		t.Errorf("token = %q", captured.URL.Query().Get("token"))
	}
}

func TestActorAdapterAcceptsSingleObject(t *testing.T) {
	srv, _ := newActorServer(t, http.StatusOK, `{"name":"Single","inStock":false}`)

	adapter, _ := NewActorAdapter(ActorAdapterOptions{BaseURL: srv.URL, Token: "t"})
	got, err := adapter.Scrape(context.Background(), "https://a.com/1", PlatformUniversal)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if got.Name != "Single" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestActorAdapterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"upstream failure", http.StatusBadGateway, `{"error":"actor crashed"}`},
		{"empty dataset", http.StatusOK, `[]`},
		{"nameless product", http.StatusOK, `[{"price":"$1"}]`},
		{"garbage body", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newActorServer(t, tt.status, tt.body)
			adapter, _ := NewActorAdapter(ActorAdapterOptions{BaseURL: srv.URL, Token: "t"})

			if _, err := adapter.Scrape(context.Background(), "https://a.com/1", PlatformUniversal); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestActorAdapterRequestBody(t *testing.T) {
	var input struct {
		URL      string `json:"url"`
		Platform string `json:"platform"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&input)
		w.Write([]byte(`[{"name":"X"}]`))
	}))
	defer srv.Close()

	adapter, _ := NewActorAdapter(ActorAdapterOptions{BaseURL: srv.URL, Token: "t"})
	if _, err := adapter.Scrape(context.Background(), "https://www.zara.com/p", PlatformZara); err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if input.URL != "https://www.zara.com/p" || input.Platform != "zara" {
		t.Errorf("actor input = %+v", input)
	}
}

func TestNewActorAdapterValidation(t *testing.T) {
	if _, err := NewActorAdapter(ActorAdapterOptions{Token: "t"}); err == nil {
		t.Error("missing BaseURL accepted")
	}
	if _, err := NewActorAdapter(ActorAdapterOptions{BaseURL: "https://api.example.com"}); err == nil {
		t.Error("missing Token accepted")
	}
}
