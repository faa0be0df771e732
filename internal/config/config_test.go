package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Type != "memory" {
		t.Errorf("Store.Type = %q, want memory", cfg.Store.Type)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %q, want memory", cfg.Cache.Type)
	}
	if cfg.Scraper.Token != "" {
		t.Errorf("Scraper.Token = %q, want empty (mock mode)", cfg.Scraper.Token)
	}
	if cfg.Worker.MaxAttempts != 3 {
		t.Errorf("Worker.MaxAttempts = %d, want 3", cfg.Worker.MaxAttempts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_TYPE", "sqlite")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Type != "sqlite" {
		t.Errorf("Store.Type = %q", cfg.Store.Type)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if !cfg.App.IsProduction() {
		t.Error("IsProduction() = false")
	}
}

func TestAddressHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 3000
	if got := cfg.Server.Address(); got != "127.0.0.1:3000" {
		t.Errorf("Address = %q", got)
	}

	cfg.Store.User = "app"
	cfg.Store.Password = "secret"
	cfg.Store.Host = "db"
	cfg.Store.Name = "wishlane"
	cfg.Store.SSLMode = "disable"
	want := "postgres://app:secret@db:5432/wishlane?sslmode=disable"
	if got := cfg.Store.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN = %q, want %q", got, want)
	}

	wantMySQL := "app:secret@tcp(db:3306)/wishlane?parseTime=true"
	if got := cfg.Store.MySQLDSN(); got != wantMySQL {
		t.Errorf("MySQLDSN = %q, want %q", got, wantMySQL)
	}
}
