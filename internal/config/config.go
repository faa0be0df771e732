package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server      ServerConfig
	App         AppConfig
	Store       StoreConfig
	Cache       CacheConfig
	Scraper     ScraperConfig
	Categorizer CategorizerConfig
	Worker      WorkerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"wishlane-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// StoreConfig holds data store settings. The default is the volatile
// in-memory store; sqlite, postgres and mysql persist across restarts.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"memory"` // memory, sqlite, postgres, or mysql
	Path string `envconfig:"STORE_PATH" default:"./data/wishlane.db"`
	// PostgreSQL / MySQL settings
	Host     string `envconfig:"STORE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_DB_PORT" default:"0"`
	Name     string `envconfig:"STORE_DB_NAME" default:"wishlane"`
	User     string `envconfig:"STORE_DB_USER" default:""`
	Password string `envconfig:"STORE_DB_PASS" default:""`
	SSLMode  string `envconfig:"STORE_DB_SSLMODE" default:"disable"`
}

// CacheConfig holds scrape-result cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// ScraperConfig holds scraping-actor platform settings. An empty token
// selects the offline mock adapter.
type ScraperConfig struct {
	BaseURL string        `envconfig:"SCRAPER_BASE_URL" default:"https://api.apify.com"`
	Token   string        `envconfig:"SCRAPER_TOKEN" default:""`
	ActorID string        `envconfig:"SCRAPER_ACTOR_ID" default:"wishlane~product-scraper"`
	Timeout time.Duration `envconfig:"SCRAPER_TIMEOUT" default:"60s"`
}

// CategorizerConfig holds generative-AI API settings. An empty API key
// selects the offline mock client.
type CategorizerConfig struct {
	APIKey     string        `envconfig:"GEMINI_API_KEY" default:""`
	BaseURL    string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	TextModel  string        `envconfig:"GEMINI_TEXT_MODEL" default:"gemini-2.5-flash"`
	ImageModel string        `envconfig:"GEMINI_IMAGE_MODEL" default:"gemini-2.5-pro"`
	Timeout    time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
}

// WorkerConfig holds background scraper-job worker settings.
type WorkerConfig struct {
	Enabled     bool          `envconfig:"WORKER_ENABLED" default:"true"`
	Interval    time.Duration `envconfig:"WORKER_INTERVAL" default:"30s"`
	MaxAttempts int           `envconfig:"WORKER_MAX_ATTEMPTS" default:"3"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StoreConfig) PostgresDSN() string {
	port := s.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, port, s.Name, s.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	port := s.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.User, s.Password, s.Host, port, s.Name)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
