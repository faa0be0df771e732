package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wishlane-api/internal/cache"
	"wishlane-api/internal/categorizer"
	"wishlane-api/internal/config"
	"wishlane-api/internal/handler"
	"wishlane-api/internal/repository"
	"wishlane-api/internal/router"
	"wishlane-api/internal/scraper"
	"wishlane-api/internal/service"
	"wishlane-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log := logger.New(cfg.App.LogLevel)
	log.Infof("Starting %s...", cfg.App.Name)
	log.Infof("Environment: %s", cfg.App.Environment)

	// Initialize the store based on config
	var store repository.Store
	switch cfg.Store.Type {
	case "sqlite":
		s, err := repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
		store = s
		log.Info("SQLite store initialized")
	case "postgres", "postgresql":
		s, err := repository.NewPostgresStore(cfg.Store.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL store: %v", err)
		}
		store = s
		log.Info("PostgreSQL store initialized")
	case "mysql":
		s, err := repository.NewMySQLStore(cfg.Store.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL store: %v", err)
		}
		store = s
		log.Info("MySQL store initialized")
	default: // memory
		store = repository.NewMemoryStore()
		log.Info("In-memory store initialized (data is volatile)")
	}
	defer store.Close()

	// Initialize the scrape-result cache
	var scrapeCache cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		c, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Warnf("Redis connection failed, falling back to memory cache: %v", err)
			scrapeCache = cache.NewMemoryCache()
		} else {
			scrapeCache = c
			log.Info("Redis cache initialized")
		}
	default: // memory
		scrapeCache = cache.NewMemoryCache()
		log.Info("In-memory cache initialized")
	}
	defer scrapeCache.Close()

	// Scraper adapter: real actor platform when a token is configured,
	// offline mock otherwise.
	var adapter scraper.Adapter
	if cfg.Scraper.Token != "" {
		a, err := scraper.NewActorAdapter(scraper.ActorAdapterOptions{
			BaseURL: cfg.Scraper.BaseURL,
			ActorID: cfg.Scraper.ActorID,
			Token:   cfg.Scraper.Token,
			Timeout: cfg.Scraper.Timeout,
		})
		if err != nil {
			log.Fatalf("Failed to initialize scraper adapter: %v", err)
		}
		adapter = a
		log.Info("Actor scraper adapter initialized")
	} else {
		adapter = scraper.NewMockAdapter()
		log.Warn("SCRAPER_TOKEN not set, using mock scraper adapter")
	}

	// Categorizer client: real generative-AI API when a key is
	// configured, offline mock otherwise.
	var ai categorizer.Client
	if cfg.Categorizer.APIKey != "" {
		c, err := categorizer.NewGeminiClient(categorizer.GeminiOptions{
			BaseURL:    cfg.Categorizer.BaseURL,
			APIKey:     cfg.Categorizer.APIKey,
			TextModel:  cfg.Categorizer.TextModel,
			ImageModel: cfg.Categorizer.ImageModel,
			Timeout:    cfg.Categorizer.Timeout,
			Logger:     logger.WithComponent(log, "categorizer"),
		})
		if err != nil {
			log.Fatalf("Failed to initialize categorizer: %v", err)
		}
		ai = c
		log.Info("Gemini categorizer initialized")
	} else {
		ai = categorizer.NewMockClient()
		log.Warn("GEMINI_API_KEY not set, using mock categorizer")
	}

	// Initialize services
	itemService := service.NewItemService(
		store, adapter, ai, scrapeCache, cfg.Cache.TTL,
		logger.WithComponent(log, "items"),
	)

	// Background worker for batch-imported jobs
	var worker *service.JobWorker
	if cfg.Worker.Enabled {
		worker = service.NewJobWorker(store, itemService, service.WorkerConfig{
			Interval:    cfg.Worker.Interval,
			MaxAttempts: cfg.Worker.MaxAttempts,
		}, logger.WithComponent(log, "worker"))
		worker.Start()
	}

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Version)
	itemHandler := handler.NewItemHandler(itemService)
	listHandler := handler.NewListHandler(store)
	activityHandler := handler.NewActivityHandler(store)
	preferencesHandler := handler.NewPreferencesHandler(store)

	// Create router
	r := router.New(router.Config{
		Handler:            healthHandler,
		ItemHandler:        itemHandler,
		ListHandler:        listHandler,
		ActivityHandler:    activityHandler,
		PreferencesHandler: preferencesHandler,
		Logger:             log,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop the worker first so no job is half-processed at exit
	if worker != nil {
		worker.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}

	log.Info("Server stopped")
}
