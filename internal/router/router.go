package router

import (
	"wishlane-api/internal/handler"
	"wishlane-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler            *handler.Handler
	ItemHandler        *handler.ItemHandler
	ListHandler        *handler.ListHandler
	ActivityHandler    *handler.ActivityHandler
	PreferencesHandler *handler.PreferencesHandler
	Logger             *logrus.Logger
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/status", cfg.Handler.Status)
		}

		if cfg.ItemHandler != nil {
			r.Route("/items", func(r chi.Router) {
				r.Get("/", cfg.ItemHandler.List)
				r.Post("/", cfg.ItemHandler.Create)
				r.Post("/import-csv", cfg.ItemHandler.ImportCSV)
				r.Post("/search-by-image", cfg.ItemHandler.SearchByImage)
				r.Post("/update-prices", cfg.ItemHandler.RefreshPrices)
				r.Get("/{id}", cfg.ItemHandler.Get)
				r.Patch("/{id}", cfg.ItemHandler.Update)
				r.Delete("/{id}", cfg.ItemHandler.Delete)
				r.Get("/{id}/price-history", cfg.ItemHandler.PriceHistory)
				r.Post("/{id}/find-similar", cfg.ItemHandler.FindSimilar)
			})
		}

		if cfg.ListHandler != nil {
			r.Route("/lists", func(r chi.Router) {
				r.Get("/", cfg.ListHandler.List)
				r.Post("/", cfg.ListHandler.Create)
				r.Get("/{id}", cfg.ListHandler.Get)
				r.Delete("/{id}", cfg.ListHandler.Delete)
			})
		}

		if cfg.ActivityHandler != nil {
			r.Get("/activity", cfg.ActivityHandler.Recent)
		}

		if cfg.PreferencesHandler != nil {
			r.Get("/preferences", cfg.PreferencesHandler.Get)
			r.Patch("/preferences", cfg.PreferencesHandler.Update)
		}
	})

	return r
}
