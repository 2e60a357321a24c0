package router

import (
	"encoding/json"
	"net/http"

	"github.com/creativeiyke/agency-platform/internal/content"
	httpmiddleware "github.com/creativeiyke/agency-platform/internal/http/middleware"
	"github.com/creativeiyke/agency-platform/internal/qualify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	WidgetHandler      *qualify.Handler
	ContentHandler     *content.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimit guards the widget API, which fronts paid generation calls.
	RateLimit func(http.Handler) http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.ContentHandler != nil {
			api.With(middleware.Compress(5)).Mount("/content", cfg.ContentHandler.Routes())
		}
		if cfg.WidgetHandler != nil {
			widget := api.With()
			if cfg.RateLimit != nil {
				widget = api.With(cfg.RateLimit)
			}
			widget.Mount("/widget/sessions", cfg.WidgetHandler.Routes())
		}
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
