package httpserver

import (
	"net/http"

	"github.com/yndnr/tokauth/internal/server/httpserver/handler"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/internal/telemetry/metric"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Auth    handler.AuthService
	Logger  logger.Logger
	Metrics *metric.Registry
	Ready   handler.ReadyFunc

	// CORSAllowedOrigins enables CORS for the listed origins.
	CORSAllowedOrigins []string

	// Version and Backend are reported by /health.
	Version string
	Backend string
}

// NewRouter builds the API handler wrapped in the middleware chain:
// Recover -> RequestID -> CORS -> Audit -> Metrics -> routes.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.Auth, handler.Options{
		Logger:  log.Slog(),
		Metrics: cfg.Metrics,
		Ready:   cfg.Ready,
		Version: cfg.Version,
		Backend: cfg.Backend,
	})

	middlewares := []Middleware{
		Recover(log.Slog()),
		RequestID(log),
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		middlewares = append(middlewares, CORS(cfg.CORSAllowedOrigins))
	}
	middlewares = append(middlewares, Audit(log.Slog()))
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Metrics(cfg.Metrics))
	}

	return Chain(h, middlewares...)
}
