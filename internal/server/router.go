package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/metrics"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ai"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/analysis"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/history"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"go.uber.org/zap"
)

// InputValidator sanitizes and bounds-checks the idea text, picking the first usable field.
type InputValidator interface {
	ValidateFirst(candidates ...string) (string, error)
}

// Admission decides whether a client may spend another request in its window.
type Admission interface {
	CheckAndConsume(ctx context.Context, clientKey string) domain.RateLimitDecision
	Backend() string
}

// Engine produces a complete validation result for sanitized input.
type Engine interface {
	Validate(ctx context.Context, idea string, lang domain.LanguageProfile) (domain.ValidationResult, analysis.Report)
}

// InferenceStatus is the read-only view of the gateway used by /api/status.
type InferenceStatus interface {
	Health(ctx context.Context) []ai.TargetHealth
	Circuits() []util.CircuitBreakerStatus
}

// Pinger is a backing store whose reachability /api/status reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config collects the router's collaborators. Engine and Inference are nil when no
// provider credentials are configured; the validate route then answers 503.
type Config struct {
	Production    bool
	AllowedOrigin string
	MaxBodyBytes  int64

	Validator InputValidator
	Limiter   Admission
	Engine    Engine
	Inference InferenceStatus
	History   history.Recorder
	Backends  map[string]Pinger
	Metrics   *metrics.Collector
	Logger    *zap.Logger
}

// NewRouter builds the HTTP route tree.
func NewRouter(cfg Config) http.Handler {
	if cfg.History == nil {
		cfg.History = history.NopRecorder{}
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = constants.HTTPConfig.MaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	h := &handlers{cfg: cfg, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(accessLog(cfg.Logger, cfg.Metrics))
	r.Use(recoverer(cfg.Logger, cfg.Production))
	r.Use(securityHeaders(cfg.Production, cfg.AllowedOrigin))

	r.MethodNotAllowed(methodNotAllowed)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Options("/validate", preflight)
		api.Post("/validate", h.validate)
		api.Get("/status", h.status)
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	return r
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
}
