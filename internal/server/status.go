package server

import (
	"context"
	"net/http"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ai"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"go.uber.org/zap"
)

type statusResponse struct {
	Overall    string                      `json:"overall"`
	Configured bool                        `json:"configured"`
	Providers  []ai.TargetHealth           `json:"providers"`
	Models     []string                    `json:"models"`
	Circuits   []util.CircuitBreakerStatus `json:"circuits,omitempty"`
	Limiter    string                      `json:"limiter"`
	Backends   map[string]string           `json:"backends,omitempty"`
	Timestamp  time.Time                   `json:"timestamp"`
}

// status always answers 200. overall is "healthy" when at least one target responds;
// backend reachability is reported alongside without affecting it.
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Overall:   "degraded",
		Providers: []ai.TargetHealth{},
		Models:    []string{},
		Limiter:   "none",
		Timestamp: time.Now().UTC(),
	}
	if h.cfg.Limiter != nil {
		resp.Limiter = h.cfg.Limiter.Backend()
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	if len(h.cfg.Backends) > 0 {
		resp.Backends = make(map[string]string, len(h.cfg.Backends))
		for name, backend := range h.cfg.Backends {
			resp.Backends[name] = "ok"
			if err := backend.Ping(ctx); err != nil {
				h.logger.Warn("Backend ping failed", zap.String("backend", name), zap.Error(err))
				resp.Backends[name] = "unreachable"
			}
		}
	}

	if h.cfg.Inference != nil {
		resp.Configured = true

		resp.Providers = h.cfg.Inference.Health(ctx)
		for _, row := range resp.Providers {
			resp.Models = append(resp.Models, row.Provider+"/"+row.Model)
			if row.Reachable {
				resp.Overall = "healthy"
			}
		}
		resp.Circuits = h.cfg.Inference.Circuits()
	}

	writeJSON(w, http.StatusOK, resp)
}
