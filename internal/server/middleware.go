package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/metrics"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const requestMetaKey ctxKey = iota

// requestMeta is per-request state shared between middleware and handlers. The validate
// handler fills in the detected language so a later panic can answer in it.
type requestMeta struct {
	id   string
	lang domain.LanguageProfile
}

func metaFrom(ctx context.Context) *requestMeta {
	if m, ok := ctx.Value(requestMetaKey).(*requestMeta); ok {
		return m
	}
	return &requestMeta{lang: domain.LanguageProfile{Code: domain.LanguageEnglish}}
}

// RequestID returns the id assigned to the request carried by ctx, or "".
func RequestID(ctx context.Context) string {
	return metaFrom(ctx).id
}

// requestID honours a caller-supplied X-Request-ID and otherwise mints a UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		meta := &requestMeta{id: id, lang: domain.LanguageProfile{Code: domain.LanguageEnglish}}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestMetaKey, meta)))
	})
}

func securityHeaders(production bool, allowedOrigin string) func(http.Handler) http.Handler {
	origin := "*"
	if production {
		origin = allowedOrigin
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", "default-src 'none'; script-src 'none';")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			if production {
				h.Add("Vary", "Origin")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one Info line per request and feeds the request metrics.
func accessLog(logger *zap.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			collector.ObserveRequest(route, r.Method, status, elapsed)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
				zap.String("request_id", RequestID(r.Context())),
			)
		})
	}
}

// recoverer turns a panic into a 500 with a generic message in the request's language.
// The panic detail is only echoed outside production.
func recoverer(logger *zap.Logger, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				meta := metaFrom(r.Context())
				logger.Error("Handler panicked",
					zap.String("request_id", meta.id),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)

				body := errorBody{Message: meta.lang.Pick(
					"Analiz sırasında bir hata oluştu. Lütfen daha sonra tekrar deneyin.",
					"An error occurred during analysis. Please try again later.",
				)}
				if !production {
					body.Error = fmt.Sprint(rec)
				}
				writeJSON(w, http.StatusInternalServerError, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
