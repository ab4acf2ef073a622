package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/history"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/language"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ratelimit"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"go.uber.org/zap"
)

const historyTimeout = 5 * time.Second

type handlers struct {
	cfg    Config
	logger *zap.Logger
}

func (h *handlers) validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meta := metaFrom(ctx)

	if !h.admit(w, r) {
		return
	}

	var req domain.AnalysisRequest
	if r.Body != nil {
		body := http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Message: "Request body too large"})
				return
			}
			if !stderrors.Is(err, io.EOF) {
				writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid JSON body"})
				return
			}
		}
	}

	text, err := h.cfg.Validator.ValidateFirst(req.Candidates()...)
	if err != nil {
		var verr *errors.ValidationError
		if stderrors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: verr.Message})
			return
		}
		panic(err)
	}

	if h.cfg.Engine == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "AI service not configured"})
		return
	}

	lang := language.Detect(text)
	meta.lang = lang

	result, report := h.cfg.Engine.Validate(ctx, text, lang)

	h.record(ctx, history.Entry{
		RequestID:   meta.id,
		Idea:        text,
		Language:    lang.Code,
		DemandScore: result.DemandScore,
		Degraded:    report.Degraded,
		Sections:    report.DegradedSections,
		Elapsed:     report.Elapsed,
	})

	writeJSON(w, http.StatusOK, result)
}

// admit consumes one request from the client's window and writes the rate-limit headers.
// It answers 429 itself and returns false when the client is over quota.
func (h *handlers) admit(w http.ResponseWriter, r *http.Request) bool {
	if h.cfg.Limiter == nil {
		return true
	}

	key := ratelimit.ClientKey(r)
	decision := h.cfg.Limiter.CheckAndConsume(r.Context(), key)

	hdr := w.Header()
	hdr.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	hdr.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	hdr.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

	if decision.Allowed {
		return true
	}

	rlErr := errors.NewRateLimitError(key, decision.RetryAfter(time.Now()))
	retryAfter := int(math.Ceil(rlErr.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	hdr.Set("Retry-After", strconv.Itoa(retryAfter))
	h.cfg.Metrics.RateLimited()
	writeJSON(w, rlErr.StatusCode, errorBody{Message: rlErr.Message})
	return false
}

// record persists the outcome. Failures are logged and never reach the client.
func (h *handlers) record(ctx context.Context, entry history.Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()

	if err := h.cfg.History.Record(ctx, entry); err != nil {
		h.logger.Warn("Failed to record validation history",
			zap.String("request_id", entry.RequestID),
			zap.Error(err),
		)
	}
}
