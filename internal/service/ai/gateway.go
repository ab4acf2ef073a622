package ai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/metrics"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Gateway walks an ordered list of models until one returns a usable JSON reply.
// Each target carries its own circuit breaker so a failing primary never blocks
// the fallbacks behind it.
type Gateway struct {
	routes         []*route
	attemptTimeout time.Duration
	metrics        *metrics.Collector
	logger         *zap.Logger
}

type route struct {
	target  Target
	breaker *util.CircuitBreaker
}

type GatewayConfig struct {
	Targets        []Target
	AttemptTimeout time.Duration
	Metrics        *metrics.Collector
	Clock          util.Clock
}

// TargetHealth is one row of the status report.
type TargetHealth struct {
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	Reachable bool              `json:"reachable"`
	Circuit   util.CircuitState `json:"circuit"`
}

func NewGateway(cfg GatewayConfig, logger *zap.Logger) (*Gateway, error) {
	if len(cfg.Targets) == 0 {
		return nil, errors.NewConfigError("no inference models configured", "GEMINI_MODELS")
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = constants.InferenceConfig.AttemptTimeout
	}

	g := &Gateway{
		attemptTimeout: cfg.AttemptTimeout,
		metrics:        cfg.Metrics,
		logger:         logger,
	}

	for i, target := range cfg.Targets {
		rt := &route{target: target}
		rt.breaker = util.NewCircuitBreaker(util.CircuitBreakerConfig{
			Name:                target.String(),
			FailureThreshold:    constants.CircuitBreakerConfig.FailureThreshold,
			ResetTimeout:        constants.CircuitBreakerConfig.ResetTimeout,
			HealthCheckInterval: constants.CircuitBreakerConfig.HealthCheckInterval,
			HealthCheck:         func() bool { return g.healthCheckPing(target) },
			Clock:               cfg.Clock,
		}, logger)
		g.routes = append(g.routes, rt)

		logger.Info("Inference target registered",
			zap.Int("order", i+1),
			zap.String("provider", target.Provider.Name()),
			zap.String("model", target.Model),
		)
	}

	return g, nil
}

// Infer tries each target in order, skipping targets whose circuit is open. The first
// reply that normalizes to a JSON object and passes accept wins. Exhaustion returns an
// *errors.InferenceError carrying the last kind.
func (g *Gateway) Infer(ctx context.Context, spec PromptSpec, lang domain.LanguageProfile, accept AcceptFunc) (*Result, error) {
	attempts := make([]domain.ModelAttempt, 0, len(g.routes))
	var (
		lastErr  error
		lastKind = errors.InferenceUnknown
		skipped  int
	)

	for i, rt := range g.routes {
		if err := ctx.Err(); err != nil {
			lastErr = err
			lastKind = Classify(err)
			break
		}

		if !rt.breaker.CanExecute() {
			skipped++
			g.logger.Warn("Inference target skipped (Circuit OPEN)",
				zap.String("call", spec.Name),
				zap.String("provider", rt.target.Provider.Name()),
				zap.String("model", rt.target.Model),
			)
			continue
		}

		req := Request{
			Model:             rt.target.Model,
			SystemInstruction: spec.SystemInstruction,
			Prompt:            spec.UserMessage,
			Shape:             spec.Shape,
			Temperature:       relaxedTemperature(spec.Temperature, i),
			MaxOutputTokens:   spec.MaxOutputTokens,
		}

		attempt, err := g.attempt(ctx, rt.target, req, accept)
		attempts = append(attempts, attempt)
		g.logAttempt(spec.Name, lang, req.Temperature, attempt)

		if err == nil {
			rt.breaker.RecordSuccess()
			result := &Result{
				Provider:     attempt.Provider,
				Model:        attempt.Model,
				UsedFallback: i > 0,
				Attempts:     attempts,
				Confidence:   Confidence(attempts),
			}
			g.metrics.ObserveConfidence(result.Confidence)
			return result, nil
		}

		lastErr = err
		lastKind = attempt.ErrorKind
		if ctx.Err() == nil {
			recordFailure(rt.breaker, attempt.ErrorKind)
		}
	}

	if skipped == len(g.routes) {
		g.logger.Error("Inference unavailable (every circuit OPEN)",
			zap.String("call", spec.Name),
			zap.Int("targets", len(g.routes)),
		)
		return &Result{Attempts: attempts}, errors.NewInferenceError("inference service temporarily unavailable", errors.InferenceServer, 0, nil)
	}

	g.logger.Warn("All inference targets failed",
		zap.String("call", spec.Name),
		zap.Int("attempts", len(attempts)),
		zap.Int("skipped", skipped),
		zap.String("last_error_kind", string(lastKind)),
	)

	return &Result{Attempts: attempts}, errors.NewInferenceError(
		fmt.Sprintf("all %d inference attempts failed", len(attempts)),
		lastKind,
		len(attempts),
		lastErr,
	)
}

func (g *Gateway) attempt(ctx context.Context, target Target, req Request, accept AcceptFunc) (domain.ModelAttempt, error) {
	attempt := domain.ModelAttempt{
		Provider: target.Provider.Name(),
		Model:    target.Model,
	}

	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	start := time.Now()
	raw, err := target.Provider.Generate(attemptCtx, req)
	attempt.Latency = time.Since(start)
	attempt.RawText = raw

	if err == nil {
		var payload []byte
		payload, attempt.Clean, err = ExtractJSON(raw)
		if err == nil && accept != nil {
			if acceptErr := accept(payload); acceptErr != nil {
				err = errors.NewInferenceError("reply does not match the expected shape", errors.InferenceSchema, 1, acceptErr)
			}
		}
	}

	if err != nil {
		attempt.ErrorKind = Classify(err)
		if ctx.Err() == nil && attemptCtx.Err() == context.DeadlineExceeded {
			attempt.ErrorKind = errors.InferenceTimeout
		}
		g.metrics.ObserveAttempt(attempt.Provider, attempt.Model, string(attempt.ErrorKind), attempt.Latency)
		return attempt, err
	}

	attempt.Succeeded = true
	g.metrics.ObserveAttempt(attempt.Provider, attempt.Model, "success", attempt.Latency)
	return attempt, nil
}

func (g *Gateway) logAttempt(call string, lang domain.LanguageProfile, temperature float32, attempt domain.ModelAttempt) {
	fields := []zap.Field{
		zap.String("call", call),
		zap.String("provider", attempt.Provider),
		zap.String("model", attempt.Model),
		zap.Bool("success", attempt.Succeeded),
		zap.Int64("latency_ms", attempt.LatencyMs()),
		zap.String("language", string(lang.Code)),
		zap.Float32("temperature", temperature),
	}
	if attempt.Succeeded {
		g.logger.Info("Model attempt", append(fields, zap.Bool("clean", attempt.Clean))...)
		return
	}
	fields = append(fields, zap.String("error_kind", string(attempt.ErrorKind)))
	if attempt.RawText != "" {
		fields = append(fields, zap.String("response_preview", preview(attempt.RawText)))
	}
	g.logger.Warn("Model attempt", fields...)
}

func recordFailure(breaker *util.CircuitBreaker, kind errors.InferenceKind) {
	if !IsServiceFailure(kind) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if kind == errors.InferenceRateLimit {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	breaker.RecordFailure(timeout)
}

func (g *Gateway) healthCheckPing(target Target) bool {
	g.logger.Info("Health Check: Testing inference target...", zap.String("target", target.String()))

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	healthy := target.Provider.Ping(ctx, target.Model)
	g.logger.Info("Health Check: Result", zap.String("target", target.String()), zap.Bool("healthy", healthy))
	return healthy
}

// Health pings every target concurrently.
func (g *Gateway) Health(ctx context.Context) []TargetHealth {
	rows := make([]TargetHealth, len(g.routes))
	var mu sync.Mutex
	var wg conc.WaitGroup
	for i, rt := range g.routes {
		wg.Go(func() {
			ok := rt.target.Provider.Ping(ctx, rt.target.Model)
			mu.Lock()
			rows[i] = TargetHealth{
				Provider:  rt.target.Provider.Name(),
				Model:     rt.target.Model,
				Reachable: ok,
				Circuit:   rt.breaker.State(),
			}
			mu.Unlock()
		})
	}
	wg.Wait()
	return rows
}

func (g *Gateway) Targets() []Target {
	out := make([]Target, len(g.routes))
	for i, rt := range g.routes {
		out[i] = rt.target
	}
	return out
}

// Circuits reports every target's breaker in cascade order.
func (g *Gateway) Circuits() []util.CircuitBreakerStatus {
	out := make([]util.CircuitBreakerStatus, len(g.routes))
	for i, rt := range g.routes {
		out[i] = rt.breaker.Status()
	}
	return out
}

func relaxedTemperature(base float32, index int) float32 {
	t := base + float32(index)*constants.InferenceConfig.FallbackTempDelta
	if t > constants.InferenceConfig.MaxTemperature {
		return constants.InferenceConfig.MaxTemperature
	}
	return t
}
