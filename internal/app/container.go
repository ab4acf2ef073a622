package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/config"
	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/metrics"
	"github.com/kptbarbarossa/validationly-sub003/internal/server"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ai"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/analysis"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/cache"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/database"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/history"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ratelimit"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/validator"
	"go.uber.org/zap"
)

// Container bundles the assembled services. Gateway and Engine are nil when no
// inference credentials are configured.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Collector
	Validator *validator.Validator
	Limiter   *ratelimit.Limiter
	Gateway   *ai.Gateway
	Engine    *analysis.Engine
	History   history.Recorder
	Handler   http.Handler

	backends map[string]server.Pinger
	closers  []func()
}

// Server returns an http.Server for the container's handler using the configured address.
func (c *Container) Server() *http.Server {
	return &http.Server{
		Addr:         c.Config.Server.Addr,
		Handler:      c.Handler,
		ReadTimeout:  constants.HTTPConfig.ReadTimeout,
		WriteTimeout: c.writeTimeout(),
		IdleTimeout:  constants.HTTPConfig.IdleTimeout,
	}
}

// writeTimeout covers a request that walks the whole cascade: every target may burn
// its full attempt timeout before the last one answers.
func (c *Container) writeTimeout() time.Duration {
	timeout := constants.HTTPConfig.WriteTimeout
	if c.Gateway == nil {
		return timeout
	}
	attempt := c.Config.Inference.AttemptTimeout
	if attempt <= 0 {
		attempt = constants.InferenceConfig.AttemptTimeout
	}
	cascade := time.Duration(len(c.Gateway.Targets()))*attempt + constants.HTTPConfig.WriteMargin
	if cascade > timeout {
		return cascade
	}
	return timeout
}

// Close releases every resource opened by Build, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles all services. Optional backends (Redis, Postgres) are only dialed
// when configured; a missing inference credential leaves the engine nil instead of
// failing so the status endpoint keeps answering.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger, backends: map[string]server.Pinger{}}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if cfg.Metrics.Enabled {
		c.Metrics = metrics.NewCollector()
	}

	c.Validator = validator.New(validator.Bounds{Min: cfg.Input.MinLength, Max: cfg.Input.MaxLength})

	store, err := buildRateLimitStore(cfg, logger, c)
	if err != nil {
		return nil, err
	}
	c.Limiter = ratelimit.NewLimiter(store, ratelimit.Config{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}, logger)

	targets, err := buildTargets(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if len(targets) > 0 {
		gateway, gwErr := ai.NewGateway(ai.GatewayConfig{
			Targets:        targets,
			AttemptTimeout: cfg.Inference.AttemptTimeout,
			Metrics:        c.Metrics,
		}, logger)
		if gwErr != nil {
			return nil, fmt.Errorf("failed to create inference gateway: %w", gwErr)
		}
		c.Gateway = gateway
		c.Engine = analysis.NewEngine(
			analysis.NewPlatformAnalyzer(gateway, c.Metrics, logger),
			analysis.NewOverallAnalyzer(gateway, c.Metrics, logger),
			logger,
		)
	} else {
		logger.Warn("No inference credentials configured, validation requests will answer 503")
	}

	c.History, err = buildHistory(ctx, cfg, logger, c)
	if err != nil {
		return nil, err
	}

	routerCfg := server.Config{
		Production:    cfg.Server.IsProduction(),
		AllowedOrigin: cfg.Server.AllowedOrigin,
		MaxBodyBytes:  constants.HTTPConfig.MaxBodyBytes,
		Validator:     c.Validator,
		Limiter:       c.Limiter,
		History:       c.History,
		Backends:      c.backends,
		Metrics:       c.Metrics,
		Logger:        logger,
	}
	// Typed nil pointers must not leak into the interfaces.
	if c.Engine != nil {
		routerCfg.Engine = c.Engine
	}
	if c.Gateway != nil {
		routerCfg.Inference = c.Gateway
	}
	c.Handler = server.NewRouter(routerCfg)

	logger.Info("Application services assembled",
		zap.Int("inference_targets", len(targets)),
		zap.String("rate_limit_backend", c.Limiter.Backend()),
		zap.Bool("history", cfg.Database.URL != ""),
		zap.Bool("metrics", c.Metrics != nil),
	)

	return c, nil
}

func buildRateLimitStore(cfg *config.Config, logger *zap.Logger, c *Container) (ratelimit.Store, error) {
	if cfg.RateLimit.Backend != "redis" {
		store := ratelimit.NewMemoryStore()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			store.RunPruner(ctx, constants.RateLimitConfig.PruneInterval, logger)
		}()
		c.closers = append(c.closers, func() {
			cancel()
			<-done
		})
		return store, nil
	}

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	c.closers = append(c.closers, func() {
		_ = cacheSvc.Close()
	})
	c.backends["redis"] = cacheSvc
	return ratelimit.NewRedisStore(cacheSvc, constants.RateLimitConfig.KeyPrefix), nil
}

// buildTargets orders the cascade: every Gemini model, then OpenAI, then Anthropic.
func buildTargets(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]ai.Target, error) {
	var targets []ai.Target

	if cfg.Gemini.APIKey != "" {
		client, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, err
		}
		provider := ai.NewGeminiProvider(client.Models, logger)
		for _, model := range cfg.Gemini.Models {
			targets = append(targets, ai.Target{Provider: provider, Model: model})
		}
	}

	if cfg.OpenAI.APIKey != "" {
		provider := ai.NewOpenAIProvider(ai.NewOpenAICompleter(cfg.OpenAI.APIKey), logger)
		targets = append(targets, ai.Target{Provider: provider, Model: cfg.OpenAI.Model})
	}

	if cfg.Anthropic.APIKey != "" {
		provider := ai.NewAnthropicProvider(ai.NewAnthropicMessager(cfg.Anthropic.APIKey), logger)
		targets = append(targets, ai.Target{Provider: provider, Model: cfg.Anthropic.Model})
	}

	return targets, nil
}

func buildHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger, c *Container) (history.Recorder, error) {
	if cfg.Database.URL == "" {
		return history.NopRecorder{}, nil
	}

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{URL: cfg.Database.URL}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	c.closers = append(c.closers, func() {
		_ = postgresSvc.Close()
	})
	c.backends["postgres"] = postgresSvc

	recorder := history.NewPostgresRecorder(postgresSvc.DB(), logger)
	if err := recorder.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return recorder, nil
}

// Serve runs the HTTP server until ctx is cancelled or the listener fails, then shuts
// it down within the configured grace period.
func (c *Container) Serve(ctx context.Context) error {
	srv := c.Server()

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}

	c.Logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.HTTPConfig.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
