package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/app"
	"github.com/kptbarbarossa/validationly-sub003/internal/config"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/language"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "validationly",
		Short:         "Market validation for product ideas across Twitter, Reddit and LinkedIn",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")

	cmd.AddCommand(
		newServeCommand(opts),
		newValidateCommand(opts),
		newResetLimitCommand(opts),
		newDetectCommand(),
	)
	return cmd
}

// bootstrap loads configuration and the logger shared by serve and validate.
func bootstrap(opts *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			buildCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			container, err := app.Build(buildCtx, cfg, logger)
			cancel()
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return container.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	return cmd
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	var (
		timeout    time.Duration
		showReport bool
	)

	cmd := &cobra.Command{
		Use:   "validate [idea]",
		Short: "Validate one idea and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			container, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer container.Close()

			text, err := container.Validator.Validate(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if container.Engine == nil {
				return fmt.Errorf("AI service not configured")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, report := container.Engine.Validate(ctx, text, language.Detect(text))
			if err := writeIndented(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if showReport {
				return writeIndented(cmd.ErrOrStderr(), map[string]any{
					"degraded":         report.Degraded,
					"degradedSections": report.DegradedSections,
					"model":            report.OverallModel,
					"confidence":       report.Confidence,
					"elapsedMs":        report.Elapsed.Milliseconds(),
				})
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the analysis")
	cmd.Flags().BoolVar(&showReport, "report", false, "print the run report to stderr")
	return cmd
}

func newResetLimitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-limit [client-key]",
		Short: "Clear a client's rate limit window in the configured backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			container, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.Limiter.Reset(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to reset rate limit for %s: %w", args[0], err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "reset %s (%s)\n", args[0], container.Limiter.Backend())
			return err
		},
	}
}

type detectOutput struct {
	Language domain.LanguageCode `json:"language"`
	Signals  language.Signals    `json:"signals"`
}

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text]",
		Short: "Print the detected language and the signals behind it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return writeIndented(cmd.OutOrStdout(), detectOutput{
				Language: language.Detect(text).Code,
				Signals:  language.Analyze(text),
			})
		},
	}
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
