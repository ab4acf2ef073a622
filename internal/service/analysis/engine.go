package analysis

import (
	"context"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ai"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Report summarizes how a validation run went, for logging and history.
type Report struct {
	Degraded         bool
	DegradedSections []string
	OverallModel     string
	Confidence       int
	Elapsed          time.Duration
}

// Engine fans out the three platform analyses and the overall call, then synthesizes.
type Engine struct {
	platform *PlatformAnalyzer
	overall  *OverallAnalyzer
	logger   *zap.Logger
}

func NewEngine(platform *PlatformAnalyzer, overall *OverallAnalyzer, logger *zap.Logger) *Engine {
	return &Engine{
		platform: platform,
		overall:  overall,
		logger:   logger,
	}
}

// Validate always returns a complete result. Cancelling ctx degrades unfinished sections
// to their defaults rather than leaving them empty.
func (e *Engine) Validate(ctx context.Context, idea string, lang domain.LanguageProfile) (domain.ValidationResult, Report) {
	start := time.Now()

	var (
		overall   *domain.OverallAnalysis
		overallRs *ai.Result
		wg        conc.WaitGroup
	)
	wg.Go(func() {
		recovered := panics.Try(func() {
			overall, overallRs, _ = e.overall.Analyze(ctx, idea, lang)
		})
		if recovered != nil {
			e.logger.Error("Overall analysis panicked", zap.Error(recovered.AsError()))
			overall = nil
		}
	})

	tasks := make([]func(context.Context) (Evaluation, error), len(domain.Platforms))
	for i, key := range domain.Platforms {
		tasks[i] = func(ctx context.Context) (Evaluation, error) {
			return e.platform.Evaluate(ctx, idea, lang, key), nil
		}
	}
	outcomes := SettleAll(ctx, tasks...)
	wg.Wait()

	report := Report{}
	slots := make([]*domain.PlatformAnalysis, len(domain.Platforms))
	for i, key := range domain.Platforms {
		outcome := outcomes[i]
		if outcome.Err != nil {
			e.logger.Error("Platform analysis panicked",
				zap.String("platform", string(key)),
				zap.Error(outcome.Err),
			)
			outcome.Value = e.platform.fallback(key, lang, errors.InferenceUnknown)
		}
		if outcome.Value.Degraded {
			report.DegradedSections = append(report.DegradedSections, string(key))
		}
		analysis := outcome.Value.Analysis
		slots[i] = &analysis
	}

	if overall == nil {
		report.DegradedSections = append(report.DegradedSections, "overall")
	}
	if overallRs != nil && overall != nil {
		report.OverallModel = overallRs.Provider + "/" + overallRs.Model
		report.Confidence = overallRs.Confidence
	}
	report.Degraded = len(report.DegradedSections) > 0

	result := Synthesize(SynthesisInput{
		Idea:     idea,
		Language: lang,
		Overall:  overall,
		Twitter:  slots[0],
		Reddit:   slots[1],
		LinkedIn: slots[2],
	})
	report.Elapsed = time.Since(start)

	e.logger.Info("Validation completed",
		zap.String("language", string(lang.Code)),
		zap.Int("demand_score", result.DemandScore),
		zap.Bool("degraded", report.Degraded),
		zap.Strings("degraded_sections", report.DegradedSections),
		zap.Int("confidence", report.Confidence),
		zap.Duration("elapsed", report.Elapsed),
	)

	return result, report
}
