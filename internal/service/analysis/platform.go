package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/metrics"
	"github.com/kptbarbarossa/validationly-sub003/internal/prompt"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ai"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/language"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"go.uber.org/zap"
)

const (
	minKeyFindings = 2
	maxKeyFindings = 3
)

// PlatformAnalyzer evaluates an idea for one platform. Analyze never fails: any error is
// absorbed into a localized default analysis.
type PlatformAnalyzer struct {
	inferer ai.Inferer
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewPlatformAnalyzer(inferer ai.Inferer, collector *metrics.Collector, logger *zap.Logger) *PlatformAnalyzer {
	return &PlatformAnalyzer{
		inferer: inferer,
		metrics: collector,
		logger:  logger,
	}
}

// Evaluation is a platform analysis plus whether it came from the fallback path.
type Evaluation struct {
	Analysis    domain.PlatformAnalysis
	Degraded    bool
	FailureKind errors.InferenceKind
}

func (a *PlatformAnalyzer) Analyze(ctx context.Context, idea string, lang domain.LanguageProfile, key domain.PlatformKey) domain.PlatformAnalysis {
	return a.Evaluate(ctx, idea, lang, key).Analysis
}

func (a *PlatformAnalyzer) Evaluate(ctx context.Context, idea string, lang domain.LanguageProfile, key domain.PlatformKey) Evaluation {
	p, err := prompt.BuildPlatformPrompt(key, idea, lang)
	if err != nil {
		a.logger.Error("Failed to build platform prompt", zap.String("platform", string(key)), zap.Error(err))
		return a.fallback(key, lang, errors.InferenceUnknown)
	}

	spec := ai.PromptSpec{
		Name:              string(key),
		SystemInstruction: p.System,
		UserMessage:       p.User,
		Shape:             prompt.PlatformShape(key),
		Temperature:       constants.InferenceConfig.PlatformTemperature,
		MaxOutputTokens:   constants.InferenceConfig.PlatformMaxTokens,
	}

	var analysis domain.PlatformAnalysis
	_, err = a.inferer.Infer(ctx, spec, lang, func(raw []byte) error {
		var reply domain.PlatformReply
		if err := json.Unmarshal(raw, &reply); err != nil {
			return err
		}
		validated, err := validateReply(key, reply)
		if err != nil {
			return err
		}
		analysis = validated
		return nil
	})
	if err != nil {
		kind := ai.Classify(err)
		a.logger.Warn("Platform analysis failed, using defaults",
			zap.String("platform", string(key)),
			zap.String("error_kind", string(kind)),
			zap.Error(err),
		)
		return a.fallback(key, lang, kind)
	}

	if detected, ok := language.Audit(lang, analysis.Summary, analysis.ContentSuggestion); !ok {
		a.logger.Warn("Platform analysis language inconsistency",
			zap.String("platform", string(key)),
			zap.String("expected", string(lang.Code)),
			zap.String("detected", string(detected.Code)),
		)
	}

	return Evaluation{Analysis: analysis}
}

func (a *PlatformAnalyzer) fallback(key domain.PlatformKey, lang domain.LanguageProfile, kind errors.InferenceKind) Evaluation {
	a.metrics.Degraded(string(key), string(kind))
	return Evaluation{
		Analysis:    DefaultPlatformAnalysis(key, lang, kind),
		Degraded:    true,
		FailureKind: kind,
	}
}

// validateReply enforces the required fields. The platform name is always the canonical
// display name and the score is clamped into the platform range.
func validateReply(key domain.PlatformKey, reply domain.PlatformReply) (domain.PlatformAnalysis, error) {
	var missing []string
	if !reply.Score.Valid {
		missing = append(missing, "score")
	}
	summary := strings.TrimSpace(reply.Summary)
	if summary == "" {
		missing = append(missing, "summary")
	}
	findings := util.NonBlank(reply.KeyFindings)
	if len(findings) < minKeyFindings {
		missing = append(missing, fmt.Sprintf("keyFindings (need %d, got %d)", minKeyFindings, len(findings)))
	}
	suggestion := strings.TrimSpace(reply.ContentSuggestion)
	if suggestion == "" {
		missing = append(missing, "contentSuggestion")
	}
	if len(missing) > 0 {
		return domain.PlatformAnalysis{}, fmt.Errorf("%s reply missing required fields: %s", key, strings.Join(missing, ", "))
	}

	if len(findings) > maxKeyFindings {
		findings = findings[:maxKeyFindings]
	}

	return domain.PlatformAnalysis{
		PlatformName:      key.DisplayName(),
		Score:             util.Clamp(reply.Score.Value, constants.ScoreRange.PlatformMin, constants.ScoreRange.PlatformMax),
		Summary:           summary,
		KeyFindings:       findings,
		ContentSuggestion: suggestion,
	}, nil
}
