package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/metrics"
	"github.com/kptbarbarossa/validationly-sub003/internal/prompt"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ai"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/language"
	"go.uber.org/zap"
)

// OverallAnalyzer requests the demand score and the four post drafts.
type OverallAnalyzer struct {
	inferer ai.Inferer
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewOverallAnalyzer(inferer ai.Inferer, collector *metrics.Collector, logger *zap.Logger) *OverallAnalyzer {
	return &OverallAnalyzer{
		inferer: inferer,
		metrics: collector,
		logger:  logger,
	}
}

// Analyze returns the decoded overall reply. Unlike platform analysis it reports failure,
// leaving the substitution to the synthesizer.
func (a *OverallAnalyzer) Analyze(ctx context.Context, idea string, lang domain.LanguageProfile) (*domain.OverallAnalysis, *ai.Result, error) {
	p, err := prompt.BuildOverallPrompt(idea, lang)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build overall prompt: %w", err)
	}

	spec := ai.PromptSpec{
		Name:              "overall",
		SystemInstruction: p.System,
		UserMessage:       p.User,
		Shape:             prompt.OverallShape(),
		Temperature:       constants.InferenceConfig.OverallTemperature,
		MaxOutputTokens:   constants.InferenceConfig.OverallMaxTokens,
	}

	var overall domain.OverallAnalysis
	result, err := a.inferer.Infer(ctx, spec, lang, func(raw []byte) error {
		var reply domain.OverallAnalysis
		if err := json.Unmarshal(raw, &reply); err != nil {
			return err
		}
		if !reply.DemandScore.Valid {
			return fmt.Errorf("overall reply missing numeric demandScore")
		}
		overall = reply
		return nil
	})
	if err != nil {
		kind := ai.Classify(err)
		a.metrics.Degraded("overall", string(kind))
		a.logger.Warn("Overall analysis failed, using defaults",
			zap.String("error_kind", string(kind)),
			zap.Error(err),
		)
		return nil, result, err
	}

	if detected, ok := language.Audit(lang, overall.ScoreJustification, overall.TweetSuggestion); !ok {
		a.logger.Warn("Overall analysis language inconsistency",
			zap.String("expected", string(lang.Code)),
			zap.String("detected", string(detected.Code)),
		)
	}

	return &overall, result, nil
}
