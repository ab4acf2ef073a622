package analysis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const idea = "AI-powered meal planner for dietary restrictions"

func TestAnalyzeReturnsValidatedReply(t *testing.T) {
	inf := newScriptedInferer(map[string]string{
		"twitter": `{"platformName": "X", "score": 9, "summary": " Great fit ", "keyFindings": ["a", " ", "b", "c", "d"], "contentSuggestion": "Post a thread"}`,
	})
	a := NewPlatformAnalyzer(inf, nil, zap.NewNop())

	eval := a.Evaluate(context.Background(), idea, english, domain.PlatformTwitter)

	assert.False(t, eval.Degraded)
	assert.Equal(t, domain.PlatformAnalysis{
		PlatformName:      "Twitter",
		Score:             5,
		Summary:           "Great fit",
		KeyFindings:       []string{"a", "b", "c"},
		ContentSuggestion: "Post a thread",
	}, eval.Analysis)
}

func TestAnalyzeMissingFieldsFallsBack(t *testing.T) {
	inf := newScriptedInferer(map[string]string{
		"reddit": `{"platformName": "Reddit", "score": "high", "summary": ""}`,
	})
	a := NewPlatformAnalyzer(inf, nil, zap.NewNop())

	eval := a.Evaluate(context.Background(), idea, english, domain.PlatformReddit)

	assert.True(t, eval.Degraded)
	assert.Equal(t, errors.InferenceSchema, eval.FailureKind)
	assert.Equal(t, 3, eval.Analysis.Score)
	assert.Equal(t, "Reddit", eval.Analysis.PlatformName)
	assert.Len(t, eval.Analysis.KeyFindings, 3)
}

func TestAnalyzeSingleFindingFallsBack(t *testing.T) {
	inf := newScriptedInferer(map[string]string{
		"linkedin": `{"platformName": "LinkedIn", "score": 4, "summary": "Good fit", "keyFindings": ["HR buyers", "  "], "contentSuggestion": "Pitch to HR"}`,
	})
	a := NewPlatformAnalyzer(inf, nil, zap.NewNop())

	eval := a.Evaluate(context.Background(), idea, english, domain.PlatformLinkedIn)

	assert.True(t, eval.Degraded)
	assert.Equal(t, errors.InferenceSchema, eval.FailureKind)
	assert.Equal(t, 3, eval.Analysis.Score)
	assert.NotContains(t, eval.Analysis.KeyFindings, "HR buyers")
}

func TestAnalyzeFailureReasonIsLocalized(t *testing.T) {
	rateLimited := errors.NewInferenceError("quota", errors.InferenceRateLimit, 2, nil)

	tests := []struct {
		name string
		lang domain.LanguageProfile
		err  error
		want string
	}{
		{"rate limit en", english, rateLimited, "Twitter analysis temporarily unavailable (rate limit). Please try again in a few minutes."},
		{"rate limit tr", turkish, rateLimited, "Twitter analizi geçici olarak kullanılamıyor (hız sınırı). Lütfen birkaç dakika sonra tekrar deneyin."},
		{"auth en", english, errors.NewInferenceError("bad key", errors.InferenceAuth, 1, nil), "Twitter analysis temporarily unavailable (authentication issue)."},
		{"timeout en", english, errors.NewInferenceError("slow", errors.InferenceTimeout, 1, nil), "Network connection issue for Twitter analysis. Please try again."},
		{"generic tr", turkish, stderrors.New("boom"), "Twitter analizi şu anda mevcut değil. Lütfen daha sonra tekrar deneyin."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewPlatformAnalyzer(failingInferer(tt.err), nil, zap.NewNop())
			got := a.Analyze(context.Background(), idea, tt.lang, domain.PlatformTwitter)
			assert.Equal(t, tt.want, got.Summary)
			assert.Equal(t, 3, got.Score)
		})
	}
}

func TestDefaultsAreDeterministic(t *testing.T) {
	a := NewPlatformAnalyzer(failingInferer(stderrors.New("down")), nil, zap.NewNop())

	for _, key := range domain.Platforms {
		first, err := json.Marshal(a.Analyze(context.Background(), idea, turkish, key))
		require.NoError(t, err)
		second, err := json.Marshal(a.Analyze(context.Background(), idea, turkish, key))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second), key)
	}
}

func TestAnalyzeCancelledStillReturnsStub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewPlatformAnalyzer(newScriptedInferer(allReplies()), nil, zap.NewNop())

	eval := a.Evaluate(ctx, idea, english, domain.PlatformLinkedIn)

	assert.True(t, eval.Degraded)
	assert.Equal(t, "LinkedIn", eval.Analysis.PlatformName)
	assert.Equal(t, 3, eval.Analysis.Score)
	assert.NotEmpty(t, eval.Analysis.Summary)
}

func TestDefaultPlatformAnalysisWithoutReason(t *testing.T) {
	got := DefaultPlatformAnalysis(domain.PlatformLinkedIn, english, errors.InferenceNone)
	assert.Contains(t, got.Summary, "LinkedIn analysis temporarily unavailable.")
	assert.Equal(t, "Target audience: Entrepreneurs and industry experts", got.KeyFindings[1])
}
