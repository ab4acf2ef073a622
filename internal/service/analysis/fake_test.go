package analysis

import (
	"context"
	"sync"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/ai"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
)

// scriptedInferer answers by prompt name without touching any provider.
type scriptedInferer struct {
	replies map[string]string
	failure error

	mu    sync.Mutex
	calls map[string]int
}

func newScriptedInferer(replies map[string]string) *scriptedInferer {
	return &scriptedInferer{replies: replies, calls: map[string]int{}}
}

func failingInferer(err error) *scriptedInferer {
	return &scriptedInferer{failure: err, calls: map[string]int{}}
}

func (s *scriptedInferer) Infer(ctx context.Context, spec ai.PromptSpec, _ domain.LanguageProfile, accept ai.AcceptFunc) (*ai.Result, error) {
	s.mu.Lock()
	s.calls[spec.Name]++
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.NewInferenceError("cancelled", errors.InferenceCanceled, 0, err)
	}
	if s.failure != nil {
		return nil, s.failure
	}
	raw, ok := s.replies[spec.Name]
	if !ok {
		return nil, errors.NewInferenceError("no scripted reply", errors.InferenceUnknown, 1, nil)
	}
	payload, _, err := ai.ExtractJSON(raw)
	if err != nil {
		return nil, errors.NewInferenceError("unparseable", errors.InferenceParse, 1, err)
	}
	if accept != nil {
		if err := accept(payload); err != nil {
			return nil, errors.NewInferenceError("shape mismatch", errors.InferenceSchema, 1, err)
		}
	}
	return &ai.Result{Provider: "fake", Model: "fake-1", Confidence: 95}, nil
}

func (s *scriptedInferer) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

var (
	turkish = domain.LanguageProfile{Code: domain.LanguageTurkish}
	english = domain.LanguageProfile{Code: domain.LanguageEnglish}
)

const (
	twitterReply  = `{"platformName": "X", "score": 4, "summary": "Strong viral potential for health-focused audiences.", "keyFindings": ["Trending topic", "Visual friendly"], "contentSuggestion": "Share a short thread with screenshots."}`
	redditReply   = `{"platformName": "Reddit", "score": "3", "summary": "Fits r/mealprep and r/nutrition discussions.", "keyFindings": ["Niche communities", "Needs authenticity"], "contentSuggestion": "Ask for feedback on dietary edge cases."}`
	linkedinReply = `{"platformName": "LinkedIn", "score": 2, "summary": "Limited B2B angle unless sold to clinics.", "keyFindings": ["Wellness programs", "Clinic partnerships"], "contentSuggestion": "Frame it as an employee wellness benefit."}`
	overallReply  = `{"idea": "x", "demandScore": 72, "scoreJustification": "Clear pain point with a growing audience.", "tweetSuggestion": "Tired of meal plans that ignore allergies?", "redditTitleSuggestion": "Would you use a meal planner for restricted diets?", "redditBodySuggestion": "I'm building a planner that respects allergies.", "linkedinSuggestion": "Dietary restrictions affect productivity."}`
)

func allReplies() map[string]string {
	return map[string]string{
		"twitter":  twitterReply,
		"reddit":   redditReply,
		"linkedin": linkedinReply,
		"overall":  overallReply,
	}
}
