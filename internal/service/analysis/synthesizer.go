package analysis

import (
	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
)

// SynthesisInput carries whatever the concurrent calls produced. Nil means the call
// produced nothing usable.
type SynthesisInput struct {
	Idea     string
	Language domain.LanguageProfile
	Overall  *domain.OverallAnalysis
	Twitter  *domain.PlatformAnalysis
	Reddit   *domain.PlatformAnalysis
	LinkedIn *domain.PlatformAnalysis
}

// Synthesize assembles a complete ValidationResult from partial inputs. It performs no
// I/O and every field of the output is populated.
func Synthesize(in SynthesisInput) domain.ValidationResult {
	lang := in.Language
	fallback := DefaultContentSuggestions(in.Idea, lang)

	result := domain.ValidationResult{
		Idea:                  in.Idea,
		DemandScore:           constants.ScoreRange.DemandDefault,
		ScoreJustification:    unavailableJustification(lang),
		TweetSuggestion:       fallback.Tweet,
		RedditTitleSuggestion: fallback.RedditTitle,
		RedditBodySuggestion:  fallback.RedditBody,
		LinkedinSuggestion:    fallback.LinkedIn,
		PlatformAnalyses: domain.PlatformAnalyses{
			Twitter:  settlePlatform(in.Twitter, domain.PlatformTwitter),
			Reddit:   settlePlatform(in.Reddit, domain.PlatformReddit),
			LinkedIn: settlePlatform(in.LinkedIn, domain.PlatformLinkedIn),
		},
	}

	if o := in.Overall; o != nil {
		if o.DemandScore.Valid {
			result.DemandScore = util.Clamp(o.DemandScore.Value, constants.ScoreRange.DemandMin, constants.ScoreRange.DemandMax)
		}
		result.ScoreJustification = util.FirstNonBlank(o.ScoreJustification, genericJustification(lang))
		result.TweetSuggestion = util.FirstNonBlank(o.TweetSuggestion, fallback.Tweet)
		result.RedditTitleSuggestion = util.FirstNonBlank(o.RedditTitleSuggestion, fallback.RedditTitle)
		result.RedditBodySuggestion = util.FirstNonBlank(o.RedditBodySuggestion, fallback.RedditBody)
		result.LinkedinSuggestion = util.FirstNonBlank(o.LinkedinSuggestion, fallback.LinkedIn)
	}

	return result
}

// settlePlatform clamps a present analysis and stubs an absent one.
func settlePlatform(a *domain.PlatformAnalysis, key domain.PlatformKey) domain.PlatformAnalysis {
	name := key.DisplayName()
	if a == nil {
		return domain.PlatformAnalysis{
			PlatformName:      name,
			Score:             constants.ScoreRange.PlatformNeutral,
			Summary:           name + " analysis unavailable",
			KeyFindings:       []string{"Analysis pending"},
			ContentSuggestion: "Content suggestion unavailable",
		}
	}

	out := *a
	out.PlatformName = util.FirstNonBlank(out.PlatformName, name)
	out.Score = util.Clamp(out.Score, constants.ScoreRange.PlatformMin, constants.ScoreRange.PlatformMax)
	out.Summary = util.FirstNonBlank(out.Summary, name+" analysis unavailable")
	if findings := util.NonBlank(out.KeyFindings); len(findings) > 0 {
		out.KeyFindings = findings
	} else {
		out.KeyFindings = []string{"Analysis pending"}
	}
	out.ContentSuggestion = util.FirstNonBlank(out.ContentSuggestion, "Content suggestion unavailable")
	return out
}
