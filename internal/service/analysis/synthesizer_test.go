package analysis

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
)

func scoreSamples() []int {
	samples := []int{math.MinInt32, math.MaxInt32, -1, 0, 1, 3, 5, 6, 99, 100, 101}
	for n := -250; n <= 250; n += 7 {
		samples = append(samples, n)
	}
	return samples
}

func TestSynthesizeClampsDemandScore(t *testing.T) {
	for _, n := range scoreSamples() {
		got := Synthesize(SynthesisInput{
			Idea:     idea,
			Language: english,
			Overall:  &domain.OverallAnalysis{DemandScore: domain.NewLooseInt(n)},
		})
		assert.GreaterOrEqual(t, got.DemandScore, 0, n)
		assert.LessOrEqual(t, got.DemandScore, 100, n)
	}
}

func TestSynthesizeClampsPlatformScores(t *testing.T) {
	for _, n := range scoreSamples() {
		p := &domain.PlatformAnalysis{PlatformName: "Reddit", Score: n, Summary: "s", KeyFindings: []string{"k"}, ContentSuggestion: "c"}
		got := Synthesize(SynthesisInput{Idea: idea, Language: english, Reddit: p})
		assert.GreaterOrEqual(t, got.PlatformAnalyses.Reddit.Score, 1, n)
		assert.LessOrEqual(t, got.PlatformAnalyses.Reddit.Score, 5, n)
	}
}

func TestSynthesizeFromNothingIsComplete(t *testing.T) {
	got := Synthesize(SynthesisInput{Idea: idea, Language: english})

	assert.Equal(t, idea, got.Idea)
	assert.Equal(t, 50, got.DemandScore)
	assert.Equal(t, "Detailed analysis temporarily unavailable. General market assessment provided.", got.ScoreJustification)
	for _, p := range []domain.PlatformAnalysis{got.PlatformAnalyses.Twitter, got.PlatformAnalyses.Reddit, got.PlatformAnalyses.LinkedIn} {
		assert.Equal(t, 3, p.Score)
		assert.Equal(t, []string{"Analysis pending"}, p.KeyFindings)
		assert.Equal(t, "Content suggestion unavailable", p.ContentSuggestion)
		assert.Equal(t, p.PlatformName+" analysis unavailable", p.Summary)
	}
	assert.Equal(t, "Twitter", got.PlatformAnalyses.Twitter.PlatformName)
	assert.NotEmpty(t, got.TweetSuggestion)
	assert.NotEmpty(t, got.RedditTitleSuggestion)
	assert.Contains(t, got.RedditBodySuggestion, idea)
	assert.NotEmpty(t, got.LinkedinSuggestion)
}

func TestSynthesizeInvalidDemandDefaults(t *testing.T) {
	got := Synthesize(SynthesisInput{
		Idea:     idea,
		Language: turkish,
		Overall:  &domain.OverallAnalysis{ScoreJustification: "   ", TweetSuggestion: "Tweet"},
	})

	assert.Equal(t, 50, got.DemandScore)
	assert.Equal(t, "Genel değerlendirme", got.ScoreJustification)
	assert.Equal(t, "Tweet", got.TweetSuggestion)
	assert.True(t, strings.HasPrefix(got.RedditTitleSuggestion, "[Fikir Paylaşımı]"))
}

func TestSynthesizeKeepsPresentValues(t *testing.T) {
	twitter := DefaultPlatformAnalysis(domain.PlatformTwitter, english, "")
	twitter.Score = 4
	got := Synthesize(SynthesisInput{
		Idea:     idea,
		Language: english,
		Overall: &domain.OverallAnalysis{
			DemandScore:           domain.NewLooseInt(72),
			ScoreJustification:    "Clear pain point",
			TweetSuggestion:       "t",
			RedditTitleSuggestion: "rt",
			RedditBodySuggestion:  "rb",
			LinkedinSuggestion:    "l",
		},
		Twitter: &twitter,
	})

	assert.Equal(t, 72, got.DemandScore)
	assert.Equal(t, "Clear pain point", got.ScoreJustification)
	assert.Equal(t, []string{"t", "rt", "rb", "l"}, []string{got.TweetSuggestion, got.RedditTitleSuggestion, got.RedditBodySuggestion, got.LinkedinSuggestion})
	assert.Equal(t, twitter, got.PlatformAnalyses.Twitter)
}

func TestDefaultContentSuggestionsExcerpts(t *testing.T) {
	long := strings.Repeat("ğ", 300)

	got := DefaultContentSuggestions(long, turkish)

	assert.Contains(t, got.Tweet, `"`+strings.Repeat("ğ", 100)+`..."`)
	assert.NotContains(t, got.Tweet, strings.Repeat("ğ", 101))
	assert.Contains(t, got.RedditTitle, strings.Repeat("ğ", 80)+"...")
	assert.NotContains(t, got.RedditTitle, strings.Repeat("ğ", 81))
	assert.Contains(t, got.LinkedIn, strings.Repeat("ğ", 150)+`..."`)
	assert.Contains(t, got.RedditBody, long)
	assert.True(t, utf8.ValidString(got.Tweet))
}
