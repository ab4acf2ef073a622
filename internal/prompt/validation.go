package prompt

import (
	"fmt"
	"strings"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
)

// Prompt is a rendered system instruction plus user message.
type Prompt struct {
	System string
	User   string
}

var platformTemplates = map[domain.PlatformKey]TemplateName{
	domain.PlatformTwitter:  TemplatePlatformTwitter,
	domain.PlatformReddit:   TemplatePlatformReddit,
	domain.PlatformLinkedIn: TemplatePlatformLinkedIn,
}

var platformFocus = map[domain.PlatformKey]string{
	domain.PlatformTwitter:  "Focus specifically on Twitter's viral potential, trend alignment, and audience reaction. Consider hashtag strategies and content format optimization.",
	domain.PlatformReddit:   "Focus specifically on Reddit community fit, discussion potential, and the subreddits most likely to engage. Consider how to avoid looking promotional.",
	domain.PlatformLinkedIn: "Focus specifically on LinkedIn professional relevance, B2B potential, and networking value. Consider thought leadership angles.",
}

// LanguageInstructions returns the generation-language block embedded in every system prompt.
func LanguageInstructions(lang domain.LanguageProfile, fields ...string) (string, error) {
	name := TemplateLanguageEnglish
	if lang.IsPrimary() {
		name = TemplateLanguageTurkish
	}
	return DefaultPromptBuilder().Render(name, map[string]any{
		"Fields": strings.Join(fields, ", "),
	})
}

// BuildPlatformPrompt renders the evaluation prompt for one platform.
func BuildPlatformPrompt(key domain.PlatformKey, idea string, lang domain.LanguageProfile) (Prompt, error) {
	tmplName, ok := platformTemplates[key]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown platform %q", key)
	}

	instructions, err := LanguageInstructions(lang, "summary", "keyFindings", "contentSuggestion")
	if err != nil {
		return Prompt{}, err
	}

	builder := DefaultPromptBuilder()
	system, err := builder.Render(tmplName, map[string]any{
		"LanguageInstructions": instructions,
		"PlatformName":         key.DisplayName(),
	})
	if err != nil {
		return Prompt{}, err
	}

	user, err := builder.Render(TemplateUserPlatform, map[string]any{
		"PlatformUpper": strings.ToUpper(key.DisplayName()),
		"Idea":          idea,
		"Focus":         platformFocus[key],
	})
	if err != nil {
		return Prompt{}, err
	}

	return Prompt{System: system, User: user}, nil
}

// BuildOverallPrompt renders the demand-score and content-suggestion prompt.
func BuildOverallPrompt(idea string, lang domain.LanguageProfile) (Prompt, error) {
	instructions, err := LanguageInstructions(lang, "scoreJustification", "tweetSuggestion",
		"redditTitleSuggestion", "redditBodySuggestion", "linkedinSuggestion")
	if err != nil {
		return Prompt{}, err
	}

	builder := DefaultPromptBuilder()
	system, err := builder.Render(TemplateOverall, map[string]any{
		"LanguageInstructions": instructions,
	})
	if err != nil {
		return Prompt{}, err
	}

	user, err := builder.Render(TemplateUserOverall, map[string]any{"Idea": idea})
	if err != nil {
		return Prompt{}, err
	}

	return Prompt{System: system, User: user}, nil
}
