package prompt

import "github.com/kptbarbarossa/validationly-sub003/internal/domain"

var platformScoreDescriptions = map[domain.PlatformKey]string{
	domain.PlatformTwitter:  "1-5 score for Twitter viral potential",
	domain.PlatformReddit:   "1-5 score for Reddit community fit",
	domain.PlatformLinkedIn: "1-5 score for LinkedIn professional relevance",
}

// PlatformShape is the JSON schema hint for one platform analysis.
func PlatformShape(key domain.PlatformKey) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"platformName": map[string]any{"type": "string"},
			"score": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": platformScoreDescriptions[key],
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentence summary of " + key.DisplayName() + " potential",
			},
			"keyFindings": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    2,
				"maxItems":    3,
				"description": "2-3 key findings about " + key.DisplayName() + " fit",
			},
			"contentSuggestion": map[string]any{
				"type":        "string",
				"description": key.DisplayName() + "-specific content strategy",
			},
		},
		"required": []string{"platformName", "score", "summary", "keyFindings", "contentSuggestion"},
	}
}

// OverallShape is the JSON schema hint for the overall demand call.
func OverallShape() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"idea": map[string]any{"type": "string", "description": "The original idea"},
			"demandScore": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "0-100 market demand score",
			},
			"scoreJustification":    map[string]any{"type": "string", "description": "Brief score explanation"},
			"tweetSuggestion":       map[string]any{"type": "string", "description": "Optimized Twitter post"},
			"redditTitleSuggestion": map[string]any{"type": "string", "description": "Reddit title"},
			"redditBodySuggestion":  map[string]any{"type": "string", "description": "Reddit body text"},
			"linkedinSuggestion":    map[string]any{"type": "string", "description": "LinkedIn post"},
		},
		"required": []string{"idea", "demandScore", "scoreJustification", "tweetSuggestion",
			"redditTitleSuggestion", "redditBodySuggestion", "linkedinSuggestion"},
	}
}
