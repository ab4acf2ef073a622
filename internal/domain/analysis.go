package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PlatformKey names one of the three fixed analysis slots.
type PlatformKey string

const (
	PlatformTwitter  PlatformKey = "twitter"
	PlatformReddit   PlatformKey = "reddit"
	PlatformLinkedIn PlatformKey = "linkedin"
)

// Platforms lists every supported slot in response order.
var Platforms = []PlatformKey{PlatformTwitter, PlatformReddit, PlatformLinkedIn}

func (k PlatformKey) DisplayName() string {
	switch k {
	case PlatformTwitter:
		return "Twitter"
	case PlatformReddit:
		return "Reddit"
	case PlatformLinkedIn:
		return "LinkedIn"
	default:
		return string(k)
	}
}

// PlatformAnalysis is the per-platform fit assessment.
type PlatformAnalysis struct {
	PlatformName      string   `json:"platformName"`
	Score             int      `json:"score"`
	Summary           string   `json:"summary"`
	KeyFindings       []string `json:"keyFindings"`
	ContentSuggestion string   `json:"contentSuggestion"`
}

// PlatformAnalyses always carries exactly the three supported keys.
type PlatformAnalyses struct {
	Twitter  PlatformAnalysis `json:"twitter"`
	Reddit   PlatformAnalysis `json:"reddit"`
	LinkedIn PlatformAnalysis `json:"linkedin"`
}

// ValidationResult is the response body of the validation endpoint.
type ValidationResult struct {
	Idea                  string           `json:"idea"`
	DemandScore           int              `json:"demandScore"`
	ScoreJustification    string           `json:"scoreJustification"`
	PlatformAnalyses      PlatformAnalyses `json:"platformAnalyses"`
	TweetSuggestion       string           `json:"tweetSuggestion"`
	RedditTitleSuggestion string           `json:"redditTitleSuggestion"`
	RedditBodySuggestion  string           `json:"redditBodySuggestion"`
	LinkedinSuggestion    string           `json:"linkedinSuggestion"`
}

// OverallAnalysis is the decoded output of the overall-score call.
type OverallAnalysis struct {
	Idea                  string   `json:"idea"`
	DemandScore           LooseInt `json:"demandScore"`
	ScoreJustification    string   `json:"scoreJustification"`
	TweetSuggestion       string   `json:"tweetSuggestion"`
	RedditTitleSuggestion string   `json:"redditTitleSuggestion"`
	RedditBodySuggestion  string   `json:"redditBodySuggestion"`
	LinkedinSuggestion    string   `json:"linkedinSuggestion"`
}

// PlatformReply is the decoded output of a platform analyzer call before validation.
type PlatformReply struct {
	PlatformName      string   `json:"platformName"`
	Score             LooseInt `json:"score"`
	Summary           string   `json:"summary"`
	KeyFindings       []string `json:"keyFindings"`
	ContentSuggestion string   `json:"contentSuggestion"`
}

// LooseInt accepts a JSON number or numeric string. Anything else decodes as invalid
// instead of failing the whole document.
type LooseInt struct {
	Value int
	Valid bool
}

func NewLooseInt(v int) LooseInt {
	return LooseInt{Value: v, Valid: true}
}

func (l *LooseInt) UnmarshalJSON(data []byte) error {
	*l = LooseInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	} else if f < math.MinInt32 {
		f = math.MinInt32
	}
	l.Value = int(math.Round(f))
	l.Valid = true
	return nil
}

func (l LooseInt) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(l.Value)), nil
}
