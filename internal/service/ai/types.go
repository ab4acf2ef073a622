package ai

import (
	"context"
	"encoding/json"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
)

// PromptSpec bundles everything one inference call needs.
type PromptSpec struct {
	// Name labels the call in logs and metrics, e.g. "twitter" or "overall".
	Name              string
	SystemInstruction string
	UserMessage       string
	Shape             map[string]any
	Temperature       float32
	MaxOutputTokens   int
}

// Request is what a provider receives for a single model attempt.
type Request struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Shape             map[string]any
	Temperature       float32
	MaxOutputTokens   int
}

// Provider issues one prompt to one model and returns the raw text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	Ping(ctx context.Context, model string) bool
}

// Target is one entry of the fallback cascade.
type Target struct {
	Provider Provider
	Model    string
}

func (t Target) String() string {
	return t.Provider.Name() + "/" + t.Model
}

// Result describes a successful cascade run.
type Result struct {
	Provider     string
	Model        string
	UsedFallback bool
	Attempts     []domain.ModelAttempt
	Confidence   int
}

// AcceptFunc decodes a normalized JSON object. A returned error fails the attempt.
type AcceptFunc func(raw []byte) error

// Inferer is the gateway contract consumed by analyzers.
type Inferer interface {
	Infer(ctx context.Context, spec PromptSpec, lang domain.LanguageProfile, accept AcceptFunc) (*Result, error)
}

// InferJSON runs the cascade and strictly decodes the first usable reply into T.
func InferJSON[T any](ctx context.Context, inf Inferer, spec PromptSpec, lang domain.LanguageProfile) (T, *Result, error) {
	var out T
	result, err := inf.Infer(ctx, spec, lang, func(raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, result, err
}
