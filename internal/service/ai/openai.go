package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// ChatCompleter is the slice of the OpenAI client the provider calls.
type ChatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIProvider wraps the OpenAI chat completion client.
type OpenAIProvider struct {
	completions ChatCompleter
	logger      *zap.Logger
}

func NewOpenAICompleter(apiKey string) ChatCompleter {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &client.Chat.Completions
}

func NewOpenAIProvider(completions ChatCompleter, logger *zap.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		completions: completions,
		logger:      logger,
	}
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}

func (o *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	if o.completions == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	o.logger.Debug("Generating with OpenAI",
		zap.String("model", req.Model),
		zap.Float32("temperature", req.Temperature),
	)

	resp, err := o.completions.New(ctx, openai.ChatCompletionNewParams{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(withShape(req.SystemInstruction, req.Shape)),
			openai.UserMessage(req.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(req.MaxOutputTokens)),
		Temperature:         openai.Float(float64(req.Temperature)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI: no choices")
	}

	o.logger.Debug("OpenAI response received",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return text, nil
}

func (o *OpenAIProvider) Ping(ctx context.Context, model string) bool {
	if o.completions == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, constants.InferenceConfig.PingTimeout)
	defer cancel()

	resp, err := o.completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
		MaxCompletionTokens: openai.Int(10),
	})
	if err != nil {
		o.logger.Debug("OpenAI ping failed", zap.String("model", model), zap.Error(err))
		return false
	}
	return len(resp.Choices) > 0
}

// withShape appends the response schema to a system instruction for providers
// without native schema support.
func withShape(system string, shape map[string]any) string {
	if len(shape) == 0 {
		return system
	}
	encoded, err := json.Marshal(shape)
	if err != nil {
		return system
	}
	return system + "\n\nRespond with a single JSON object matching this JSON schema:\n" + string(encoded)
}
