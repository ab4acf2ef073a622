package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"go.uber.org/zap"
)

// AnthropicMessager is the slice of the Anthropic client the provider calls.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicProvider struct {
	messages AnthropicMessager
	logger   *zap.Logger
}

func NewAnthropicMessager(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

func NewAnthropicProvider(messages AnthropicMessager, logger *zap.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		messages: messages,
		logger:   logger,
	}
}

func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

func (a *AnthropicProvider) Generate(ctx context.Context, req Request) (string, error) {
	if a.messages == nil {
		return "", fmt.Errorf("anthropic client not initialized")
	}

	a.logger.Debug("Generating with Anthropic",
		zap.String("model", req.Model),
		zap.Float32("temperature", req.Temperature),
	)

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxOutputTokens),
		System:      []anthropic.TextBlockParam{{Text: withShape(req.SystemInstruction, req.Shape)}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Temperature: anthropic.Float(float64(req.Temperature)),
	})
	if err != nil {
		return "", err
	}

	text := messageText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from Anthropic")
	}
	return text, nil
}

func (a *AnthropicProvider) Ping(ctx context.Context, model string) bool {
	if a.messages == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, constants.InferenceConfig.PingTimeout)
	defer cancel()

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 10,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("ping"))},
	})
	if err != nil {
		a.logger.Debug("Anthropic ping failed", zap.String("model", model), zap.Error(err))
		return false
	}
	return messageText(resp) != ""
}

func messageText(resp *anthropic.Message) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}
