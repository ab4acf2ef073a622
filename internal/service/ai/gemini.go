package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiModels is the slice of the genai client the provider calls.
type GeminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider sends prompts to the Gemini API in JSON mode.
type GeminiProvider struct {
	models GeminiModels
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

func NewGeminiProvider(models GeminiModels, logger *zap.Logger) *GeminiProvider {
	return &GeminiProvider{
		models: models,
		logger: logger,
	}
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	if g.models == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	temperature := req.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  int32(req.MaxOutputTokens),
		ResponseMIMEType: "application/json",
		ThinkingConfig:   thinkingConfig(req.Model),
	}
	if req.Shape != nil {
		genConfig.ResponseJsonSchema = req.Shape
	}
	if req.SystemInstruction != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", req.Model),
		zap.Float32("temperature", temperature),
	)

	resp, err := g.models.GenerateContent(ctx, req.Model, []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.Prompt}},
		},
	}, genConfig)
	if err != nil {
		return "", err
	}

	text := extractGeminiText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func (g *GeminiProvider) Ping(ctx context.Context, model string) bool {
	if g.models == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, constants.InferenceConfig.PingTimeout)
	defer cancel()

	temp := float32(0)
	resp, err := g.models.GenerateContent(ctx, model, []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: "ping"}}},
	}, &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 10,
		ThinkingConfig:  thinkingConfig(model),
	})
	if err != nil {
		g.logger.Debug("Gemini ping failed", zap.String("model", model), zap.Error(err))
		return false
	}
	return extractGeminiText(resp) != ""
}

// thinkingConfig turns thinking off for the 2.5 flash family, whose thought tokens
// otherwise count against MaxOutputTokens. Older models reject the field.
func thinkingConfig(model string) *genai.ThinkingConfig {
	if !strings.HasPrefix(model, "gemini-2.5-flash") {
		return nil
	}
	return &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}
