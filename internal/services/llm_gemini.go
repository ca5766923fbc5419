package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/logger"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(cfg config.LLMConfig) (LLMClient, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = defaultGeminiModel
	}

	return &geminiClient{
		client:    client,
		modelName: model,
	}, nil
}

// Complete maps system messages onto the system instruction and the
// assistant role onto Gemini's model role.
func (g *geminiClient) Complete(ctx context.Context, messages []Message, opts GenerationOptions) (string, error) {
	temperature := opts.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(opts.MaxTokens),
	}

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		genConfig.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, genConfig)
	if err != nil {
		logger.Error().Err(err).Str("model", g.modelName).Msg("❌ Gemini API error")
		return "", &LLMError{Provider: config.ProviderGemini, Err: err}
	}

	if resp == nil {
		return "", &LLMError{Provider: config.ProviderGemini, Message: "nil response"}
	}

	text := resp.Text()
	if text == "" {
		return "", &LLMError{Provider: config.ProviderGemini, Message: "no text content in response"}
	}

	return text, nil
}
