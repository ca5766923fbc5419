package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/logger"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrLLMRequestFailed = errors.New("llm request failed")

// LLMError describes a failed completion. It always matches
// ErrLLMRequestFailed with errors.Is.
type LLMError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *LLMError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Provider, ErrLLMRequestFailed)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LLMError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrLLMRequestFailed, e.Err}
	}
	return []error{ErrLLMRequestFailed}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerationOptions struct {
	Temperature float32
	MaxTokens   int
}

type LLMClient interface {
	Complete(ctx context.Context, messages []Message, opts GenerationOptions) (string, error)
}

// NewLLMClient picks the backend named by cfg.Provider.
func NewLLMClient(cfg config.LLMConfig) (LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(cfg)
	case config.ProviderGroq, config.ProviderOpenAI:
		return NewChatCompletionClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openAIBaseURL = "https://api.openai.com/v1"
)

// chatCompletionClient talks to any OpenAI compatible /chat/completions
// endpoint (Groq, OpenAI, local gateways).
type chatCompletionClient struct {
	provider   string
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewChatCompletionClient(cfg config.LLMConfig) LLMClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = groqBaseURL
		if cfg.Provider == config.ProviderOpenAI {
			baseURL = openAIBaseURL
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &chatCompletionClient{
		provider:   cfg.Provider,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *chatCompletionClient) Complete(ctx context.Context, messages []Message, opts GenerationOptions) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &LLMError{Provider: c.provider, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug().
		Str("provider", c.provider).
		Str("model", c.model).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("LLM completion returned")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &LLMError{Provider: c.provider, StatusCode: resp.StatusCode, Err: err}
	}

	var result chatCompletionResponse
	decodeErr := json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && result.Error != nil {
			msg = result.Error.Message
		}
		return "", &LLMError{Provider: c.provider, StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return "", &LLMError{Provider: c.provider, StatusCode: resp.StatusCode, Message: "malformed response body", Err: decodeErr}
	}

	if len(result.Choices) == 0 {
		return "", &LLMError{Provider: c.provider, StatusCode: resp.StatusCode, Message: "no choices in response"}
	}

	return result.Choices[0].Message.Content, nil
}
