package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
)

type QueryAnswer struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

type ChatService interface {
	Ask(ctx context.Context, sessionID string, resume *models.Resume, query string) (string, string, error)
	AskBatch(ctx context.Context, sessionID string, resume *models.Resume, queries []string) (string, []QueryAnswer, error)
}

type chatService struct {
	repo         repositories.ChatRepository
	llm          LLMClient
	prompts      *PromptBuilder
	historyLimit int
	opts         GenerationOptions
}

func NewChatService(repo repositories.ChatRepository, llm LLMClient, chatCfg config.ChatConfig, llmCfg config.LLMConfig) ChatService {
	return &chatService{
		repo:         repo,
		llm:          llm,
		prompts:      NewPromptBuilder(),
		historyLimit: chatCfg.HistoryLimit,
		opts: GenerationOptions{
			Temperature: llmCfg.ChatTemperature,
			MaxTokens:   llmCfg.ChatMaxTokens,
		},
	}
}

// Ask answers one question about the resume inside a session and returns
// the session id actually used. An empty sessionID starts a new session.
func (s *chatService) Ask(ctx context.Context, sessionID string, resume *models.Resume, query string) (string, string, error) {
	session, err := s.openSession(ctx, sessionID, resume)
	if err != nil {
		return "", "", err
	}

	answer, err := s.exchange(ctx, session.ID, resume, query)
	if err != nil {
		return session.ID, "", err
	}

	return session.ID, answer, nil
}

// AskBatch issues one LLM call per query in order. It stops at the first
// failure; exchanges completed before it stay persisted.
func (s *chatService) AskBatch(ctx context.Context, sessionID string, resume *models.Resume, queries []string) (string, []QueryAnswer, error) {
	session, err := s.openSession(ctx, sessionID, resume)
	if err != nil {
		return "", nil, err
	}

	answers := make([]QueryAnswer, 0, len(queries))
	for _, query := range queries {
		answer, err := s.exchange(ctx, session.ID, resume, query)
		if err != nil {
			return session.ID, answers, err
		}
		answers = append(answers, QueryAnswer{Query: query, Answer: answer})
	}

	return session.ID, answers, nil
}

func (s *chatService) openSession(ctx context.Context, sessionID string, resume *models.Resume) (*models.ChatSession, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	var resumeID *uuid.UUID
	if resume != nil {
		id := resume.ID
		resumeID = &id
	}

	return s.repo.GetOrCreateSession(ctx, sessionID, resumeID)
}

func (s *chatService) exchange(ctx context.Context, sessionID string, resume *models.Resume, query string) (string, error) {
	history, err := s.repo.ListMessages(ctx, sessionID, s.historyLimit)
	if err != nil {
		return "", err
	}

	replay := make([]Message, 0, len(history))
	for _, m := range history {
		replay = append(replay, Message{Role: string(m.Role), Content: m.Content})
	}

	resumeText := ""
	if resume != nil {
		resumeText = resume.ExtractedText
	}

	answer, err := s.llm.Complete(ctx, s.prompts.BuildChatMessages(resumeText, query, replay), s.opts)
	if err != nil {
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("⚠️ Chat completion failed")
		return "", fmt.Errorf("failed to answer query: %w", err)
	}

	if err := s.repo.AppendExchange(ctx, sessionID, query, answer); err != nil {
		return "", err
	}

	logger.Debug().
		Str("session_id", sessionID).
		Int("history", len(history)).
		Msg("💬 Query answered")

	return answer, nil
}
