package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HasnainAli47/ResumeParser/internal/models"
)

type ChatRepository interface {
	GetOrCreateSession(ctx context.Context, sessionID string, resumeID *uuid.UUID) (*models.ChatSession, error)
	FindSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	ListMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
	AppendExchange(ctx context.Context, sessionID, query, answer string) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetOrCreateSession(ctx context.Context, sessionID string, resumeID *uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).
		Where(models.ChatSession{ID: sessionID}).
		Attrs(models.ChatSession{ResumeID: resumeID}).
		FirstOrCreate(&session).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create session: %w", err)
	}

	return &session, nil
}

func (r *chatRepository) FindSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

// ListMessages returns the session history oldest first. A positive limit
// keeps only the most recent limit messages.
func (r *chatRepository) ListMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if limit > 0 {
		err := query.
			Order("sent_at DESC").
			Order("id DESC").
			Limit(limit).
			Find(&messages).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		slices.Reverse(messages)
		return messages, nil
	}

	err := query.
		Order("sent_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// AppendExchange stores a user query and the assistant answer together.
func (r *chatRepository) AppendExchange(ctx context.Context, sessionID, query, answer string) error {
	now := time.Now()
	messages := []models.ChatMessage{
		{SessionID: sessionID, Role: models.RoleUser, Content: query, Timestamp: now},
		{SessionID: sessionID, Role: models.RoleAssistant, Content: answer, Timestamp: now.Add(time.Microsecond)},
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&messages).Error
	})
	if err != nil {
		return fmt.Errorf("failed to append chat exchange: %w", err)
	}

	return nil
}
