package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
	"github.com/HasnainAli47/ResumeParser/internal/services"
)

type QueryHandler struct {
	resumeRepo  repositories.ResumeRepository
	chatRepo    repositories.ChatRepository
	chatService services.ChatService
}

func NewQueryHandler(
	resumeRepo repositories.ResumeRepository,
	chatRepo repositories.ChatRepository,
	chatService services.ChatService,
) *QueryHandler {
	return &QueryHandler{
		resumeRepo:  resumeRepo,
		chatRepo:    chatRepo,
		chatService: chatService,
	}
}

// HandleQuery handles POST /query
func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var req models.QueryRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.ResumeID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_id is required",
		})
	}

	query := strings.TrimSpace(req.Query)
	var queries []string
	for _, q := range req.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}

	if query == "" && len(queries) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either 'query' or 'queries' must be provided",
		})
	}

	resumeID, err := uuid.Parse(strings.TrimSpace(req.ResumeID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume_id format",
		})
	}

	resume, err := h.resumeRepo.FindByID(c.UserContext(), resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load resume",
		})
	}

	sessionID := strings.TrimSpace(req.SessionID)
	responses := make(map[string]string)

	if query != "" {
		sid, answer, err := h.chatService.Ask(c.UserContext(), sessionID, resume, query)
		if err != nil {
			return h.queryFailed(c, sid, err)
		}
		sessionID = sid
		responses[query] = answer
	}

	if len(queries) > 0 {
		sid, answers, err := h.chatService.AskBatch(c.UserContext(), sessionID, resume, queries)
		if err != nil {
			return h.queryFailed(c, sid, err)
		}
		sessionID = sid
		for _, a := range answers {
			responses[a.Query] = a.Answer
		}
	}

	return c.JSON(models.QueryResponse{
		Message:   "Query processed successfully",
		SessionID: sessionID,
		Responses: responses,
	})
}

func (h *QueryHandler) queryFailed(c *fiber.Ctx, sessionID string, err error) error {
	if errors.Is(err, services.ErrLLMRequestFailed) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":      "Language model request failed",
			"session_id": sessionID,
		})
	}

	logger.Error().Err(err).Str("session_id", sessionID).Msg("❌ Query failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      "Failed to process query",
		"session_id": sessionID,
	})
}

// HandleGetSession handles GET /sessions/:id
func (h *QueryHandler) HandleGetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	session, err := h.chatRepo.FindSession(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load session",
		})
	}

	messages, err := h.chatRepo.ListMessages(c.UserContext(), session.ID, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load session messages",
		})
	}
	session.Messages = messages

	return c.JSON(session)
}
