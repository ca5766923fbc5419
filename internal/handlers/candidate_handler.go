package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
	"github.com/HasnainAli47/ResumeParser/internal/services"
)

type CandidateHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
}

func NewCandidateHandler(resumeRepo repositories.ResumeRepository, storageService services.StorageService) *CandidateHandler {
	return &CandidateHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
	}
}

// HandleListCandidates handles GET /candidates
func (h *CandidateHandler) HandleListCandidates(c *fiber.Ctx) error {
	resumes, err := h.resumeRepo.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list candidates",
		})
	}

	candidates := make([]models.CandidateListItem, 0, len(resumes))
	for i := range resumes {
		candidates = append(candidates, models.CandidateListItem{
			ID:   resumes[i].ID.String(),
			Name: resumes[i].DisplayName(),
		})
	}

	return c.JSON(candidates)
}

// HandleGetCandidate handles GET /candidates/:id
func (h *CandidateHandler) HandleGetCandidate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	resume, err := h.resumeRepo.FindByID(c.UserContext(), id)
	if err != nil {
		return h.lookupFailed(c, err)
	}

	return c.JSON(resume)
}

// HandleDeleteCandidate handles DELETE /candidates/:id
func (h *CandidateHandler) HandleDeleteCandidate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	resume, err := h.resumeRepo.Delete(c.UserContext(), id)
	if err != nil {
		return h.lookupFailed(c, err)
	}

	if resume.Filename != "" {
		if err := h.storageService.DeleteFile(resume.Filename); err != nil {
			logger.Warn().Err(err).Str("file", resume.Filename).Msg("⚠️ Failed to remove stored resume file")
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CandidateHandler) lookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to load candidate",
	})
}
