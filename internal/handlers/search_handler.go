package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/services"
)

type SearchHandler struct {
	searchService services.SearchService
}

func NewSearchHandler(searchService services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// HandleSearch handles POST /search. An empty body matches every candidate.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req models.SearchRequest

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	results, err := h.searchService.Search(c.UserContext(), services.NewSearchCriteria(req))
	if err != nil {
		logger.Error().Err(err).Msg("❌ Candidate search failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search candidates",
		})
	}

	return c.JSON(models.SearchResponse{
		Message: "Search completed successfully",
		Results: results,
	})
}
