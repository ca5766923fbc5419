package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Upload    *UploadHandler
	Query     *QueryHandler
	Search    *SearchHandler
	Candidate *CandidateHandler
}

// RegisterRoutes mounts the API under /api/v1. queryLimiter guards only the
// query endpoint.
func RegisterRoutes(app *fiber.App, h Handlers, queryLimiter fiber.Handler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", h.Upload.HandleUpload)
	api.Post("/query", queryLimiter, h.Query.HandleQuery)
	api.Get("/sessions/:id", h.Query.HandleGetSession)
	api.Post("/search", h.Search.HandleSearch)
	api.Get("/candidates", h.Candidate.HandleListCandidates)
	api.Get("/candidates/:id", h.Candidate.HandleGetCandidate)
	api.Delete("/candidates/:id", h.Candidate.HandleDeleteCandidate)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Parser API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/query",
				"GET /api/v1/sessions/:id",
				"POST /api/v1/search",
				"GET /api/v1/candidates",
				"GET /api/v1/candidates/:id",
				"DELETE /api/v1/candidates/:id",
			},
		})
	})
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
