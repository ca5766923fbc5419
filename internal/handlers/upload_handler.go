package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/services"
)

type UploadHandler struct {
	ingestor       *services.ResumeIngestor
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	ingestor *services.ResumeIngestor,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		ingestor:       ingestor,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded. Please upload a resume as 'file'.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	if !services.IsSupportedExtension(file.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file format. Please upload a PDF or DOCX file.",
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}

	resume, outcome, err := h.ingestor.Ingest(c.UserContext(), file.Filename, filename, filePath)
	if err != nil {
		// Nothing references the stored file once ingestion fails.
		if delErr := h.storageService.DeleteFile(filename); delErr != nil {
			logger.Warn().Err(delErr).Str("file", filename).Msg("⚠️ Failed to clean up upload")
		}

		if errors.Is(err, services.ErrUnsupportedFormat) || errors.Is(err, services.ErrNoExtractableText) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unsupported file format or no text could be extracted.",
			})
		}

		logger.Error().Err(err).Str("file", file.Filename).Msg("❌ Resume ingestion failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process resume",
		})
	}

	message := "Resume uploaded and processed successfully"
	if outcome.Status != models.ExtractionComplete {
		message = "Resume uploaded but extraction was incomplete"
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Message:          message,
		ResumeID:         resume.ID.String(),
		ExtractionStatus: outcome.Status,
		Issues:           outcome.Issues,
		ParsedData:       outcome.Data,
	})
}
