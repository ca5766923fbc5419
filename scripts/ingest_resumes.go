package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
	"github.com/HasnainAli47/ResumeParser/internal/services"
)

// Bulk loads every PDF and DOCX resume found in a directory.
//
//	go run ./scripts/ingest_resumes.go --dir ./resumes [--config config.yaml]
func main() {
	dir := pflag.StringP("dir", "d", "./resumes", "directory containing resumes")
	configPath := pflag.StringP("config", "c", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	logger.Init(cfg.Logger)
	logger.Info().Str("dir", *dir).Msg("🚀 Starting resume ingestion...")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to create upload directory")
	}

	llmClient, err := services.NewLLMClient(cfg.LLM)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize LLM client")
	}

	validator, err := services.NewExtractionValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to compile extraction schema")
	}

	ocrEngine, err := services.NewOCREngine(cfg.OCR)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ OCR fallback disabled")
	}

	ingestor := services.NewResumeIngestor(
		services.NewTextExtractor(ocrEngine),
		services.NewResumeParser(llmClient, validator, cfg.LLM),
		repositories.NewResumeRepository(db),
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to read resume directory")
	}

	ctx := context.Background()
	var ingested, skipped, failed int

	for _, entry := range entries {
		if entry.IsDir() || !services.IsSupportedExtension(entry.Name()) {
			continue
		}

		name := entry.Name()
		if err := ingestFile(ctx, ingestor, storageService, filepath.Join(*dir, name), name); err != nil {
			if errors.Is(err, services.ErrNoExtractableText) {
				logger.Warn().Str("file", name).Msg("⚠️ No text found, skipped")
				skipped++
				continue
			}
			logger.Error().Err(err).Str("file", name).Msg("❌ Failed to ingest resume")
			failed++
			continue
		}
		ingested++
	}

	logger.Info().
		Int("ingested", ingested).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("✅ Resume ingestion completed")
}

func ingestFile(ctx context.Context, ingestor *services.ResumeIngestor, storage services.StorageService, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	storedName, storedPath, err := storage.SaveReader(name, src)
	if err != nil {
		return err
	}

	resume, outcome, err := ingestor.Ingest(ctx, name, storedName, storedPath)
	if err != nil {
		if delErr := storage.DeleteFile(storedName); delErr != nil {
			logger.Warn().Err(delErr).Str("file", storedName).Msg("⚠️ Failed to clean up stored resume")
		}
		return err
	}

	logger.Info().
		Str("file", name).
		Str("resume_id", resume.ID.String()).
		Str("status", string(outcome.Status)).
		Msg("📄 Resume stored")
	return nil
}
