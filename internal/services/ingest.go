package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
)

var ErrNoExtractableText = errors.New("no extractable text in document")

// ResumeIngestor turns a stored resume file into a persisted resume with
// all of its derived records.
type ResumeIngestor struct {
	extractor TextExtractor
	parser    ResumeParser
	repo      repositories.ResumeRepository
}

func NewResumeIngestor(extractor TextExtractor, parser ResumeParser, repo repositories.ResumeRepository) *ResumeIngestor {
	return &ResumeIngestor{
		extractor: extractor,
		parser:    parser,
		repo:      repo,
	}
}

// Ingest returns ErrUnsupportedFormat or ErrNoExtractableText before anything
// is written. Extraction problems do not fail the call; they are reported
// through the outcome status.
func (i *ResumeIngestor) Ingest(ctx context.Context, originalName, storedName, path string) (*models.Resume, *ExtractionOutcome, error) {
	text, err := i.extractor.ExtractText(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrNoExtractableText
	}

	outcome := i.parser.Parse(ctx, text)

	issues, err := json.Marshal(nonNil(outcome.Issues))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode extraction issues: %w", err)
	}
	payload, err := json.Marshal(outcome.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode extraction payload: %w", err)
	}

	personalInfo := outcome.Data.PersonalInfo
	resume := &models.Resume{
		Filename:         storedName,
		OriginalFilename: originalName,
		FileType:         strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), "."),
		FilePath:         path,
		ExtractedText:    text,
		ExtractionStatus: outcome.Status,
		ExtractionIssues: issues,
		RawExtraction:    payload,
		PersonalInfo:     &personalInfo,
		Education:        outcome.Data.Education,
		Skills:           outcome.Data.Skills,
		WorkExperience:   outcome.Data.WorkExperience,
		Certifications:   outcome.Data.Certifications,
	}

	if err := i.repo.CreateWithRecords(ctx, resume); err != nil {
		return nil, nil, err
	}

	logger.Info().
		Str("resume_id", resume.ID.String()).
		Str("status", string(outcome.Status)).
		Int("skills", len(resume.Skills)).
		Int("experience", len(resume.WorkExperience)).
		Msg("📄 Resume ingested")

	return resume, outcome, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
