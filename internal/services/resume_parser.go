package services

import (
	"context"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/models"
)

// ExtractionOutcome is the result of one parse. Data is always populated,
// with placeholders standing in for whatever could not be extracted.
type ExtractionOutcome struct {
	Status  models.ExtractionStatus
	Issues  []string
	Payload map[string]any
	Data    models.ParsedData
}

type ResumeParser interface {
	Parse(ctx context.Context, resumeText string) *ExtractionOutcome
}

type resumeParser struct {
	llm       LLMClient
	validator *ExtractionValidator
	prompts   *PromptBuilder
	opts      GenerationOptions
}

func NewResumeParser(llm LLMClient, validator *ExtractionValidator, cfg config.LLMConfig) ResumeParser {
	return &resumeParser{
		llm:       llm,
		validator: validator,
		prompts:   NewPromptBuilder(),
		opts: GenerationOptions{
			Temperature: cfg.ExtractionTemperature,
			MaxTokens:   cfg.ExtractionMaxTokens,
		},
	}
}

// RequestExtraction sends the resume text with the fixed extraction prompt
// and returns the raw model reply.
func (p *resumeParser) RequestExtraction(ctx context.Context, resumeText string) (string, error) {
	return p.llm.Complete(ctx, p.prompts.BuildExtractionMessages(resumeText), p.opts)
}

func (p *resumeParser) Parse(ctx context.Context, resumeText string) *ExtractionOutcome {
	outcome := &ExtractionOutcome{Status: models.ExtractionComplete}

	raw, err := p.RequestExtraction(ctx, resumeText)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Extraction request failed")
		outcome.fail(err)
	} else if payload, err := CleanLLMResponse(raw); err != nil {
		logger.Warn().Err(err).Int("reply_length", len(raw)).Msg("⚠️ Could not clean extraction reply")
		outcome.fail(err)
	} else {
		outcome.Payload = payload
		if issues := p.validator.Validate(payload); len(issues) > 0 {
			outcome.Status = models.ExtractionPartial
			outcome.Issues = issues
		}
	}

	outcome.Data = Reconcile(outcome.Payload)
	return outcome
}

func (o *ExtractionOutcome) fail(err error) {
	o.Status = models.ExtractionFailed
	o.Issues = append(o.Issues, err.Error())
	o.Payload = ErrorObject(err)
}

// Reconcile runs every field reconciler over one payload.
func Reconcile(payload map[string]any) models.ParsedData {
	return models.ParsedData{
		PersonalInfo:   ReconcilePersonalInfo(payload),
		Education:      ReconcileEducation(payload),
		Skills:         ReconcileSkills(payload),
		WorkExperience: ReconcileWorkExperience(payload),
		Certifications: ReconcileCertifications(payload),
	}
}
