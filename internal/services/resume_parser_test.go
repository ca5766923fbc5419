package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/models"
)

func newTestParser(t *testing.T, llm LLMClient) ResumeParser {
	t.Helper()
	return NewResumeParser(llm, newTestValidator(t), config.Default().LLM)
}

func TestResumeParserComplete(t *testing.T) {
	llm := &scriptedLLM{replies: []string{completeReply}}
	outcome := newTestParser(t, llm).Parse(context.Background(), "Jane Doe resume text")

	assert.Equal(t, models.ExtractionComplete, outcome.Status)
	assert.Empty(t, outcome.Issues)
	assert.Equal(t, "Jane Doe", outcome.Data.PersonalInfo.Name)
	assert.Len(t, outcome.Data.Skills, 2)

	require.Len(t, llm.calls, 1)
	messages := llm.calls[0]
	require.Len(t, messages, 2)
	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "Jane Doe resume text", messages[1].Content)

	assert.Equal(t, GenerationOptions{Temperature: 0.3, MaxTokens: 2048}, llm.opts[0])
}

func TestResumeParserPartial(t *testing.T) {
	reply := "```json\n{\"Personal Information\": {\"Name\": \"Jane Doe\"}, \"Skills\": [\"Go\"]}\n```"
	outcome := newTestParser(t, &scriptedLLM{replies: []string{reply}}).Parse(context.Background(), "text")

	assert.Equal(t, models.ExtractionPartial, outcome.Status)
	assert.NotEmpty(t, outcome.Issues)
	assert.Equal(t, "Jane Doe", outcome.Data.PersonalInfo.Name)
	assert.Equal(t, models.NotFound, outcome.Data.PersonalInfo.Email)
	assert.Len(t, outcome.Data.Skills, 1)
	assert.Empty(t, outcome.Data.Education)
}

func TestResumeParserFailed(t *testing.T) {
	t.Run("reply without json", func(t *testing.T) {
		outcome := newTestParser(t, &scriptedLLM{replies: []string{"I could not read this resume."}}).
			Parse(context.Background(), "text")

		assert.Equal(t, models.ExtractionFailed, outcome.Status)
		assert.Equal(t, []string{ErrNoJSONFound.Error()}, outcome.Issues)
		assert.Equal(t, ErrorObject(ErrNoJSONFound), outcome.Payload)
		assert.Equal(t, models.NotFound, outcome.Data.PersonalInfo.Name)
		assert.Empty(t, outcome.Data.Skills)
	})

	t.Run("llm unavailable", func(t *testing.T) {
		llmErr := &LLMError{Provider: "groq", StatusCode: 503, Message: "overloaded"}
		outcome := newTestParser(t, &scriptedLLM{err: llmErr}).Parse(context.Background(), "text")

		assert.Equal(t, models.ExtractionFailed, outcome.Status)
		require.Len(t, outcome.Issues, 1)
		assert.Contains(t, outcome.Issues[0], "llm request failed")
		assert.Equal(t, models.NotFound, outcome.Data.PersonalInfo.Name)
	})
}

func TestResumeIngestor(t *testing.T) {
	ctx := context.Background()

	t.Run("persists every derived record", func(t *testing.T) {
		db := newTestDB(t)
		repo := newResumeRepo(db)
		ingestor := NewResumeIngestor(
			stubExtractor{text: "Jane Doe\nBackend Engineer"},
			newTestParser(t, &scriptedLLM{replies: []string{completeReply}}),
			repo,
		)

		resume, outcome, err := ingestor.Ingest(ctx, "Jane.DOCX", "resume_x.docx", "/tmp/resume_x.docx")
		require.NoError(t, err)
		assert.Equal(t, models.ExtractionComplete, outcome.Status)
		assert.Equal(t, "docx", resume.FileType)

		stored, err := repo.FindByID(ctx, resume.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe\nBackend Engineer", stored.ExtractedText)
		require.NotNil(t, stored.PersonalInfo)
		assert.Equal(t, "jane@example.com", stored.PersonalInfo.Email)
		assert.Len(t, stored.Education, 1)
		assert.Len(t, stored.Skills, 2)
		assert.Len(t, stored.WorkExperience, 1)
		assert.Len(t, stored.Certifications, 2)
		assert.JSONEq(t, `[]`, string(stored.ExtractionIssues))
	})

	t.Run("failed extraction still stores placeholders", func(t *testing.T) {
		db := newTestDB(t)
		repo := newResumeRepo(db)
		ingestor := NewResumeIngestor(
			stubExtractor{text: "some text"},
			newTestParser(t, &scriptedLLM{replies: []string{"no json here"}}),
			repo,
		)

		resume, outcome, err := ingestor.Ingest(ctx, "cv.pdf", "resume_y.pdf", "/tmp/resume_y.pdf")
		require.NoError(t, err)
		assert.Equal(t, models.ExtractionFailed, outcome.Status)

		stored, err := repo.FindByID(ctx, resume.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExtractionFailed, stored.ExtractionStatus)
		assert.Equal(t, models.NotFound, stored.PersonalInfo.Name)
		assert.JSONEq(t, `{"error": "No JSON found in response"}`, string(stored.RawExtraction))
	})

	t.Run("rejects documents without text", func(t *testing.T) {
		for _, extractor := range []stubExtractor{
			{text: "  \n "},
			{err: ErrUnsupportedFormat},
		} {
			db := newTestDB(t)
			llm := &scriptedLLM{}
			ingestor := NewResumeIngestor(extractor, newTestParser(t, llm), newResumeRepo(db))

			_, _, err := ingestor.Ingest(ctx, "cv.txt", "resume_z.txt", "/tmp/resume_z.txt")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoExtractableText) || errors.Is(err, ErrUnsupportedFormat))
			assert.Empty(t, llm.calls)

			var count int64
			require.NoError(t, db.Model(&models.Resume{}).Count(&count).Error)
			assert.Zero(t, count)
		}
	})
}
