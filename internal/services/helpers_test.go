package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
)

// scriptedLLM returns the queued replies in order and repeats the last one.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]Message
	opts    []GenerationOptions
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []Message, opts GenerationOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, append([]Message(nil), messages...))
	s.opts = append(s.opts, opts)

	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "answer", nil
	}

	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(path string) (string, error) {
	return s.text, s.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"

	db, err := config.InitDatabase(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func newResumeRepo(db *gorm.DB) repositories.ResumeRepository {
	return repositories.NewResumeRepository(db)
}

func newTestValidator(t *testing.T) *ExtractionValidator {
	t.Helper()
	v, err := NewExtractionValidator()
	require.NoError(t, err)
	return v
}

const completeReply = "Here is the extracted data:\n" +
	"```json\n" +
	"{\n" +
	"  \"Personal Information\": {\"Name\": \"Jane Doe\", \"Email\": \"jane@example.com\", \"Phone\": \"555-0100\"},\n" +
	"  \"Education\": [{\"Degree\": \"BSc Computer Science\", \"University\": \"MIT\", \"Field\": \"Computer Science\", \"Start Year\": 2014, \"End Year\": 2018}],\n" +
	"  \"Work Experience\": [{\"Company\": \"Acme\", \"Job Title\": \"Backend Engineer\", \"Start Date\": \"2018\", \"End Date\": \"Present\", \"Responsibilities\": [\"Built APIs\", \"Ran on-call\"]}],\n" +
	"  \"Skills\": [\"Go\", \"SQL\"],\n" +
	"  \"Certifications\": [{\"Name\": \"CKA\", \"Issued By\": \"CNCF\", \"Year\": 2021}, \"AWS Solutions Architect\"]\n" +
	"}\n" +
	"```\n"
