package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/models"
	"github.com/HasnainAli47/ResumeParser/internal/ratelimit"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
	"github.com/HasnainAli47/ResumeParser/internal/services"
)

const extractionReply = "```json\n" +
	`{"Personal Information": {"Name": "Jane Doe", "Email": "jane@example.com", "Phone": "555-0100"},` +
	` "Education": [{"Degree": "MSc Computer Science", "University": "MIT", "Field": "CS", "Start Year": "2014", "End Year": "2016"}],` +
	` "Work Experience": [{"Company": "Acme", "Job Title": "Backend Engineer", "Start Date": "2016", "End Date": "Present", "Responsibilities": ["APIs"]}],` +
	` "Skills": ["Go", "SQL"],` +
	` "Certifications": [{"Name": "CKA", "Issued By": "CNCF", "Year": "2021"}]}` +
	"\n```"

// fakeLLM answers extraction prompts with extractionReply and everything
// else with a numbered chat answer.
type fakeLLM struct {
	mu        sync.Mutex
	chatCalls int
	chatErr   error
}

func (f *fakeLLM) Complete(ctx context.Context, messages []services.Message, opts services.GenerationOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.Contains(messages[0].Content, "extracting structured resume information") {
		return extractionReply, nil
	}
	if f.chatErr != nil {
		return "", f.chatErr
	}
	f.chatCalls++
	return "answer " + messages[len(messages)-1].Content, nil
}

type fakeExtractor struct {
	text string
}

func (f fakeExtractor) ExtractText(path string) (string, error) {
	if !services.IsSupportedExtension(path) {
		return "", services.ErrUnsupportedFormat
	}
	return f.text, nil
}

type testServer struct {
	app       *fiber.App
	db        *gorm.DB
	llm       *fakeLLM
	uploadDir string
}

func newTestServer(t *testing.T, text string) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.Storage.UploadPath = t.TempDir()
	cfg.RateLimit.QueryMax = 5
	cfg.RateLimit.QueryWindow = time.Minute

	db, err := config.InitDatabase(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	validator, err := services.NewExtractionValidator()
	require.NoError(t, err)

	llm := &fakeLLM{}
	resumeRepo := repositories.NewResumeRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	storage := services.NewStorageService(cfg.Storage.UploadPath)
	parser := services.NewResumeParser(llm, validator, cfg.LLM)
	ingestor := services.NewResumeIngestor(fakeExtractor{text: text}, parser, resumeRepo)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Handlers{
		Upload:    NewUploadHandler(ingestor, storage, cfg.Storage.MaxFileSize),
		Query:     NewQueryHandler(resumeRepo, chatRepo, services.NewChatService(chatRepo, llm, cfg.Chat, cfg.LLM)),
		Search:    NewSearchHandler(services.NewSearchService(resumeRepo)),
		Candidate: NewCandidateHandler(resumeRepo, storage),
	}, ratelimit.NewQueryLimiter(cfg.RateLimit, nil))

	return &testServer{app: app, db: db, llm: llm, uploadDir: cfg.Storage.UploadPath}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func (s *testServer) upload(t *testing.T, filename string, content []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(t, req)
}

func (s *testServer) postJSON(t *testing.T, path string, payload any) (int, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func (s *testServer) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)
	return n
}

func (s *testServer) uploadResume(t *testing.T) string {
	t.Helper()

	status, body := s.upload(t, "jane.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.ResumeID
}

func TestUploadSuccess(t *testing.T) {
	s := newTestServer(t, "Jane Doe\nBackend Engineer")

	status, body := s.upload(t, "jane.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, models.ExtractionComplete, resp.ExtractionStatus)
	assert.Equal(t, "Jane Doe", resp.ParsedData.PersonalInfo.Name)
	require.Len(t, resp.ParsedData.Skills, 2)
	assert.Equal(t, "Go", resp.ParsedData.Skills[0].Name)

	_, err := uuid.Parse(resp.ResumeID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.count(t, &models.Resume{}))
	assert.Equal(t, int64(2), s.count(t, &models.Skill{}))

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUploadRejectsBadInput(t *testing.T) {
	s := newTestServer(t, "Jane Doe")

	status, _ := s.upload(t, "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", nil)
	status, _ = s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, status)

	assert.Zero(t, s.count(t, &models.Resume{}))
}

func TestUploadWithoutText(t *testing.T) {
	s := newTestServer(t, "   \n ")

	status, body := s.upload(t, "scan.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusBadRequest, status, string(body))
	assert.Zero(t, s.count(t, &models.Resume{}))

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQueryValidation(t *testing.T) {
	s := newTestServer(t, "Jane Doe")

	status, body := s.postJSON(t, "/api/v1/query", map[string]any{"query": "hi"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "resume_id is required")

	status, body = s.postJSON(t, "/api/v1/query", map[string]any{"resume_id": uuid.NewString()})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Either 'query' or 'queries' must be provided")

	status, _ = s.postJSON(t, "/api/v1/query", map[string]any{"resume_id": "not-a-uuid", "query": "hi"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.postJSON(t, "/api/v1/query", map[string]any{"resume_id": uuid.NewString(), "query": "hi"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "Resume not found")

	assert.Zero(t, s.count(t, &models.ChatSession{}))
	assert.Zero(t, s.count(t, &models.ChatMessage{}))
	assert.Zero(t, s.llm.chatCalls)
}

func TestQueryAndSessionHistory(t *testing.T) {
	s := newTestServer(t, "Jane Doe")
	resumeID := s.uploadResume(t)

	status, body := s.postJSON(t, "/api/v1/query", map[string]any{"resume_id": resumeID, "query": "Where?"})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Query processed successfully", resp.Message)
	assert.Equal(t, map[string]string{"Where?": "answer Where?"}, resp.Responses)
	require.NotEmpty(t, resp.SessionID)

	status, body = s.postJSON(t, "/api/v1/query", map[string]any{
		"resume_id":  resumeID,
		"session_id": resp.SessionID,
		"queries":    []string{"Skills?", "Degree?"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var batch models.QueryResponse
	require.NoError(t, json.Unmarshal(body, &batch))
	assert.Equal(t, resp.SessionID, batch.SessionID)
	assert.Len(t, batch.Responses, 2)
	assert.Equal(t, int64(6), s.count(t, &models.ChatMessage{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+resp.SessionID, nil)
	status, body = s.do(t, req)
	require.Equal(t, http.StatusOK, status)

	var session models.ChatSession
	require.NoError(t, json.Unmarshal(body, &session))
	require.Len(t, session.Messages, 6)
	assert.Equal(t, "Where?", session.Messages[0].Content)
	assert.Equal(t, "answer Degree?", session.Messages[5].Content)

	status, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestQueryLLMFailure(t *testing.T) {
	s := newTestServer(t, "Jane Doe")
	resumeID := s.uploadResume(t)
	s.llm.chatErr = &services.LLMError{Provider: "groq", StatusCode: 503}

	status, body := s.postJSON(t, "/api/v1/query", map[string]any{"resume_id": resumeID, "query": "Where?"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, string(body), "session_id")
	assert.Zero(t, s.count(t, &models.ChatMessage{}))
}

func TestQueryRateLimit(t *testing.T) {
	s := newTestServer(t, "Jane Doe")
	payload := map[string]any{"resume_id": uuid.NewString(), "query": "hi"}

	for i := 0; i < 5; i++ {
		status, _ := s.postJSON(t, "/api/v1/query", payload)
		assert.Equal(t, http.StatusNotFound, status)
	}

	status, body := s.postJSON(t, "/api/v1/query", payload)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, string(body), "Rate limit exceeded")

	// Other endpoints are not limited.
	status, _ = s.postJSON(t, "/api/v1/search", map[string]any{})
	assert.Equal(t, http.StatusOK, status)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, "Jane Doe")
	resumeID := s.uploadResume(t)

	status, body := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/search", nil))
	require.Equal(t, http.StatusOK, status, string(body))

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Search completed successfully", resp.Message)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, resumeID, resp.Results[0].ResumeID)
	assert.Equal(t, "Jane Doe", resp.Results[0].Name)

	status, body = s.postJSON(t, "/api/v1/search", map[string]any{
		"skills":          []string{"go"},
		"min_experience":  "5",
		"education_level": "MSc",
		"certifications":  []string{"CKA"},
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Len(t, resp.Results, 1)

	status, body = s.postJSON(t, "/api/v1/search", map[string]any{"skills": []string{"Rust"}})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Empty(t, resp.Results)
}

func TestCandidateEndpoints(t *testing.T) {
	s := newTestServer(t, "Jane Doe")
	resumeID := s.uploadResume(t)

	status, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil))
	require.Equal(t, http.StatusOK, status)
	var list []models.CandidateListItem
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, []models.CandidateListItem{{ID: resumeID, Name: "Jane Doe"}}, list)

	status, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+resumeID, nil))
	require.Equal(t, http.StatusOK, status)
	var resume models.Resume
	require.NoError(t, json.Unmarshal(body, &resume))
	assert.Equal(t, "jane.pdf", resume.OriginalFilename)
	assert.Len(t, resume.Skills, 2)

	status, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/bogus", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/candidates/"+resumeID, nil))
	assert.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, s.count(t, &models.Resume{}))
	assert.Zero(t, s.count(t, &models.Skill{}))

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	status, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/candidates/"+resumeID, nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "Jane Doe")

	status, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "healthy")
}
