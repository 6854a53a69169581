package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clearsight-ai/reportforge/internal/api/handlers"
	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/clearsight-ai/reportforge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCorpusService struct{}

func (s *stubCorpusService) IngestCorpus(ctx context.Context, corpusText string) (*domain.InitializeResult, error) {
	return &domain.InitializeResult{ChunksStored: 1, StoreType: "local"}, nil
}

func (s *stubCorpusService) Retrieve(ctx context.Context, query string, topK int) (*domain.RetrieveResult, error) {
	return &domain.RetrieveResult{Docs: []domain.RetrievedDocument{}, Threshold: 0.65}, nil
}

type stubReportService struct{}

func (s *stubReportService) GenerateReport(ctx context.Context, input service.GenerateReportInput) (*domain.ArchivedReport, error) {
	return &domain.ArchivedReport{ID: "r1", Keyword: input.Keyword}, nil
}

func (s *stubReportService) AnalyzeGaps(ctx context.Context, input service.GenerateReportInput) ([]domain.GapItem, error) {
	return []domain.GapItem{}, nil
}

type stubStore struct{}

func (s *stubStore) StoreType() string { return "local" }

func newTestRouter(token string) http.Handler {
	return NewRouter(RouterConfig{
		APIToken:      token,
		CorpusHandler: handlers.NewCorpusHandler(&stubCorpusService{}),
		ReportHandler: handlers.NewReportHandler(&stubReportService{}, nil),
		Store:         &stubStore{},
	})
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store_type":"local"`)
}

func TestRouter_V1RequiresToken(t *testing.T) {
	router := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/retrieve", strings.NewReader(`{"query":"q"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_V1WithToken(t *testing.T) {
	router := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(`{"keyword":"crm"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"r1"`)
}

func TestRouter_RequestIDHeaderSet(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
