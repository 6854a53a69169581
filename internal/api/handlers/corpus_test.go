package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCorpusService struct {
	mock.Mock
}

func (m *MockCorpusService) IngestCorpus(ctx context.Context, corpusText string) (*domain.InitializeResult, error) {
	args := m.Called(ctx, corpusText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InitializeResult), args.Error(1)
}

func (m *MockCorpusService) Retrieve(ctx context.Context, query string, topK int) (*domain.RetrieveResult, error) {
	args := m.Called(ctx, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetrieveResult), args.Error(1)
}

func TestCorpusHandler_Ingest(t *testing.T) {
	svc := new(MockCorpusService)
	svc.On("IngestCorpus", mock.Anything, "Chapter 1\n\nSome corpus text.").
		Return(&domain.InitializeResult{ChunksStored: 3, StoreType: "pgvector"}, nil)

	handler := NewCorpusHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/corpus",
		strings.NewReader(`{"text":"Chapter 1\n\nSome corpus text."}`))
	rec := httptest.NewRecorder()

	handler.Ingest(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chunks_stored":3`)
	assert.Contains(t, rec.Body.String(), `"store_type":"pgvector"`)
	svc.AssertExpectations(t)
}

func TestCorpusHandler_Ingest_EmptyCorpus(t *testing.T) {
	svc := new(MockCorpusService)
	svc.On("IngestCorpus", mock.Anything, "").Return(nil, domain.ErrEmptyCorpus)

	handler := NewCorpusHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/corpus", strings.NewReader(`{"text":""}`))
	rec := httptest.NewRecorder()

	handler.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCorpusHandler_Ingest_InvalidBody(t *testing.T) {
	handler := NewCorpusHandler(new(MockCorpusService))

	req := httptest.NewRequest(http.MethodPost, "/v1/corpus", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorpusHandler_Retrieve(t *testing.T) {
	svc := new(MockCorpusService)
	svc.On("Retrieve", mock.Anything, "vector search", 3).Return(&domain.RetrieveResult{
		Docs: []domain.RetrievedDocument{
			{Content: "a passage", Chapter: "Chapter 1", Score: 0.721, Source: "corpus"},
		},
		Skipped:   []domain.RetrievedDocument{},
		Threshold: 0.65,
	}, nil)

	handler := NewCorpusHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/retrieve",
		strings.NewReader(`{"query":"vector search","top_k":3}`))
	rec := httptest.NewRecorder()

	handler.Retrieve(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"score":0.721`)
	assert.Contains(t, rec.Body.String(), `"threshold":0.65`)
}

func TestCorpusHandler_Retrieve_NotInitialized(t *testing.T) {
	svc := new(MockCorpusService)
	svc.On("Retrieve", mock.Anything, "anything", 0).Return(nil, domain.ErrNotInitialized)

	handler := NewCorpusHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/retrieve", strings.NewReader(`{"query":"anything"}`))
	rec := httptest.NewRecorder()

	handler.Retrieve(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "PRECONDITION_ERROR")
}
