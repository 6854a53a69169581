package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clearsight-ai/reportforge/internal/api"
	"github.com/clearsight-ai/reportforge/internal/domain"
)

// CorpusServiceInterface defines the corpus operations the handler needs
type CorpusServiceInterface interface {
	IngestCorpus(ctx context.Context, corpusText string) (*domain.InitializeResult, error)
	Retrieve(ctx context.Context, query string, topK int) (*domain.RetrieveResult, error)
}

// CorpusHandler handles corpus ingestion and retrieval requests
type CorpusHandler struct {
	service CorpusServiceInterface
}

// NewCorpusHandler creates a new CorpusHandler instance
func NewCorpusHandler(service CorpusServiceInterface) *CorpusHandler {
	return &CorpusHandler{service: service}
}

// IngestRequest represents the request body for corpus ingestion
type IngestRequest struct {
	Text string `json:"text"`
}

// Ingest handles POST /v1/corpus
func (h *CorpusHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.IngestCorpus(r.Context(), req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, result)
}

// RetrieveRequest represents the request body for a similarity search
type RetrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Retrieve handles POST /v1/retrieve
func (h *CorpusHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Retrieve(r.Context(), req.Query, req.TopK)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
