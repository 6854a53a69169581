package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clearsight-ai/reportforge/internal/api"
	"github.com/clearsight-ai/reportforge/internal/archive"
	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/clearsight-ai/reportforge/internal/service"
	"github.com/go-chi/chi/v5"
)

// ReportServiceInterface defines the generation operations the handler needs
type ReportServiceInterface interface {
	GenerateReport(ctx context.Context, input service.GenerateReportInput) (*domain.ArchivedReport, error)
	AnalyzeGaps(ctx context.Context, input service.GenerateReportInput) ([]domain.GapItem, error)
}

// ArchiveReader reads previously archived reports
type ArchiveReader interface {
	Get(ctx context.Context, id string) (*domain.ArchivedReport, error)
	List(ctx context.Context) ([]archive.ReportSummary, error)
}

// ReportHandler handles report generation and archive requests
type ReportHandler struct {
	service ReportServiceInterface
	archive ArchiveReader
}

// NewReportHandler creates a new ReportHandler instance. archive may be nil
// when no archive backend is configured.
func NewReportHandler(svc ReportServiceInterface, archive ArchiveReader) *ReportHandler {
	return &ReportHandler{service: svc, archive: archive}
}

// GenerateRequest represents the request body for report and gap generation
type GenerateRequest struct {
	Keyword         string   `json:"keyword"`
	CompetitorTexts []string `json:"competitor_texts"`
	TopK            int      `json:"top_k"`
}

func (r GenerateRequest) toInput() service.GenerateReportInput {
	return service.GenerateReportInput{
		Keyword:         r.Keyword,
		CompetitorTexts: r.CompetitorTexts,
		TopK:            r.TopK,
	}
}

// Generate handles POST /v1/reports
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.service.GenerateReport(r.Context(), req.toInput())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, report)
}

// Gaps handles POST /v1/gaps
func (h *ReportHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gaps, err := h.service.AnalyzeGaps(r.Context(), req.toInput())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]interface{}{"gaps": gaps})
}

// List handles GET /v1/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		api.HandleError(w, domain.ErrArchiveDisabled)
		return
	}

	summaries, err := h.archive.List(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]interface{}{"reports": summaries})
}

// Get handles GET /v1/reports/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		api.HandleError(w, domain.ErrArchiveDisabled)
		return
	}

	id := chi.URLParam(r, "id")
	report, err := h.archive.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, report)
}
