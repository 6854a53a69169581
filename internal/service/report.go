// Package service wires retrieval, analysis and generation into the
// report-building workflows exposed over HTTP and the CLI.
package service

import (
	"context"
	"log"
	"time"

	"github.com/clearsight-ai/reportforge/internal/analyzer"
	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/clearsight-ai/reportforge/internal/generator"
	"github.com/clearsight-ai/reportforge/internal/telemetry"
	"github.com/google/uuid"
)

// RetrieverInterface defines the corpus ingestion and similarity search surface.
type RetrieverInterface interface {
	Initialize(ctx context.Context, corpusText string) (*domain.InitializeResult, error)
	Retrieve(ctx context.Context, query string, topK int) (*domain.RetrieveResult, error)
	StoreType() string
}

// GeneratorInterface defines the model-backed generation surface.
type GeneratorInterface interface {
	Generate(ctx context.Context, keyword, analysisText, groundingText string) (domain.StructuredReport, error)
	AnalyzeGaps(ctx context.Context, keyword, analysisText, groundingText string) ([]domain.GapItem, error)
}

// ReportArchiver accepts finished reports for asynchronous upload.
type ReportArchiver interface {
	Enqueue(report domain.ArchivedReport)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// ReportService orchestrates analysis, grounding retrieval, generation and
// archival for a single keyword.
type ReportService struct {
	retriever RetrieverInterface
	generator GeneratorInterface
	archiver  ReportArchiver
	uuidGen   UUIDGenerator
	now       func() time.Time
}

// NewReportService creates a new ReportService instance. archiver may be nil
// when no archive backend is configured.
func NewReportService(retriever RetrieverInterface, gen GeneratorInterface, archiver ReportArchiver) *ReportService {
	return &ReportService{
		retriever: retriever,
		generator: gen,
		archiver:  archiver,
		uuidGen:   &DefaultUUIDGenerator{},
		now:       time.Now,
	}
}

// GenerateReportInput represents the input for building a report
type GenerateReportInput struct {
	Keyword         string
	CompetitorTexts []string
	TopK            int
}

// IngestCorpus loads the reference corpus into the vector index.
func (s *ReportService) IngestCorpus(ctx context.Context, corpusText string) (*domain.InitializeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.IngestCorpus", telemetry.SpanAttributes{
		Operation: "ingest",
	})
	defer span.End()

	result, err := s.retriever.Initialize(ctx, corpusText)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return result, nil
}

// Retrieve runs a similarity search against the ingested corpus.
func (s *ReportService) Retrieve(ctx context.Context, query string, topK int) (*domain.RetrieveResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.Retrieve", telemetry.SpanAttributes{
		Operation: "retrieve",
	})
	defer span.End()

	result, err := s.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return result, nil
}

// GenerateReport builds a grounded structured report for the keyword and
// queues it for archival. A failed or empty retrieval does not abort
// generation: the prompt states that no grounding was found instead.
func (s *ReportService) GenerateReport(ctx context.Context, input GenerateReportInput) (*domain.ArchivedReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.GenerateReport", telemetry.SpanAttributes{
		Keyword:   input.Keyword,
		Operation: "generate_report",
	})
	defer span.End()

	analysisText := analyzer.Summarize(input.Keyword, input.CompetitorTexts)
	groundingText := s.grounding(ctx, input.Keyword, input.TopK)

	report, err := s.generator.Generate(ctx, input.Keyword, analysisText, groundingText)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	archived := domain.ArchivedReport{
		ID:        s.uuidGen.NewString(),
		Keyword:   input.Keyword,
		Report:    report,
		CreatedAt: s.now().UTC(),
	}
	if s.archiver != nil {
		s.archiver.Enqueue(archived)
	}
	return &archived, nil
}

// AnalyzeGaps builds a grounded content-gap list for the keyword.
func (s *ReportService) AnalyzeGaps(ctx context.Context, input GenerateReportInput) ([]domain.GapItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.AnalyzeGaps", telemetry.SpanAttributes{
		Keyword:   input.Keyword,
		Operation: "analyze_gaps",
	})
	defer span.End()

	analysisText := analyzer.Summarize(input.Keyword, input.CompetitorTexts)
	groundingText := s.grounding(ctx, input.Keyword, input.TopK)

	gaps, err := s.generator.AnalyzeGaps(ctx, input.Keyword, analysisText, groundingText)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return gaps, nil
}

// StoreType reports which vector index variant ingestion selected, or ""
// before the corpus has been ingested.
func (s *ReportService) StoreType() string {
	return s.retriever.StoreType()
}

// grounding retrieves corpus passages for the keyword and formats them for
// the prompt. Retrieval problems are logged and reported to the model as an
// explicit absence of grounding.
func (s *ReportService) grounding(ctx context.Context, keyword string, topK int) string {
	result, err := s.retriever.Retrieve(ctx, keyword, topK)
	if err != nil {
		log.Printf("grounding retrieval failed for %q, generating ungrounded: %v", keyword, err)
		return generator.NoGroundingMarker
	}
	if len(result.Docs) == 0 {
		return generator.NoGroundingMarker
	}
	return generator.FormatGrounding(result.Docs)
}
