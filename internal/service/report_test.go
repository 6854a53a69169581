package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/clearsight-ai/reportforge/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Initialize(ctx context.Context, corpusText string) (*domain.InitializeResult, error) {
	args := m.Called(ctx, corpusText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InitializeResult), args.Error(1)
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string, topK int) (*domain.RetrieveResult, error) {
	args := m.Called(ctx, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetrieveResult), args.Error(1)
}

func (m *MockRetriever) StoreType() string {
	return m.Called().String(0)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, keyword, analysisText, groundingText string) (domain.StructuredReport, error) {
	args := m.Called(ctx, keyword, analysisText, groundingText)
	return args.Get(0).(domain.StructuredReport), args.Error(1)
}

func (m *MockGenerator) AnalyzeGaps(ctx context.Context, keyword, analysisText, groundingText string) ([]domain.GapItem, error) {
	args := m.Called(ctx, keyword, analysisText, groundingText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GapItem), args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Enqueue(report domain.ArchivedReport) {
	m.Called(report)
}

type fixedUUIDGen struct {
	value string
}

func (g *fixedUUIDGen) NewString() string {
	return g.value
}

func retrievalWithDocs() *domain.RetrieveResult {
	return &domain.RetrieveResult{
		Docs: []domain.RetrievedDocument{
			{Content: "pgvector stores embeddings in postgres", Chapter: "Chapter 2", Score: 0.812, Source: "corpus"},
		},
		Skipped:   []domain.RetrievedDocument{},
		Threshold: 0.65,
	}
}

func TestGenerateReport_Success(t *testing.T) {
	retr := new(MockRetriever)
	gen := new(MockGenerator)
	arch := new(MockArchiver)

	report := domain.StructuredReport{Title: "vector databases report"}

	retr.On("Retrieve", mock.Anything, "vector databases", 5).Return(retrievalWithDocs(), nil)
	gen.On("Generate", mock.Anything, "vector databases", mock.Anything, mock.MatchedBy(func(grounding string) bool {
		return strings.Contains(grounding, "pgvector stores embeddings in postgres")
	})).Return(report, nil)
	arch.On("Enqueue", mock.MatchedBy(func(r domain.ArchivedReport) bool {
		return r.ID == "report-1" && r.Keyword == "vector databases" && r.Report.Title == report.Title
	})).Return()

	svc := NewReportService(retr, gen, arch)
	svc.uuidGen = &fixedUUIDGen{value: "report-1"}
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	archived, err := svc.GenerateReport(context.Background(), GenerateReportInput{
		Keyword: "vector databases",
		TopK:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, "report-1", archived.ID)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), archived.CreatedAt)

	retr.AssertExpectations(t)
	gen.AssertExpectations(t)
	arch.AssertExpectations(t)
}

func TestGenerateReport_RetrievalFailureIsNotFatal(t *testing.T) {
	retr := new(MockRetriever)
	gen := new(MockGenerator)

	retr.On("Retrieve", mock.Anything, "solar panels", mock.Anything).Return(nil, domain.ErrNotInitialized)
	gen.On("Generate", mock.Anything, "solar panels", mock.Anything, generator.NoGroundingMarker).
		Return(domain.StructuredReport{Title: "solar panels"}, nil)

	svc := NewReportService(retr, gen, nil)

	archived, err := svc.GenerateReport(context.Background(), GenerateReportInput{Keyword: "solar panels"})
	require.NoError(t, err)
	assert.Equal(t, "solar panels", archived.Report.Title)
	gen.AssertExpectations(t)
}

func TestGenerateReport_EmptyRetrievalUsesNoGroundingMarker(t *testing.T) {
	retr := new(MockRetriever)
	gen := new(MockGenerator)

	empty := &domain.RetrieveResult{Docs: []domain.RetrievedDocument{}, Threshold: 0.65}
	retr.On("Retrieve", mock.Anything, "quantum computing", mock.Anything).Return(empty, nil)
	gen.On("Generate", mock.Anything, "quantum computing", mock.Anything, generator.NoGroundingMarker).
		Return(domain.StructuredReport{}, nil)

	svc := NewReportService(retr, gen, nil)

	_, err := svc.GenerateReport(context.Background(), GenerateReportInput{Keyword: "quantum computing"})
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestGenerateReport_GeneratorErrorPropagates(t *testing.T) {
	retr := new(MockRetriever)
	gen := new(MockGenerator)
	arch := new(MockArchiver)

	retr.On("Retrieve", mock.Anything, mock.Anything, mock.Anything).Return(retrievalWithDocs(), nil)
	genErr := domain.NewDomainError(domain.ErrCodeExhausted, "every model candidate failed")
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.StructuredReport{}, genErr)

	svc := NewReportService(retr, gen, arch)

	_, err := svc.GenerateReport(context.Background(), GenerateReportInput{Keyword: "crm software"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, genErr) || err.Error() == genErr.Error())
	arch.AssertNotCalled(t, "Enqueue", mock.Anything)
}

func TestAnalyzeGaps_Success(t *testing.T) {
	retr := new(MockRetriever)
	gen := new(MockGenerator)

	gaps := []domain.GapItem{{Topic: "pricing comparison", Angle: "cost breakdown", Rationale: "no competitor covers pricing"}}
	retr.On("Retrieve", mock.Anything, "crm software", mock.Anything).Return(retrievalWithDocs(), nil)
	gen.On("AnalyzeGaps", mock.Anything, "crm software", mock.Anything, mock.Anything).Return(gaps, nil)

	svc := NewReportService(retr, gen, nil)

	got, err := svc.AnalyzeGaps(context.Background(), GenerateReportInput{
		Keyword:         "crm software",
		CompetitorTexts: []string{"# CRM Guide\nCRM software helps sales teams track deals."},
	})
	require.NoError(t, err)
	assert.Equal(t, gaps, got)
}

func TestIngestCorpus_Delegates(t *testing.T) {
	retr := new(MockRetriever)
	gen := new(MockGenerator)

	result := &domain.InitializeResult{ChunksStored: 7, StoreType: "local"}
	retr.On("Initialize", mock.Anything, "corpus text").Return(result, nil)

	svc := NewReportService(retr, gen, nil)

	got, err := svc.IngestCorpus(context.Background(), "corpus text")
	require.NoError(t, err)
	assert.Equal(t, 7, got.ChunksStored)
	assert.Equal(t, "local", got.StoreType)
}

func TestRetrieve_DelegatesError(t *testing.T) {
	retr := new(MockRetriever)
	gen := new(MockGenerator)

	retr.On("Retrieve", mock.Anything, "anything", 3).Return(nil, domain.ErrNotInitialized)

	svc := NewReportService(retr, gen, nil)

	_, err := svc.Retrieve(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}
