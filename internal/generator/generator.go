// Package generator drives structured report generation through an ordered
// list of model candidates, recovering malformed responses via the repair
// chain.
package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/clearsight-ai/reportforge/internal/openai"
	"github.com/clearsight-ai/reportforge/internal/repair"
)

// DefaultCandidates lists model candidates in priority order, most preferred
// first.
var DefaultCandidates = []string{"gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"}

const (
	defaultTemperature = 0.4
	defaultTopP        = 0.9
	defaultMaxTokens   = 2048
)

// CompletionClient runs one model call.
type CompletionClient interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

// Generator holds the candidate list and the completion client. Candidates
// are attempted strictly sequentially: a credential failure must be able to
// short-circuit the remaining ones.
type Generator struct {
	client     CompletionClient
	candidates []string
	now        func() time.Time
}

func New(client CompletionClient) *Generator {
	return &Generator{
		client:     client,
		candidates: DefaultCandidates,
		now:        time.Now,
	}
}

// NewWithCandidates overrides the candidate list, primarily for tests.
func NewWithCandidates(client CompletionClient, candidates []string) *Generator {
	g := New(client)
	if len(candidates) > 0 {
		g.candidates = candidates
	}
	return g
}

// outcomeKind classifies one candidate attempt.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRetryable
	outcomeFatal
)

type attemptOutcome struct {
	kind outcomeKind
	raw  string
	err  error
}

// Generate builds the grounded prompt and walks the candidate list. Parse
// problems never surface as errors: any successful call is terminal and the
// repair chain guarantees a well-formed report. Credential failures abort
// the loop; exhaustion aggregates every per-candidate failure.
func (g *Generator) Generate(ctx context.Context, keyword, analysisText, groundingText string) (domain.StructuredReport, error) {
	if strings.TrimSpace(keyword) == "" {
		return domain.StructuredReport{}, domain.ErrEmptyKeyword
	}

	prompt := buildReportPrompt(g.now(), keyword, analysisText, groundingText)
	raw, err := g.complete(ctx, prompt)
	if err != nil {
		return domain.StructuredReport{}, err
	}
	return repair.Report(raw, keyword), nil
}

// AnalyzeGaps runs the list-shaped generation surface through the same
// candidate loop.
func (g *Generator) AnalyzeGaps(ctx context.Context, keyword, analysisText, groundingText string) ([]domain.GapItem, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, domain.ErrEmptyKeyword
	}

	prompt := buildGapPrompt(g.now(), keyword, analysisText, groundingText)
	raw, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return repair.Gaps(raw), nil
}

// complete walks the candidate queue until one attempt succeeds, a fatal
// outcome aborts the loop, or the queue is exhausted.
func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	var failures []string
	for _, model := range g.candidates {
		outcome := g.attempt(ctx, model, prompt)
		switch outcome.kind {
		case outcomeSuccess:
			return outcome.raw, nil
		case outcomeFatal:
			return "", domain.NewDomainErrorWithCause(domain.ErrCodeConfiguration,
				"generation credentials were rejected", outcome.err)
		case outcomeRetryable:
			log.Printf("model %s failed, advancing to next candidate: %v", model, outcome.err)
			failures = append(failures, fmt.Sprintf("%s: %v", model, outcome.err))
		}
	}

	return "", domain.NewDomainError(domain.ErrCodeExhausted,
		fmt.Sprintf("every model candidate failed: %s", strings.Join(failures, "; ")))
}

func (g *Generator) attempt(ctx context.Context, model, prompt string) attemptOutcome {
	raw, err := g.client.Complete(ctx, openai.CompletionRequest{
		Model:       model,
		Prompt:      prompt,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		MaxTokens:   defaultMaxTokens,
		JSONMode:    true,
	})
	if err == nil {
		return attemptOutcome{kind: outcomeSuccess, raw: raw}
	}
	if openai.Classify(err) == openai.ErrorClassCredential {
		return attemptOutcome{kind: outcomeFatal, err: err}
	}
	return attemptOutcome{kind: outcomeRetryable, err: err}
}
