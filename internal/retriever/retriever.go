// Package retriever owns one-time corpus ingestion and per-query similarity
// search with threshold gating.
package retriever

import (
	"context"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/clearsight-ai/reportforge/internal/chunker"
	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/clearsight-ai/reportforge/internal/vectorindex"
)

const (
	// SimilarityThreshold gates retrieval candidates: only scores at or
	// above it are used as grounding.
	SimilarityThreshold = 0.65
	// DefaultTopK is the candidate count when the caller passes 0.
	DefaultTopK = 5

	corpusSource = "corpus"
)

// EmbeddingClient maps text to a fixed-dimension vector.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IndexFactory builds the vector index at ingestion time. Injected so tests
// can supply a local index directly.
type IndexFactory func(ctx context.Context) vectorindex.Index

// Retriever holds the singleton vector index and the one-shot initialization
// state. Safe for concurrent callers.
type Retriever struct {
	embedding EmbeddingClient
	newIndex  IndexFactory
	chunkCfg  chunker.Config

	mu          sync.RWMutex
	index       vectorindex.Index
	initialized bool
	lastResult  domain.InitializeResult
}

func New(embedding EmbeddingClient, newIndex IndexFactory) *Retriever {
	return &Retriever{
		embedding: embedding,
		newIndex:  newIndex,
		chunkCfg:  chunker.DefaultConfig(),
	}
}

// Initialize chunks the corpus, embeds every chunk sequentially and upserts
// the results into a freshly selected index. Repeat calls are no-ops that
// return the first run's result. Per-chunk embedding failures are logged and
// skipped; the run fails only when no chunk could be stored.
func (r *Retriever) Initialize(ctx context.Context, corpusText string) (*domain.InitializeResult, error) {
	if strings.TrimSpace(corpusText) == "" {
		return nil, domain.ErrEmptyCorpus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		result := r.lastResult
		return &result, nil
	}

	index := r.newIndex(ctx)
	chunks := chunker.Split(corpusText, corpusSource, r.chunkCfg)

	stored := 0
	for _, chunk := range chunks {
		vector, err := r.embedding.GenerateEmbedding(ctx, chunk.Content)
		if err != nil {
			log.Printf("embedding failed for chunk %s, skipping: %v", chunk.ID, err)
			continue
		}
		rec := vectorindex.VectorRecord{ID: chunk.ID, Vector: vector, Payload: chunk}
		if err := index.Upsert(ctx, rec); err != nil {
			log.Printf("upsert failed for chunk %s, skipping: %v", chunk.ID, err)
			continue
		}
		stored++
	}

	if stored == 0 {
		return nil, domain.ErrAllChunksFailed
	}

	r.index = index
	r.initialized = true
	r.lastResult = domain.InitializeResult{ChunksStored: stored, StoreType: index.Kind()}
	log.Printf("corpus ingested: %d/%d chunks stored in %s index", stored, len(chunks), index.Kind())

	result := r.lastResult
	return &result, nil
}

// Retrieve embeds the query, searches the index for topK candidates and
// partitions them at the similarity threshold. An empty Docs list is a valid
// outcome: the query is simply unrelated to the corpus.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*domain.RetrieveResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	r.mu.RLock()
	index := r.index
	initialized := r.initialized
	stored := r.lastResult.ChunksStored
	r.mu.RUnlock()

	if !initialized {
		return nil, domain.ErrNotInitialized
	}
	if stored == 0 {
		return nil, domain.ErrEmptyIndex
	}

	vector, err := r.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to embed query", err)
	}

	candidates, err := index.Search(ctx, vector, topK)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "vector search failed", err)
	}

	result := &domain.RetrieveResult{
		Docs:      []domain.RetrievedDocument{},
		Skipped:   []domain.RetrievedDocument{},
		Threshold: SimilarityThreshold,
	}
	for _, c := range candidates {
		doc := domain.RetrievedDocument{
			Content: c.Chunk.Content,
			Chapter: c.Chunk.Chapter,
			Score:   c.Score,
			Source:  c.Chunk.Source,
		}
		if c.Score >= SimilarityThreshold {
			doc.Score = round3(c.Score)
			result.Docs = append(result.Docs, doc)
		} else {
			result.Skipped = append(result.Skipped, doc)
		}
	}
	return result, nil
}

// StoreType reports which index variant ingestion selected, or "" before
// initialization.
func (r *Retriever) StoreType() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.initialized {
		return ""
	}
	return r.lastResult.StoreType
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
