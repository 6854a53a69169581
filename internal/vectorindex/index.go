// Package vectorindex stores (id, vector, payload) records and answers
// cosine-similarity queries. Two interchangeable variants exist: a durable
// index on Postgres+pgvector and an ephemeral in-process index.
package vectorindex

import (
	"context"
	"hash/fnv"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

// Index variant names, reported back to callers via Kind().
const (
	KindLocal    = "local"
	KindPgvector = "pgvector"
)

// VectorRecord is one stored entry. Upsert is idempotent by ID: the last
// write for an ID wins.
type VectorRecord struct {
	ID      string
	Vector  []float32
	Payload domain.TextChunk
}

// SearchResult is one ranked candidate from a similarity query.
type SearchResult struct {
	Chunk domain.TextChunk
	Score float64
}

// Index is the storage capability the retriever depends on.
type Index interface {
	Upsert(ctx context.Context, rec VectorRecord) error
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
	Kind() string
}

// pointID maps an external string id to a stable numeric key via FNV-1a.
// The durable index uses it as the primary key, which makes upserts
// idempotent across runs.
func pointID(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}
