package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"
)

// LocalIndex is an in-process brute-force cosine index. It is the degrade
// target when the durable index is unreachable, and the default when no
// database is configured.
type LocalIndex struct {
	mu      sync.RWMutex
	records map[string]VectorRecord
}

func NewLocalIndex() *LocalIndex {
	return &LocalIndex{records: make(map[string]VectorRecord)}
}

func (l *LocalIndex) Kind() string { return KindLocal }

// Upsert stores the record, overwriting any previous entry with the same id.
func (l *LocalIndex) Upsert(ctx context.Context, rec VectorRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[rec.ID] = rec
	return nil
}

// Search scores every stored record against the query vector and returns the
// top topK by descending cosine similarity.
func (l *LocalIndex) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	results := make([]SearchResult, 0, len(l.records))
	for _, rec := range l.records {
		results = append(results, SearchResult{
			Chunk: rec.Payload,
			Score: cosineSimilarity(vector, rec.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (l *LocalIndex) Count(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records), nil
}

// cosineSimilarity is the normalized dot product of a and b. Mismatched
// dimensions or a zero-norm vector yield 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
