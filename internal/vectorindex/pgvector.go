package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

// DefaultTable is the collection name used when none is configured.
const DefaultTable = "corpus_chunks"

// PgvectorIndex is the durable index variant, backed by Postgres with the
// pgvector extension. The table is the collection: it is created on open,
// and dropped and recreated if its declared vector dimension no longer
// matches the configured one.
type PgvectorIndex struct {
	pool       *pgxpool.Pool
	table      string
	dimensions int
}

// PgvectorConfig holds connection settings for the durable index.
type PgvectorConfig struct {
	DatabaseURL string
	Table       string
	Dimensions  int
}

// OpenPgvector connects, verifies the pgvector extension and ensures the
// collection table exists with the configured dimension. A dimension
// mismatch against an existing table is resolved destructively.
func OpenPgvector(ctx context.Context, cfg PgvectorConfig) (*PgvectorIndex, error) {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", cfg.Dimensions)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	idx := &PgvectorIndex{pool: pool, table: cfg.Table, dimensions: cfg.Dimensions}
	if err := idx.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (p *PgvectorIndex) Kind() string { return KindPgvector }

// Close releases the connection pool.
func (p *PgvectorIndex) Close() {
	p.pool.Close()
}

func (p *PgvectorIndex) ensureTable(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	dims, err := p.declaredDimensions(ctx)
	if err != nil {
		return err
	}
	if dims > 0 && dims != p.dimensions {
		log.Printf("vector table %s has dimension %d, expected %d: dropping and recreating", p.table, dims, p.dimensions)
		if _, err := p.pool.Exec(ctx, fmt.Sprintf(`DROP TABLE %s`, p.table)); err != nil {
			return fmt.Errorf("failed to drop mismatched table: %w", err)
		}
	}

	_, err = p.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGINT PRIMARY KEY,
			chunk_id TEXT NOT NULL,
			content TEXT NOT NULL,
			source TEXT NOT NULL,
			chapter TEXT NOT NULL,
			chunk_index INT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, p.table, p.dimensions))
	if err != nil {
		return fmt.Errorf("failed to create vector table: %w", err)
	}
	return nil
}

// declaredDimensions reads the vector column's typmod from the catalog.
// Returns 0 when the table does not exist yet.
func (p *PgvectorIndex) declaredDimensions(ctx context.Context) (int, error) {
	var dims int
	err := p.pool.QueryRow(ctx, `
		SELECT a.atttypmod
		FROM pg_attribute a
		JOIN pg_class c ON a.attrelid = c.oid
		WHERE c.relname = $1 AND a.attname = 'embedding'`,
		p.table,
	).Scan(&dims)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to inspect vector table: %w", err)
	}
	return dims, nil
}

// Upsert writes the record under its hashed numeric key; a second write for
// the same id replaces the first.
func (p *PgvectorIndex) Upsert(ctx context.Context, rec VectorRecord) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, chunk_id, content, source, chapter, chunk_index, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			chunk_id = EXCLUDED.chunk_id,
			content = EXCLUDED.content,
			source = EXCLUDED.source,
			chapter = EXCLUDED.chapter,
			chunk_index = EXCLUDED.chunk_index,
			embedding = EXCLUDED.embedding`, p.table),
		pointID(rec.ID),
		rec.ID,
		rec.Payload.Content,
		rec.Payload.Source,
		rec.Payload.Chapter,
		rec.Payload.Index,
		pgvector.NewVector(rec.Vector),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vector record: %w", err)
	}
	return nil
}

// Search returns up to topK candidates ranked by cosine similarity,
// highest first. pgvector's <=> operator is cosine distance, so the score
// is 1 - distance.
func (p *PgvectorIndex) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
		SELECT chunk_id, content, source, chapter, chunk_index,
			1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`, p.table),
		pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var chunk domain.TextChunk
		var score float64
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Source, &chunk.Chapter, &chunk.Index, &score); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		results = append(results, SearchResult{Chunk: chunk, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return results, nil
}

func (p *PgvectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, p.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vector records: %w", err)
	}
	return count, nil
}
