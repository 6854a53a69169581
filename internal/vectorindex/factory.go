package vectorindex

import (
	"context"
	"log"
)

// FactoryConfig selects and configures the index variant.
type FactoryConfig struct {
	// DatabaseURL enables the durable pgvector variant when non-empty.
	DatabaseURL string
	Table       string
	Dimensions  int
}

// New builds a vector index. When database credentials are configured it
// attempts the durable variant; any initialization failure is logged and
// degraded to the ephemeral local index. Construction never fails for
// connectivity reasons.
func New(ctx context.Context, cfg FactoryConfig) Index {
	if cfg.DatabaseURL == "" {
		log.Println("no database configured, using local vector index")
		return NewLocalIndex()
	}

	idx, err := OpenPgvector(ctx, PgvectorConfig{
		DatabaseURL: cfg.DatabaseURL,
		Table:       cfg.Table,
		Dimensions:  cfg.Dimensions,
	})
	if err != nil {
		log.Printf("durable vector index unavailable, degrading to local index: %v", err)
		return NewLocalIndex()
	}

	log.Printf("durable vector index ready (table %s, dimension %d)", idx.table, idx.dimensions)
	return idx
}
