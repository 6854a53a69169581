// Package cli implements the reportforged subcommands.
package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/clearsight-ai/reportforge/internal/archive"
	"github.com/clearsight-ai/reportforge/internal/config"
	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/clearsight-ai/reportforge/internal/generator"
	"github.com/clearsight-ai/reportforge/internal/jobs"
	"github.com/clearsight-ai/reportforge/internal/openai"
	"github.com/clearsight-ai/reportforge/internal/retriever"
	"github.com/clearsight-ai/reportforge/internal/service"
	"github.com/clearsight-ai/reportforge/internal/vectorindex"
)

// App bundles the wired service graph shared by every subcommand.
type App struct {
	Config  *config.Config
	Service *service.ReportService
	Archive *archive.S3Archive
	Worker  *jobs.ArchiveWorker
}

// BuildApp loads configuration and wires the retrieval and generation stack.
// The archive is optional; everything else is required.
func BuildApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOpenAI() {
		return nil, domain.ErrMissingOpenAIKey
	}

	client := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	retr := retriever.New(client, func(ctx context.Context) vectorindex.Index {
		return vectorindex.New(ctx, vectorindex.FactoryConfig{
			DatabaseURL: cfg.DatabaseURL,
			Table:       cfg.VectorTable,
			Dimensions:  cfg.EmbeddingDimensions,
		})
	})

	gen := generator.New(client)

	app := &App{Config: cfg}

	var archiver service.ReportArchiver
	if cfg.HasS3() {
		s3Archive, err := archive.NewS3Archive(ctx, archive.S3ArchiveConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create archive client: %w", err)
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure archive bucket: %w", err)
		}
		log.Printf("archive bucket '%s' ready", cfg.S3Bucket)

		app.Archive = s3Archive
		app.Worker = jobs.NewArchiveWorker(s3Archive)
		archiver = app.Worker
	}

	app.Service = service.NewReportService(retr, gen, archiver)
	return app, nil
}
