package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clearsight-ai/reportforge/internal/api/handlers"
	"github.com/clearsight-ai/reportforge/internal/server"
	"github.com/clearsight-ai/reportforge/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the reportforge API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	app, err := BuildApp(ctx)
	if err != nil {
		return err
	}

	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" && portFlag != "8080" {
		app.Config.Port = portFlag
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	if app.Worker != nil {
		go app.Worker.Start(workerCtx)
	}

	if app.Config.CorpusPath != "" {
		text, err := os.ReadFile(app.Config.CorpusPath)
		if err != nil {
			log.Printf("could not read corpus at %s, skipping startup ingestion: %v", app.Config.CorpusPath, err)
		} else if result, err := app.Service.IngestCorpus(ctx, string(text)); err != nil {
			log.Printf("startup ingestion failed, corpus must be ingested over the API: %v", err)
		} else {
			log.Printf("corpus ingested at startup: %d chunks in %s index", result.ChunksStored, result.StoreType)
		}
	}

	var archiveReader handlers.ArchiveReader
	if app.Archive != nil {
		archiveReader = app.Archive
	}

	router := server.NewRouter(server.RouterConfig{
		APIToken:      app.Config.APIToken,
		CorpusHandler: handlers.NewCorpusHandler(app.Service),
		ReportHandler: handlers.NewReportHandler(app.Service, archiveReader),
		Store:         app.Service,
	})

	srv := &http.Server{
		Addr:    ":" + app.Config.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", app.Config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if app.Worker != nil {
		app.Worker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
