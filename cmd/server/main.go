package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"actas/internal/config"
	"actas/internal/handler"
	"actas/internal/metrics"
	"actas/internal/pipeline"
	"actas/internal/port"
	"actas/internal/repository/postgres"
	"actas/internal/router"
	"actas/internal/service"
	s3storage "actas/internal/storage/s3"
	"actas/internal/validator/noop"
	"actas/internal/validator/openai"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	resultRepo := postgres.NewResolutionResultRepo(db)

	// Initialize storage (optional; artifact upload is skipped without a bucket)
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		storage = s3Client
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize the batch validator. Without an API key, escalated fields
	// stay unresolved instead of failing the pipeline.
	var validator port.BatchValidator
	if cfg.Validator.APIKey != "" {
		validator = openai.NewValidator(&cfg.Validator)
	} else {
		log.Printf("server: no validator API key configured, escalation disabled")
		validator = noop.NewValidator()
	}
	validator = metrics.InstrumentValidator(validator, m)

	resolver := pipeline.New(validator, cfg.Resolver.AcceptanceThreshold)

	// Initialize services
	docSvc := service.NewDocumentService(docRepo, resultRepo, resolver, storage, &cfg.S3, m)

	// Initialize handlers
	documentH := handler.NewDocumentHandler(docSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(documentH, healthH, m, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the resolve queue worker
	worker := service.NewResolveQueueWorker(docRepo, docSvc, service.ResolveQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	log.Printf("Server stopped")

	return nil
}
