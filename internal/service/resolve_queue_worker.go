package service

import (
	"context"
	"log"
	"sync"
	"time"

	"actas/internal/port"
)

// ResolveQueueConfig holds settings for the resolve queue worker.
type ResolveQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// ResolveQueueWorker polls for queued documents and dispatches them for
// resolution.
type ResolveQueueWorker struct {
	docRepo    port.DocumentRepository
	docService DocumentService
	cfg        ResolveQueueConfig
	wg         sync.WaitGroup
}

// NewResolveQueueWorker creates a new ResolveQueueWorker.
func NewResolveQueueWorker(docRepo port.DocumentRepository, docService DocumentService, cfg ResolveQueueConfig) *ResolveQueueWorker {
	return &ResolveQueueWorker{
		docRepo:    docRepo,
		docService: docService,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight resolutions have finished.
func (w *ResolveQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("resolveQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("resolveQueueWorker: shutting down, waiting for in-flight resolutions...")
			w.wg.Wait()
			log.Printf("resolveQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll, exit gracefully
					continue
				}
				log.Printf("resolveQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range docs {
				doc := docs[i] // copy for goroutine
				doc.ResolveAttempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight resolutions complete even during shutdown.
					resolveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("resolveQueueWorker: dispatching document %s (attempt %d)", doc.ID, doc.ResolveAttempts)
					w.docService.ResolveDocument(resolveCtx, &doc, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
