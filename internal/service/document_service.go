package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"actas/internal/config"
	"actas/internal/domain"
	"actas/internal/export"
	"actas/internal/metrics"
	"actas/internal/pipeline"
	"actas/internal/port"
)

// SubmitDocumentInput is the DTO for submitting an extracted acta for
// resolution.
type SubmitDocumentInput struct {
	Name       string
	Candidates []domain.RawFieldCandidate
}

// DocumentService defines the document resolution contract.
type DocumentService interface {
	Submit(ctx context.Context, input *SubmitDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	Results(ctx context.Context, docID uuid.UUID) ([]domain.ResolutionResult, error)
	Export(ctx context.Context, docID uuid.UUID, format domain.ExportFormat) ([]byte, string, string, error)
	// ArtifactURL returns a presigned download link for a stored export
	// artifact. Only available when object storage is configured.
	ArtifactURL(ctx context.Context, docID uuid.UUID, format domain.ExportFormat) (string, error)
	// ResolveDocument runs the pipeline for a claimed document and records
	// the outcome. Called by the queue worker; never returns an error,
	// failures are persisted on the document row.
	ResolveDocument(ctx context.Context, doc *domain.Document, maxAttempts int)
}

type documentService struct {
	docRepo    port.DocumentRepository
	resultRepo port.ResolutionResultRepository
	resolver   *pipeline.Resolver
	storage    port.ObjectStorage // nil disables artifact upload
	s3cfg      *config.S3Config
	metrics    *metrics.Metrics // nil disables instrumentation
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	resultRepo port.ResolutionResultRepository,
	resolver *pipeline.Resolver,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
	m *metrics.Metrics,
) DocumentService {
	return &documentService{
		docRepo:    docRepo,
		resultRepo: resultRepo,
		resolver:   resolver,
		storage:    storage,
		s3cfg:      s3cfg,
		metrics:    m,
	}
}

func (s *documentService) Submit(ctx context.Context, input *SubmitDocumentInput) (*domain.Document, error) {
	if len(input.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no field candidates", domain.ErrInvalidPayload)
	}
	for i := range input.Candidates {
		if input.Candidates[i].FieldID == "" {
			return nil, fmt.Errorf("%w: candidate %d has no field_id", domain.ErrInvalidPayload, i)
		}
	}

	raw, err := json.Marshal(input.Candidates)
	if err != nil {
		return nil, fmt.Errorf("marshaling candidates: %w", err)
	}

	doc := &domain.Document{
		ID:         uuid.New(),
		Name:       input.Name,
		Status:     domain.DocumentStatusQueued,
		Candidates: raw,
		FieldCount: len(input.Candidates),
	}
	if doc.Name == "" {
		doc.Name = doc.ID.String()
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.List(ctx, offset, limit)
}

func (s *documentService) Results(ctx context.Context, docID uuid.UUID) ([]domain.ResolutionResult, error) {
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	return s.resultRepo.ListByDocument(ctx, docID)
}

func (s *documentService) ResolveDocument(ctx context.Context, doc *domain.Document, maxAttempts int) {
	start := time.Now()

	candidates, err := doc.CandidateList()
	if err != nil {
		// Malformed payloads never succeed on retry.
		log.Printf("documentService: document %s has invalid candidates: %v", doc.ID, err)
		s.finishFailed(ctx, doc, fmt.Sprintf("invalid candidates: %v", err))
		return
	}

	results, resolveErr := s.resolver.ResolveDocument(ctx, candidates)
	partial := errors.Is(resolveErr, domain.ErrEscalationFailed)
	if resolveErr != nil && !partial {
		s.retryOrFail(ctx, doc, maxAttempts, resolveErr)
		return
	}

	if err := s.resultRepo.ReplaceForDocument(ctx, doc.ID, results); err != nil {
		s.retryOrFail(ctx, doc, maxAttempts, err)
		return
	}

	doc.FieldCount = len(results)
	doc.EscalatedCount = 0
	doc.UnresolvedCount = 0
	for i := range results {
		if results[i].Origin == domain.OriginExternal {
			doc.EscalatedCount++
		}
		if results[i].Method == domain.MethodUnresolved {
			doc.UnresolvedCount++
		}
	}

	doc.Status = domain.DocumentStatusResolved
	doc.LastError = nil
	if partial {
		doc.Status = domain.DocumentStatusResolvedPartial
		msg := resolveErr.Error()
		doc.LastError = &msg
	}
	now := time.Now().UTC()
	doc.ResolvedAt = &now

	if err := s.docRepo.UpdateOutcome(ctx, doc); err != nil {
		log.Printf("documentService: recording outcome for document %s: %v", doc.ID, err)
		return
	}

	if s.metrics != nil {
		for i := range results {
			s.metrics.ResultsTotal.WithLabelValues(string(results[i].Method), string(results[i].Origin)).Inc()
		}
		s.metrics.DocumentsResolvedTotal.WithLabelValues(string(doc.Status)).Inc()
		s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}

	s.uploadArtifacts(ctx, doc, results)

	log.Printf("documentService: document %s resolved: status=%s, fields=%d, escalated=%d, unresolved=%d",
		doc.ID, doc.Status, doc.FieldCount, doc.EscalatedCount, doc.UnresolvedCount)
}

func (s *documentService) retryOrFail(ctx context.Context, doc *domain.Document, maxAttempts int, cause error) {
	if doc.ResolveAttempts >= maxAttempts {
		s.finishFailed(ctx, doc, cause.Error())
		return
	}
	log.Printf("documentService: document %s attempt %d/%d failed, requeueing: %v",
		doc.ID, doc.ResolveAttempts, maxAttempts, cause)
	if err := s.docRepo.Requeue(ctx, doc.ID, doc.ResolveAttempts, cause.Error()); err != nil {
		log.Printf("documentService: requeueing document %s: %v", doc.ID, err)
	}
}

func (s *documentService) finishFailed(ctx context.Context, doc *domain.Document, lastError string) {
	if err := s.docRepo.MarkFailed(ctx, doc.ID, doc.ResolveAttempts, lastError); err != nil {
		log.Printf("documentService: marking document %s failed: %v", doc.ID, err)
	}
	if s.metrics != nil {
		s.metrics.DocumentsResolvedTotal.WithLabelValues(string(domain.DocumentStatusFailed)).Inc()
	}
}

// uploadArtifacts renders and stores export artifacts. Best effort: a
// storage failure never fails the resolution.
func (s *documentService) uploadArtifacts(ctx context.Context, doc *domain.Document, results []domain.ResolutionResult) {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return
	}
	for _, format := range []domain.ExportFormat{domain.ExportFormatTOON, domain.ExportFormatCSV, domain.ExportFormatXLSX} {
		data, contentType, name, err := renderExport(doc.ID, results, format)
		if err != nil {
			log.Printf("documentService: rendering %s artifact for document %s: %v", format, doc.ID, err)
			continue
		}
		_, err = s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         fmt.Sprintf("exports/%s/%s", doc.ID, name),
			Body:        bytes.NewReader(data),
			ContentType: contentType,
		})
		if err != nil {
			log.Printf("documentService: uploading %s artifact for document %s: %v", format, doc.ID, err)
		}
	}
}

func (s *documentService) Export(ctx context.Context, docID uuid.UUID, format domain.ExportFormat) ([]byte, string, string, error) {
	if !domain.ValidExportFormats[format] {
		return nil, "", "", fmt.Errorf("%w: unknown export format %q", domain.ErrExportFailed, format)
	}
	results, err := s.Results(ctx, docID)
	if err != nil {
		return nil, "", "", err
	}
	return renderExport(docID, results, format)
}

func (s *documentService) ArtifactURL(ctx context.Context, docID uuid.UUID, format domain.ExportFormat) (string, error) {
	if s.storage == nil || s.s3cfg == nil || s.s3cfg.Bucket == "" {
		return "", fmt.Errorf("%w: artifact storage not configured", domain.ErrNotFound)
	}
	if !domain.ValidExportFormats[format] {
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrExportFailed, format)
	}
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("exports/%s/%s", doc.ID, artifactName(doc.ID, format))
	url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, key, s.s3cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning artifact %s: %w", key, err)
	}
	return url, nil
}

func artifactName(docID uuid.UUID, format domain.ExportFormat) string {
	switch format {
	case domain.ExportFormatCSV:
		return docID.String() + ".csv"
	case domain.ExportFormatXLSX:
		return docID.String() + ".xlsx"
	default:
		return docID.String() + ".txt"
	}
}

func renderExport(docID uuid.UUID, results []domain.ResolutionResult, format domain.ExportFormat) ([]byte, string, string, error) {
	switch format {
	case domain.ExportFormatTOON:
		var buf bytes.Buffer
		if err := export.WriteTOON(&buf, results); err != nil {
			return nil, "", "", fmt.Errorf("writing toon: %w", err)
		}
		return buf.Bytes(), "text/plain; charset=utf-8", artifactName(docID, format), nil

	case domain.ExportFormatCSV:
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return nil, "", "", fmt.Errorf("writing csv header: %w", err)
		}
		if err := w.WriteResults(results); err != nil {
			return nil, "", "", fmt.Errorf("writing csv rows: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", "", fmt.Errorf("flushing csv: %w", err)
		}
		return buf.Bytes(), "text/csv; charset=utf-8", artifactName(docID, format), nil

	case domain.ExportFormatXLSX:
		buf, err := export.WriteXLSX(results)
		if err != nil {
			return nil, "", "", fmt.Errorf("writing xlsx: %w", err)
		}
		return buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", artifactName(docID, format), nil
	}
	return nil, "", "", fmt.Errorf("%w: unknown export format %q", domain.ErrExportFailed, format)
}
