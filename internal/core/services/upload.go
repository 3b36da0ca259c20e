package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
	"github.com/docuverse/docuverse/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.Uploader = (*UploadService)(nil)

// DefaultMaxFileSize caps uploads at 20 MiB.
const DefaultMaxFileSize = 20 << 20

// UploadService accepts raw files, persists them under the session's
// upload directory, records them in the store and hands them to the
// indexer. Record, disk and index are kept consistent: a failure at any
// step rolls back the previous ones.
type UploadService struct {
	store       driven.ConversationStore
	indexer     driving.Indexer
	query       driving.Query
	uploadDir   string
	maxFileSize int64
}

// NewUploadService creates a new upload service. maxFileSize <= 0
// falls back to DefaultMaxFileSize.
func NewUploadService(
	store driven.ConversationStore,
	indexer driving.Indexer,
	query driving.Query,
	uploadDir string,
	maxFileSize int64,
) *UploadService {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &UploadService{
		store:       store,
		indexer:     indexer,
		query:       query,
		uploadDir:   uploadDir,
		maxFileSize: maxFileSize,
	}
}

// Upload stores one file for a session and indexes it.
func (u *UploadService) Upload(
	ctx context.Context, sessionID, filename string, content []byte,
) (*domain.Document, error) {
	doc, _, err := u.uploadOne(ctx, sessionID, filename, content)
	return doc, err
}

// uploadOne runs the full upload pipeline for a single file and
// reports the indexed segment count alongside the document.
func (u *UploadService) uploadOne(
	ctx context.Context, sessionID, filename string, content []byte,
) (*domain.Document, int, error) {
	logger.Section("Upload")
	logger.Debug("Session %s: %s (%d bytes)", sessionID, filename, len(content))

	doc, err := u.prepare(ctx, sessionID, filename, content)
	if err != nil {
		return nil, 0, err
	}

	if err := u.store.AddFile(ctx, doc); err != nil {
		return nil, 0, err
	}

	if err := u.writeFile(doc.Path, content); err != nil {
		u.rollbackRecord(ctx, sessionID, doc.ID)
		return nil, 0, fmt.Errorf("writing %s: %w", doc.Path, err)
	}

	raw := domain.RawFile{
		SessionID: sessionID,
		Filename:  doc.Filename,
		Format:    doc.Format,
		Content:   content,
	}
	result, err := u.indexer.AddDocuments(ctx, sessionID, []domain.RawFile{raw})
	if err != nil {
		u.rollbackFile(ctx, sessionID, doc)
		return nil, 0, err
	}
	if indexErr := result.Statuses[0].Err; indexErr != nil {
		u.rollbackFile(ctx, sessionID, doc)
		return nil, 0, indexErr
	}

	segments := result.Statuses[0].Segments
	u.query.Invalidate(sessionID)
	logger.Info("Uploaded %s: %d segment(s)", doc.Filename, segments)
	return doc, segments, nil
}

// UploadBatch stores and indexes several files. Per-file failures are
// reported in the result; only a context cancellation aborts the batch.
func (u *UploadService) UploadBatch(
	ctx context.Context, sessionID string, files []domain.RawFile,
) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		Statuses: make([]domain.DocumentStatus, 0, len(files)),
	}

	for _, raw := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		status := domain.DocumentStatus{Filename: raw.Filename}
		doc, segments, err := u.uploadOne(ctx, sessionID, raw.Filename, raw.Content)
		if err != nil {
			status.Err = err
		} else {
			status.DocumentID = doc.ID
			status.Segments = segments
		}
		result.Statuses = append(result.Statuses, status)
	}
	return result, nil
}

// Remove deletes a document: its store record, its segments in the
// index and its file on disk.
func (u *UploadService) Remove(ctx context.Context, sessionID, documentID string) error {
	docs, err := u.store.Files(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("listing session files: %w", err)
	}

	var path string
	found := false
	for _, doc := range docs {
		if doc.ID == documentID {
			path = doc.Path
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
	}

	if err := u.store.RemoveFile(ctx, sessionID, documentID); err != nil {
		return err
	}
	if err := u.indexer.RemoveDocument(ctx, sessionID, documentID); err != nil {
		return err
	}
	if path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Could not remove %s: %v", path, err)
		}
	}

	u.query.Invalidate(sessionID)
	logger.Info("Removed document %s from session %s", documentID, sessionID)
	return nil
}

// prepare validates the upload and builds its document record.
func (u *UploadService) prepare(
	ctx context.Context, sessionID, filename string, content []byte,
) (*domain.Document, error) {
	if int64(len(content)) > u.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)",
			domain.ErrTooLarge, filename, len(content), u.maxFileSize)
	}

	format, ok := domain.SniffFormat(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(filename))
	}

	if _, err := u.store.GetConversation(ctx, sessionID); err != nil {
		return nil, err
	}

	base := filepath.Base(filename)
	return &domain.Document{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Filename:   base,
		Path:       filepath.Join(u.uploadDir, sessionID, base),
		Format:     format,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// writeFile persists uploaded content under the session directory.
func (u *UploadService) writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// rollbackRecord undoes the store record after a later step failed.
func (u *UploadService) rollbackRecord(ctx context.Context, sessionID, documentID string) {
	if err := u.store.RemoveFile(ctx, sessionID, documentID); err != nil {
		logger.Warn("Rollback of record %s failed: %v", documentID, err)
	}
}

// rollbackFile undoes both the store record and the written file.
func (u *UploadService) rollbackFile(ctx context.Context, sessionID string, doc *domain.Document) {
	u.rollbackRecord(ctx, sessionID, doc.ID)
	if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Rollback of file %s failed: %v", doc.Path, err)
	}
}

// isNotFound reports whether err is the not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
