package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

const documentBucket = "documents"

// DocumentStore is the persistence surface DocumentService needs.
// DocumentRepo satisfies it.
type DocumentStore interface {
	Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error)
	GetByID(ctx context.Context, id string) (*model.Document, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*model.Document, error)
	Update(ctx context.Context, id string, req model.UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DocumentServiceOptions groups dependencies for DocumentService.
type DocumentServiceOptions struct {
	Docs   DocumentStore
	Files  ports.FileStore
	Logger *slog.Logger
}

// DocumentService manages the per-application document checklist and the
// stored files behind it.
type DocumentService struct {
	docs   DocumentStore
	files  ports.FileStore
	logger *slog.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(opts DocumentServiceOptions) *DocumentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		docs:   opts.Docs,
		files:  opts.Files,
		logger: logger.With("component", "documents"),
	}
}

// Request adds a checklist row in the requested state.
func (s *DocumentService) Request(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.docs.Create(ctx, req)
}

// GetByID retrieves a document row by ID.
func (s *DocumentService) GetByID(ctx context.Context, id string) (*model.Document, error) {
	return s.docs.GetByID(ctx, id)
}

// ListByApplication returns all checklist rows for an application.
func (s *DocumentService) ListByApplication(ctx context.Context, applicationID string) ([]*model.Document, error) {
	return s.docs.ListByApplication(ctx, applicationID)
}

// Upload stores a file for a checklist row and flips it to uploaded.
// Re-uploading replaces the stored object under a new key; the previous one
// is removed best-effort.
func (s *DocumentService) Upload(ctx context.Context, id, filename string, content io.Reader) (*model.Document, error) {
	filename = sanitizeFilename(filename)
	if filename == "" {
		return nil, apperrors.Validation("filename is required")
	}

	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := doc.ID + "/" + filename
	storagePath, err := s.files.Put(ctx, documentBucket, key, content)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	status := model.DocumentStatusUploaded
	updated, err := s.docs.Update(ctx, id, model.UpdateDocumentRequest{
		Status:      &status,
		StoragePath: &storagePath,
	})
	if err != nil {
		// The row did not flip; drop the orphaned object.
		if delErr := s.files.Delete(ctx, documentBucket, key); delErr != nil {
			s.logger.WarnContext(ctx, "orphaned upload cleanup failed", "key", key, "err", delErr)
		}
		return nil, err
	}

	if doc.StoragePath != nil && *doc.StoragePath != storagePath {
		if delErr := s.files.Delete(ctx, documentBucket, storageKey(*doc.StoragePath)); delErr != nil {
			s.logger.WarnContext(ctx, "previous upload cleanup failed", "err", delErr)
		}
	}
	return updated, nil
}

// Review approves or rejects an uploaded document, with an optional note for
// the applicant.
func (s *DocumentService) Review(ctx context.Context, id string, approve bool, note *string) (*model.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentStatusUploaded {
		return nil, apperrors.Validation("only uploaded documents can be reviewed")
	}

	status := model.DocumentStatusRejected
	if approve {
		status = model.DocumentStatusApproved
	}
	return s.docs.Update(ctx, id, model.UpdateDocumentRequest{
		Status: &status,
		Note:   note,
	})
}

// Open returns a reader for the stored file of a document row.
func (s *DocumentService) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.StoragePath == nil {
		return nil, apperrors.NotFound("no file uploaded for this document")
	}
	return s.files.Open(ctx, documentBucket, storageKey(*doc.StoragePath))
}

// Delete removes a document row and its stored file, if any.
func (s *DocumentService) Delete(ctx context.Context, id string) (bool, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	ok, err := s.docs.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	if doc.StoragePath != nil {
		if delErr := s.files.Delete(ctx, documentBucket, storageKey(*doc.StoragePath)); delErr != nil {
			s.logger.WarnContext(ctx, "stored file cleanup failed", "document_id", id, "err", delErr)
		}
	}
	return true, nil
}

// sanitizeFilename keeps only the base name so client input cannot steer the
// storage key.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// storageKey strips the bucket prefix a FileStore put into the storage path.
func storageKey(storagePath string) string {
	return strings.TrimPrefix(strings.TrimPrefix(storagePath, documentBucket+"/"), "/")
}
