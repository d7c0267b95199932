package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

const universityLogoBucket = "university-logos"

// UniversityStore is the persistence surface UniversityService needs.
// UniversityRepo satisfies it.
type UniversityStore interface {
	Create(ctx context.Context, req *model.CreateUniversityRequest) (*model.University, error)
	GetByID(ctx context.Context, id string) (*model.University, error)
	ListWithOptions(ctx context.Context, opts model.UniversitiesListOptions) ([]*model.University, error)
	Update(ctx context.Context, id string, req model.UpdateUniversityRequest) (*model.University, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UniversityServiceOptions groups dependencies for UniversityService.
type UniversityServiceOptions struct {
	Universities UniversityStore
	Files        ports.FileStore
	Logger       *slog.Logger
}

// UniversityService manages the university catalog.
type UniversityService struct {
	universities UniversityStore
	files        ports.FileStore
	logger       *slog.Logger
}

// NewUniversityService constructs a new UniversityService.
func NewUniversityService(opts UniversityServiceOptions) *UniversityService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UniversityService{
		universities: opts.Universities,
		files:        opts.Files,
		logger:       logger.With("component", "universities"),
	}
}

// Create adds a catalog entry.
func (s *UniversityService) Create(ctx context.Context, req *model.CreateUniversityRequest) (*model.University, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.universities.Create(ctx, req)
}

// GetByID retrieves a university by ID.
func (s *UniversityService) GetByID(ctx context.Context, id string) (*model.University, error) {
	return s.universities.GetByID(ctx, id)
}

// List returns catalog entries matching the options. PublicOnly forces the
// published filter for unauthenticated callers regardless of what they asked.
func (s *UniversityService) List(ctx context.Context, opts model.UniversitiesListOptions, publicOnly bool) ([]*model.University, error) {
	opts = normalizeUniversityListOptions(opts)
	if publicOnly {
		published := true
		opts.Published = &published
	}
	return s.universities.ListWithOptions(ctx, opts)
}

// Update applies a partial update to a catalog entry.
func (s *UniversityService) Update(ctx context.Context, id string, req model.UpdateUniversityRequest) (*model.University, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.universities.Update(ctx, id, req)
}

// Delete removes a catalog entry.
func (s *UniversityService) Delete(ctx context.Context, id string) (bool, error) {
	return s.universities.Delete(ctx, id)
}

// UploadLogo stores a logo image and records its path on the entry.
func (s *UniversityService) UploadLogo(ctx context.Context, id, filename string, content io.Reader) (*model.University, error) {
	filename = sanitizeFilename(filename)
	if filename == "" {
		return nil, apperrors.Validation("filename is required")
	}
	if _, err := s.universities.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key := id + "/" + filename
	logoPath, err := s.files.Put(ctx, universityLogoBucket, key, content)
	if err != nil {
		return nil, fmt.Errorf("store logo: %w", err)
	}
	return s.universities.Update(ctx, id, model.UpdateUniversityRequest{LogoPath: &logoPath})
}

func normalizeUniversityListOptions(opts model.UniversitiesListOptions) model.UniversitiesListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "name"
	}
	if opts.Dir == "" {
		opts.Dir = "asc"
	}
	return opts
}
