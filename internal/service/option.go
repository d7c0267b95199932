package service

import (
	"context"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// OptionStore is the persistence surface OptionService needs.
// OptionRepo satisfies it.
type OptionStore interface {
	Create(ctx context.Context, req *model.CreateChecklistOptionRequest) (*model.ChecklistOption, error)
	GetByID(ctx context.Context, id string) (*model.ChecklistOption, error)
	List(ctx context.Context, activeOnly bool) ([]*model.ChecklistOption, error)
	Update(ctx context.Context, id string, req model.UpdateChecklistOptionRequest) (*model.ChecklistOption, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// OptionServiceOptions groups dependencies for OptionService.
type OptionServiceOptions struct {
	Options OptionStore
}

// OptionService manages the admin-curated checklist catalog.
type OptionService struct {
	options OptionStore
}

// NewOptionService constructs a new OptionService.
func NewOptionService(opts OptionServiceOptions) *OptionService {
	return &OptionService{options: opts.Options}
}

// Create adds a checklist option.
func (s *OptionService) Create(ctx context.Context, req *model.CreateChecklistOptionRequest) (*model.ChecklistOption, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.options.Create(ctx, req)
}

// GetByID retrieves a checklist option by ID.
func (s *OptionService) GetByID(ctx context.Context, id string) (*model.ChecklistOption, error) {
	return s.options.GetByID(ctx, id)
}

// List returns checklist options, optionally only active ones.
func (s *OptionService) List(ctx context.Context, activeOnly bool) ([]*model.ChecklistOption, error) {
	return s.options.List(ctx, activeOnly)
}

// Update applies a partial update to a checklist option.
func (s *OptionService) Update(ctx context.Context, id string, req model.UpdateChecklistOptionRequest) (*model.ChecklistOption, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.options.Update(ctx, id, req)
}

// Deactivate hides an option from new applications without removing it.
func (s *OptionService) Deactivate(ctx context.Context, id string) (*model.ChecklistOption, error) {
	active := false
	return s.options.Update(ctx, id, model.UpdateChecklistOptionRequest{Active: &active})
}

// Delete removes a checklist option.
func (s *OptionService) Delete(ctx context.Context, id string) (bool, error) {
	return s.options.Delete(ctx, id)
}
