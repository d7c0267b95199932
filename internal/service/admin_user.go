package service

import (
	"context"
	"log/slog"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// AdminUserStore is the persistence surface AdminUserService needs.
// AdminUserRepo satisfies it.
type AdminUserStore interface {
	Create(ctx context.Context, req *model.CreateAdminUserRequest) (*model.AdminUser, error)
	GetByID(ctx context.Context, id string) (*model.AdminUser, error)
	List(ctx context.Context, limit, offset int) ([]*model.AdminUser, error)
	Update(ctx context.Context, id string, req model.UpdateAdminUserRequest) (*model.AdminUser, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AdminUserServiceOptions groups dependencies for AdminUserService.
type AdminUserServiceOptions struct {
	Accounts AdminUserStore
	Logger   *slog.Logger
}

// AdminUserService manages staff accounts. It backs the admin-management
// surface, which only manager roles can reach.
type AdminUserService struct {
	accounts AdminUserStore
	logger   *slog.Logger
}

// NewAdminUserService constructs a new AdminUserService.
func NewAdminUserService(opts AdminUserServiceOptions) *AdminUserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminUserService{
		accounts: opts.Accounts,
		logger:   logger.With("component", "admin_users"),
	}
}

// Create adds a staff account.
func (s *AdminUserService) Create(ctx context.Context, req *model.CreateAdminUserRequest) (*model.AdminUser, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	account, err := s.accounts.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "staff account created", "admin_id", account.ID, "role", account.Role)
	return account, nil
}

// GetByID retrieves a staff account by ID.
func (s *AdminUserService) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return s.accounts.GetByID(ctx, id)
}

// List returns a page of staff accounts.
func (s *AdminUserService) List(ctx context.Context, limit, offset int) ([]*model.AdminUser, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.accounts.List(ctx, limit, offset)
}

// Update applies a partial update to a staff account. ActorID guards against
// an admin deactivating or demoting their own account.
func (s *AdminUserService) Update(ctx context.Context, actorID, id string, req model.UpdateAdminUserRequest) (*model.AdminUser, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if actorID == id {
		if req.Active != nil && !*req.Active {
			return nil, apperrors.Validation("cannot deactivate your own account")
		}
		if req.Role != nil {
			return nil, apperrors.Validation("cannot change your own role")
		}
	}
	return s.accounts.Update(ctx, id, req)
}

// Delete removes a staff account. Admins cannot delete themselves.
func (s *AdminUserService) Delete(ctx context.Context, actorID, id string) (bool, error) {
	if actorID == id {
		return false, apperrors.Validation("cannot delete your own account")
	}
	return s.accounts.Delete(ctx, id)
}
