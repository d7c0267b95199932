package model

import (
	"errors"
	"strings"
	"time"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
)

// AdminUser is a staff account for the admin-auth service. PasswordHash is a
// bcrypt hash and never leaves the data layer in API payloads.
type AdminUser struct {
	ID           string         `json:"id"                   db:"id"`
	Email        string         `json:"email"                db:"email"`
	PasswordHash string         `json:"-"                    db:"password_hash"`
	FirstName    string         `json:"first_name"           db:"first_name"`
	LastName     string         `json:"last_name"            db:"last_name"`
	Role         auth.AdminRole `json:"role"                 db:"role"`
	Department   *string        `json:"department,omitempty" db:"department"`
	Active       bool           `json:"active"               db:"active"`
	CreatedAt    time.Time      `json:"created_at"           db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"           db:"updated_at"`
}

// Profile projects the account into the domain profile used by identity
// resolution and navigation.
func (u *AdminUser) Profile() auth.AdminProfile {
	p := auth.AdminProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      auth.NormalizeAdminRole(string(u.Role)),
	}
	if u.Department != nil {
		p.Department = *u.Department
	}
	return p
}

// CreateAdminUserRequest represents parameters to create an AdminUser.
// Password is hashed by the service before it reaches the repository.
type CreateAdminUserRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
}

// UpdateAdminUserRequest represents parameters to update an AdminUser.
type UpdateAdminUserRequest struct {
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

// validAdminRole reports whether a role string normalizes to a known role.
func validAdminRole(v string) bool {
	switch auth.NormalizeAdminRole(v) {
	case auth.RoleStaff, auth.RoleAdmin, auth.RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// Validate validates CreateAdminUserRequest.
func (r *CreateAdminUserRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("email is not valid")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if !validAdminRole(r.Role) {
		return errors.New("role must be one of staff, admin, super_admin")
	}
	return nil
}

// Validate validates UpdateAdminUserRequest.
func (r *UpdateAdminUserRequest) Validate() error {
	if r.Email != nil {
		normalized := NormalizeEmail(*r.Email)
		if normalized == "" || !strings.Contains(normalized, "@") {
			return errors.New("email is not valid")
		}
		r.Email = &normalized
	}
	if r.Password != nil && len(*r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.Role != nil && !validAdminRole(*r.Role) {
		return errors.New("role must be one of staff, admin, super_admin")
	}
	return nil
}
