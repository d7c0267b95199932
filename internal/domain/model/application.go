//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNameLen  = 120
	maxEmailLen = 255
)

// ApplicationStatus tracks where an application sits in the pipeline.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusInReview ApplicationStatus = "in_review"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether the application status is supported.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusInReview, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// ParseApplicationStatus normalizes a status string and reports whether it is supported.
func ParseApplicationStatus(value string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Application is an applicant's visa/university application record. The email
// and password columns double as the client portal credential pair.
type Application struct {
	ID            string            `json:"id"                       db:"id"`
	Email         string            `json:"email"                    db:"email"`
	Password      string            `json:"-"                        db:"password"`
	FirstName     string            `json:"first_name"               db:"first_name"`
	LastName      string            `json:"last_name"                db:"last_name"`
	Phone         *string           `json:"phone,omitempty"          db:"phone"`
	Country       *string           `json:"country,omitempty"        db:"country"`
	VisaType      string            `json:"visa_type"                db:"visa_type"`
	Status        ApplicationStatus `json:"status"                   db:"status"`
	CurrentStep   int               `json:"current_step"             db:"current_step"`
	UniversityID  *string           `json:"university_id,omitempty"  db:"university_id"`
	AssignedAdmin *string           `json:"assigned_admin,omitempty" db:"assigned_admin"`
	CreatedAt     time.Time         `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"               db:"updated_at"`
}

// ApplicationsListOptions controls paging and filtering for listing applications.
// Sort supports "created_at", "email", "status"; Dir supports "asc"/"desc".
// Q matches email, first_name and last_name via ILIKE substring.
type ApplicationsListOptions struct {
	Limit         int
	Offset        int
	Q             *string
	Status        *ApplicationStatus
	VisaType      *string
	AssignedAdmin *string
	Sort          string
	Dir           string
}

// CreateApplicationRequest represents parameters to create an Application.
type CreateApplicationRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        *string `json:"phone,omitempty"`
	Country      *string `json:"country,omitempty"`
	VisaType     string  `json:"visa_type"`
	UniversityID *string `json:"university_id,omitempty"`
}

// UpdateApplicationRequest represents parameters to update an Application.
// Nil fields are left unchanged.
type UpdateApplicationRequest struct {
	Email         *string            `json:"email,omitempty"`
	Password      *string            `json:"password,omitempty"`
	FirstName     *string            `json:"first_name,omitempty"`
	LastName      *string            `json:"last_name,omitempty"`
	Phone         *string            `json:"phone,omitempty"`
	Country       *string            `json:"country,omitempty"`
	VisaType      *string            `json:"visa_type,omitempty"`
	Status        *ApplicationStatus `json:"status,omitempty"`
	CurrentStep   *int               `json:"current_step,omitempty"`
	UniversityID  *string            `json:"university_id,omitempty"`
	AssignedAdmin *string            `json:"assigned_admin,omitempty"`
}

// NormalizeEmail trims surrounding whitespace and lowercases an email address
// so lookups behave case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates CreateApplicationRequest.
func (r *CreateApplicationRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return errors.New("email is required")
	}
	if utf8.RuneCountInString(r.Email) > maxEmailLen || !strings.Contains(r.Email, "@") {
		return errors.New("email is not valid")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if utf8.RuneCountInString(r.FirstName) > maxNameLen || utf8.RuneCountInString(r.LastName) > maxNameLen {
		return errors.New("name cannot exceed 120 characters")
	}
	if strings.TrimSpace(r.VisaType) == "" {
		return errors.New("visa_type is required")
	}
	return nil
}

// Validate validates UpdateApplicationRequest.
func (r *UpdateApplicationRequest) Validate() error {
	if r.Email != nil {
		normalized := NormalizeEmail(*r.Email)
		if normalized == "" || !strings.Contains(normalized, "@") {
			return errors.New("email is not valid")
		}
		r.Email = &normalized
	}
	if r.Password != nil && *r.Password == "" {
		return errors.New("password cannot be empty")
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("status is not valid")
	}
	if r.CurrentStep != nil && *r.CurrentStep < 0 {
		return errors.New("current_step must be >= 0")
	}
	return nil
}
