package model

import (
	"errors"
	"strings"
	"time"
)

// ChecklistOption is an admin-managed checklist item offered to applicants
// (e.g. "Passport copy", "Bank statement"). Inactive options stay on existing
// applications but are hidden from new ones.
type ChecklistOption struct {
	ID        string    `json:"id"         db:"id"`
	Label     string    `json:"label"      db:"label"`
	Category  string    `json:"category"   db:"category"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	Active    bool      `json:"active"     db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChecklistItem is one option on an application's checklist together with its
// completion state for that application.
type ChecklistItem struct {
	OptionID  string `json:"option_id"  db:"option_id"`
	Label     string `json:"label"      db:"label"`
	Category  string `json:"category"   db:"category"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
	Done      bool   `json:"done"       db:"done"`
}

// CreateChecklistOptionRequest represents parameters to create a ChecklistOption.
type CreateChecklistOptionRequest struct {
	Label     string `json:"label"`
	Category  string `json:"category"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active,omitempty"`
}

// UpdateChecklistOptionRequest represents parameters to update a ChecklistOption.
type UpdateChecklistOptionRequest struct {
	Label     *string `json:"label,omitempty"`
	Category  *string `json:"category,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// Validate validates CreateChecklistOptionRequest.
func (r *CreateChecklistOptionRequest) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("label is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
	}
	if r.SortOrder < 0 {
		return errors.New("sort_order must be >= 0")
	}
	return nil
}

// Validate validates UpdateChecklistOptionRequest.
func (r *UpdateChecklistOptionRequest) Validate() error {
	if r.Label != nil && strings.TrimSpace(*r.Label) == "" {
		return errors.New("label cannot be empty")
	}
	if r.SortOrder != nil && *r.SortOrder < 0 {
		return errors.New("sort_order must be >= 0")
	}
	return nil
}
