package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxUniversityNameLen = 255

// University is a catalog entry shown on the public site and attached to
// applications by staff.
type University struct {
	ID        string    `json:"id"                   db:"id"`
	Name      string    `json:"name"                 db:"name"`
	Country   string    `json:"country"              db:"country"`
	City      *string   `json:"city,omitempty"       db:"city"`
	Ranking   *int      `json:"ranking,omitempty"    db:"ranking"`
	Programs  []string  `json:"programs"             db:"programs"`
	LogoPath  *string   `json:"logo_path,omitempty"  db:"logo_path"`
	Published bool      `json:"published"            db:"published"`
	CreatedAt time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"           db:"updated_at"`
}

// UniversitiesListOptions controls paging and filtering for the catalog.
// Q matches name via ILIKE substring; Country and Published match exactly.
// Sort supports "name", "ranking", "created_at".
type UniversitiesListOptions struct {
	Limit     int
	Offset    int
	Q         *string
	Country   *string
	Published *bool
	Sort      string
	Dir       string
}

// CreateUniversityRequest represents parameters to create a University.
type CreateUniversityRequest struct {
	Name      string   `json:"name"`
	Country   string   `json:"country"`
	City      *string  `json:"city,omitempty"`
	Ranking   *int     `json:"ranking,omitempty"`
	Programs  []string `json:"programs,omitempty"`
	LogoPath  *string  `json:"logo_path,omitempty"`
	Published *bool    `json:"published,omitempty"`
}

// UpdateUniversityRequest represents parameters to update a University.
type UpdateUniversityRequest struct {
	Name      *string   `json:"name,omitempty"`
	Country   *string   `json:"country,omitempty"`
	City      *string   `json:"city,omitempty"`
	Ranking   *int      `json:"ranking,omitempty"`
	Programs  *[]string `json:"programs,omitempty"`
	LogoPath  *string   `json:"logo_path,omitempty"`
	Published *bool     `json:"published,omitempty"`
}

// Validate validates CreateUniversityRequest.
func (r *CreateUniversityRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxUniversityNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Country) == "" {
		return errors.New("country is required")
	}
	if r.Ranking != nil && *r.Ranking < 1 {
		return errors.New("ranking must be >= 1")
	}
	return nil
}

// Validate validates UpdateUniversityRequest.
func (r *UpdateUniversityRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Country != nil && strings.TrimSpace(*r.Country) == "" {
		return errors.New("country cannot be empty")
	}
	if r.Ranking != nil && *r.Ranking < 1 {
		return errors.New("ranking must be >= 1")
	}
	return nil
}
