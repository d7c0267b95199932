package model

import (
	"errors"
	"strings"
	"time"
)

// DocumentStatus tracks the upload/review state of a document row.
type DocumentStatus string

const (
	DocumentStatusRequested DocumentStatus = "requested"
	DocumentStatusUploaded  DocumentStatus = "uploaded"
	DocumentStatusApproved  DocumentStatus = "approved"
	DocumentStatusRejected  DocumentStatus = "rejected"
)

// Valid reports whether the document status is supported.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusRequested, DocumentStatusUploaded, DocumentStatusApproved, DocumentStatusRejected:
		return true
	default:
		return false
	}
}

// Document is a single required or uploaded file attached to an application.
// StoragePath points into the file store; it is nil until an upload lands.
type Document struct {
	ID            string         `json:"id"                      db:"id"`
	ApplicationID string         `json:"application_id"          db:"application_id"`
	Name          string         `json:"name"                    db:"name"`
	Category      string         `json:"category"                db:"category"`
	Status        DocumentStatus `json:"status"                  db:"status"`
	StoragePath   *string        `json:"storage_path,omitempty"  db:"storage_path"`
	Note          *string        `json:"note,omitempty"          db:"note"`
	CreatedAt     time.Time      `json:"created_at"              db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"              db:"updated_at"`
}

// CreateDocumentRequest represents parameters to create a Document row.
type CreateDocumentRequest struct {
	ApplicationID string  `json:"application_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Note          *string `json:"note,omitempty"`
}

// UpdateDocumentRequest represents parameters to update a Document row.
type UpdateDocumentRequest struct {
	Name        *string         `json:"name,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Status      *DocumentStatus `json:"status,omitempty"`
	StoragePath *string         `json:"storage_path,omitempty"`
	Note        *string         `json:"note,omitempty"`
}

// Validate validates CreateDocumentRequest.
func (r *CreateDocumentRequest) Validate() error {
	if strings.TrimSpace(r.ApplicationID) == "" {
		return errors.New("application_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
	}
	return nil
}

// Validate validates UpdateDocumentRequest.
func (r *UpdateDocumentRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("status is not valid")
	}
	return nil
}
