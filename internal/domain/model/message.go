package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxMessageBodyLen = 10000

// Message is a contact/consultation message from the public site or from an
// applicant inside the portal. ApplicationID is nil for anonymous contacts.
type Message struct {
	ID            string    `json:"id"                       db:"id"`
	ApplicationID *string   `json:"application_id,omitempty" db:"application_id"`
	Name          string    `json:"name"                     db:"name"`
	Email         string    `json:"email"                    db:"email"`
	Subject       string    `json:"subject"                  db:"subject"`
	Body          string    `json:"body"                     db:"body"`
	Handled       bool      `json:"handled"                  db:"handled"`
	CreatedAt     time.Time `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"               db:"updated_at"`
}

// CreateMessageRequest represents parameters to create a Message.
type CreateMessageRequest struct {
	ApplicationID *string `json:"application_id,omitempty"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Subject       string  `json:"subject"`
	Body          string  `json:"body"`
}

// Validate validates CreateMessageRequest.
func (r *CreateMessageRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("email is not valid")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return errors.New("subject is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("body is required")
	}
	if utf8.RuneCountInString(r.Body) > maxMessageBodyLen {
		return errors.New("body cannot exceed 10000 characters")
	}
	return nil
}
