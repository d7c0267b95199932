package model

import (
	"errors"
	"strings"
	"time"
)

// PaymentStatus tracks the lifecycle of a payment row.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid reports whether the payment status is supported.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// Payment is a fee attached to an application. Amounts are stored in cents
// to avoid floating point drift.
type Payment struct {
	ID            string        `json:"id"                 db:"id"`
	ApplicationID string        `json:"application_id"     db:"application_id"`
	AmountCents   int64         `json:"amount_cents"       db:"amount_cents"`
	Currency      string        `json:"currency"           db:"currency"`
	Purpose       string        `json:"purpose"            db:"purpose"`
	Status        PaymentStatus `json:"status"             db:"status"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"  db:"paid_at"`
	CreatedAt     time.Time     `json:"created_at"         db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"         db:"updated_at"`
}

// CreatePaymentRequest represents parameters to create a Payment.
type CreatePaymentRequest struct {
	ApplicationID string `json:"application_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	Purpose       string `json:"purpose"`
}

// UpdatePaymentRequest represents parameters to update a Payment.
// Marking a payment paid stamps PaidAt in the repository.
type UpdatePaymentRequest struct {
	AmountCents *int64         `json:"amount_cents,omitempty"`
	Currency    *string        `json:"currency,omitempty"`
	Purpose     *string        `json:"purpose,omitempty"`
	Status      *PaymentStatus `json:"status,omitempty"`
}

// Validate validates CreatePaymentRequest.
func (r *CreatePaymentRequest) Validate() error {
	if strings.TrimSpace(r.ApplicationID) == "" {
		return errors.New("application_id is required")
	}
	if r.AmountCents <= 0 {
		return errors.New("amount_cents must be > 0")
	}
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if len(r.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	if strings.TrimSpace(r.Purpose) == "" {
		return errors.New("purpose is required")
	}
	return nil
}

// Validate validates UpdatePaymentRequest.
func (r *UpdatePaymentRequest) Validate() error {
	if r.AmountCents != nil && *r.AmountCents <= 0 {
		return errors.New("amount_cents must be > 0")
	}
	if r.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*r.Currency))
		if len(c) != 3 {
			return errors.New("currency must be a 3-letter code")
		}
		r.Currency = &c
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("status is not valid")
	}
	return nil
}
