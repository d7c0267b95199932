package service

import (
	"context"
	"log/slog"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// PaymentStore is the persistence surface PaymentService needs.
// PaymentRepo satisfies it.
type PaymentStore interface {
	Create(ctx context.Context, req *model.CreatePaymentRequest) (*model.Payment, error)
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*model.Payment, error)
	Update(ctx context.Context, id string, req model.UpdatePaymentRequest) (*model.Payment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PaymentServiceOptions groups dependencies for PaymentService.
type PaymentServiceOptions struct {
	Payments PaymentStore
	Logger   *slog.Logger
}

// PaymentService manages fee lines on applications. Money never moves here;
// staff record externally settled payments.
type PaymentService struct {
	payments PaymentStore
	logger   *slog.Logger
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{
		payments: opts.Payments,
		logger:   logger.With("component", "payments"),
	}
}

// Create adds a pending fee line to an application.
func (s *PaymentService) Create(ctx context.Context, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.payments.Create(ctx, req)
}

// GetByID retrieves a payment by ID.
func (s *PaymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// ListByApplication returns all fee lines for an application.
func (s *PaymentService) ListByApplication(ctx context.Context, applicationID string) ([]*model.Payment, error) {
	return s.payments.ListByApplication(ctx, applicationID)
}

// Update applies a partial update to a payment.
func (s *PaymentService) Update(ctx context.Context, id string, req model.UpdatePaymentRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.payments.Update(ctx, id, req)
}

// MarkPaid records a pending payment as settled. The repository stamps the
// paid_at time.
func (s *PaymentService) MarkPaid(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusPending {
		return nil, apperrors.Validation("only pending payments can be marked paid")
	}

	status := model.PaymentStatusPaid
	updated, err := s.payments.Update(ctx, id, model.UpdatePaymentRequest{Status: &status})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "payment settled",
		"payment_id", id,
		"application_id", updated.ApplicationID,
		"amount_cents", updated.AmountCents,
		"currency", updated.Currency)
	return updated, nil
}

// Refund flips a paid payment to refunded.
func (s *PaymentService) Refund(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusPaid {
		return nil, apperrors.Validation("only paid payments can be refunded")
	}

	status := model.PaymentStatusRefunded
	return s.payments.Update(ctx, id, model.UpdatePaymentRequest{Status: &status})
}

// Delete removes a fee line.
func (s *PaymentService) Delete(ctx context.Context, id string) (bool, error) {
	return s.payments.Delete(ctx, id)
}
