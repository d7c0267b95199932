package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// ApplicationStore is the persistence surface ApplicationService needs.
// ApplicationRepo satisfies it.
type ApplicationStore interface {
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByEmail(ctx context.Context, email string) (*model.Application, error)
	ListWithOptions(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error)
	Count(ctx context.Context, opts model.ApplicationsListOptions) (int64, error)
	Update(ctx context.Context, id string, req model.UpdateApplicationRequest) (*model.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
	ChecklistProgress(ctx context.Context, applicationID string) ([]model.ChecklistItem, error)
	SetChecklistItem(ctx context.Context, applicationID, optionID string, done bool) error
}

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Apps      ApplicationStore
	Documents DocumentStore
	Payments  PaymentStore
	Mailer    ports.Mailer
	Logger    *slog.Logger
}

// ApplicationService orchestrates the application pipeline: registration,
// staff updates, and the applicant-facing status overview.
type ApplicationService struct {
	apps      ApplicationStore
	documents DocumentStore
	payments  PaymentStore
	mailer    ports.Mailer
	logger    *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		apps:      opts.Apps,
		documents: opts.Documents,
		payments:  opts.Payments,
		mailer:    opts.Mailer,
		logger:    logger.With("component", "applications"),
	}
}

// Register creates an application and sends the welcome mail. Mail delivery
// is best-effort; the application exists either way.
func (s *ApplicationService) Register(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	app, err := s.apps.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		msg := ports.MailMessage{
			To:      app.Email,
			Subject: "Your application has been received",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour %s application is registered. Sign in with your email to follow its progress.\n",
				app.FirstName, app.VisaType),
		}
		if mailErr := s.mailer.Send(ctx, msg); mailErr != nil {
			s.logger.WarnContext(ctx, "welcome mail failed", "application_id", app.ID, "err", mailErr)
		}
	}
	return app, nil
}

// GetByID retrieves an application by ID.
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return s.apps.GetByID(ctx, id)
}

// ApplicationsPage is one page of applications with the unpaged total.
type ApplicationsPage struct {
	Items []*model.Application `json:"items"`
	Total int64                `json:"total"`
}

// List returns a page of applications matching the options.
func (s *ApplicationService) List(ctx context.Context, opts model.ApplicationsListOptions) (*ApplicationsPage, error) {
	opts = normalizeApplicationListOptions(opts)

	items, err := s.apps.ListWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.apps.Count(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ApplicationsPage{Items: items, Total: total}, nil
}

// Update applies a partial update to an application.
func (s *ApplicationService) Update(ctx context.Context, id string, req model.UpdateApplicationRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.apps.Update(ctx, id, req)
}

// Delete removes an application. Documents cascade in the database; stored
// files are left to the document service's own cleanup.
func (s *ApplicationService) Delete(ctx context.Context, id string) (bool, error) {
	return s.apps.Delete(ctx, id)
}

// StatusOverview is the applicant-facing progress view: the application row
// plus its checklist documents and payment lines.
type StatusOverview struct {
	Application *model.Application `json:"application"`
	Documents   []*model.Document  `json:"documents"`
	Payments    []*model.Payment   `json:"payments"`
}

// StatusOverview assembles the progress view for one application.
func (s *ApplicationService) StatusOverview(ctx context.Context, id string) (*StatusOverview, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	overview := &StatusOverview{Application: app}
	if s.documents != nil {
		docs, docErr := s.documents.ListByApplication(ctx, id)
		if docErr != nil {
			return nil, fmt.Errorf("list documents: %w", docErr)
		}
		overview.Documents = docs
	}
	if s.payments != nil {
		pays, payErr := s.payments.ListByApplication(ctx, id)
		if payErr != nil {
			return nil, fmt.Errorf("list payments: %w", payErr)
		}
		overview.Payments = pays
	}
	return overview, nil
}

// StatusCheck is the public progress lookup: the application id together with
// its registered email. A wrong email reads the same as an unknown id so the
// endpoint cannot be used to probe which ids exist.
func (s *ApplicationService) StatusCheck(ctx context.Context, id, email string) (*StatusOverview, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Email != model.NormalizeEmail(email) {
		return nil, apperrors.NotFound("application not found")
	}
	return s.StatusOverview(ctx, id)
}

// Checklist returns the application's checklist with completion state.
func (s *ApplicationService) Checklist(ctx context.Context, id string) ([]model.ChecklistItem, error) {
	if _, err := s.apps.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.apps.ChecklistProgress(ctx, id)
}

// SetChecklistItem toggles one checklist option for an application.
func (s *ApplicationService) SetChecklistItem(ctx context.Context, id, optionID string, done bool) ([]model.ChecklistItem, error) {
	if err := s.apps.SetChecklistItem(ctx, id, optionID, done); err != nil {
		return nil, err
	}
	return s.apps.ChecklistProgress(ctx, id)
}

// AdvanceStep moves an application to the given pipeline step. Steps only
// move forward; staff correct mistakes through a full update.
func (s *ApplicationService) AdvanceStep(ctx context.Context, id string, step int) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if step <= app.CurrentStep {
		return nil, apperrors.Validation("step must advance beyond the current step")
	}
	return s.apps.Update(ctx, id, model.UpdateApplicationRequest{CurrentStep: &step})
}

func normalizeApplicationListOptions(opts model.ApplicationsListOptions) model.ApplicationsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "created_at"
	}
	if opts.Dir == "" {
		opts.Dir = "desc"
	}
	return opts
}
