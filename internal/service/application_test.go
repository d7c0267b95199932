package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// fakeApplicationStore is a test helper with per-method overrides.
type fakeApplicationStore struct {
	createFunc    func(context.Context, *model.CreateApplicationRequest) (*model.Application, error)
	getFunc       func(context.Context, string) (*model.Application, error)
	updateFunc    func(context.Context, string, model.UpdateApplicationRequest) (*model.Application, error)
	listFunc      func(context.Context, model.ApplicationsListOptions) ([]*model.Application, error)
	countFunc     func(context.Context, model.ApplicationsListOptions) (int64, error)
	checklistFunc func(context.Context, string) ([]model.ChecklistItem, error)
	setItemFunc   func(context.Context, string, string, bool) error
}

func (f *fakeApplicationStore) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	return f.createFunc(ctx, req)
}

func (f *fakeApplicationStore) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeApplicationStore) GetByEmail(context.Context, string) (*model.Application, error) {
	return nil, apperrors.NotFound("not implemented")
}

func (f *fakeApplicationStore) ListWithOptions(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error) {
	return f.listFunc(ctx, opts)
}

func (f *fakeApplicationStore) Count(ctx context.Context, opts model.ApplicationsListOptions) (int64, error) {
	return f.countFunc(ctx, opts)
}

func (f *fakeApplicationStore) Update(ctx context.Context, id string, req model.UpdateApplicationRequest) (*model.Application, error) {
	return f.updateFunc(ctx, id, req)
}

func (f *fakeApplicationStore) Delete(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeApplicationStore) ChecklistProgress(ctx context.Context, applicationID string) ([]model.ChecklistItem, error) {
	if f.checklistFunc != nil {
		return f.checklistFunc(ctx, applicationID)
	}
	return nil, nil
}

func (f *fakeApplicationStore) SetChecklistItem(ctx context.Context, applicationID, optionID string, done bool) error {
	if f.setItemFunc != nil {
		return f.setItemFunc(ctx, applicationID, optionID, done)
	}
	return nil
}

// recordingMailer captures sent messages.
type recordingMailer struct {
	sent []ports.MailMessage
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg ports.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func sampleApplication() *model.Application {
	return &model.Application{
		ID:          "app-1",
		Email:       "amara@example.com",
		FirstName:   "Amara",
		LastName:    "Perera",
		VisaType:    "student",
		Status:      model.ApplicationStatusPending,
		CurrentStep: 1,
	}
}

func TestApplicationService_Register_SendsWelcomeMail(t *testing.T) {
	mailer := &recordingMailer{}
	store := &fakeApplicationStore{
		createFunc: func(_ context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
			app := sampleApplication()
			app.Email = req.Email
			return app, nil
		},
	}
	service := NewApplicationService(ApplicationServiceOptions{Apps: store, Mailer: mailer})

	app, err := service.Register(context.Background(), &model.CreateApplicationRequest{
		Email:     "Amara@Example.com ",
		Password:  "hunter2",
		FirstName: "Amara",
		LastName:  "Perera",
		VisaType:  "student",
	})

	require.NoError(t, err)
	assert.Equal(t, "amara@example.com", app.Email)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "amara@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "Amara")
}

func TestApplicationService_Register_MailFailureIsNotFatal(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	store := &fakeApplicationStore{
		createFunc: func(context.Context, *model.CreateApplicationRequest) (*model.Application, error) {
			return sampleApplication(), nil
		},
	}
	service := NewApplicationService(ApplicationServiceOptions{Apps: store, Mailer: mailer})

	_, err := service.Register(context.Background(), &model.CreateApplicationRequest{
		Email:     "amara@example.com",
		Password:  "hunter2",
		FirstName: "Amara",
		VisaType:  "student",
	})

	assert.NoError(t, err)
}

func TestApplicationService_Register_InvalidRequest(t *testing.T) {
	service := NewApplicationService(ApplicationServiceOptions{Apps: &fakeApplicationStore{}})

	_, err := service.Register(context.Background(), &model.CreateApplicationRequest{
		Email: "not-an-email",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestApplicationService_List_NormalizesOptions(t *testing.T) {
	var seen model.ApplicationsListOptions
	store := &fakeApplicationStore{
		listFunc: func(_ context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error) {
			seen = opts
			return []*model.Application{sampleApplication()}, nil
		},
		countFunc: func(context.Context, model.ApplicationsListOptions) (int64, error) {
			return 1, nil
		},
	}
	service := NewApplicationService(ApplicationServiceOptions{Apps: store})

	page, err := service.List(context.Background(), model.ApplicationsListOptions{Offset: -5})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 50, seen.Limit)
	assert.Equal(t, 0, seen.Offset)
	assert.Equal(t, "created_at", seen.Sort)
	assert.Equal(t, "desc", seen.Dir)
}

func TestApplicationService_StatusOverview(t *testing.T) {
	store := &fakeApplicationStore{
		getFunc: func(context.Context, string) (*model.Application, error) {
			return sampleApplication(), nil
		},
	}
	docs := &fakeDocumentStore{
		listByAppFunc: func(context.Context, string) ([]*model.Document, error) {
			return []*model.Document{{ID: "doc-1", Status: model.DocumentStatusRequested}}, nil
		},
	}
	pays := &fakePaymentStore{
		listByAppFunc: func(context.Context, string) ([]*model.Payment, error) {
			return []*model.Payment{{ID: "pay-1", Status: model.PaymentStatusPending}}, nil
		},
	}
	service := NewApplicationService(ApplicationServiceOptions{Apps: store, Documents: docs, Payments: pays})

	overview, err := service.StatusOverview(context.Background(), "app-1")

	require.NoError(t, err)
	assert.Equal(t, "app-1", overview.Application.ID)
	assert.Len(t, overview.Documents, 1)
	assert.Len(t, overview.Payments, 1)
}

func TestApplicationService_StatusCheck_WrongEmailLooksLikeMissing(t *testing.T) {
	store := &fakeApplicationStore{
		getFunc: func(context.Context, string) (*model.Application, error) {
			return sampleApplication(), nil
		},
	}
	docs := &fakeDocumentStore{
		listByAppFunc: func(context.Context, string) ([]*model.Document, error) {
			return nil, nil
		},
	}
	pays := &fakePaymentStore{
		listByAppFunc: func(context.Context, string) ([]*model.Payment, error) {
			return nil, nil
		},
	}
	service := NewApplicationService(ApplicationServiceOptions{Apps: store, Documents: docs, Payments: pays})
	ctx := context.Background()

	overview, err := service.StatusCheck(ctx, "app-1", " Amara@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "app-1", overview.Application.ID)

	_, err = service.StatusCheck(ctx, "app-1", "someone-else@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestApplicationService_SetChecklistItem_ReturnsFreshProgress(t *testing.T) {
	var gotOption string
	var gotDone bool
	store := &fakeApplicationStore{
		setItemFunc: func(_ context.Context, _ string, optionID string, done bool) error {
			gotOption = optionID
			gotDone = done
			return nil
		},
		checklistFunc: func(context.Context, string) ([]model.ChecklistItem, error) {
			return []model.ChecklistItem{{OptionID: "opt-1", Label: "Passport copy", Done: true}}, nil
		},
	}
	service := NewApplicationService(ApplicationServiceOptions{Apps: store})

	items, err := service.SetChecklistItem(context.Background(), "app-1", "opt-1", true)

	require.NoError(t, err)
	assert.Equal(t, "opt-1", gotOption)
	assert.True(t, gotDone)
	require.Len(t, items, 1)
	assert.True(t, items[0].Done)
}

func TestApplicationService_AdvanceStep_OnlyForward(t *testing.T) {
	store := &fakeApplicationStore{
		getFunc: func(context.Context, string) (*model.Application, error) {
			return sampleApplication(), nil // CurrentStep 1
		},
		updateFunc: func(_ context.Context, _ string, req model.UpdateApplicationRequest) (*model.Application, error) {
			app := sampleApplication()
			app.CurrentStep = *req.CurrentStep
			return app, nil
		},
	}
	service := NewApplicationService(ApplicationServiceOptions{Apps: store})
	ctx := context.Background()

	app, err := service.AdvanceStep(ctx, "app-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, app.CurrentStep)

	_, err = service.AdvanceStep(ctx, "app-1", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
