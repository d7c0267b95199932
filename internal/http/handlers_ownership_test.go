package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// singleApplicationStore serves exactly one application row.
type singleApplicationStore struct {
	app *model.Application
}

func (s *singleApplicationStore) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	return s.app, nil
}

func (s *singleApplicationStore) GetByID(_ context.Context, id string) (*model.Application, error) {
	if s.app != nil && s.app.ID == id {
		return s.app, nil
	}
	return nil, data.ErrApplicationNotFound
}

func (s *singleApplicationStore) GetByEmail(context.Context, string) (*model.Application, error) {
	return nil, data.ErrApplicationNotFound
}

func (s *singleApplicationStore) ListWithOptions(context.Context, model.ApplicationsListOptions) ([]*model.Application, error) {
	return []*model.Application{s.app}, nil
}

func (s *singleApplicationStore) Count(context.Context, model.ApplicationsListOptions) (int64, error) {
	return 1, nil
}

func (s *singleApplicationStore) Update(context.Context, string, model.UpdateApplicationRequest) (*model.Application, error) {
	return s.app, nil
}

func (s *singleApplicationStore) Delete(context.Context, string) (bool, error) {
	return true, nil
}

func (s *singleApplicationStore) ChecklistProgress(context.Context, string) ([]model.ChecklistItem, error) {
	return nil, nil
}

func (s *singleApplicationStore) SetChecklistItem(context.Context, string, string, bool) error {
	return nil
}

// singleDocumentStore serves exactly one document row.
type singleDocumentStore struct {
	doc *model.Document
}

func (s *singleDocumentStore) Create(context.Context, *model.CreateDocumentRequest) (*model.Document, error) {
	return s.doc, nil
}

func (s *singleDocumentStore) GetByID(_ context.Context, id string) (*model.Document, error) {
	if s.doc != nil && s.doc.ID == id {
		return s.doc, nil
	}
	return nil, data.ErrDocumentNotFound
}

func (s *singleDocumentStore) ListByApplication(context.Context, string) ([]*model.Document, error) {
	return []*model.Document{s.doc}, nil
}

func (s *singleDocumentStore) Update(context.Context, string, model.UpdateDocumentRequest) (*model.Document, error) {
	return s.doc, nil
}

func (s *singleDocumentStore) Delete(context.Context, string) (bool, error) {
	return true, nil
}

func identityRequest(method, target string, identity domainauth.Identity) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(SetIdentityInContext(req.Context(), "device-1", identity))
}

func TestApplicationHandlers_GetByID_ClientScopedToOwnRecord(t *testing.T) {
	store := &singleApplicationStore{app: &model.Application{ID: "app-b", Email: "b@example.com"}}
	handlers := &ApplicationHandlers{Svc: service.NewApplicationService(service.ApplicationServiceOptions{Apps: store})}

	// Another applicant's id answers as missing, not as someone else's data.
	req := identityRequest(http.MethodGet, "/api/applications/app-b", domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-a"}))
	req.SetPathValue("id", "app-b")
	w := httptest.NewRecorder()
	handlers.GetByID(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "application_not_found")
	assert.NotContains(t, w.Body.String(), "b@example.com")

	// The owner reads their own record.
	req = identityRequest(http.MethodGet, "/api/applications/app-b", domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-b"}))
	req.SetPathValue("id", "app-b")
	w = httptest.NewRecorder()
	handlers.GetByID(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "b@example.com")

	// Staff read any record.
	req = identityRequest(http.MethodGet, "/api/applications/app-b", domainauth.AdminIdentity(domainauth.AdminProfile{ID: "adm-1", Role: domainauth.RoleStaff}))
	req.SetPathValue("id", "app-b")
	w = httptest.NewRecorder()
	handlers.GetByID(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApplicationHandlers_Checklist_ClientScopedToOwnRecord(t *testing.T) {
	store := &singleApplicationStore{app: &model.Application{ID: "app-b"}}
	handlers := &ApplicationHandlers{Svc: service.NewApplicationService(service.ApplicationServiceOptions{Apps: store})}

	req := identityRequest(http.MethodGet, "/api/applications/app-b/checklist", domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-a"}))
	req.SetPathValue("id", "app-b")
	w := httptest.NewRecorder()
	handlers.Checklist(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandlers_GetByID_ClientScopedToOwnApplication(t *testing.T) {
	store := &singleDocumentStore{doc: &model.Document{ID: "doc-1", ApplicationID: "app-b", Name: "passport"}}
	handlers := &DocumentHandlers{Svc: service.NewDocumentService(service.DocumentServiceOptions{Docs: store, Logger: testLogger()})}

	req := identityRequest(http.MethodGet, "/api/documents/doc-1", domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-a"}))
	req.SetPathValue("id", "doc-1")
	w := httptest.NewRecorder()
	handlers.GetByID(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "document_not_found")

	req = identityRequest(http.MethodGet, "/api/documents/doc-1", domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-b"}))
	req.SetPathValue("id", "doc-1")
	w = httptest.NewRecorder()
	handlers.GetByID(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "passport")
}

func TestDocumentHandlers_Download_ClientScopedToOwnApplication(t *testing.T) {
	store := &singleDocumentStore{doc: &model.Document{ID: "doc-1", ApplicationID: "app-b"}}
	handlers := &DocumentHandlers{Svc: service.NewDocumentService(service.DocumentServiceOptions{Docs: store, Logger: testLogger()})}

	req := identityRequest(http.MethodGet, "/api/documents/doc-1/download", domainauth.ClientIdentity(domainauth.ClientProfile{ID: "app-a"}))
	req.SetPathValue("id", "doc-1")
	w := httptest.NewRecorder()
	handlers.Download(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
