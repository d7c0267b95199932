package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// fakeDocumentStore is a test helper with per-method overrides.
type fakeDocumentStore struct {
	createFunc    func(context.Context, *model.CreateDocumentRequest) (*model.Document, error)
	getFunc       func(context.Context, string) (*model.Document, error)
	listByAppFunc func(context.Context, string) ([]*model.Document, error)
	updateFunc    func(context.Context, string, model.UpdateDocumentRequest) (*model.Document, error)
	deleteFunc    func(context.Context, string) (bool, error)
}

func (f *fakeDocumentStore) Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	return f.createFunc(ctx, req)
}

func (f *fakeDocumentStore) GetByID(ctx context.Context, id string) (*model.Document, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeDocumentStore) ListByApplication(ctx context.Context, applicationID string) ([]*model.Document, error) {
	return f.listByAppFunc(ctx, applicationID)
}

func (f *fakeDocumentStore) Update(ctx context.Context, id string, req model.UpdateDocumentRequest) (*model.Document, error) {
	return f.updateFunc(ctx, id, req)
}

func (f *fakeDocumentStore) Delete(ctx context.Context, id string) (bool, error) {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return true, nil
}

// fakePaymentStore only implements what application tests need.
type fakePaymentStore struct {
	listByAppFunc func(context.Context, string) ([]*model.Payment, error)
}

func (f *fakePaymentStore) Create(context.Context, *model.CreatePaymentRequest) (*model.Payment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePaymentStore) GetByID(context.Context, string) (*model.Payment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePaymentStore) ListByApplication(ctx context.Context, applicationID string) ([]*model.Payment, error) {
	return f.listByAppFunc(ctx, applicationID)
}

func (f *fakePaymentStore) Update(context.Context, string, model.UpdatePaymentRequest) (*model.Payment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePaymentStore) Delete(context.Context, string) (bool, error) {
	return false, errors.New("not implemented")
}

// memoryFileStore keeps objects in a map for tests.
type memoryFileStore struct {
	objects map[string][]byte
	putErr  error
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{objects: make(map[string][]byte)}
}

func (m *memoryFileStore) Put(_ context.Context, bucket, key string, content io.Reader) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.objects[bucket+"/"+key] = b
	return bucket + "/" + key, nil
}

func (m *memoryFileStore) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	b, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memoryFileStore) Delete(_ context.Context, bucket, key string) error {
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memoryFileStore) PublicURL(bucket, key string) string {
	return "http://files.local/" + bucket + "/" + key
}

func requestedDocument() *model.Document {
	return &model.Document{
		ID:            "doc-1",
		ApplicationID: "app-1",
		Name:          "Passport copy",
		Category:      "identity",
		Status:        model.DocumentStatusRequested,
	}
}

func TestDocumentService_Upload(t *testing.T) {
	files := newMemoryFileStore()
	var updated model.UpdateDocumentRequest
	store := &fakeDocumentStore{
		getFunc: func(context.Context, string) (*model.Document, error) {
			return requestedDocument(), nil
		},
		updateFunc: func(_ context.Context, _ string, req model.UpdateDocumentRequest) (*model.Document, error) {
			updated = req
			doc := requestedDocument()
			doc.Status = *req.Status
			doc.StoragePath = req.StoragePath
			return doc, nil
		},
	}
	service := NewDocumentService(DocumentServiceOptions{Docs: store, Files: files})

	doc, err := service.Upload(context.Background(), "doc-1", "passport.pdf", strings.NewReader("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusUploaded, doc.Status)
	require.NotNil(t, updated.StoragePath)
	assert.Equal(t, "documents/doc-1/passport.pdf", *updated.StoragePath)
	assert.Contains(t, files.objects, "documents/doc-1/passport.pdf")
}

func TestDocumentService_Upload_TraversalFilenameRejected(t *testing.T) {
	service := NewDocumentService(DocumentServiceOptions{
		Docs:  &fakeDocumentStore{},
		Files: newMemoryFileStore(),
	})

	_, err := service.Upload(context.Background(), "doc-1", "  ", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDocumentService_Upload_BaseNameOnly(t *testing.T) {
	files := newMemoryFileStore()
	store := &fakeDocumentStore{
		getFunc: func(context.Context, string) (*model.Document, error) {
			return requestedDocument(), nil
		},
		updateFunc: func(_ context.Context, _ string, req model.UpdateDocumentRequest) (*model.Document, error) {
			doc := requestedDocument()
			doc.StoragePath = req.StoragePath
			return doc, nil
		},
	}
	service := NewDocumentService(DocumentServiceOptions{Docs: store, Files: files})

	_, err := service.Upload(context.Background(), "doc-1", "../../etc/passwd", strings.NewReader("x"))

	require.NoError(t, err)
	assert.Contains(t, files.objects, "documents/doc-1/passwd")
	assert.NotContains(t, files.objects, "documents/doc-1/../../etc/passwd")
}

func TestDocumentService_Upload_UpdateFailureCleansObject(t *testing.T) {
	files := newMemoryFileStore()
	store := &fakeDocumentStore{
		getFunc: func(context.Context, string) (*model.Document, error) {
			return requestedDocument(), nil
		},
		updateFunc: func(context.Context, string, model.UpdateDocumentRequest) (*model.Document, error) {
			return nil, errors.New("database down")
		},
	}
	service := NewDocumentService(DocumentServiceOptions{Docs: store, Files: files})

	_, err := service.Upload(context.Background(), "doc-1", "passport.pdf", strings.NewReader("%PDF"))

	require.Error(t, err)
	assert.Empty(t, files.objects, "orphaned object should be removed")
}

func TestDocumentService_Review(t *testing.T) {
	uploaded := requestedDocument()
	uploaded.Status = model.DocumentStatusUploaded
	var updated model.UpdateDocumentRequest
	store := &fakeDocumentStore{
		getFunc: func(context.Context, string) (*model.Document, error) {
			return uploaded, nil
		},
		updateFunc: func(_ context.Context, _ string, req model.UpdateDocumentRequest) (*model.Document, error) {
			updated = req
			doc := requestedDocument()
			doc.Status = *req.Status
			return doc, nil
		},
	}
	service := NewDocumentService(DocumentServiceOptions{Docs: store, Files: newMemoryFileStore()})

	note := "blurry scan"
	doc, err := service.Review(context.Background(), "doc-1", false, &note)

	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusRejected, doc.Status)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "blurry scan", *updated.Note)
}

func TestDocumentService_Review_RequiresUpload(t *testing.T) {
	store := &fakeDocumentStore{
		getFunc: func(context.Context, string) (*model.Document, error) {
			return requestedDocument(), nil
		},
	}
	service := NewDocumentService(DocumentServiceOptions{Docs: store, Files: newMemoryFileStore()})

	_, err := service.Review(context.Background(), "doc-1", true, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDocumentService_Delete_RemovesStoredFile(t *testing.T) {
	files := newMemoryFileStore()
	files.objects["documents/doc-1/passport.pdf"] = []byte("%PDF")
	storagePath := "documents/doc-1/passport.pdf"
	doc := requestedDocument()
	doc.StoragePath = &storagePath
	store := &fakeDocumentStore{
		getFunc: func(context.Context, string) (*model.Document, error) {
			return doc, nil
		},
	}
	service := NewDocumentService(DocumentServiceOptions{Docs: store, Files: files})

	ok, err := service.Delete(context.Background(), "doc-1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, files.objects)
}
