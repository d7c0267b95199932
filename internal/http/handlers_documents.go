package httpx

import (
	"errors"
	"io"
	"net/http"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// DocumentHandlers provides HTTP handlers for document checklist operations.
type DocumentHandlers struct {
	Svc *service.DocumentService
}

// 20 MiB upload ceiling; matches the nginx client_max_body_size in front.
const maxUploadBytes = 20 << 20

// Create handles adding a checklist row.
func (h *DocumentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDocumentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	doc, err := h.Svc.Request(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, doc)
}

// ListByApplication handles listing checklist rows for an application.
func (h *DocumentHandlers) ListByApplication(w http.ResponseWriter, r *http.Request) {
	applicationID := r.PathValue("id")
	if applicationID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}

	if !requireApplicationAccess(w, r, applicationID, "application_not_found") {
		return
	}

	docs, err := h.Svc.ListByApplication(r.Context(), applicationID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// GetByID handles fetching one checklist row.
func (h *DocumentHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")})
		return
	}

	doc, ok := h.accessibleDocument(w, r, id)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// accessibleDocument fetches a checklist row and checks the caller may read
// it. A row belonging to someone else answers the same as a missing one.
func (h *DocumentHandlers) accessibleDocument(w http.ResponseWriter, r *http.Request, id string) (*model.Document, bool) {
	doc, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrDocumentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: err})
			return nil, false
		}
		WriteServiceError(w, err)
		return nil, false
	}
	if !requireApplicationAccess(w, r, doc.ApplicationID, "document_not_found") {
		return nil, false
	}
	return doc, true
}

// Upload handles a multipart file upload for a checklist row.
func (h *DocumentHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")})
		return
	}

	if _, ok := h.accessibleDocument(w, r, id); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_upload", Err: err})
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(r.Context(), id, header.Filename, file)
	if err != nil {
		if errors.Is(err, data.ErrDocumentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// Download streams the stored file for a checklist row.
func (h *DocumentHandlers) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")})
		return
	}

	if _, ok := h.accessibleDocument(w, r, id); !ok {
		return
	}

	rc, err := h.Svc.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrDocumentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		// Client went away mid-stream; nothing to salvage.
		return
	}
}

type reviewRequest struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note,omitempty"`
}

// Review handles approving or rejecting an uploaded document.
func (h *DocumentHandlers) Review(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")})
		return
	}

	var req reviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	doc, err := h.Svc.Review(r.Context(), id, req.Approve, req.Note)
	if err != nil {
		if errors.Is(err, data.ErrDocumentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// Delete handles removing a checklist row and its stored file.
func (h *DocumentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: errors.New("document not found")})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
