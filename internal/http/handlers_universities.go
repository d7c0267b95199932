package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// UniversityHandlers provides HTTP handlers for the university catalog.
type UniversityHandlers struct {
	Svc *service.UniversityService
}

const maxUniversityListLimit = 200

// Create handles adding a catalog entry.
func (h *UniversityHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUniversityRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	uni, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, data.ErrUniversityNameExists) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, uni)
}

// List handles catalog listing. Unauthenticated callers only see published
// entries; the route decides by mounting PublicList instead.
func (h *UniversityHandlers) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// PublicList is List restricted to published entries.
func (h *UniversityHandlers) PublicList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *UniversityHandlers) list(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	limit, offset := ParseLimitOffset(r, 50, maxUniversityListLimit)

	opts := model.UniversitiesListOptions{
		Limit:   limit,
		Offset:  offset,
		Q:       optionalQuery(r, "q"),
		Country: optionalQuery(r, "country"),
		Sort:    r.URL.Query().Get("sort"),
		Dir:     r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("published"); raw != "" && !publicOnly {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_published", Err: err})
			return
		}
		opts.Published = &published
	}

	unis, err := h.Svc.List(r.Context(), opts, publicOnly)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"universities": unis,
		"limit":        limit,
		"offset":       offset,
	})
}

// GetByID handles fetching one catalog entry.
func (h *UniversityHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("university id is required")})
		return
	}

	uni, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrUniversityNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "university_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, uni)
}

// Update handles staff updates to a catalog entry.
func (h *UniversityHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("university id is required")})
		return
	}

	var req model.UpdateUniversityRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	uni, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUniversityNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "university_not_found", Err: err})
		case errors.Is(err, data.ErrUniversityNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, uni)
}

// UploadLogo handles a multipart logo upload for a catalog entry.
func (h *UniversityHandlers) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("university id is required")})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_upload", Err: err})
		return
	}
	defer file.Close()

	uni, err := h.Svc.UploadLogo(r.Context(), id, header.Filename, file)
	if err != nil {
		if errors.Is(err, data.ErrUniversityNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "university_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, uni)
}

// Delete handles removing a catalog entry.
func (h *UniversityHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("university id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "university_not_found", Err: errors.New("university not found")})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
