package httpx

import (
	"errors"
	"net/http"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// OptionHandlers provides HTTP handlers for the checklist option catalog.
type OptionHandlers struct {
	Svc *service.OptionService
}

// Create handles adding a checklist option.
func (h *OptionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateChecklistOptionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	opt, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, opt)
}

// List handles listing checklist options. ?active=true limits to active ones.
func (h *OptionHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Svc.List(r.Context(), parseBoolQuery(r, "active"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"options": opts})
}

// GetByID handles fetching one checklist option.
func (h *OptionHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("option id is required")})
		return
	}

	opt, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrOptionNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "option_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, opt)
}

// Update handles updates to a checklist option.
func (h *OptionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("option id is required")})
		return
	}

	var req model.UpdateChecklistOptionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	opt, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, data.ErrOptionNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "option_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, opt)
}

// Delete handles removing a checklist option.
func (h *OptionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("option id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "option_not_found", Err: errors.New("option not found")})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
