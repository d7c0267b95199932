package httpx

import (
	"errors"
	"net/http"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// ApplicationHandlers provides HTTP handlers for application operations.
type ApplicationHandlers struct {
	Svc *service.ApplicationService
}

const maxApplicationListLimit = 100

// Create handles the public application form.
func (h *ApplicationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, data.ErrApplicationEmailExists) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, app)
}

// List handles staff listing with filters and pagination.
func (h *ApplicationHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxApplicationListLimit)

	opts := model.ApplicationsListOptions{
		Limit:         limit,
		Offset:        offset,
		Q:             optionalQuery(r, "q"),
		VisaType:      optionalQuery(r, "visa_type"),
		AssignedAdmin: optionalQuery(r, "assigned_admin"),
		Sort:          r.URL.Query().Get("sort"),
		Dir:           r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseApplicationStatus(raw)
		if !ok {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_status", Err: errors.New("unknown application status")})
			return
		}
		opts.Status = &status
	}

	page, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": page.Items,
		"total":        page.Total,
		"limit":        limit,
		"offset":       offset,
	})
}

// GetByID handles fetching one application.
func (h *ApplicationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}
	if !requireApplicationAccess(w, r, id, "application_not_found") {
		return
	}

	app, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Status handles the applicant-facing progress overview.
func (h *ApplicationHandlers) Status(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}

	if !requireApplicationAccess(w, r, id, "application_not_found") {
		return
	}

	overview, err := h.Svc.StatusOverview(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, overview)
}

type statusCheckRequest struct {
	ApplicationID string `json:"application_id"`
	Email         string `json:"email"`
}

// StatusCheck handles the public progress lookup by id and email.
func (h *ApplicationHandlers) StatusCheck(w http.ResponseWriter, r *http.Request) {
	var req statusCheckRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ApplicationID == "" || req.Email == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("application_id and email are required")})
		return
	}

	overview, err := h.Svc.StatusCheck(r.Context(), req.ApplicationID, req.Email)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) || apperrors.IsNotFound(err) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, overview)
}

// Checklist handles the per-application checklist with completion flags.
func (h *ApplicationHandlers) Checklist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}

	if !requireApplicationAccess(w, r, id, "application_not_found") {
		return
	}

	items, err := h.Svc.Checklist(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type setChecklistItemRequest struct {
	Done bool `json:"done"`
}

// SetChecklistItem handles toggling one checklist option.
func (h *ApplicationHandlers) SetChecklistItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	optionID := r.PathValue("optionID")
	if id == "" || optionID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id and option id are required")})
		return
	}

	var req setChecklistItemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	items, err := h.Svc.SetChecklistItem(r.Context(), id, optionID, req.Done)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrApplicationNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
		case errors.Is(err, data.ErrOptionNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "option_not_found", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update handles staff updates to an application.
func (h *ApplicationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}

	var req model.UpdateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrApplicationNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
		case errors.Is(err, data.ErrApplicationEmailExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

type advanceStepRequest struct {
	Step int `json:"step"`
}

// Advance handles moving an application forward in the pipeline.
func (h *ApplicationHandlers) Advance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}

	var req advanceStepRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.AdvanceStep(r.Context(), id, req.Step)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Delete handles removing an application.
func (h *ApplicationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: errors.New("application not found")})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
