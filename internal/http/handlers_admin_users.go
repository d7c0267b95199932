package httpx

import (
	"errors"
	"net/http"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// AdminUserHandlers provides HTTP handlers for staff account management.
type AdminUserHandlers struct {
	Svc *service.AdminUserService
}

const maxAdminUserListLimit = 100

// Create handles adding a staff account.
func (h *AdminUserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAdminUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, data.ErrAdminEmailExists) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, account)
}

// List handles listing staff accounts.
func (h *AdminUserHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxAdminUserListLimit)

	accounts, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"admins": accounts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles fetching one staff account.
func (h *AdminUserHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	account, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrAdminUserNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "admin_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, account)
}

// Update handles updates to a staff account. The acting admin comes from the
// resolved identity so self-demotion is refused.
func (h *AdminUserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	var req model.UpdateAdminUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	actorID := IdentityFromContext(r.Context()).ActorID()
	account, err := h.Svc.Update(r.Context(), actorID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAdminUserNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "admin_not_found", Err: err})
		case errors.Is(err, data.ErrAdminEmailExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, account)
}

// Delete handles removing a staff account.
func (h *AdminUserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	actorID := IdentityFromContext(r.Context()).ActorID()
	ok, err := h.Svc.Delete(r.Context(), actorID, id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "admin_not_found", Err: errors.New("admin not found")})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
