package httpx

import (
	"errors"
	"net/http"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// MessageHandlers provides HTTP handlers for contact messages.
type MessageHandlers struct {
	Svc *service.MessageService
}

const maxMessageListLimit = 200

// Create handles the public contact form and the portal message form.
func (h *MessageHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMessageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, msg)
}

// List handles staff inbox listing, newest first.
func (h *MessageHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxMessageListLimit)

	msgs, err := h.Svc.List(r.Context(), parseBoolQuery(r, "unhandled"), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"messages": msgs,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByID handles fetching one message.
func (h *MessageHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("message id is required")})
		return
	}

	msg, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrMessageNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "message_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, msg)
}

type markHandledRequest struct {
	Handled bool `json:"handled"`
}

// MarkHandled flips the handled flag on a message.
func (h *MessageHandlers) MarkHandled(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("message id is required")})
		return
	}

	var req markHandledRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.Svc.MarkHandled(r.Context(), id, req.Handled)
	if err != nil {
		if errors.Is(err, data.ErrMessageNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "message_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, msg)
}

// Delete handles removing a message.
func (h *MessageHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("message id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "message_not_found", Err: errors.New("message not found")})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
