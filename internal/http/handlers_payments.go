package httpx

import (
	"errors"
	"net/http"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/service"
)

// PaymentHandlers provides HTTP handlers for payment operations.
type PaymentHandlers struct {
	Svc *service.PaymentService
}

// Create handles adding a fee line.
func (h *PaymentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePaymentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, payment)
}

// ListByApplication handles listing fee lines for an application.
func (h *PaymentHandlers) ListByApplication(w http.ResponseWriter, r *http.Request) {
	applicationID := r.PathValue("id")
	if applicationID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")})
		return
	}

	if !requireApplicationAccess(w, r, applicationID, "application_not_found") {
		return
	}

	payments, err := h.Svc.ListByApplication(r.Context(), applicationID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// GetByID handles fetching one payment.
func (h *PaymentHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("payment id is required")})
		return
	}

	payment, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "payment_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, payment)
}

// Update handles staff updates to a payment.
func (h *PaymentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("payment id is required")})
		return
	}

	var req model.UpdatePaymentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "payment_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, payment)
}

// MarkPaid handles settling a pending payment.
func (h *PaymentHandlers) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("payment id is required")})
		return
	}

	payment, err := h.Svc.MarkPaid(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "payment_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, payment)
}

// Refund handles refunding a paid payment.
func (h *PaymentHandlers) Refund(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("payment id is required")})
		return
	}

	payment, err := h.Svc.Refund(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "payment_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, payment)
}

// Delete handles removing a fee line.
func (h *PaymentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("payment id is required")})
		return
	}

	ok, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "payment_not_found", Err: errors.New("payment not found")})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
