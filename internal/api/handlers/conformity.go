package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/wealth-manager-backend/internal/api/request"
	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// ConformityHandler serves the LCB-FT questionnaire.
type ConformityHandler struct {
	conformityService *service.ConformityService
}

// NewConformityHandler creates a new ConformityHandler
func NewConformityHandler(conformityService *service.ConformityService) *ConformityHandler {
	return &ConformityHandler{
		conformityService: conformityService,
	}
}

// LCB returns the questionnaire answers of a customer.
//
// Endpoint: GET /api/company/{companyId}/customer/{customerId}/conformity/lcb
// Response: 200 OK with model.LCBForm (empty answers when never filled)
func (h *ConformityHandler) LCB(w http.ResponseWriter, r *http.Request) {
	form, err := h.conformityService.LCB(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "customerId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveLCB)
		return
	}

	response.RespondJSON(w, http.StatusOK, form)
}

// UpdateLCB stores the questionnaire answers of a customer.
//
// Endpoint: PUT /api/company/{companyId}/customer/{customerId}/conformity/lcb
// Request: request.UpdateLCBRequest
// Response: 200 OK with model.LCBForm
// Error: 400 Bad Request on unknown question keys
func (h *ConformityHandler) UpdateLCB(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateLCBRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateLCB)
		return
	}

	form, err := h.conformityService.UpdateLCB(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "customerId"), req.Answers)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateLCB)
		return
	}

	response.RespondJSON(w, http.StatusOK, form)
}
