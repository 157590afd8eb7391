package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/wealth-manager-backend/internal/api/request"
	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// WealthHandler serves the customer wealth views.
type WealthHandler struct {
	wealthService *service.WealthService
}

// NewWealthHandler creates a new WealthHandler
func NewWealthHandler(wealthService *service.WealthService) *WealthHandler {
	return &WealthHandler{
		wealthService: wealthService,
	}
}

// CustomerWealth returns the grouped assets, section totals and net worth of
// a customer.
//
// Endpoint: GET /api/company/{companyId}/customer/{customerId}/wealth
// Query: under_management, groups
// Response: 200 OK with model.CustomerWealth
// Error: 400 Bad Request on invalid query parameters
// Error: 404 Not Found if the customer is not part of the company
func (h *WealthHandler) CustomerWealth(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseWealthQuery(r.URL.Query())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWealth)
		return
	}

	wealth, err := h.wealthService.CustomerWealth(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "customerId"), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWealth)
		return
	}

	response.RespondJSON(w, http.StatusOK, wealth)
}

// Repartition returns the percentage breakdown by asset group.
//
// Endpoint: GET /api/company/{companyId}/customer/{customerId}/wealth/repartition
// Response: 200 OK with []model.RepartitionEntry
func (h *WealthHandler) Repartition(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseWealthQuery(r.URL.Query())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWealth)
		return
	}

	entries, err := h.wealthService.Repartition(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "customerId"), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWealth)
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}
