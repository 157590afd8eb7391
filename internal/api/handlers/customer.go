package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/wealth-manager-backend/internal/api/request"
	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// CustomerHandler handles customer identity updates.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// UpdateCustomer updates the name and email of a customer.
//
// Endpoint: PUT /api/company/{companyId}/customer/{customerId}
// Request: request.UpdateCustomerRequest
// Response: 200 OK with model.Customer
// Error: 409 Conflict if the email is used by another customer
// Error: 403 Forbidden if the email is locked by portal access
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateCustomerRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateCustomer)
		return
	}

	customer, err := h.customerService.UpdateCustomer(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "customerId"), model.CustomerUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondBackendError(w, err, apperrors.ErrFailedToUpdateCustomer)
		return
	}

	response.RespondJSON(w, http.StatusOK, customer)
}
