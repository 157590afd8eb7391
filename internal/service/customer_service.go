package service

import (
	"context"

	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// CustomerService handles customer record updates.
type CustomerService struct {
	backend Backend
	cache   *cache.Store
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(backend Backend, store *cache.Store) *CustomerService {
	return &CustomerService{
		backend: backend,
		cache:   store,
	}
}

// UpdateCustomer updates the identity fields of a customer.
//
// The backend may refuse the update with a business-rule error
// (EMAIL_ALREADY_EXISTS, CANT_UPDATE_EMAIL); it is returned unchanged for the
// caller to classify with apperrors.Classify. On success every cached view
// that may carry the customer's name is invalidated: the customer's own
// views, all wealth views (co-owned assets), asset details, ownership rows
// and searches.
func (s *CustomerService) UpdateCustomer(ctx context.Context, companyID, customerID string, upd model.CustomerUpdate) (model.Customer, error) {
	customer, err := s.backend.UpdateCustomer(ctx, companyID, customerID, upd)
	if err != nil {
		return model.Customer{}, err
	}

	s.cache.Invalidate(cache.CustomerViews(customerID))
	s.cache.Invalidate(cache.AllCustomerWealth)
	s.cache.Invalidate(cache.AllAssetDetails)
	s.cache.Invalidate(cache.AllAssetOwnership)
	s.cache.Invalidate(cache.AllSearches)
	return customer, nil
}
