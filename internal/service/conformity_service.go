package service

import (
	"context"
	"errors"
	"maps"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// ConformityService handles the LCB-FT questionnaire of customers.
type ConformityService struct {
	backend Backend
	cache   *cache.Store
}

// NewConformityService creates a new ConformityService.
func NewConformityService(backend Backend, store *cache.Store) *ConformityService {
	return &ConformityService{
		backend: backend,
		cache:   store,
	}
}

// LCB returns the questionnaire of a customer. A customer that never filled
// it gets an empty form.
//
// The customer is checked against the company before the cache is read, so
// a cached form is never served under another company.
func (s *ConformityService) LCB(ctx context.Context, companyID, customerID string) (model.LCBForm, error) {
	if _, err := s.backend.Customer(ctx, companyID, customerID); err != nil {
		return model.LCBForm{}, err
	}

	key := cache.CustomerLCBKey(cacheScope(ctx), companyID, customerID)
	if v, ok := s.cache.Get(key); ok {
		if form, ok := v.(model.LCBForm); ok {
			form.Answers = maps.Clone(form.Answers)
			return form, nil
		}
	}

	form, err := s.backend.LCB(ctx, customerID)
	if errors.Is(err, apperrors.ErrLCBNotFound) {
		form = model.LCBForm{CustomerID: customerID, Answers: map[string]string{}}
	} else if err != nil {
		return model.LCBForm{}, err
	}

	s.cache.Set(key, form)
	form.Answers = maps.Clone(form.Answers)
	return form, nil
}

// UpdateLCB stores the questionnaire answers of a customer. Answer keys are
// expected to be validated by the caller.
func (s *ConformityService) UpdateLCB(ctx context.Context, companyID, customerID string, answers map[string]string) (model.LCBForm, error) {
	if _, err := s.backend.Customer(ctx, companyID, customerID); err != nil {
		return model.LCBForm{}, err
	}

	form, err := s.backend.UpdateLCB(ctx, customerID, answers)
	if err != nil {
		return model.LCBForm{}, err
	}

	s.cache.Invalidate(cache.CustomerLCB(customerID))
	return form, nil
}
