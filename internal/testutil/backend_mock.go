package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// MockBackend wraps a real backend and lets tests inject failures and count
// calls. Every method not overridden here goes straight to the wrapped backend.
type MockBackend struct {
	service.Backend

	mu sync.Mutex
	// InvestmentErrors fails AssetInvestments for the listed asset IDs.
	InvestmentErrors map[string]error
	// UpdateOwnershipError fails UpdateAssetOwnership when set.
	UpdateOwnershipError error
	// UpdateCustomerError fails UpdateCustomer when set.
	UpdateCustomerError error
	// CustomerAssetsCount tracks how many times CustomerAssets was called
	CustomerAssetsCount int
	// SearchCount tracks how many times SearchAssets was called
	SearchCount int
}

// NewMockBackend wraps backend without any injected failure.
func NewMockBackend(backend service.Backend) *MockBackend {
	return &MockBackend{
		Backend:          backend,
		InvestmentErrors: map[string]error{},
	}
}

// WithInvestmentError configures AssetInvestments to fail for assetID.
func (m *MockBackend) WithInvestmentError(assetID string, err error) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvestmentErrors[assetID] = err
	return m
}

func (m *MockBackend) CustomerAssets(ctx context.Context, companyID, customerID string) ([]model.Asset, error) {
	m.mu.Lock()
	m.CustomerAssetsCount++
	m.mu.Unlock()
	return m.Backend.CustomerAssets(ctx, companyID, customerID)
}

func (m *MockBackend) AssetInvestments(ctx context.Context, assetID string) ([]model.Investment, error) {
	m.mu.Lock()
	err := m.InvestmentErrors[assetID]
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.Backend.AssetInvestments(ctx, assetID)
}

func (m *MockBackend) UpdateAssetOwnership(ctx context.Context, assetID string, owners []model.AssetOwner) error {
	if m.UpdateOwnershipError != nil {
		return m.UpdateOwnershipError
	}
	return m.Backend.UpdateAssetOwnership(ctx, assetID, owners)
}

func (m *MockBackend) UpdateCustomer(ctx context.Context, companyID, customerID string, upd model.CustomerUpdate) (model.Customer, error) {
	if m.UpdateCustomerError != nil {
		return model.Customer{}, m.UpdateCustomerError
	}
	return m.Backend.UpdateCustomer(ctx, companyID, customerID, upd)
}

func (m *MockBackend) SearchAssets(ctx context.Context, search model.AssetSearch) ([]model.Asset, error) {
	m.mu.Lock()
	m.SearchCount++
	m.mu.Unlock()
	return m.Backend.SearchAssets(ctx, search)
}
