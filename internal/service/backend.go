package service

import (
	"context"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// Backend is the data-access contract of the services. It is implemented by
// the GraphQL client adapter (internal/graphql) and by the sqlite store
// (internal/repository).
//
// Not-found conditions are reported with the apperrors sentinels. Business
// rule violations carry their upstream code in the error message and are
// classified with apperrors.Classify.
type Backend interface {
	// Authenticate resolves a bearer token into the manager session.
	Authenticate(ctx context.Context, token string) (model.Session, error)

	Customer(ctx context.Context, companyID, customerID string) (model.Customer, error)
	UpdateCustomer(ctx context.Context, companyID, customerID string, upd model.CustomerUpdate) (model.Customer, error)

	// CustomerAssets returns every asset and liability of a customer with its
	// owners. Investments are not included.
	CustomerAssets(ctx context.Context, companyID, customerID string) ([]model.Asset, error)

	Asset(ctx context.Context, assetID string) (model.Asset, error)
	AssetInvestments(ctx context.Context, assetID string) ([]model.Investment, error)
	// AssetPerformance returns nil when the backend has no figure for the asset.
	AssetPerformance(ctx context.Context, assetID string) (*model.Performance, error)
	DeleteAsset(ctx context.Context, assetID string) error

	// AssetOwnership returns the current owners of an asset and the entities
	// eligible to hold a share of it.
	AssetOwnership(ctx context.Context, assetID string) ([]model.AssetOwner, []model.RelatedEntity, error)
	// UpdateAssetOwnership replaces the owner list of an asset.
	UpdateAssetOwnership(ctx context.Context, assetID string, owners []model.AssetOwner) error

	// SearchAssets returns the assets matching the search window, investments
	// included.
	SearchAssets(ctx context.Context, search model.AssetSearch) ([]model.Asset, error)

	LCB(ctx context.Context, customerID string) (model.LCBForm, error)
	UpdateLCB(ctx context.Context, customerID string, answers map[string]string) (model.LCBForm, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
