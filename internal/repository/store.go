package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/database"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/secret"
)

// Store is the standalone sqlite backend. It serves the same contract as the
// GraphQL backend from the local database.
type Store struct {
	db        *sql.DB
	customers *CustomerRepository
	assets    *AssetRepository
	lcb       *LCBRepository
	now       func() time.Time
}

// NewStore creates a Store over db. box seals LCB answers at rest.
func NewStore(db *sql.DB, box *secret.Box) *Store {
	return &Store{
		db:        db,
		customers: NewCustomerRepository(db),
		assets:    NewAssetRepository(db),
		lcb:       NewLCBRepository(db, box),
		now:       time.Now,
	}
}

func (s *Store) Authenticate(ctx context.Context, token string) (model.Session, error) {
	return s.customers.GetSessionByToken(ctx, token)
}

func (s *Store) Customer(ctx context.Context, companyID, customerID string) (model.Customer, error) {
	return s.customers.GetCustomer(ctx, companyID, customerID)
}

func (s *Store) UpdateCustomer(ctx context.Context, companyID, customerID string, upd model.CustomerUpdate) (model.Customer, error) {
	return s.customers.UpdateCustomer(ctx, companyID, customerID, upd)
}

// CustomerAssets checks that the customer belongs to the company, then
// returns its assets with owners.
func (s *Store) CustomerAssets(ctx context.Context, companyID, customerID string) ([]model.Asset, error) {
	if _, err := s.customers.GetCustomer(ctx, companyID, customerID); err != nil {
		return nil, err
	}
	return s.assets.GetCustomerAssets(ctx, customerID)
}

func (s *Store) Asset(ctx context.Context, assetID string) (model.Asset, error) {
	return s.assets.GetAsset(ctx, assetID)
}

func (s *Store) AssetInvestments(ctx context.Context, assetID string) ([]model.Investment, error) {
	byAsset, err := s.assets.GetInvestments(ctx, []string{assetID})
	if err != nil {
		return nil, err
	}
	if investments, ok := byAsset[assetID]; ok {
		return investments, nil
	}
	return []model.Investment{}, nil
}

func (s *Store) AssetPerformance(ctx context.Context, assetID string) (*model.Performance, error) {
	return s.assets.GetPerformance(ctx, assetID)
}

func (s *Store) DeleteAsset(ctx context.Context, assetID string) error {
	return s.assets.DeleteAsset(ctx, assetID)
}

// AssetOwnership returns the owners of an asset and the entities related to
// the asset's customer, the customer itself included.
func (s *Store) AssetOwnership(ctx context.Context, assetID string) ([]model.AssetOwner, []model.RelatedEntity, error) {
	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}
	related, err := s.customers.GetRelatedEntities(ctx, asset.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	return asset.Owners, related, nil
}

// UpdateAssetOwnership replaces the owner list of an asset in one transaction.
func (s *Store) UpdateAssetOwnership(ctx context.Context, assetID string, owners []model.AssetOwner) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	assets := s.assets.WithTx(tx)
	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM asset WHERE id = ?`, assetID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to query asset: %w", err)
	}
	if exists == 0 {
		return apperrors.ErrAssetNotFound
	}

	if err := assets.ReplaceAssetOwners(ctx, assetID, owners); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) SearchAssets(ctx context.Context, search model.AssetSearch) ([]model.Asset, error) {
	return s.assets.SearchAssets(ctx, search)
}

func (s *Store) LCB(ctx context.Context, customerID string) (model.LCBForm, error) {
	return s.lcb.GetLCB(ctx, customerID)
}

func (s *Store) UpdateLCB(ctx context.Context, customerID string, answers map[string]string) (model.LCBForm, error) {
	return s.lcb.UpsertLCB(ctx, customerID, answers, s.now())
}

func (s *Store) Ping(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// SchemaVersion reports the applied and latest migration versions.
func (s *Store) SchemaVersion(_ context.Context) (int64, int64, error) {
	return database.SchemaVersion(s.db)
}
