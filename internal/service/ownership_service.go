package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// OwnershipService loads and saves the ownership split of assets.
type OwnershipService struct {
	backend       Backend
	cache         *cache.Store
	enforceShares bool
}

// NewOwnershipService creates a new OwnershipService. When enforceShares is
// true, saves whose shares do not allocate both bare ownership and usufruct
// at 100% are rejected; otherwise they are saved with warnings.
func NewOwnershipService(backend Backend, store *cache.Store, enforceShares bool) *OwnershipService {
	return &OwnershipService{
		backend:       backend,
		cache:         store,
		enforceShares: enforceShares,
	}
}

// OwnershipEdit is a submitted ownership form. ToggleAll, when set, is
// applied before the rows. Eligible owners absent from Rows end with a
// fraction of 0, so the submission is a replace-all.
type OwnershipEdit struct {
	ToggleAll *bool
	Rows      []model.OwnershipRow
}

// LoadOwnership returns the ownership form rows of an asset: its current
// owners followed by the related entities that hold no share yet, at a
// fraction of 0 and no mode. The result is a copy the caller may modify.
func (s *OwnershipService) LoadOwnership(ctx context.Context, assetID string) ([]model.OwnershipRow, error) {
	key := cache.AssetOwnershipKey(cacheScope(ctx), assetID)
	if v, ok := s.cache.Get(key); ok {
		if rows, ok := v.([]model.OwnershipRow); ok {
			return slices.Clone(rows), nil
		}
	}

	rows, err := s.loadRows(ctx, assetID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rows)
	return slices.Clone(rows), nil
}

func (s *OwnershipService) loadRows(ctx context.Context, assetID string) ([]model.OwnershipRow, error) {
	owners, related, err := s.backend.AssetOwnership(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return mergeOwnershipRows(owners, related), nil
}

// SaveOwnership replaces the owner list of an asset.
//
// The submitted rows are applied to a fresh form built from the backend:
// every share starts at 0, ToggleAll is applied if set, then each row sets
// its fraction and mode. Rows naming an entity that is neither an owner nor
// eligible are rejected with apperrors.ErrOwnerNotFound, fractions outside
// [0,1] with apperrors.ErrInvalidFraction.
//
// Rows left at 0 are not sent. On success the dependent cache entries are
// invalidated; on failure nothing changes and nothing is retried.
func (s *OwnershipService) SaveOwnership(ctx context.Context, assetID string, edit OwnershipEdit) (model.OwnershipResult, error) {
	rows, err := s.loadRows(ctx, assetID)
	if err != nil {
		return model.OwnershipResult{}, err
	}

	form := NewOwnershipForm(rows)
	form.ToggleAll(false)
	if edit.ToggleAll != nil {
		form.ToggleAll(*edit.ToggleAll)
	}
	for _, r := range edit.Rows {
		if err := form.SetFraction(r.OwnerID, r.Ownership); err != nil {
			return model.OwnershipResult{}, err
		}
		if err := form.SetMode(r.OwnerID, r.Mode); err != nil {
			return model.OwnershipResult{}, err
		}
	}

	result := model.OwnershipResult{AssetID: assetID, Rows: form.Rows()}

	if problems := ownershipProblems(result.Rows); len(problems) > 0 {
		if s.enforceShares {
			return model.OwnershipResult{}, fmt.Errorf("%w: %s", apperrors.ErrOwnershipInconsistent, strings.Join(problems, "; "))
		}
		logger.Get().Warnw("saving inconsistent ownership", "asset_id", assetID, "problems", problems)
		result.Warnings = problems
	}

	if err := s.backend.UpdateAssetOwnership(ctx, assetID, ownersFromRows(result.Rows)); err != nil {
		return model.OwnershipResult{}, err
	}

	invalidateAssetViews(s.cache, assetID)
	return result, nil
}
