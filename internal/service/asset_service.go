package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// AssetService handles single-asset reads and deletion.
type AssetService struct {
	backend Backend
	cache   *cache.Store
}

// NewAssetService creates a new AssetService.
func NewAssetService(backend Backend, store *cache.Store) *AssetService {
	return &AssetService{
		backend: backend,
		cache:   store,
	}
}

// AssetDetail returns the display-ready detail of an asset.
//
// The asset is fetched first since its group decides whether sub-positions
// exist; investments and performance are then fetched concurrently. When the
// backend reports no performance figure, one is derived from the
// sub-positions. The assembled view is cached under asset:<id>:detail.
func (s *AssetService) AssetDetail(ctx context.Context, assetID string) (model.AssetDetailView, error) {
	key := cache.AssetDetailKey(cacheScope(ctx), assetID)
	if v, ok := s.cache.Get(key); ok {
		if view, ok := v.(model.AssetDetailView); ok {
			return view, nil
		}
	}

	asset, err := s.backend.Asset(ctx, assetID)
	if err != nil {
		return model.AssetDetailView{}, err
	}

	var (
		investments []model.Investment
		perf        *model.Performance
	)
	g, gctx := errgroup.WithContext(ctx)
	if asset.Group.SupportsInvestments() {
		g.Go(func() error {
			var err error
			investments, err = s.backend.AssetInvestments(gctx, assetID)
			return err
		})
	}
	g.Go(func() error {
		var err error
		perf, err = s.backend.AssetPerformance(gctx, assetID)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.AssetDetailView{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAsset, err)
	}

	if perf == nil && len(investments) > 0 {
		perf = aggregatePerformance(investments)
	}

	view := AssembleAssetDetail(asset, investments, perf)
	s.cache.Set(key, view)
	return view, nil
}

// DeleteAsset deletes an asset and invalidates every view that may include it.
// A failed deletion leaves the cache untouched.
func (s *AssetService) DeleteAsset(ctx context.Context, assetID string) error {
	if err := s.backend.DeleteAsset(ctx, assetID); err != nil {
		return err
	}
	invalidateAssetViews(s.cache, assetID)
	return nil
}

// invalidateAssetViews marks stale every cached query that depends on an
// asset: the wealth views of all customers (an owner may belong to another
// customer record), the asset's own entries and all searches, for every
// manager.
func invalidateAssetViews(store *cache.Store, assetID string) {
	removed := store.Invalidate(cache.AllCustomerWealth)
	removed += store.Invalidate(cache.AssetViews(assetID))
	removed += store.Invalidate(cache.AllSearches)
	logger.Get().Debugw("invalidated asset views", "asset_id", assetID, "entries", removed)
}
