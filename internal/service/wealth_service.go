package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/enrich"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// WealthService builds the wealth views of a customer: per-group aggregates,
// repartition chart and section totals.
type WealthService struct {
	backend     Backend
	cache       *cache.Store
	concurrency int
}

// NewWealthService creates a new WealthService. concurrency bounds the number
// of detail fetches in flight while enriching wrapper assets.
func NewWealthService(backend Backend, store *cache.Store, concurrency int) *WealthService {
	return &WealthService{
		backend:     backend,
		cache:       store,
		concurrency: concurrency,
	}
}

// customerAssets is the cached asset list of one customer.
type customerAssets struct {
	Assets     []model.Asset
	Incomplete []string
}

// CustomerWealth returns the full wealth view of a customer.
//
// Assets are loaded from the cache or the backend, wrapper assets are
// enriched with their sub-positions, the filter is applied, then the assets
// are aggregated per group in catalog order. The repartition covers every
// non-passive group; liabilities are reported in the section totals.
//
// An asset whose detail fetch failed is excluded from the view and its ID is
// listed in Incomplete.
func (s *WealthService) CustomerWealth(ctx context.Context, companyID, customerID string, filter model.WealthFilter) (model.CustomerWealth, error) {
	loaded, err := s.loadCustomerAssets(ctx, companyID, customerID)
	if err != nil {
		return model.CustomerWealth{}, err
	}

	groups := AggregateByGroup(filterAssets(loaded.Assets, filter))
	SortGroupsByCatalog(groups)
	sections, gross, liabilities, net := wealthTotals(groups)

	return model.CustomerWealth{
		CustomerID:  customerID,
		Groups:      groups,
		Repartition: ComputeRepartition(repartitionGroups(groups)),
		Sections:    sections,
		GrossAssets: gross,
		Liabilities: liabilities,
		NetWorth:    net,
		Incomplete:  loaded.Incomplete,
	}, nil
}

// Repartition returns only the chart entries of the customer's wealth.
func (s *WealthService) Repartition(ctx context.Context, companyID, customerID string, filter model.WealthFilter) ([]model.RepartitionEntry, error) {
	wealth, err := s.CustomerWealth(ctx, companyID, customerID, filter)
	if err != nil {
		return nil, err
	}
	return wealth.Repartition, nil
}

// loadCustomerAssets returns the enriched asset list of a customer. Complete
// lists are cached; a list with failed detail fetches is not, so the next
// request tries again.
func (s *WealthService) loadCustomerAssets(ctx context.Context, companyID, customerID string) (customerAssets, error) {
	key := cache.CustomerWealthKey(cacheScope(ctx), companyID, customerID)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.(customerAssets); ok {
			return cached, nil
		}
	}

	assets, err := s.backend.CustomerAssets(ctx, companyID, customerID)
	if err != nil {
		return customerAssets{}, err
	}

	loaded, err := s.enrichAssets(ctx, assets)
	if err != nil {
		return customerAssets{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveWealth, err)
	}

	if len(loaded.Incomplete) == 0 {
		s.cache.Set(key, loaded)
	}
	return loaded, nil
}

// enrichAssets fetches the sub-positions of every wrapper asset in parallel
// and merges them by asset ID. Assets whose fetch failed are dropped.
func (s *WealthService) enrichAssets(ctx context.Context, assets []model.Asset) (customerAssets, error) {
	var ids []string
	for _, a := range assets {
		if a.Group.SupportsInvestments() {
			ids = append(ids, a.ID)
		}
	}

	res, err := enrich.Join(ctx, ids, s.concurrency, s.backend.AssetInvestments)
	if err != nil {
		return customerAssets{}, err
	}

	out := customerAssets{
		Assets:     make([]model.Asset, 0, len(assets)),
		Incomplete: res.Failed,
	}
	for _, a := range assets {
		if a.Group.SupportsInvestments() {
			investments, ok := res.Values[a.ID]
			if !ok {
				continue
			}
			a.Investments = investments
		}
		out.Assets = append(out.Assets, a)
	}
	return out, nil
}
