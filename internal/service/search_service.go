package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/pagination"
)

// SearchService handles the asset/investment search view.
type SearchService struct {
	backend Backend
	cache   *cache.Store
}

// NewSearchService creates a new SearchService.
func NewSearchService(backend Backend, store *cache.Store) *SearchService {
	return &SearchService{
		backend: backend,
		cache:   store,
	}
}

// Search runs the backend search window, flattens the result into asset and
// investment rows, then filters by group, sorts and paginates in memory.
//
// The flattened rows of a window are cached under search:<fingerprint>, so
// changing the group selection, the sort or the page does not hit the backend.
// An empty group list applies no group filter, so assets of groups outside
// the catalog are kept.
func (s *SearchService) Search(ctx context.Context, filter model.SearchFilter) (pagination.PageResponse[model.SearchRow], error) {
	rows, err := s.searchRows(ctx, filter.AssetSearch)
	if err != nil {
		return pagination.PageResponse[model.SearchRow]{}, err
	}

	if len(filter.Groups) > 0 {
		rows = FilterByGroup(rows, filter.Groups)
	}
	sortKey := filter.Sort
	if sortKey == "" {
		sortKey = model.SortByName
	}
	dir := filter.Dir
	if dir == "" {
		dir = model.SortAsc
	}

	shaped := SortAssets(rows, sortKey, dir)
	return pagination.Paginate(shaped, pagination.PageRequest{Page: filter.Page, PageSize: filter.PerPage}), nil
}

func (s *SearchService) searchRows(ctx context.Context, search model.AssetSearch) ([]model.SearchRow, error) {
	fp, err := searchFingerprint(search)
	if err != nil {
		return nil, err
	}
	key := cache.SearchKey(cacheScope(ctx), fp)
	if v, ok := s.cache.Get(key); ok {
		if rows, ok := v.([]model.SearchRow); ok {
			return rows, nil
		}
	}

	assets, err := s.backend.SearchAssets(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToSearchAssets, err)
	}
	rows := flattenSearchRows(assets)
	s.cache.Set(key, rows)
	return rows, nil
}

// searchFingerprint identifies a search window in the cache.
func searchFingerprint(search model.AssetSearch) (string, error) {
	b, err := json.Marshal(search)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8]), nil
}
