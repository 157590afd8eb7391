// Package cache provides the query cache shared by the services.
//
// Keys are ':'-separated paths such as
// "manager:<m>:company:<c>:customer:<id>:wealth" or
// "manager:<m>:asset:<id>:detail". Invalidate accepts a glob pattern where
// '*' matches a single segment, so "manager:*:asset:*:detail" drops every
// asset detail and "manager:*:search:*" drops every cached search.
package cache

import (
	"path"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a concurrency-safe in-memory cache with per-entry expiry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a Store whose entries live for ttl. A ttl of zero or less
// keeps entries until they are invalidated.
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key. Expired entries are reported missing.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (s *Store) Set(key string, value any) {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Invalidate removes every entry whose key matches pattern and returns how
// many were removed. A pattern ending in ":*" also matches deeper keys, so
// "customer:*" covers "customer:42:wealth".
func (s *Store) Invalidate(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if Match(pattern, key) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Sweep removes expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Match reports whether key matches pattern. Segments are compared with
// path.Match after mapping ':' to '/', and a trailing "*" segment matches any
// remaining depth.
func Match(pattern, key string) bool {
	if pattern == key || pattern == "*" {
		return true
	}
	p := strings.ReplaceAll(pattern, ":", "/")
	k := strings.ReplaceAll(key, ":", "/")

	if strings.HasSuffix(p, "/*") {
		prefix := strings.TrimSuffix(p, "/*")
		depth := strings.Count(prefix, "/") + 1
		parts := strings.SplitN(k, "/", depth+1)
		if len(parts) <= depth {
			return false
		}
		ok, err := path.Match(prefix, strings.Join(parts[:depth], "/"))
		return err == nil && ok
	}

	ok, err := path.Match(p, k)
	return err == nil && ok
}

// Keys used by the services. Every view is scoped by the manager it was
// fetched for, and customer views also by company, so an entry is only ever
// served to a request the backend already authorized for it.

// AnonymousScope scopes entries fetched without an authenticated manager.
const AnonymousScope = "anonymous"

func scoped(managerID string, parts ...string) string {
	return "manager:" + managerID + ":" + strings.Join(parts, ":")
}

// CustomerWealthKey caches the raw asset list of a customer.
func CustomerWealthKey(managerID, companyID, customerID string) string {
	return scoped(managerID, "company", companyID, "customer", customerID, "wealth")
}

// CustomerLCBKey caches the LCB-FT questionnaire of a customer.
func CustomerLCBKey(managerID, companyID, customerID string) string {
	return scoped(managerID, "company", companyID, "customer", customerID, "lcb")
}

// AssetDetailKey caches the assembled detail of an asset.
func AssetDetailKey(managerID, assetID string) string {
	return scoped(managerID, "asset", assetID, "detail")
}

// AssetOwnershipKey caches the ownership rows of an asset.
func AssetOwnershipKey(managerID, assetID string) string {
	return scoped(managerID, "asset", assetID, "ownership")
}

// SearchKey caches one backend search window.
func SearchKey(managerID, fingerprint string) string {
	return scoped(managerID, "search", fingerprint)
}

// SessionKey caches the session of a bearer token.
func SessionKey(tokenFingerprint string) string { return "session:" + tokenFingerprint }

// Invalidation patterns, across every manager and company.

// AllCustomerWealth matches the wealth of every customer.
const AllCustomerWealth = "manager:*:company:*:customer:*:wealth"

// AllAssetDetails matches the detail of every asset.
const AllAssetDetails = "manager:*:asset:*:detail"

// AllAssetOwnership matches the ownership rows of every asset.
const AllAssetOwnership = "manager:*:asset:*:ownership"

// AllSearches matches every cached search window.
const AllSearches = "manager:*:search:*"

// CustomerViews matches every cached view of one customer.
func CustomerViews(customerID string) string {
	return "manager:*:company:*:customer:" + customerID + ":*"
}

// CustomerLCB matches the questionnaire of one customer.
func CustomerLCB(customerID string) string {
	return "manager:*:company:*:customer:" + customerID + ":lcb"
}

// AssetViews matches every cached view of one asset.
func AssetViews(assetID string) string {
	return "manager:*:asset:" + assetID + ":*"
}
