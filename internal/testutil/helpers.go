package testutil

import (
	"database/sql"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/repository"
	"github.com/ndewijer/wealth-manager-backend/internal/secret"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// DefaultCompanyID is the company of customers built with default values.
const DefaultCompanyID = "6f1c2b0e-6a55-4b7a-9a62-1d1f3c0a9b01"

// NewTestBox creates a secret box with a fresh random key.
func NewTestBox(t *testing.T) *secret.Box {
	t.Helper()

	key, err := secret.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate secret key: %v", err)
	}
	box, err := secret.NewBox(key)
	if err != nil {
		t.Fatalf("Failed to create secret box: %v", err)
	}
	return box
}

// NewTestStore creates the sqlite backend over db.
func NewTestStore(t *testing.T, db *sql.DB) *repository.Store {
	t.Helper()

	return repository.NewStore(db, NewTestBox(t))
}

// NewTestCache creates a query cache with a one minute TTL.
func NewTestCache() *cache.Store {
	return cache.New(time.Minute)
}

func NewTestWealthService(t *testing.T, backend service.Backend) *service.WealthService {
	t.Helper()

	return service.NewWealthService(backend, NewTestCache(), 4)
}

func NewTestAssetService(t *testing.T, backend service.Backend) *service.AssetService {
	t.Helper()

	return service.NewAssetService(backend, NewTestCache())
}

func NewTestOwnershipService(t *testing.T, backend service.Backend, enforceShares bool) *service.OwnershipService {
	t.Helper()

	return service.NewOwnershipService(backend, NewTestCache(), enforceShares)
}

func NewTestSearchService(t *testing.T, backend service.Backend) *service.SearchService {
	t.Helper()

	return service.NewSearchService(backend, NewTestCache())
}

func NewTestConformityService(t *testing.T, backend service.Backend) *service.ConformityService {
	t.Helper()

	return service.NewConformityService(backend, NewTestCache())
}

func NewTestCustomerService(t *testing.T, backend service.Backend) *service.CustomerService {
	t.Helper()

	return service.NewCustomerService(backend, NewTestCache())
}

func NewTestSessionService(t *testing.T, backend service.Backend) *service.SessionService {
	t.Helper()

	return service.NewSessionService(backend, NewTestCache())
}

func NewTestSystemService(t *testing.T, backend service.Backend) *service.SystemService {
	t.Helper()

	return service.NewSystemService(backend, "sqlite")
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("FR")
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "FR"
	}
	return prefix + randomAlphanumeric(10)
}

// MakeEmail generates a unique email address for testing.
//
// Example usage:
//
//	email := testutil.MakeEmail("jane")
//	// Returns: "jane.k3j9x2@example.com"
func MakeEmail(local string) string {
	if local == "" {
		local = "user"
	}
	return local + "." + strings.ToLower(randomAlphanumeric(6)) + "@example.com"
}

// MakeAssetName generates a unique asset name for testing.
//
// Example usage:
//
//	name := testutil.MakeAssetName("Savings")
//	// Returns: "Savings XYZ789"
func MakeAssetName(base string) string {
	if base == "" {
		base = "Asset"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
