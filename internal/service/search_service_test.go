package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
	"github.com/ndewijer/wealth-manager-backend/internal/testutil"
)

// portfolio creates three assets for one customer: a current account (1000),
// a flat (300000) and a securities account holding two 1100 positions.
func portfolio(t *testing.T, db *sql.DB) (model.Customer, model.Asset) {
	t.Helper()

	customer := testutil.NewCustomer().WithName("Claire", "Dubois").Build(t, db)
	testutil.NewAsset(customer.ID).WithName("Current account").Build(t, db)
	testutil.NewAsset(customer.ID).WithGroup(model.GroupRealEstate).WithName("Flat").WithValuation(300000).Build(t, db)
	pea := testutil.NewAsset(customer.ID).WithGroup(model.GroupSecurities).WithName("PEA").WithValuation(2200).Build(t, db)
	testutil.NewInvestment(pea.ID).WithName("World ETF").Build(t, db)
	testutil.NewInvestment(pea.ID).WithName("Europe ETF").Build(t, db)
	return customer, pea
}

// TestSearchService_Search tests the Search method.
//
// WHY: The search page lists assets and their positions side by side. Sorting,
// group filtering and paging happen on the flattened rows, so positions must
// take part in all three.
func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("sorts and paginates flattened rows", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSearchService(t, testutil.NewTestStore(t, db))
		portfolio(t, db)

		// Execute
		page, err := svc.Search(ctx, model.SearchFilter{
			Sort:    model.SortByValuation,
			Dir:     model.SortDesc,
			Page:    2,
			PerPage: 2,
		})

		// Assert
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		if page.TotalItems != 5 || page.TotalPages != 3 {
			t.Errorf("Expected 5 rows on 3 pages, got %d rows on %d pages", page.TotalItems, page.TotalPages)
		}
		if len(page.Data) != 2 {
			t.Fatalf("Expected 2 rows on page 2, got %d", len(page.Data))
		}
		for _, r := range page.Data {
			if r.Kind != model.RowInvestment || r.Valuation != 1100 {
				t.Errorf("Expected the two 1100 positions on page 2, got %+v", r)
			}
		}
	})

	t.Run("default order is by name", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSearchService(t, testutil.NewTestStore(t, db))
		portfolio(t, db)

		// Execute
		page, err := svc.Search(ctx, model.SearchFilter{})

		// Assert
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		want := []string{"Current account", "Europe ETF", "Flat", "PEA", "World ETF"}
		if len(page.Data) != len(want) {
			t.Fatalf("Expected %d rows, got %d", len(want), len(page.Data))
		}
		for i, name := range want {
			if page.Data[i].Name != name {
				t.Errorf("Row %d: expected %q, got %q", i, name, page.Data[i].Name)
			}
		}
	})

	t.Run("group filter applies to positions", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSearchService(t, testutil.NewTestStore(t, db))
		_, pea := portfolio(t, db)

		// Execute
		page, err := svc.Search(ctx, model.SearchFilter{Groups: []model.AssetGroup{model.GroupSecurities}})

		// Assert
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		if page.TotalItems != 3 {
			t.Errorf("Expected the account and its 2 positions, got %d rows", page.TotalItems)
		}
		for _, r := range page.Data {
			if r.AssetID != pea.ID {
				t.Errorf("Expected rows of %s only, got %+v", pea.ID, r)
			}
		}
	})

	t.Run("text matches positions and customer names", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSearchService(t, testutil.NewTestStore(t, db))
		customer, pea := portfolio(t, db)
		other := testutil.NewCustomer().WithName("Paul", "Girard").Build(t, db)
		testutil.NewAsset(other.ID).Build(t, db)

		// Execute
		byPosition, err := svc.Search(ctx, model.SearchFilter{AssetSearch: model.AssetSearch{Text: "world"}})
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		byCustomer, err := svc.Search(ctx, model.SearchFilter{AssetSearch: model.AssetSearch{Text: "dubois"}})
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}

		// Assert
		if byPosition.TotalItems != 3 || byPosition.Data[0].AssetID != pea.ID {
			t.Errorf("Expected the matching account with its positions, got %+v", byPosition.Data)
		}
		if byCustomer.TotalItems != 5 {
			t.Errorf("Expected every row of %s, got %d", customer.ID, byCustomer.TotalItems)
		}
	})

	t.Run("amount window", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSearchService(t, testutil.NewTestStore(t, db))
		portfolio(t, db)
		minAmount, maxAmount := 500.0, 5000.0

		// Execute
		page, err := svc.Search(ctx, model.SearchFilter{AssetSearch: model.AssetSearch{MinAmount: &minAmount, MaxAmount: &maxAmount}})

		// Assert
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		if page.TotalItems != 4 {
			t.Errorf("Expected the current account and the PEA with its positions, got %d rows", page.TotalItems)
		}
	})

	t.Run("reshaping does not query the backend again", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		backend := testutil.NewMockBackend(testutil.NewTestStore(t, db))
		svc := testutil.NewTestSearchService(t, backend)
		portfolio(t, db)

		// Execute
		filters := []model.SearchFilter{
			{},
			{Sort: model.SortByDate, Dir: model.SortDesc},
			{Page: 2, PerPage: 1},
			{Groups: []model.AssetGroup{model.GroupBanking}},
		}
		for _, f := range filters {
			if _, err := svc.Search(ctx, f); err != nil {
				t.Fatalf("Search() returned unexpected error: %v", err)
			}
		}
		if _, err := svc.Search(ctx, model.SearchFilter{AssetSearch: model.AssetSearch{Text: "flat"}}); err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}

		// Assert
		if backend.SearchCount != 2 {
			t.Errorf("Expected 2 backend searches, got %d", backend.SearchCount)
		}
	})

	t.Run("no group filter keeps groups outside the catalog", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSearchService(t, testutil.NewTestStore(t, db))
		customer := testutil.NewCustomer().Build(t, db)
		testutil.NewAsset(customer.ID).WithGroup(model.AssetGroup("artwork")).WithName("Painting").Build(t, db)

		// Execute
		page, err := svc.Search(ctx, model.SearchFilter{})

		// Assert
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		if page.TotalItems != 1 || page.Data[0].Name != "Painting" {
			t.Errorf("Expected the painting to be listed, got %+v", page.Data)
		}
	})

	t.Run("cached rows belong to one manager", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		backend := testutil.NewMockBackend(testutil.NewTestStore(t, db))
		svc := testutil.NewTestSearchService(t, backend)
		portfolio(t, db)
		first := service.WithSession(ctx, model.Session{ManagerID: "manager-1"})
		second := service.WithSession(ctx, model.Session{ManagerID: "manager-2"})

		// Execute
		for _, c := range []context.Context{first, first, second} {
			if _, err := svc.Search(c, model.SearchFilter{}); err != nil {
				t.Fatalf("Search() returned unexpected error: %v", err)
			}
		}

		// Assert
		if backend.SearchCount != 2 {
			t.Errorf("Expected one backend search per manager, got %d", backend.SearchCount)
		}
	})

	t.Run("no match", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSearchService(t, testutil.NewTestStore(t, db))

		// Execute
		page, err := svc.Search(ctx, model.SearchFilter{})

		// Assert
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		if page.Data == nil || page.TotalItems != 0 || page.TotalPages != 0 {
			t.Errorf("Expected an empty page, got %+v", page)
		}
	})
}
