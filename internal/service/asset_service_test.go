package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
	"github.com/ndewijer/wealth-manager-backend/internal/testutil"
)

// TestAssetService_AssetDetail tests the AssetDetail method.
//
// WHY: The detail page merges three backend calls. Sub-positions must only
// appear for wrapper products, and loans must read as the amount owed.
func TestAssetService_AssetDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("securities account with derived performance", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAssetService(t, testutil.NewTestStore(t, db))
		customer := testutil.NewCustomer().Build(t, db)
		asset := testutil.NewAsset(customer.ID).WithGroup(model.GroupSecurities).WithValuation(2200).Build(t, db)
		testutil.NewInvestment(asset.ID).WithName("A fund").Build(t, db)
		testutil.NewInvestment(asset.ID).WithName("B fund").Build(t, db)

		// Execute
		view, err := svc.AssetDetail(ctx, asset.ID)

		// Assert
		if err != nil {
			t.Fatalf("AssetDetail() returned unexpected error: %v", err)
		}
		if len(view.Investments) != 2 {
			t.Fatalf("Expected 2 positions, got %d", len(view.Investments))
		}
		if view.Investments[0].Name != "A fund" {
			t.Errorf("Expected positions ordered by name, got %q first", view.Investments[0].Name)
		}
		if view.Investments[0].Performance.Gain != 100 {
			t.Errorf("Expected position gain 100, got %v", view.Investments[0].Performance.Gain)
		}
		if view.Performance == nil {
			t.Fatal("Expected a performance derived from the positions")
		}
		if view.Performance.Gain != 200 || math.Abs(view.Performance.EvolutionPercent-10) > 1e-9 {
			t.Errorf("Expected gain 200 (10%%), got %+v", *view.Performance)
		}
	})

	t.Run("stored performance wins", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAssetService(t, testutil.NewTestStore(t, db))
		customer := testutil.NewCustomer().Build(t, db)
		asset := testutil.NewAsset(customer.ID).
			WithGroup(model.GroupLifeInsuranceCapitalization).
			WithPerformance(1234.5, 3.2).
			Build(t, db)
		testutil.NewInvestment(asset.ID).Build(t, db)

		// Execute
		view, err := svc.AssetDetail(ctx, asset.ID)

		// Assert
		if err != nil {
			t.Fatalf("AssetDetail() returned unexpected error: %v", err)
		}
		if view.Performance == nil || view.Performance.Gain != 1234.5 {
			t.Errorf("Expected stored gain 1234.5, got %+v", view.Performance)
		}
	})

	t.Run("loan shows the amount owed", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAssetService(t, testutil.NewTestStore(t, db))
		customer := testutil.NewCustomer().Build(t, db)
		asset := testutil.NewAsset(customer.ID).WithGroup(model.GroupHomeLoan).WithValuation(-150000).Build(t, db)

		// Execute
		view, err := svc.AssetDetail(ctx, asset.ID)

		// Assert
		if err != nil {
			t.Fatalf("AssetDetail() returned unexpected error: %v", err)
		}
		if !view.IsLoan || view.DisplayValuation != 150000 {
			t.Errorf("Expected loan displayed at 150000, got isLoan=%v value=%v", view.IsLoan, view.DisplayValuation)
		}
		if view.Investments != nil {
			t.Errorf("Expected no positions on a loan, got %v", view.Investments)
		}
		if view.Asset.Owners == nil {
			t.Error("Expected a non-nil owner list")
		}
	})

	t.Run("detail is cached per manager", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		shared := cache.New(0)
		svc := service.NewAssetService(testutil.NewTestStore(t, db), shared)
		customer := testutil.NewCustomer().Build(t, db)
		asset := testutil.NewAsset(customer.ID).WithOwner(customer.ID, 1, nil).Build(t, db)
		first := service.WithSession(ctx, model.Session{ManagerID: "manager-1"})
		second := service.WithSession(ctx, model.Session{ManagerID: "manager-2"})

		// Execute
		_, err := svc.AssetDetail(first, asset.ID)

		// Assert
		if err != nil {
			t.Fatalf("AssetDetail() returned unexpected error: %v", err)
		}
		if _, ok := shared.Get(cache.AssetDetailKey("manager-1", asset.ID)); !ok {
			t.Error("Expected the detail to be cached for manager-1")
		}
		if _, ok := shared.Get(cache.AssetDetailKey("manager-2", asset.ID)); ok {
			t.Error("Expected nothing cached for manager-2")
		}

		if err := svc.DeleteAsset(second, asset.ID); err != nil {
			t.Fatalf("DeleteAsset() returned unexpected error: %v", err)
		}
		if _, ok := shared.Get(cache.AssetDetailKey("manager-1", asset.ID)); ok {
			t.Error("Expected a delete by any manager to drop the cached detail")
		}
	})

	t.Run("unknown asset", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAssetService(t, testutil.NewTestStore(t, db))

		// Execute
		_, err := svc.AssetDetail(ctx, testutil.MakeID())

		// Assert
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}
	})

	t.Run("failed position fetch fails the detail", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		customer := testutil.NewCustomer().Build(t, db)
		asset := testutil.NewAsset(customer.ID).WithGroup(model.GroupCrypto).Build(t, db)
		backend := testutil.NewMockBackend(testutil.NewTestStore(t, db)).
			WithInvestmentError(asset.ID, errors.New("upstream timeout"))
		svc := testutil.NewTestAssetService(t, backend)

		// Execute
		_, err := svc.AssetDetail(ctx, asset.ID)

		// Assert
		if !errors.Is(err, apperrors.ErrFailedToRetrieveAsset) {
			t.Errorf("Expected ErrFailedToRetrieveAsset, got %v", err)
		}
	})
}

// TestAssetService_DeleteAsset tests the DeleteAsset method.
//
// WHY: A deleted asset must disappear from every cached view, including the
// detail that was served from cache a moment ago.
func TestAssetService_DeleteAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and invalidates the cached detail", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAssetService(t, testutil.NewTestStore(t, db))
		customer := testutil.NewCustomer().Build(t, db)
		asset := testutil.NewAsset(customer.ID).WithOwner(customer.ID, 1, nil).Build(t, db)

		if _, err := svc.AssetDetail(ctx, asset.ID); err != nil {
			t.Fatalf("AssetDetail() returned unexpected error: %v", err)
		}

		// Execute
		err := svc.DeleteAsset(ctx, asset.ID)

		// Assert
		if err != nil {
			t.Fatalf("DeleteAsset() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "asset", 0)
		testutil.AssertRowCount(t, db, "asset_owner", 0)

		if _, err := svc.AssetDetail(ctx, asset.ID); !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound after delete, got %v", err)
		}
	})

	t.Run("unknown asset", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAssetService(t, testutil.NewTestStore(t, db))

		// Execute
		err := svc.DeleteAsset(ctx, testutil.MakeID())

		// Assert
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}
	})
}
