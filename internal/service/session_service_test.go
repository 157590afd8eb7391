package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/testutil"
)

// TestSessionService_Authenticate tests the Authenticate method.
//
// WHY: Every request resolves its bearer token. Disabled features must come
// back with the session so routes can be gated per manager.
func TestSessionService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSessionService(t, testutil.NewTestStore(t, db))
		manager := testutil.NewManager().WithToken("s3cr3t").WithDisabledFeatures(model.FeatureSearch).Build(t, db)

		// Execute
		session, err := svc.Authenticate(ctx, "s3cr3t")

		// Assert
		if err != nil {
			t.Fatalf("Authenticate() returned unexpected error: %v", err)
		}
		if session.ManagerID != manager.ManagerID {
			t.Errorf("Expected manager %s, got %s", manager.ManagerID, session.ManagerID)
		}
		if session.FeatureEnabled(model.FeatureSearch) {
			t.Error("Expected search to be disabled")
		}
		if !session.FeatureEnabled(model.FeatureWealth) {
			t.Error("Expected wealth to be enabled")
		}
	})

	t.Run("unknown and empty tokens", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSessionService(t, testutil.NewTestStore(t, db))

		// Execute
		_, errUnknown := svc.Authenticate(ctx, "nope")
		_, errEmpty := svc.Authenticate(ctx, "")

		// Assert
		if !errors.Is(errUnknown, apperrors.ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated for an unknown token, got %v", errUnknown)
		}
		if !errors.Is(errEmpty, apperrors.ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated for an empty token, got %v", errEmpty)
		}
	})

	t.Run("sessions are cached", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSessionService(t, testutil.NewTestStore(t, db))
		testutil.NewManager().WithToken("cached").Build(t, db)

		if _, err := svc.Authenticate(ctx, "cached"); err != nil {
			t.Fatalf("Authenticate() returned unexpected error: %v", err)
		}
		if _, err := db.Exec(`DELETE FROM manager`); err != nil {
			t.Fatalf("Failed to delete manager: %v", err)
		}

		// Execute
		_, err := svc.Authenticate(ctx, "cached")

		// Assert
		if err != nil {
			t.Errorf("Expected the cached session, got %v", err)
		}
	})
}
