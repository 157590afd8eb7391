package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/wealth-manager-backend/internal/address"
	"github.com/ndewijer/wealth-manager-backend/internal/config"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/testutil"
)

func setupRouter(t *testing.T) (http.Handler, model.Asset) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	store := testutil.NewTestStore(t, db)

	testutil.NewManager().WithToken("full-access").Build(t, db)
	testutil.NewManager().WithToken("no-wealth").WithDisabledFeatures(model.FeatureWealth).Build(t, db)

	customer := testutil.NewCustomer().Build(t, db)
	asset := testutil.NewAsset(customer.ID).Build(t, db)

	svc := Services{
		System:     testutil.NewTestSystemService(t, store),
		Session:    testutil.NewTestSessionService(t, store),
		Wealth:     testutil.NewTestWealthService(t, store),
		Asset:      testutil.NewTestAssetService(t, store),
		Ownership:  testutil.NewTestOwnershipService(t, store, true),
		Search:     testutil.NewTestSearchService(t, store),
		Customer:   testutil.NewTestCustomerService(t, store),
		Conformity: testutil.NewTestConformityService(t, store),
		Address:    address.NewClient("http://127.0.0.1:1", nil),
	}
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}

	return NewRouter(svc, cfg), asset
}

func TestRouter(t *testing.T) {
	router, asset := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/api/system/health", "", http.StatusOK},
		{"version is public", http.MethodGet, "/api/system/version", "", http.StatusOK},
		{"session requires a token", http.MethodGet, "/api/session", "", http.StatusUnauthorized},
		{"unknown token is rejected", http.MethodGet, "/api/session", "nope", http.StatusUnauthorized},
		{"session with a token", http.MethodGet, "/api/session", "full-access", http.StatusOK},
		{"asset detail", http.MethodGet, "/api/asset/" + asset.ID, "full-access", http.StatusOK},
		{"asset detail with a disabled feature", http.MethodGet, "/api/asset/" + asset.ID, "no-wealth", http.StatusForbidden},
		{"malformed asset id", http.MethodGet, "/api/asset/not-a-uuid", "full-access", http.StatusBadRequest},
		{"malformed customer id", http.MethodGet, "/api/company/" + testutil.DefaultCompanyID + "/customer/42/wealth", "full-access", http.StatusBadRequest},
		{"search stays enabled", http.MethodGet, "/api/search/assets", "no-wealth", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin, got %q", got)
	}
}
