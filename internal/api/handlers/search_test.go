package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/pagination"
	"github.com/ndewijer/wealth-manager-backend/internal/testutil"
)

func TestSearchHandler_SearchAssets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSearchHandler(testutil.NewTestSearchService(t, testutil.NewTestStore(t, db)))

	customer := testutil.NewCustomer().Build(t, db)
	testutil.NewAsset(customer.ID).WithName("Alpha").WithValuation(100).Build(t, db)
	testutil.NewAsset(customer.ID).WithName("Beta").WithValuation(300).Build(t, db)
	testutil.NewAsset(customer.ID).WithName("Gamma").WithValuation(200).Build(t, db)

	t.Run("sorts and paginates", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/search/assets", map[string]string{
			"sort":     "valuation",
			"dir":      "desc",
			"per_page": "2",
		})
		w := httptest.NewRecorder()

		handler.SearchAssets(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		page := testutil.DecodeJSON[pagination.PageResponse[model.SearchRow]](t, w)
		if page.TotalItems != 3 || page.TotalPages != 2 {
			t.Errorf("Expected 3 items on 2 pages, got %d on %d", page.TotalItems, page.TotalPages)
		}
		if len(page.Data) != 2 || page.Data[0].Name != "Beta" || page.Data[1].Name != "Gamma" {
			t.Errorf("Expected Beta then Gamma, got %+v", page.Data)
		}
	})

	t.Run("returns 400 for an unknown sort key", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/search/assets", map[string]string{"sort": "color"})
		w := httptest.NewRecorder()

		handler.SearchAssets(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
