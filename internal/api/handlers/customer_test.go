package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/testutil"
)

func TestCustomerHandler_UpdateCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewCustomerHandler(testutil.NewTestCustomerService(t, testutil.NewTestStore(t, db)))

	alice := testutil.NewCustomer().WithName("Alice", "Durand").WithEmail("alice@example.com").Build(t, db)
	bruno := testutil.NewCustomer().WithName("Bruno", "Petit").WithEmail("bruno@example.com").Build(t, db)
	locked := testutil.NewCustomer().WithEmail("locked@example.com").WithPortalAccess().Build(t, db)

	put := func(customer model.Customer, body map[string]any) *httptest.ResponseRecorder {
		params := map[string]string{"companyId": customer.CompanyID, "customerId": customer.ID}
		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPut, "/api/company/x/customer/y", params, body)
		w := httptest.NewRecorder()
		handler.UpdateCustomer(w, req)
		return w
	}

	t.Run("updates and trims the identity", func(t *testing.T) {
		w := put(alice, map[string]any{"firstName": "  Alicia ", "lastName": "Durand", "email": "alicia@example.com"})

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		customer := testutil.DecodeJSON[model.Customer](t, w)
		if customer.FirstName != "Alicia" || customer.Email != "alicia@example.com" {
			t.Errorf("Unexpected customer %+v", customer)
		}
	})

	t.Run("returns 409 when the email is taken", func(t *testing.T) {
		w := put(alice, map[string]any{"firstName": "Alicia", "lastName": "Durand", "email": bruno.Email})

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 403 when portal access locks the email", func(t *testing.T) {
		w := put(locked, map[string]any{"firstName": "Jean", "lastName": "Roux", "email": "other@example.com"})

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("keeps the email of a locked customer editable by name", func(t *testing.T) {
		w := put(locked, map[string]any{"firstName": "Jean", "lastName": "Roux", "email": locked.Email})

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on validation errors", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]any
		}{
			{"blank first name", map[string]any{"firstName": "   ", "lastName": "Durand", "email": "a@example.com"}},
			{"bad email", map[string]any{"firstName": "A", "lastName": "Durand", "email": "not-an-email"}},
			{"unknown field", map[string]any{"firstName": "A", "lastName": "B", "email": "a@example.com", "phone": "1"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := put(alice, tt.body)
				if w.Code != http.StatusBadRequest {
					t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
				}
			})
		}
	})

	t.Run("returns 404 for an unknown customer", func(t *testing.T) {
		w := put(model.Customer{ID: testutil.MakeID(), CompanyID: testutil.DefaultCompanyID},
			map[string]any{"firstName": "A", "lastName": "B", "email": "a@example.com"})

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestCustomerHandler_UpdateCustomer_UpstreamCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := testutil.NewCustomer().Build(t, db)

	mock := testutil.NewMockBackend(testutil.NewTestStore(t, db))
	handler := NewCustomerHandler(testutil.NewTestCustomerService(t, mock))

	mock.UpdateCustomerError = errors.New("boom")

	params := map[string]string{"companyId": customer.CompanyID, "customerId": customer.ID}
	req := testutil.NewJSONRequestWithURLParams(t, http.MethodPut, "/api/company/x/customer/y", params,
		map[string]any{"firstName": "A", "lastName": "B", "email": "a@example.com"})
	w := httptest.NewRecorder()

	handler.UpdateCustomer(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for an unclassified failure, got %d", w.Code)
	}
}
