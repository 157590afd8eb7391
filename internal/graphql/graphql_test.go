package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// upstream is a fake GraphQL endpoint answering every request with body and
// recording the last request it received.
type upstream struct {
	status int
	body   string

	auth    string
	request request
}

func (u *upstream) serve(t *testing.T) *Backend {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &u.request)
		status := u.status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, u.body)
	}))
	t.Cleanup(srv.Close)
	return NewBackend(NewClient(srv.URL, srv.Client()))
}

func tokenCtx() context.Context {
	return service.WithBearerToken(context.Background(), "tok-123")
}

func TestField_UnmarshalJSON(t *testing.T) {
	type payload struct {
		Amount Field[float64] `json:"amount"`
	}

	tests := []struct {
		name    string
		raw     string
		present bool
		null    bool
		value   float64
	}{
		{"absent", `{}`, false, false, 0},
		{"null", `{"amount": null}`, true, true, 0},
		{"zero", `{"amount": 0}`, true, false, 0},
		{"value", `{"amount": 12.5}`, true, false, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			assert.Equal(t, tt.present, p.Amount.Present)
			assert.Equal(t, tt.null, p.Amount.Null)
			v, ok := p.Amount.Get()
			assert.Equal(t, tt.present && !tt.null, ok)
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestClient_Do(t *testing.T) {
	t.Run("sends document, variables and bearer token", func(t *testing.T) {
		u := &upstream{body: `{"data":{"customer":{"id":"c1","firstName":"Anne","lastName":"Martin","email":"anne@example.com","portalAccess":true}}}`}
		b := u.serve(t)

		c, err := b.Customer(tokenCtx(), "co1", "c1")
		require.NoError(t, err)

		assert.Equal(t, "Bearer tok-123", u.auth)
		assert.Contains(t, u.request.Query, "query Customer")
		assert.Equal(t, "co1", u.request.Variables["companyId"])
		assert.Equal(t, "c1", u.request.Variables["customerId"])
		assert.Equal(t, "Anne Martin", c.DisplayName())
		assert.True(t, c.PortalAccess)
	})

	t.Run("HTTP 401 is unauthenticated", func(t *testing.T) {
		u := &upstream{status: http.StatusUnauthorized, body: `{}`}
		err := u.serve(t).Ping(tokenCtx())
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("UNAUTHENTICATED code is unauthenticated", func(t *testing.T) {
		u := &upstream{body: `{"errors":[{"message":"token expired","extensions":{"code":"UNAUTHENTICATED"}}]}`}
		err := u.serve(t).Ping(tokenCtx())
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("HTTP 500 is a plain failure", func(t *testing.T) {
		u := &upstream{status: http.StatusInternalServerError, body: `boom`}
		err := u.serve(t).Ping(tokenCtx())
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrUnauthenticated)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("business codes are classified", func(t *testing.T) {
		u := &upstream{body: `{"errors":[{"message":"email taken","extensions":{"code":"EMAIL_ALREADY_EXISTS"}}],"data":null}`}
		_, err := u.serve(t).UpdateCustomer(tokenCtx(), "co1", "c1", model.CustomerUpdate{Email: "x@example.com"})
		require.Error(t, err)

		var gqlErr *Error
		require.True(t, errors.As(err, &gqlErr))
		assert.True(t, gqlErr.HasCode("EMAIL_ALREADY_EXISTS"))
		assert.Equal(t, apperrors.KindEmailExists, apperrors.Classify(err).Kind)
	})
}

func TestOperationName(t *testing.T) {
	assert.Equal(t, "Customer", operationName(customerQuery))
	assert.Equal(t, "updateAssetOwnership", operationName(updateAssetOwnershipMutation))
	assert.Equal(t, "Ping", operationName(pingQuery))
	assert.Equal(t, "anonymous", operationName("{ __typename }"))
}

func TestBackend_Authenticate(t *testing.T) {
	t.Run("uses the given token", func(t *testing.T) {
		u := &upstream{body: `{"data":{"authenticated":{"id":"m1","email":"m@example.com","disabledFeatures":["search"]}}}`}
		s, err := u.serve(t).Authenticate(context.Background(), "explicit")
		require.NoError(t, err)
		assert.Equal(t, "Bearer explicit", u.auth)
		assert.Equal(t, "m1", s.ManagerID)
		assert.False(t, s.FeatureEnabled(model.FeatureSearch))
	})

	t.Run("null session is unauthenticated", func(t *testing.T) {
		u := &upstream{body: `{"data":{"authenticated":null}}`}
		_, err := u.serve(t).Authenticate(context.Background(), "tok")
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("absent disabled features is an empty list", func(t *testing.T) {
		u := &upstream{body: `{"data":{"authenticated":{"id":"m1"}}}`}
		s, err := u.serve(t).Authenticate(context.Background(), "tok")
		require.NoError(t, err)
		assert.NotNil(t, s.DisabledFeatures)
		assert.Empty(t, s.DisabledFeatures)
	})
}

func TestBackend_CustomerAssets(t *testing.T) {
	t.Run("maps assets and owners", func(t *testing.T) {
		u := &upstream{body: `{"data":{"customer":{"id":"c1","assets":[
			{"id":"a1","group":"Banking","name":"Current account","valuation":{"amount":1000,"currency":"EUR"},
			 "createdAt":"2024-03-01T10:00:00Z",
			 "owners":[{"entity":{"id":"c1","firstName":"Anne","lastName":"Martin"},"ownership":1,"mode":"fullProperty"}]},
			{"id":"a2","group":"HomeLoan","name":"Mortgage","valuation":{"amount":-120000},"createdAt":"2024-01-15"}
		]}}}`}

		assets, err := u.serve(t).CustomerAssets(tokenCtx(), "co1", "c1")
		require.NoError(t, err)
		require.Len(t, assets, 2)

		assert.Equal(t, model.GroupBanking, assets[0].Group)
		assert.Equal(t, "c1", assets[0].CustomerID)
		require.Len(t, assets[0].Owners, 1)
		require.NotNil(t, assets[0].Owners[0].Mode)
		assert.Equal(t, model.ModeFullProperty, *assets[0].Owners[0].Mode)
		assert.Equal(t, "Anne Martin", assets[0].Owners[0].EntityName)

		assert.Equal(t, "EUR", assets[1].Valuation.Currency)
		assert.Equal(t, 2024, assets[1].CreatedAt.Year())
		assert.NotNil(t, assets[1].Owners, "absent owners must be an empty list")
		assert.Empty(t, assets[1].Owners)
		assert.Nil(t, assets[1].Investments)
	})

	t.Run("null customer is not found", func(t *testing.T) {
		u := &upstream{body: `{"data":{"customer":null}}`}
		_, err := u.serve(t).CustomerAssets(tokenCtx(), "co1", "c1")
		assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
	})

	t.Run("missing asset id is rejected", func(t *testing.T) {
		u := &upstream{body: `{"data":{"customer":{"id":"c1","assets":[{"group":"Banking"}]}}}`}
		_, err := u.serve(t).CustomerAssets(tokenCtx(), "co1", "c1")
		assert.ErrorIs(t, err, apperrors.ErrMissingRequiredField)
	})

	t.Run("unknown ownership mode is rejected", func(t *testing.T) {
		u := &upstream{body: `{"data":{"customer":{"id":"c1","assets":[
			{"id":"a1","owners":[{"entity":{"id":"c1"},"ownership":1,"mode":"lease"}]}]}}}`}
		_, err := u.serve(t).CustomerAssets(tokenCtx(), "co1", "c1")
		assert.ErrorIs(t, err, apperrors.ErrDataInconsistency)
	})
}

func TestBackend_AssetInvestments(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		u := &upstream{body: `{"data":{"asset":{"id":"a1","investments":[]}}}`}
		got, err := u.serve(t).AssetInvestments(tokenCtx(), "a1")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("absent field is an error", func(t *testing.T) {
		u := &upstream{body: `{"data":{"asset":{"id":"a1"}}}`}
		_, err := u.serve(t).AssetInvestments(tokenCtx(), "a1")
		assert.ErrorIs(t, err, apperrors.ErrMissingRequiredField)
	})

	t.Run("positions", func(t *testing.T) {
		u := &upstream{body: `{"data":{"asset":{"id":"a1","investments":[
			{"id":"i1","name":"World ETF","quantity":10,"unitPrice":100,"unitValue":110,"valuation":1100,"sri":4,"lastValuationDate":"2024-06-30"}]}}}`}
		got, err := u.serve(t).AssetInvestments(tokenCtx(), "a1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a1", got[0].AssetID)
		assert.Equal(t, 1100.0, got[0].Valuation)
		assert.InDelta(t, 100.0, got[0].Performance().Gain, 1e-9)
	})
}

func TestBackend_AssetPerformance(t *testing.T) {
	t.Run("null performance is nil", func(t *testing.T) {
		u := &upstream{body: `{"data":{"asset":{"id":"a1","performance":null}}}`}
		got, err := u.serve(t).AssetPerformance(tokenCtx(), "a1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("figure", func(t *testing.T) {
		u := &upstream{body: `{"data":{"asset":{"id":"a1","performance":{"gain":250,"evolutionPercent":5}}}}`}
		got, err := u.serve(t).AssetPerformance(tokenCtx(), "a1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 250.0, got.Gain)
	})
}

func TestBackend_AssetOwnership(t *testing.T) {
	u := &upstream{body: `{"data":{"asset":{"id":"a1",
		"owners":[{"entity":{"id":"c2","firstName":"Leo","lastName":"Martin"},"ownership":0.5,"mode":null}],
		"customer":{"id":"c1","firstName":"Anne","lastName":"Martin","relatedEntities":[
			{"id":"c2","firstName":"Leo","lastName":"Martin","relation":"child"},
			{"id":"c1","firstName":"Anne","lastName":"Martin","relation":"self"}]}}}}`}

	owners, related, err := u.serve(t).AssetOwnership(tokenCtx(), "a1")
	require.NoError(t, err)

	require.Len(t, owners, 1)
	assert.Nil(t, owners[0].Mode)
	assert.Equal(t, []model.RelatedEntity{
		{ID: "c1", Name: "Anne Martin", Relation: "self"},
		{ID: "c2", Name: "Leo Martin", Relation: "child"},
	}, related)
}

func TestBackend_UpdateAssetOwnership(t *testing.T) {
	u := &upstream{body: `{"data":{"updateAssetOwnership":{"id":"a1"}}}`}
	b := u.serve(t)

	usufruct := model.ModeUsufruct
	err := b.UpdateAssetOwnership(tokenCtx(), "a1", []model.AssetOwner{
		{EntityID: "c1", Ownership: 1, Mode: &usufruct},
		{EntityID: "c2", Ownership: 1},
	})
	require.NoError(t, err)

	rows, ok := u.request.Variables["owners"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "usufruct", rows[0].(map[string]any)["mode"])
	assert.Nil(t, rows[1].(map[string]any)["mode"])
}

func TestBackend_SearchAssets(t *testing.T) {
	u := &upstream{body: `{"data":{"searchAssets":[
		{"id":"a1","group":"Securities","customer":{"firstName":"Anne","lastName":"Martin"},
		 "investments":[{"id":"i1","name":"World ETF","valuation":1100}]}]}}`}
	b := u.serve(t)

	minAmount := 500.0
	assets, err := b.SearchAssets(tokenCtx(), model.AssetSearch{Text: "world", MinAmount: &minAmount})
	require.NoError(t, err)

	filter := u.request.Variables["filter"].(map[string]any)
	assert.Equal(t, "world", filter["text"])
	assert.Equal(t, 500.0, filter["minAmount"])
	assert.NotContains(t, filter, "maxAmount")

	require.Len(t, assets, 1)
	assert.Equal(t, "Anne Martin", assets[0].CustomerName)
	require.Len(t, assets[0].Investments, 1)
}

func TestBackend_LCB(t *testing.T) {
	t.Run("null form is not found", func(t *testing.T) {
		u := &upstream{body: `{"data":{"lcbForm":null}}`}
		_, err := u.serve(t).LCB(tokenCtx(), "c1")
		assert.ErrorIs(t, err, apperrors.ErrLCBNotFound)
	})

	t.Run("update sends answers in questionnaire order", func(t *testing.T) {
		u := &upstream{body: `{"data":{"updateLCB":{"answers":[{"key":"fundsOrigin","value":"salary"}],"updatedAt":"2024-05-02T08:00:00Z"}}}`}
		form, err := u.serve(t).UpdateLCB(tokenCtx(), "c1", map[string]string{
			model.LCBFundsOrigin:           "salary",
			model.LCBProfessionalSituation: "employee",
		})
		require.NoError(t, err)

		rows := u.request.Variables["answers"].([]any)
		require.Len(t, rows, 2)
		assert.Equal(t, model.LCBProfessionalSituation, rows[0].(map[string]any)["key"])
		assert.Equal(t, "salary", form.Answers[model.LCBFundsOrigin])
		require.NotNil(t, form.UpdatedAt)
	})
}

func TestBackend_DeleteAsset(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		u := &upstream{body: `{"data":{"deleteAsset":true}}`}
		assert.NoError(t, u.serve(t).DeleteAsset(tokenCtx(), "a1"))
	})

	t.Run("false is not found", func(t *testing.T) {
		u := &upstream{body: `{"data":{"deleteAsset":false}}`}
		assert.ErrorIs(t, u.serve(t).DeleteAsset(tokenCtx(), "a1"), apperrors.ErrAssetNotFound)
	})
}
