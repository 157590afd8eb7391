package graphql

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// Backend serves the service contract from the upstream GraphQL API. The
// caller's bearer token is read from the context and forwarded with every
// request.
type Backend struct {
	client *Client
}

var _ service.Backend = (*Backend)(nil)

// NewBackend creates a Backend over client.
func NewBackend(client *Client) *Backend {
	return &Backend{client: client}
}

func (b *Backend) do(ctx context.Context, query string, variables map[string]any, out any) error {
	return b.client.Do(ctx, service.BearerToken(ctx), query, variables, out)
}

// Authenticate uses token rather than the context one: it runs before the
// session is known.
func (b *Backend) Authenticate(ctx context.Context, token string) (model.Session, error) {
	var data struct {
		Authenticated *sessionNode `json:"authenticated"`
	}
	if err := b.client.Do(ctx, token, authenticatedQuery, nil, &data); err != nil {
		return model.Session{}, err
	}
	if data.Authenticated == nil || data.Authenticated.ID == "" {
		return model.Session{}, apperrors.ErrUnauthenticated
	}
	disabled, _ := data.Authenticated.DisabledFeatures.Get()
	if disabled == nil {
		disabled = []string{}
	}
	return model.Session{
		ManagerID:        data.Authenticated.ID,
		Email:            data.Authenticated.Email.Or(""),
		DisabledFeatures: disabled,
	}, nil
}

func (b *Backend) Customer(ctx context.Context, companyID, customerID string) (model.Customer, error) {
	var data struct {
		Customer *customerNode `json:"customer"`
	}
	vars := map[string]any{"companyId": companyID, "customerId": customerID}
	if err := b.do(ctx, customerQuery, vars, &data); err != nil {
		return model.Customer{}, err
	}
	if data.Customer == nil {
		return model.Customer{}, apperrors.ErrCustomerNotFound
	}
	return data.Customer.toModel(), nil
}

// UpdateCustomer sends the identity fields. Business rule violations come
// back as *Error with their upstream code and are left for Classify.
func (b *Backend) UpdateCustomer(ctx context.Context, companyID, customerID string, upd model.CustomerUpdate) (model.Customer, error) {
	var data struct {
		UpdateCustomer *customerNode `json:"updateCustomer"`
	}
	vars := map[string]any{
		"companyId":  companyID,
		"customerId": customerID,
		"input": map[string]any{
			"firstName": upd.FirstName,
			"lastName":  upd.LastName,
			"email":     upd.Email,
		},
	}
	if err := b.do(ctx, updateCustomerMutation, vars, &data); err != nil {
		return model.Customer{}, err
	}
	if data.UpdateCustomer == nil {
		return model.Customer{}, apperrors.ErrCustomerNotFound
	}
	return data.UpdateCustomer.toModel(), nil
}

func (b *Backend) CustomerAssets(ctx context.Context, companyID, customerID string) ([]model.Asset, error) {
	var data struct {
		Customer *struct {
			ID     string             `json:"id"`
			Assets Field[[]assetNode] `json:"assets"`
		} `json:"customer"`
	}
	vars := map[string]any{"companyId": companyID, "customerId": customerID}
	if err := b.do(ctx, customerWealthQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Customer == nil {
		return nil, apperrors.ErrCustomerNotFound
	}
	nodes, _ := data.Customer.Assets.Get()
	assets, err := assetsToModel(nodes)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		if assets[i].CustomerID == "" {
			assets[i].CustomerID = customerID
		}
	}
	return assets, nil
}

func (b *Backend) Asset(ctx context.Context, assetID string) (model.Asset, error) {
	var data struct {
		Asset *assetNode `json:"asset"`
	}
	if err := b.do(ctx, assetDetailQuery, map[string]any{"assetId": assetID}, &data); err != nil {
		return model.Asset{}, err
	}
	if data.Asset == nil {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	return data.Asset.toModel()
}

// AssetInvestments returns an empty list when the asset has none. A payload
// without the investments field is an upstream defect.
func (b *Backend) AssetInvestments(ctx context.Context, assetID string) ([]model.Investment, error) {
	var data struct {
		Asset *assetNode `json:"asset"`
	}
	if err := b.do(ctx, assetInvestmentsQuery, map[string]any{"assetId": assetID}, &data); err != nil {
		return nil, err
	}
	if data.Asset == nil {
		return nil, apperrors.ErrAssetNotFound
	}
	if !data.Asset.Investments.Present {
		return nil, fmt.Errorf("%w: investments of asset %s", apperrors.ErrMissingRequiredField, assetID)
	}
	return investmentsToModel(assetID, data.Asset.Investments)
}

func (b *Backend) AssetPerformance(ctx context.Context, assetID string) (*model.Performance, error) {
	var data struct {
		Asset *assetNode `json:"asset"`
	}
	if err := b.do(ctx, assetPerformanceQuery, map[string]any{"assetId": assetID}, &data); err != nil {
		return nil, err
	}
	if data.Asset == nil {
		return nil, apperrors.ErrAssetNotFound
	}
	perf, ok := data.Asset.Performance.Get()
	if !ok {
		return nil, nil
	}
	return &model.Performance{
		Gain:             perf.Gain.Or(0),
		EvolutionPercent: perf.EvolutionPercent.Or(0),
	}, nil
}

func (b *Backend) DeleteAsset(ctx context.Context, assetID string) error {
	var data struct {
		DeleteAsset Field[bool] `json:"deleteAsset"`
	}
	if err := b.do(ctx, assetDeletionMutation, map[string]any{"assetId": assetID}, &data); err != nil {
		return err
	}
	if deleted, ok := data.DeleteAsset.Get(); !ok || !deleted {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

// AssetOwnership lists the owners and the entities eligible to a share: the
// asset's customer first, then its related entities.
func (b *Backend) AssetOwnership(ctx context.Context, assetID string) ([]model.AssetOwner, []model.RelatedEntity, error) {
	var data struct {
		Asset *ownershipNode `json:"asset"`
	}
	if err := b.do(ctx, assetOwnershipQuery, map[string]any{"assetId": assetID}, &data); err != nil {
		return nil, nil, err
	}
	if data.Asset == nil {
		return nil, nil, apperrors.ErrAssetNotFound
	}

	owners, err := ownersToModel(data.Asset.Owners)
	if err != nil {
		return nil, nil, err
	}

	related := []model.RelatedEntity{}
	if c := data.Asset.Customer; c != nil && c.ID != "" {
		related = append(related, model.RelatedEntity{ID: c.ID, Name: c.displayName(), Relation: "self"})
		entities, _ := c.RelatedEntities.Get()
		for _, e := range entities {
			if e.ID == "" || e.ID == c.ID {
				continue
			}
			related = append(related, model.RelatedEntity{
				ID:       e.ID,
				Name:     e.displayName(),
				Relation: e.Relation.Or(""),
			})
		}
	}
	return owners, related, nil
}

func (b *Backend) UpdateAssetOwnership(ctx context.Context, assetID string, owners []model.AssetOwner) error {
	input := make([]map[string]any, 0, len(owners))
	for _, o := range owners {
		row := map[string]any{"entityId": o.EntityID, "ownership": o.Ownership, "mode": nil}
		if o.Mode != nil {
			row["mode"] = string(*o.Mode)
		}
		input = append(input, row)
	}

	var data struct {
		UpdateAssetOwnership *struct {
			ID string `json:"id"`
		} `json:"updateAssetOwnership"`
	}
	vars := map[string]any{"assetId": assetID, "owners": input}
	if err := b.do(ctx, updateAssetOwnershipMutation, vars, &data); err != nil {
		return err
	}
	if data.UpdateAssetOwnership == nil {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

func (b *Backend) SearchAssets(ctx context.Context, search model.AssetSearch) ([]model.Asset, error) {
	filter := map[string]any{}
	if search.CustomerID != "" {
		filter["customerId"] = search.CustomerID
	}
	if search.Text != "" {
		filter["text"] = search.Text
	}
	if search.From != nil {
		filter["from"] = search.From.UTC().Format(time.RFC3339)
	}
	if search.To != nil {
		filter["to"] = search.To.UTC().Format(time.RFC3339)
	}
	if search.MinAmount != nil {
		filter["minAmount"] = *search.MinAmount
	}
	if search.MaxAmount != nil {
		filter["maxAmount"] = *search.MaxAmount
	}

	var data struct {
		SearchAssets Field[[]assetNode] `json:"searchAssets"`
	}
	if err := b.do(ctx, searchAssetsQuery, map[string]any{"filter": filter}, &data); err != nil {
		return nil, err
	}
	nodes, _ := data.SearchAssets.Get()
	return assetsToModel(nodes)
}

// LCB returns apperrors.ErrLCBNotFound when the customer has no questionnaire.
func (b *Backend) LCB(ctx context.Context, customerID string) (model.LCBForm, error) {
	var data struct {
		LCBForm *lcbNode `json:"lcbForm"`
	}
	if err := b.do(ctx, lcbQuery, map[string]any{"customerId": customerID}, &data); err != nil {
		return model.LCBForm{}, err
	}
	if data.LCBForm == nil {
		return model.LCBForm{}, apperrors.ErrLCBNotFound
	}
	return data.LCBForm.toModel(customerID)
}

func (b *Backend) UpdateLCB(ctx context.Context, customerID string, answers map[string]string) (model.LCBForm, error) {
	input := make([]map[string]string, 0, len(answers))
	for _, key := range model.LCBQuestions {
		if v, ok := answers[key]; ok {
			input = append(input, map[string]string{"key": key, "value": v})
		}
	}

	var data struct {
		UpdateLCB *lcbNode `json:"updateLCB"`
	}
	vars := map[string]any{"customerId": customerID, "answers": input}
	if err := b.do(ctx, updateLCBMutation, vars, &data); err != nil {
		return model.LCBForm{}, err
	}
	if data.UpdateLCB == nil {
		return model.LCBForm{}, apperrors.ErrCustomerNotFound
	}
	return data.UpdateLCB.toModel(customerID)
}

func (b *Backend) Ping(ctx context.Context) error {
	var data struct {
		Typename string `json:"__typename"`
	}
	return b.do(ctx, pingQuery, nil, &data)
}
