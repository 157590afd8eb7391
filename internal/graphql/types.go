package graphql

import (
	"fmt"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// Response shapes, one per document. Every field the upstream may omit or
// null out is a Field; objects whose absence means "not found" are pointers.

type personNode struct {
	ID        string        `json:"id"`
	FirstName Field[string] `json:"firstName"`
	LastName  Field[string] `json:"lastName"`
}

func (p personNode) displayName() string {
	return model.Customer{FirstName: p.FirstName.Or(""), LastName: p.LastName.Or("")}.DisplayName()
}

type ownerNode struct {
	Entity    *personNode    `json:"entity"`
	Ownership Field[float64] `json:"ownership"`
	Mode      Field[string]  `json:"mode"`
}

type valuationNode struct {
	Amount   Field[float64] `json:"amount"`
	Currency Field[string]  `json:"currency"`
}

type investmentNode struct {
	ID                string         `json:"id"`
	Name              Field[string]  `json:"name"`
	Code              Field[string]  `json:"code"`
	Category          Field[string]  `json:"category"`
	Quantity          Field[float64] `json:"quantity"`
	UnitPrice         Field[float64] `json:"unitPrice"`
	UnitValue         Field[float64] `json:"unitValue"`
	Valuation         Field[float64] `json:"valuation"`
	SRI               Field[int]     `json:"sri"`
	LastValuationDate Field[string]  `json:"lastValuationDate"`
}

type assetNode struct {
	ID              string                  `json:"id"`
	CustomerID      Field[string]           `json:"customerId"`
	Customer        *personNode             `json:"customer"`
	Group           Field[string]           `json:"group"`
	CategoryName    Field[string]           `json:"categoryName"`
	Name            Field[string]           `json:"name"`
	Valuation       Field[valuationNode]    `json:"valuation"`
	UnderManagement Field[bool]             `json:"underManagement"`
	Metadata        Field[map[string]any]   `json:"metadata"`
	CreatedAt       Field[string]           `json:"createdAt"`
	Owners          Field[[]ownerNode]      `json:"owners"`
	Investments     Field[[]investmentNode] `json:"investments"`
	Performance     Field[performanceNode]  `json:"performance"`
}

type performanceNode struct {
	Gain             Field[float64] `json:"gain"`
	EvolutionPercent Field[float64] `json:"evolutionPercent"`
}

type relatedEntityNode struct {
	personNode
	Relation Field[string] `json:"relation"`
}

type ownershipNode struct {
	ID       string             `json:"id"`
	Owners   Field[[]ownerNode] `json:"owners"`
	Customer *struct {
		personNode
		RelatedEntities Field[[]relatedEntityNode] `json:"relatedEntities"`
	} `json:"customer"`
}

type customerNode struct {
	ID           string        `json:"id"`
	CompanyID    Field[string] `json:"companyId"`
	FirstName    Field[string] `json:"firstName"`
	LastName     Field[string] `json:"lastName"`
	Email        Field[string] `json:"email"`
	PortalAccess Field[bool]   `json:"portalAccess"`
}

type lcbAnswerNode struct {
	Key   string        `json:"key"`
	Value Field[string] `json:"value"`
}

type lcbNode struct {
	Answers   Field[[]lcbAnswerNode] `json:"answers"`
	UpdatedAt Field[string]          `json:"updatedAt"`
}

type sessionNode struct {
	ID               string          `json:"id"`
	Email            Field[string]   `json:"email"`
	DisabledFeatures Field[[]string] `json:"disabledFeatures"`
}

// Conversions to the domain model.

func parseTimestamp(field Field[string]) (time.Time, error) {
	s, ok := field.Get()
	if !ok || s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", apperrors.ErrDataInconsistency, s)
}

func (o ownerNode) toModel() (model.AssetOwner, error) {
	if o.Entity == nil || o.Entity.ID == "" {
		return model.AssetOwner{}, fmt.Errorf("%w: owner entity", apperrors.ErrMissingRequiredField)
	}
	owner := model.AssetOwner{
		EntityID:   o.Entity.ID,
		EntityName: o.Entity.displayName(),
		Ownership:  o.Ownership.Or(0),
	}
	if m, ok := o.Mode.Get(); ok && m != "" {
		mode := model.OwnershipMode(m)
		if !mode.Valid() {
			return model.AssetOwner{}, fmt.Errorf("%w: unknown ownership mode %q", apperrors.ErrDataInconsistency, m)
		}
		owner.Mode = &mode
	}
	return owner, nil
}

func ownersToModel(nodes Field[[]ownerNode]) ([]model.AssetOwner, error) {
	list, _ := nodes.Get()
	owners := make([]model.AssetOwner, 0, len(list))
	for _, n := range list {
		o, err := n.toModel()
		if err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, nil
}

func (n investmentNode) toModel(assetID string) (model.Investment, error) {
	date, err := parseTimestamp(n.LastValuationDate)
	if err != nil {
		return model.Investment{}, err
	}
	return model.Investment{
		ID:                n.ID,
		AssetID:           assetID,
		Name:              n.Name.Or(""),
		Code:              n.Code.Or(""),
		Category:          n.Category.Or(""),
		Quantity:          n.Quantity.Or(0),
		UnitPrice:         n.UnitPrice.Or(0),
		UnitValue:         n.UnitValue.Or(0),
		Valuation:         n.Valuation.Or(0),
		SRI:               n.SRI.Or(0),
		LastValuationDate: date,
	}, nil
}

// investmentsToModel returns nil when the field is absent and an empty,
// non-nil slice when it is present but empty or null.
func investmentsToModel(assetID string, nodes Field[[]investmentNode]) ([]model.Investment, error) {
	if !nodes.Present {
		return nil, nil
	}
	list, _ := nodes.Get()
	out := make([]model.Investment, 0, len(list))
	for _, n := range list {
		inv, err := n.toModel(assetID)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (n assetNode) toModel() (model.Asset, error) {
	if n.ID == "" {
		return model.Asset{}, fmt.Errorf("%w: asset id", apperrors.ErrMissingRequiredField)
	}

	valuation := n.Valuation.Or(valuationNode{})
	a := model.Asset{
		ID:              n.ID,
		CustomerID:      n.CustomerID.Or(""),
		Group:           model.AssetGroup(n.Group.Or(string(model.GroupOther))),
		CategoryName:    n.CategoryName.Or(""),
		Name:            n.Name.Or(""),
		Valuation:       model.Valuation{Amount: valuation.Amount.Or(0), Currency: valuation.Currency.Or("EUR")},
		UnderManagement: n.UnderManagement.Or(false),
		Metadata:        n.Metadata.Or(nil),
	}
	if n.Customer != nil {
		a.CustomerName = n.Customer.displayName()
	}

	var err error
	if a.CreatedAt, err = parseTimestamp(n.CreatedAt); err != nil {
		return model.Asset{}, err
	}
	if a.Owners, err = ownersToModel(n.Owners); err != nil {
		return model.Asset{}, err
	}
	if a.Investments, err = investmentsToModel(n.ID, n.Investments); err != nil {
		return model.Asset{}, err
	}
	return a, nil
}

func assetsToModel(nodes []assetNode) ([]model.Asset, error) {
	assets := make([]model.Asset, 0, len(nodes))
	for _, n := range nodes {
		a, err := n.toModel()
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func (n customerNode) toModel() model.Customer {
	return model.Customer{
		ID:           n.ID,
		CompanyID:    n.CompanyID.Or(""),
		FirstName:    n.FirstName.Or(""),
		LastName:     n.LastName.Or(""),
		Email:        n.Email.Or(""),
		PortalAccess: n.PortalAccess.Or(false),
	}
}

func (n lcbNode) toModel(customerID string) (model.LCBForm, error) {
	form := model.LCBForm{CustomerID: customerID, Answers: map[string]string{}}
	list, _ := n.Answers.Get()
	for _, a := range list {
		if v, ok := a.Value.Get(); ok {
			form.Answers[a.Key] = v
		}
	}
	if _, ok := n.UpdatedAt.Get(); ok {
		t, err := parseTimestamp(n.UpdatedAt)
		if err != nil {
			return model.LCBForm{}, err
		}
		form.UpdatedAt = &t
	}
	return form, nil
}
