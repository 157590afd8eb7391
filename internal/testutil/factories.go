package testutil

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// ManagerBuilder provides a fluent interface for creating test managers.
//
// Example usage:
//
//	manager := testutil.NewManager().
//	    WithToken("secret-token").
//	    WithDisabledFeatures("search").
//	    Build(t, db)
type ManagerBuilder struct {
	ID               string
	Email            string
	Token            string
	DisabledFeatures []string
}

// NewManager creates a ManagerBuilder with sensible defaults.
func NewManager() *ManagerBuilder {
	return &ManagerBuilder{
		ID:    MakeID(),
		Email: MakeEmail("manager"),
		Token: "token-" + randomAlphanumeric(16),
	}
}

// WithToken sets the API token.
func (b *ManagerBuilder) WithToken(token string) *ManagerBuilder {
	b.Token = token
	return b
}

// WithDisabledFeatures sets the disabled features.
func (b *ManagerBuilder) WithDisabledFeatures(features ...string) *ManagerBuilder {
	b.DisabledFeatures = features
	return b
}

// Build creates the manager in the database and returns its session.
func (b *ManagerBuilder) Build(t *testing.T, db *sql.DB) model.Session {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO manager (id, email, api_token, disabled_features) VALUES (?, ?, ?, ?)`,
		b.ID, b.Email, b.Token, strings.Join(b.DisabledFeatures, ","),
	)
	if err != nil {
		t.Fatalf("Failed to create test manager: %v", err)
	}

	disabled := b.DisabledFeatures
	if disabled == nil {
		disabled = []string{}
	}
	return model.Session{ManagerID: b.ID, Email: b.Email, DisabledFeatures: disabled}
}

// CustomerBuilder provides a fluent interface for creating test customers.
//
// Example usage:
//
//	customer := testutil.NewCustomer().WithName("Jane", "Doe").WithPortalAccess().Build(t, db)
type CustomerBuilder struct {
	ID           string
	CompanyID    string
	FirstName    string
	LastName     string
	Email        string
	PortalAccess bool
}

// NewCustomer creates a CustomerBuilder with sensible defaults.
func NewCustomer() *CustomerBuilder {
	return &CustomerBuilder{
		ID:        MakeID(),
		CompanyID: DefaultCompanyID,
		FirstName: "Test",
		LastName:  "Customer " + randomAlphanumeric(4),
		Email:     MakeEmail("customer"),
	}
}

// WithID sets a custom ID.
func (b *CustomerBuilder) WithID(id string) *CustomerBuilder {
	b.ID = id
	return b
}

// WithCompany sets the company the customer belongs to.
func (b *CustomerBuilder) WithCompany(companyID string) *CustomerBuilder {
	b.CompanyID = companyID
	return b
}

// WithName sets first and last name.
func (b *CustomerBuilder) WithName(first, last string) *CustomerBuilder {
	b.FirstName = first
	b.LastName = last
	return b
}

// WithEmail sets the email.
func (b *CustomerBuilder) WithEmail(email string) *CustomerBuilder {
	b.Email = email
	return b
}

// WithPortalAccess grants portal access, which locks the email.
func (b *CustomerBuilder) WithPortalAccess() *CustomerBuilder {
	b.PortalAccess = true
	return b
}

// Build creates the customer in the database and returns it.
func (b *CustomerBuilder) Build(t *testing.T, db *sql.DB) model.Customer {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO customer (id, company_id, first_name, last_name, email, portal_access)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.CompanyID, b.FirstName, b.LastName, b.Email, b.PortalAccess)
	if err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}

	return model.Customer{
		ID:           b.ID,
		CompanyID:    b.CompanyID,
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		Email:        b.Email,
		PortalAccess: b.PortalAccess,
	}
}

// RelateCustomers links related to customer, making it eligible to own a
// share of the customer's assets. Relations are listed in creation order.
func RelateCustomers(t *testing.T, db *sql.DB, customerID, relatedID, relation string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO customer_relation (customer_id, related_id, relation, position)
		VALUES (?, ?, ?, (SELECT COUNT(*) FROM customer_relation WHERE customer_id = ?))
	`, customerID, relatedID, relation, customerID)
	if err != nil {
		t.Fatalf("Failed to relate test customers: %v", err)
	}
}

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	asset := testutil.NewAsset(customer.ID).
//	    WithGroup(model.GroupBanking).
//	    WithValuation(-200).
//	    WithOwner(customer.ID, 1, nil).
//	    Build(t, db)
type AssetBuilder struct {
	ID              string
	CustomerID      string
	Group           model.AssetGroup
	CategoryName    string
	Name            string
	Valuation       float64
	Currency        string
	UnderManagement bool
	Metadata        map[string]any
	Performance     *model.Performance
	CreatedAt       time.Time
	Owners          []model.AssetOwner
}

// NewAsset creates an AssetBuilder with sensible defaults: a 1000 EUR
// Banking asset created on 2024-01-01.
func NewAsset(customerID string) *AssetBuilder {
	return &AssetBuilder{
		ID:           MakeID(),
		CustomerID:   customerID,
		Group:        model.GroupBanking,
		CategoryName: "Current account",
		Name:         MakeAssetName("Asset"),
		Valuation:    1000,
		Currency:     "EUR",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.ID = id
	return b
}

// WithGroup sets the asset group.
func (b *AssetBuilder) WithGroup(group model.AssetGroup) *AssetBuilder {
	b.Group = group
	return b
}

// WithName sets the asset name.
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.Name = name
	return b
}

// WithValuation sets the valuation amount.
func (b *AssetBuilder) WithValuation(amount float64) *AssetBuilder {
	b.Valuation = amount
	return b
}

// WithCurrency sets the valuation currency.
func (b *AssetBuilder) WithCurrency(currency string) *AssetBuilder {
	b.Currency = currency
	return b
}

// WithUnderManagement marks the asset as managed by the firm.
func (b *AssetBuilder) WithUnderManagement() *AssetBuilder {
	b.UnderManagement = true
	return b
}

// WithMetadata sets the group-specific attributes.
func (b *AssetBuilder) WithMetadata(metadata map[string]any) *AssetBuilder {
	b.Metadata = metadata
	return b
}

// WithPerformance sets the stored top-level performance.
func (b *AssetBuilder) WithPerformance(gain, evolution float64) *AssetBuilder {
	b.Performance = &model.Performance{Gain: gain, EvolutionPercent: evolution}
	return b
}

// WithCreatedAt sets the creation date.
func (b *AssetBuilder) WithCreatedAt(createdAt time.Time) *AssetBuilder {
	b.CreatedAt = createdAt
	return b
}

// WithOwner adds an owner; owners keep the order they are added in.
func (b *AssetBuilder) WithOwner(entityID string, ownership float64, mode *model.OwnershipMode) *AssetBuilder {
	b.Owners = append(b.Owners, model.AssetOwner{EntityID: entityID, Ownership: ownership, Mode: mode})
	return b
}

// Build creates the asset and its owners in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	metadata := "{}"
	if b.Metadata != nil {
		raw, err := json.Marshal(b.Metadata)
		if err != nil {
			t.Fatalf("Failed to encode asset metadata: %v", err)
		}
		metadata = string(raw)
	}

	var gain, evolution any
	if b.Performance != nil {
		gain, evolution = b.Performance.Gain, b.Performance.EvolutionPercent
	}

	_, err := db.Exec(`
		INSERT INTO asset (id, customer_id, asset_group, category_name, name, valuation, currency,
			under_management, metadata, gain, evolution_percent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.CustomerID, string(b.Group), b.CategoryName, b.Name, b.Valuation, b.Currency,
		b.UnderManagement, metadata, gain, evolution, b.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}

	for i, o := range b.Owners {
		var mode any
		if o.Mode != nil {
			mode = string(*o.Mode)
		}
		_, err := db.Exec(`
			INSERT INTO asset_owner (asset_id, entity_id, ownership, mode, position)
			VALUES (?, ?, ?, ?, ?)
		`, b.ID, o.EntityID, o.Ownership, mode, i)
		if err != nil {
			t.Fatalf("Failed to create test asset owner: %v", err)
		}
	}

	owners := b.Owners
	if owners == nil {
		owners = []model.AssetOwner{}
	}
	return model.Asset{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		Group:           b.Group,
		CategoryName:    b.CategoryName,
		Name:            b.Name,
		Valuation:       model.Valuation{Amount: b.Valuation, Currency: b.Currency},
		UnderManagement: b.UnderManagement,
		Metadata:        b.Metadata,
		Owners:          owners,
		CreatedAt:       b.CreatedAt.UTC(),
	}
}

// InvestmentBuilder provides a fluent interface for creating test investments.
type InvestmentBuilder struct {
	ID                string
	AssetID           string
	Name              string
	Code              string
	Category          string
	Quantity          float64
	UnitPrice         float64
	UnitValue         float64
	SRI               int
	LastValuationDate time.Time
}

// NewInvestment creates an InvestmentBuilder with sensible defaults:
// 10 units bought at 100 and now worth 110.
func NewInvestment(assetID string) *InvestmentBuilder {
	return &InvestmentBuilder{
		ID:                MakeID(),
		AssetID:           assetID,
		Name:              MakeAssetName("Fund"),
		Code:              MakeISIN("FR"),
		Category:          "Equity",
		Quantity:          10,
		UnitPrice:         100,
		UnitValue:         110,
		SRI:               4,
		LastValuationDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

// WithName sets the investment name.
func (b *InvestmentBuilder) WithName(name string) *InvestmentBuilder {
	b.Name = name
	return b
}

// WithPosition sets quantity, purchase price and current price.
func (b *InvestmentBuilder) WithPosition(quantity, unitPrice, unitValue float64) *InvestmentBuilder {
	b.Quantity = quantity
	b.UnitPrice = unitPrice
	b.UnitValue = unitValue
	return b
}

// Build creates the investment in the database and returns it. The
// valuation is quantity times current price.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	valuation := b.Quantity * b.UnitValue
	_, err := db.Exec(`
		INSERT INTO investment (id, asset_id, name, code, category, quantity, unit_price, unit_value,
			valuation, sri, last_valuation_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.AssetID, b.Name, b.Code, b.Category, b.Quantity, b.UnitPrice, b.UnitValue,
		valuation, b.SRI, b.LastValuationDate.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}

	return model.Investment{
		ID:                b.ID,
		AssetID:           b.AssetID,
		Name:              b.Name,
		Code:              b.Code,
		Category:          b.Category,
		Quantity:          b.Quantity,
		UnitPrice:         b.UnitPrice,
		UnitValue:         b.UnitValue,
		Valuation:         valuation,
		SRI:               b.SRI,
		LastValuationDate: b.LastValuationDate,
	}
}

// Mode returns a pointer to an ownership mode, for builder and row literals.
func Mode(m model.OwnershipMode) *model.OwnershipMode {
	return &m
}
