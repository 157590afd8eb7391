package model

import "time"

// Valuation is a monetary amount in a given currency.
type Valuation struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// OwnershipMode is the legal qualifier of a shared asset interest.
type OwnershipMode string

const (
	ModeFullProperty OwnershipMode = "fullProperty"
	ModeProperty     OwnershipMode = "property" // bare ownership
	ModeUsufruct     OwnershipMode = "usufruct"
)

// Valid reports whether the mode is one of the known legal qualifiers.
func (m OwnershipMode) Valid() bool {
	switch m {
	case ModeFullProperty, ModeProperty, ModeUsufruct:
		return true
	}
	return false
}

// AssetOwner is an entity holding a fractional interest in an asset.
// Ownership is a fraction in [0,1]; Mode is nil when unspecified.
type AssetOwner struct {
	EntityID   string         `json:"entityId"`
	EntityName string         `json:"entityName"`
	Ownership  float64        `json:"ownership"`
	Mode       *OwnershipMode `json:"mode"`
}

// Asset represents a customer asset or liability from the backend.
type Asset struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customerId"`
	CustomerName    string         `json:"customerName,omitempty"`
	Group           AssetGroup     `json:"group"`
	CategoryName    string         `json:"categoryName"`
	Name            string         `json:"name"`
	Valuation       Valuation      `json:"valuation"`
	UnderManagement bool           `json:"underManagement"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Owners          []AssetOwner   `json:"owners"`
	Investments     []Investment   `json:"investments,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// Investment is a sub-position of a wrapper asset (life insurance contract,
// securities account, crypto wallet).
type Investment struct {
	ID                string    `json:"id"`
	AssetID           string    `json:"assetId"`
	Name              string    `json:"name"`
	Code              string    `json:"code"`
	Category          string    `json:"category"`
	Quantity          float64   `json:"quantity"`
	UnitPrice         float64   `json:"unitPrice"` // purchase price
	UnitValue         float64   `json:"unitValue"` // current price
	Valuation         float64   `json:"valuation"`
	SRI               int       `json:"sri"`
	LastValuationDate time.Time `json:"lastValuationDate"`
}

// Performance is a derived gain figure; it is never stored.
type Performance struct {
	Gain             float64 `json:"gain"`
	EvolutionPercent float64 `json:"evolutionPercent"`
}

// InvestedAmount is quantity times purchase price.
func (i Investment) InvestedAmount() float64 {
	return i.Quantity * i.UnitPrice
}

// Performance derives gain and evolution from the position. Evolution is 0
// when nothing was invested.
func (i Investment) Performance() Performance {
	invested := i.InvestedAmount()
	gain := i.Valuation - invested
	if invested == 0 {
		return Performance{Gain: gain}
	}
	return Performance{Gain: gain, EvolutionPercent: gain / invested * 100}
}
