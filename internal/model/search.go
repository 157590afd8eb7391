package model

import "time"

// SearchRowKind tells whether a search row is an asset or one of its
// investments.
type SearchRowKind string

const (
	RowAsset      SearchRowKind = "asset"
	RowInvestment SearchRowKind = "investment"
)

// SearchRow is one line of the flat asset/investment search result.
type SearchRow struct {
	Kind            SearchRowKind `json:"kind"`
	ID              string        `json:"id"`
	AssetID         string        `json:"assetId"`
	CustomerID      string        `json:"customerId"`
	CustomerName    string        `json:"customerName"`
	Group           AssetGroup    `json:"group"`
	Name            string        `json:"name"`
	Valuation       float64       `json:"valuation"`
	Currency        string        `json:"currency"`
	UnderManagement bool          `json:"underManagement"`
	Date            time.Time     `json:"date"`
}

// SortKey is the projected field used to order search rows.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByGroup     SortKey = "group"
	SortByCustomer  SortKey = "customer"
	SortByValuation SortKey = "valuation"
	SortByDate      SortKey = "date"
)

// ValidSortKeys is the fixed schema of accepted sort keys.
var ValidSortKeys = map[SortKey]bool{
	SortByName:      true,
	SortByGroup:     true,
	SortByCustomer:  true,
	SortByValuation: true,
	SortByDate:      true,
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// AssetSearch is the backend-side search window. Zero values mean
// "no constraint".
type AssetSearch struct {
	CustomerID string
	Text       string
	From       *time.Time
	To         *time.Time
	MinAmount  *float64
	MaxAmount  *float64
}

// SearchFilter is the full search request: backend window plus the
// client-side shaping (group filter, sort, page).
type SearchFilter struct {
	AssetSearch
	Groups  []AssetGroup
	Sort    SortKey
	Dir     SortDirection
	Page    int
	PerPage int
}
