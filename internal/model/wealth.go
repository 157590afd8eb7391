package model

// WealthGroup is the per-group aggregate of a customer's assets.
// It is computed on every request and never persisted.
type WealthGroup struct {
	Group   AssetGroup    `json:"group"`
	Section WealthSection `json:"section"`
	Total   float64       `json:"total"`
	Assets  []Asset       `json:"assets"`
}

// RepartitionEntry drives the percentage breakdown chart.
type RepartitionEntry struct {
	Group   AssetGroup `json:"group"`
	Amount  float64    `json:"displayAmount"`
	Percent float64    `json:"percent"`
}

// SectionTotal is the sum of the group totals of one wealth section.
type SectionTotal struct {
	Section WealthSection `json:"section"`
	Total   float64       `json:"total"`
}

// WealthFilter narrows the assets considered by the wealth views.
// A nil UnderManagement keeps every asset.
type WealthFilter struct {
	UnderManagement *bool
	Groups          []AssetGroup
}

// CustomerWealth is the full wealth view of one customer.
type CustomerWealth struct {
	CustomerID  string             `json:"customerId"`
	Groups      []WealthGroup      `json:"groups"`
	Repartition []RepartitionEntry `json:"repartition"`
	Sections    []SectionTotal     `json:"sections"`
	GrossAssets float64            `json:"grossAssets"`
	Liabilities float64            `json:"liabilities"`
	NetWorth    float64            `json:"netWorth"`
	Incomplete  []string           `json:"incompleteAssets,omitempty"` // assets whose detail fetch failed
}

// AssetDetailView is the display-ready merge of an asset, its sub-positions
// and its performance.
type AssetDetailView struct {
	Asset              Asset                `json:"asset"`
	IsLoan             bool                 `json:"isLoan"`
	DisplayValuation   float64              `json:"displayValuation"`
	FormattedValuation string               `json:"formattedValuation"`
	Performance        *Performance         `json:"performance,omitempty"`
	FormattedGain      string               `json:"formattedGain,omitempty"`
	Investments        []InvestmentPosition `json:"investments,omitempty"`
}

// InvestmentPosition is an investment with its derived performance.
type InvestmentPosition struct {
	Investment
	Performance        Performance `json:"performance"`
	FormattedValuation string      `json:"formattedValuation"`
}
