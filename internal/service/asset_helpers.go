package service

import (
	"math"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/money"
)

// AssembleAssetDetail merges an asset, its sub-positions and its performance
// into one display-ready view. Nothing is computed beyond per-position
// performance and display formatting.
//
// Investments are only kept for groups that hold sub-positions (Crypto,
// Securities, LifeInsuranceCapitalization). For loan groups the valuation and
// the gain are shown as absolute values: loans are stored as negative
// balances but displayed as the amount owed.
//
// Parameters:
//   - asset: The base asset record
//   - investments: The asset's sub-positions, ignored when the group has none
//   - perf: The asset's top-level performance, nil when unknown
func AssembleAssetDetail(asset model.Asset, investments []model.Investment, perf *model.Performance) model.AssetDetailView {
	isLoan := asset.Group.IsLoan()
	currency := asset.Valuation.Currency

	asset.Investments = nil
	view := model.AssetDetailView{
		Asset:            asset,
		IsLoan:           isLoan,
		DisplayValuation: asset.Valuation.Amount,
	}
	if isLoan {
		view.DisplayValuation = math.Abs(view.DisplayValuation)
	}
	view.FormattedValuation = money.Format(view.DisplayValuation, currency)

	if perf != nil {
		p := *perf
		if isLoan {
			p.Gain = math.Abs(p.Gain)
		}
		view.Performance = &p
		view.FormattedGain = money.Format(p.Gain, currency)
	}

	if asset.Group.SupportsInvestments() {
		view.Investments = make([]model.InvestmentPosition, 0, len(investments))
		for _, inv := range investments {
			view.Investments = append(view.Investments, model.InvestmentPosition{
				Investment:         inv,
				Performance:        inv.Performance(),
				FormattedValuation: money.Format(inv.Valuation, currency),
			})
		}
	}

	return view
}

// aggregatePerformance derives an asset-level performance from its
// sub-positions when the backend reports none. It returns nil when nothing
// was invested.
func aggregatePerformance(investments []model.Investment) *model.Performance {
	var invested, valuation float64
	for _, inv := range investments {
		invested += inv.InvestedAmount()
		valuation += inv.Valuation
	}
	if invested == 0 {
		return nil
	}
	gain := valuation - invested
	return &model.Performance{Gain: gain, EvolutionPercent: gain / invested * 100}
}
