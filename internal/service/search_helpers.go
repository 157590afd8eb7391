package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// flattenSearchRows turns assets into search rows: one row per asset
// followed by one row per investment of that asset. Investment rows inherit
// the customer, group and management flag of their asset.
func flattenSearchRows(assets []model.Asset) []model.SearchRow {
	rows := make([]model.SearchRow, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, model.SearchRow{
			Kind:            model.RowAsset,
			ID:              a.ID,
			AssetID:         a.ID,
			CustomerID:      a.CustomerID,
			CustomerName:    a.CustomerName,
			Group:           a.Group,
			Name:            a.Name,
			Valuation:       a.Valuation.Amount,
			Currency:        a.Valuation.Currency,
			UnderManagement: a.UnderManagement,
			Date:            a.CreatedAt,
		})
		for _, inv := range a.Investments {
			rows = append(rows, model.SearchRow{
				Kind:            model.RowInvestment,
				ID:              inv.ID,
				AssetID:         a.ID,
				CustomerID:      a.CustomerID,
				CustomerName:    a.CustomerName,
				Group:           a.Group,
				Name:            inv.Name,
				Valuation:       inv.Valuation,
				Currency:        a.Valuation.Currency,
				UnderManagement: a.UnderManagement,
				Date:            inv.LastValuationDate,
			})
		}
	}
	return rows
}

// compareRows orders two rows on the projected field of key.
func compareRows(a, b model.SearchRow, key model.SortKey) int {
	switch key {
	case model.SortByGroup:
		return a.Group.Order() - b.Group.Order()
	case model.SortByCustomer:
		return strings.Compare(strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName))
	case model.SortByValuation:
		return cmp.Compare(a.Valuation, b.Valuation)
	case model.SortByDate:
		return a.Date.Compare(b.Date)
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

// SortAssets returns a sorted copy of rows.
//
// The sort is stable in both directions: rows with equal keys keep their
// input order, descending included. Unknown keys sort by name.
func SortAssets(rows []model.SearchRow, key model.SortKey, dir model.SortDirection) []model.SearchRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b model.SearchRow) int {
		c := compareRows(a, b, key)
		if dir == model.SortDesc {
			return -c
		}
		return c
	})
	return out
}

// FilterByGroup keeps the rows whose group is selected. An empty selection
// selects nothing.
func FilterByGroup(rows []model.SearchRow, selected []model.AssetGroup) []model.SearchRow {
	out := []model.SearchRow{}
	if len(selected) == 0 {
		return out
	}

	set := make(map[model.AssetGroup]bool, len(selected))
	for _, g := range selected {
		set[g] = true
	}
	for _, r := range rows {
		if set[r.Group] {
			out = append(out, r)
		}
	}
	return out
}
