package service

import (
	"slices"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// AggregateByGroup groups a flat asset list by asset group and sums the
// valuations within each group.
//
// One WealthGroup is returned per distinct group present in the input, in
// order of first occurrence. Assets keep their input order inside a group.
// Totals are plain float64 sums of the already-rounded valuations; rounding
// only happens when an amount is formatted for display.
//
// Parameters:
//   - assets: The customer's assets, in any order
//
// Returns the per-group aggregates. An empty input yields an empty, non-nil slice.
func AggregateByGroup(assets []model.Asset) []model.WealthGroup {
	groups := []model.WealthGroup{}
	index := make(map[model.AssetGroup]int)

	for _, a := range assets {
		i, ok := index[a.Group]
		if !ok {
			i = len(groups)
			index[a.Group] = i
			groups = append(groups, model.WealthGroup{
				Group:   a.Group,
				Section: a.Group.Section(),
				Assets:  []model.Asset{},
			})
		}
		groups[i].Total += a.Valuation.Amount
		groups[i].Assets = append(groups[i].Assets, a)
	}

	return groups
}

// SortGroupsByCatalog re-sorts aggregates by the fixed catalog order so
// sections keep a stable display order regardless of arrival order.
// Groups unknown to the catalog go last, in their input order.
func SortGroupsByCatalog(groups []model.WealthGroup) {
	slices.SortStableFunc(groups, func(a, b model.WealthGroup) int {
		return a.Group.Order() - b.Group.Order()
	})
}

// ComputeRepartition derives the chart entries from the group aggregates.
//
// The display amount equals the group total, except for Banking where a
// negative total (an overdraft) is floored to 0 so it does not invert the
// chart. The negative balance is dropped from the view, it is not subtracted
// from the other slices. Percent is the share of the display amount in the
// sum of all display amounts, or 0 when that sum is not positive.
func ComputeRepartition(groups []model.WealthGroup) []model.RepartitionEntry {
	entries := make([]model.RepartitionEntry, 0, len(groups))
	var sum float64

	for _, g := range groups {
		amount := g.Total
		if g.Group == model.GroupBanking && amount < 0 {
			amount = 0
		}
		sum += amount
		entries = append(entries, model.RepartitionEntry{Group: g.Group, Amount: amount})
	}

	if sum > 0 {
		for i := range entries {
			entries[i].Percent = entries[i].Amount / sum * 100
		}
	}

	return entries
}

// sectionOrder is the display order of the wealth sections.
var sectionOrder = []model.WealthSection{
	model.SectionFinancial,
	model.SectionNonFinancial,
	model.SectionPassive,
	model.SectionBenefits,
	model.SectionOther,
}

// wealthTotals summarises the group aggregates per section.
//
// Liabilities is the amount owed on passive groups, reported as a positive
// number; GrossAssets is the sum of every other section; NetWorth is their
// difference. Every section is present in the result, with 0 when empty.
func wealthTotals(groups []model.WealthGroup) (sections []model.SectionTotal, gross, liabilities, net float64) {
	bySection := make(map[model.WealthSection]float64, len(sectionOrder))
	for _, g := range groups {
		bySection[g.Section] += g.Total
	}

	sections = make([]model.SectionTotal, 0, len(sectionOrder))
	for _, s := range sectionOrder {
		total := bySection[s]
		sections = append(sections, model.SectionTotal{Section: s, Total: total})
		if s == model.SectionPassive {
			liabilities = -total
			continue
		}
		gross += total
	}

	return sections, gross, liabilities, gross - liabilities
}

// repartitionGroups keeps the groups that belong in the wealth breakdown
// chart. Passive groups are reported through the section totals instead.
func repartitionGroups(groups []model.WealthGroup) []model.WealthGroup {
	out := make([]model.WealthGroup, 0, len(groups))
	for _, g := range groups {
		if g.Section != model.SectionPassive {
			out = append(out, g)
		}
	}
	return out
}

// filterAssets applies the wealth filter. A nil UnderManagement keeps every
// asset; an empty group list keeps every group.
func filterAssets(assets []model.Asset, filter model.WealthFilter) []model.Asset {
	var allowed map[model.AssetGroup]bool
	if len(filter.Groups) > 0 {
		allowed = make(map[model.AssetGroup]bool, len(filter.Groups))
		for _, g := range filter.Groups {
			allowed[g] = true
		}
	}

	out := make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		if filter.UnderManagement != nil && a.UnderManagement != *filter.UnderManagement {
			continue
		}
		if allowed != nil && !allowed[a.Group] {
			continue
		}
		out = append(out, a)
	}
	return out
}
