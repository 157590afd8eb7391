package model

// AssetGroup is the financial-product category of an asset.
type AssetGroup string

// Asset groups known to the wealth views.
const (
	GroupBanking                     AssetGroup = "Banking"
	GroupSecurities                  AssetGroup = "Securities"
	GroupLifeInsuranceCapitalization AssetGroup = "LifeInsuranceCapitalization"
	GroupRetirementSaving            AssetGroup = "RetirementSaving"
	GroupCrypto                      AssetGroup = "Crypto"
	GroupPrivateEquity               AssetGroup = "PrivateEquity"
	GroupCrowdfunding                AssetGroup = "Crowdfunding"
	GroupRealEstate                  AssetGroup = "RealEstate"
	GroupProfessionalProperty        AssetGroup = "ProfessionalProperty"
	GroupHomeLoan                    AssetGroup = "HomeLoan"
	GroupConsumerLoan                AssetGroup = "ConsumerLoan"
	GroupBusinessLoan                AssetGroup = "BusinessLoan"
	GroupOtherLoan                   AssetGroup = "OtherLoan"
	GroupProvident                   AssetGroup = "Provident"
	GroupOther                       AssetGroup = "Other"
)

// WealthSection is the top-level bucket an asset group belongs to.
type WealthSection string

const (
	SectionFinancial    WealthSection = "financial"
	SectionNonFinancial WealthSection = "nonFinancial"
	SectionPassive      WealthSection = "passive"
	SectionBenefits     WealthSection = "benefits"
	SectionOther        WealthSection = "other"
)

// GroupInfo describes how an asset group is displayed and which
// capabilities it has.
type GroupInfo struct {
	Group              AssetGroup
	Section            WealthSection
	SupportsInvestment bool // has sub-positions (wrapper products)
	IsLoan             bool // stored negative, displayed as amount owed
}

// catalog is the fixed display order of asset groups. Sections, checkboxes and
// repartition entries follow this order rather than arrival order.
var catalog = []GroupInfo{
	{Group: GroupBanking, Section: SectionFinancial},
	{Group: GroupSecurities, Section: SectionFinancial, SupportsInvestment: true},
	{Group: GroupLifeInsuranceCapitalization, Section: SectionFinancial, SupportsInvestment: true},
	{Group: GroupRetirementSaving, Section: SectionFinancial},
	{Group: GroupCrypto, Section: SectionFinancial, SupportsInvestment: true},
	{Group: GroupPrivateEquity, Section: SectionFinancial},
	{Group: GroupCrowdfunding, Section: SectionFinancial},
	{Group: GroupRealEstate, Section: SectionNonFinancial},
	{Group: GroupProfessionalProperty, Section: SectionNonFinancial},
	{Group: GroupHomeLoan, Section: SectionPassive, IsLoan: true},
	{Group: GroupConsumerLoan, Section: SectionPassive, IsLoan: true},
	{Group: GroupBusinessLoan, Section: SectionPassive, IsLoan: true},
	{Group: GroupOtherLoan, Section: SectionPassive, IsLoan: true},
	{Group: GroupProvident, Section: SectionBenefits},
	{Group: GroupOther, Section: SectionOther},
}

var catalogIndex = func() map[AssetGroup]int {
	idx := make(map[AssetGroup]int, len(catalog))
	for i, info := range catalog {
		idx[info.Group] = i
	}
	return idx
}()

// Catalog returns a copy of the asset group catalog in display order.
func Catalog() []GroupInfo {
	out := make([]GroupInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Info returns the catalog entry for the group. Unknown groups are reported
// in the "other" section with no capabilities.
func (g AssetGroup) Info() (GroupInfo, bool) {
	i, ok := catalogIndex[g]
	if !ok {
		return GroupInfo{Group: g, Section: SectionOther}, false
	}
	return catalog[i], true
}

// Valid reports whether the group is part of the catalog.
func (g AssetGroup) Valid() bool {
	_, ok := catalogIndex[g]
	return ok
}

// Order is the position of the group in the catalog; unknown groups sort
// after every known group.
func (g AssetGroup) Order() int {
	if i, ok := catalogIndex[g]; ok {
		return i
	}
	return len(catalog)
}

// SupportsInvestments reports whether assets of this group hold sub-positions.
func (g AssetGroup) SupportsInvestments() bool {
	info, _ := g.Info()
	return info.SupportsInvestment
}

// IsLoan reports whether the group is a loan type.
func (g AssetGroup) IsLoan() bool {
	info, _ := g.Info()
	return info.IsLoan
}

// Section returns the wealth section of the group.
func (g AssetGroup) Section() WealthSection {
	info, _ := g.Info()
	return info.Section
}
