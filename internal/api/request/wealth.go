package request

import (
	"net/url"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// WealthQuery is the query schema of the wealth and repartition views.
//
//	under_management  true|false, absent keeps every asset
//	groups            comma-separated asset groups, absent keeps every group
type WealthQuery struct {
	UnderManagement *bool    `query:"under_management"`
	Groups          []string `query:"groups" validate:"dive,asset_group"`
}

// ParseWealthQuery parses and validates the wealth view query parameters.
func ParseWealthQuery(values url.Values) (model.WealthFilter, error) {
	p := newQueryParser(values)
	q := WealthQuery{
		UnderManagement: p.boolPtr("under_management"),
		Groups:          p.list("groups"),
	}
	if err := p.err(); err != nil {
		return model.WealthFilter{}, err
	}
	if err := validation.Struct(q); err != nil {
		return model.WealthFilter{}, err
	}

	return model.WealthFilter{
		UnderManagement: q.UnderManagement,
		Groups:          toGroups(q.Groups),
	}, nil
}

func toGroups(names []string) []model.AssetGroup {
	if len(names) == 0 {
		return nil
	}
	groups := make([]model.AssetGroup, len(names))
	for i, n := range names {
		groups[i] = model.AssetGroup(n)
	}
	return groups
}
