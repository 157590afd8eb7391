package request

import (
	"net/url"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/pagination"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// SearchQuery is the query schema of the asset search.
//
//	customer_id           restricts to one customer
//	q                     free text on asset, investment and customer names
//	from, to              creation/valuation date window
//	min_amount, max_amount valuation window
//	groups                comma-separated asset groups
//	sort, dir             sort key (default name) and direction (default asc)
//	page, per_page        1-based page and page size (default 20, max 100)
type SearchQuery struct {
	CustomerID string     `query:"customer_id" validate:"omitempty,uuid"`
	Text       string     `query:"q" validate:"max=200"`
	From       *time.Time `query:"from"`
	To         *time.Time `query:"to"`
	MinAmount  *float64   `query:"min_amount"`
	MaxAmount  *float64   `query:"max_amount"`
	Groups     []string   `query:"groups" validate:"dive,asset_group"`
	Sort       string     `query:"sort" validate:"sort_key"`
	Dir        string     `query:"dir" validate:"sort_dir"`
	Page       int        `query:"page" validate:"min=1"`
	PerPage    int        `query:"per_page" validate:"min=1,max=100"`
}

// ParseSearchQuery parses and validates the search query parameters and
// fills in the defaults.
func ParseSearchQuery(values url.Values) (model.SearchFilter, error) {
	p := newQueryParser(values)
	q := SearchQuery{
		CustomerID: p.str("customer_id"),
		Text:       p.str("q"),
		From:       p.timePtr("from"),
		To:         p.timePtr("to"),
		MinAmount:  p.floatPtr("min_amount"),
		MaxAmount:  p.floatPtr("max_amount"),
		Groups:     p.list("groups"),
		Sort:       p.str("sort"),
		Dir:        p.str("dir"),
		Page:       p.int("page", 1),
		PerPage:    p.int("per_page", pagination.DefaultPageSize),
	}
	if q.Sort == "" {
		q.Sort = string(model.SortByName)
	}
	if q.Dir == "" {
		q.Dir = string(model.SortAsc)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		p.errs["to"] = "must not be before from"
	}
	if q.MinAmount != nil && q.MaxAmount != nil && *q.MaxAmount < *q.MinAmount {
		p.errs["max_amount"] = "must not be less than min_amount"
	}
	if err := p.err(); err != nil {
		return model.SearchFilter{}, err
	}
	if err := validation.Struct(q); err != nil {
		return model.SearchFilter{}, err
	}

	return model.SearchFilter{
		AssetSearch: model.AssetSearch{
			CustomerID: q.CustomerID,
			Text:       q.Text,
			From:       q.From,
			To:         q.To,
			MinAmount:  q.MinAmount,
			MaxAmount:  q.MaxAmount,
		},
		Groups:  toGroups(q.Groups),
		Sort:    model.SortKey(q.Sort),
		Dir:     model.SortDirection(q.Dir),
		Page:    q.Page,
		PerPage: q.PerPage,
	}, nil
}
