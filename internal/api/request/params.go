package request

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// queryParser reads typed values out of a query string and collects one
// message per malformed parameter.
type queryParser struct {
	values url.Values
	errs   map[string]string
}

func newQueryParser(values url.Values) *queryParser {
	return &queryParser{values: values, errs: map[string]string{}}
}

func (p *queryParser) str(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

// list splits a comma-separated parameter; repeated keys are merged.
func (p *queryParser) list(key string) []string {
	var out []string
	for _, raw := range p.values[key] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func (p *queryParser) boolPtr(key string) *bool {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs[key] = "must be true or false"
		return nil
	}
	return &b
}

func (p *queryParser) int(key string, def int) int {
	raw := p.str(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs[key] = "must be an integer"
		return def
	}
	return n
}

func (p *queryParser) floatPtr(key string) *float64 {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs[key] = "must be a number"
		return nil
	}
	return &f
}

// timePtr accepts YYYY-MM-DD or RFC3339.
func (p *queryParser) timePtr(key string) *time.Time {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		p.errs[key] = "must be a date (YYYY-MM-DD) or an RFC3339 timestamp"
		return nil
	}
	return &t
}

func (p *queryParser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return &validation.Error{Fields: p.errs}
}
