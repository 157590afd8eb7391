// Package address looks up postal address suggestions from the French
// national address API.
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/logger"
)

// MinQueryLength is the shortest query sent to the API.
const MinQueryLength = 3

// DefaultLimit bounds the number of suggestions when the caller gives none.
const DefaultLimit = 5

// Suggestion is one candidate address.
type Suggestion struct {
	Label       string    `json:"label"`
	HouseNumber string    `json:"houseNumber,omitempty"`
	Street      string    `json:"street,omitempty"`
	PostCode    string    `json:"postCode"`
	City        string    `json:"city"`
	CityCode    string    `json:"cityCode,omitempty"`
	Score       float64   `json:"score"`
	Coordinates []float64 `json:"coordinates,omitempty"` // longitude, latitude
}

// Client queries the address API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL. A nil httpClient uses one with a
// 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label       string  `json:"label"`
			HouseNumber string  `json:"housenumber"`
			Street      string  `json:"street"`
			Name        string  `json:"name"`
			PostCode    string  `json:"postcode"`
			City        string  `json:"city"`
			CityCode    string  `json:"citycode"`
			Score       float64 `json:"score"`
		} `json:"properties"`
	} `json:"features"`
}

// Search returns up to limit suggestions for query.
//
// Queries shorter than MinQueryLength return an empty list without calling
// the API. A failed lookup is logged and also returns an empty list: address
// completion never blocks the form it assists.
func (c *Client) Search(ctx context.Context, query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return []Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	suggestions, err := c.search(ctx, query, limit)
	if err != nil {
		logger.Get().Warnw("address lookup failed", "query", query, "error", err)
		return []Suggestion{}
	}
	return suggestions
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid address API url: %w", err)
	}
	params := u.Query()
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("address API returned status %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := f.Properties
		street := p.Street
		if street == "" && p.HouseNumber == "" {
			street = p.Name
		}
		suggestions = append(suggestions, Suggestion{
			Label:       p.Label,
			HouseNumber: p.HouseNumber,
			Street:      street,
			PostCode:    p.PostCode,
			City:        p.City,
			CityCode:    p.CityCode,
			Score:       p.Score,
			Coordinates: f.Geometry.Coordinates,
		})
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}
