// Package graphql talks to the upstream wealth GraphQL endpoint and adapts it
// to the service backend contract.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
)

// Client sends GraphQL documents to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for endpoint. A nil httpClient uses one with a
// 30 second timeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorEntry    `json:"errors"`
}

// ErrorEntry is one item of the "errors" array of a GraphQL response.
type ErrorEntry struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// Error is returned when the response carries GraphQL errors. Its message
// holds every upstream code and message so business codes can be matched by
// apperrors.Classify.
type Error struct {
	Entries []ErrorEntry
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		if entry.Extensions.Code != "" {
			parts = append(parts, entry.Extensions.Code+": "+entry.Message)
			continue
		}
		parts = append(parts, entry.Message)
	}
	return "graphql: " + strings.Join(parts, "; ")
}

// HasCode reports whether any entry carries code.
func (e *Error) HasCode(code string) bool {
	for _, entry := range e.Entries {
		if entry.Extensions.Code == code {
			return true
		}
	}
	return false
}

// Do posts the document with its variables and decodes "data" into out.
//
// token, when not empty, is sent as a bearer token. An HTTP 401 or an
// UNAUTHENTICATED error code is reported as apperrors.ErrUnauthenticated.
// Other GraphQL errors are returned as *Error; nothing is retried.
func (c *Client) Do(ctx context.Context, token, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.Get().Debugw("graphql request",
		"operation", operationName(query),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return apperrors.ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graphql endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		gqlErr := &Error{Entries: decoded.Errors}
		if gqlErr.HasCode("UNAUTHENTICATED") {
			return fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, gqlErr)
		}
		return gqlErr
	}

	if out == nil || len(decoded.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("failed to decode graphql data: %w", err)
	}
	return nil
}

// operationName extracts the name of the first operation of a document, for logs.
func operationName(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		if (f == "query" || f == "mutation") && i+1 < len(fields) {
			name, _, _ := strings.Cut(fields[i+1], "(")
			return strings.TrimSuffix(name, "{")
		}
	}
	return "anonymous"
}
