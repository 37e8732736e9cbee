package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// RowClient speaks the managed backend's row API: filtered selects, inserts,
// filtered updates, upserts and filtered deletes over four logical tables.
// Filters render as "column=eq.value" query parameters; row-level access
// control on the backend scopes every call to the bearer identity.
type RowClient struct {
	rest   *RESTClient
	apiKey string

	mu    sync.RWMutex
	token string
}

// NewRowClient creates a row client for the backend at baseURL.
func NewRowClient(baseURL, apiKey string, timeout time.Duration, client *http.Client) *RowClient {
	return &RowClient{rest: NewRESTClient(baseURL, timeout, client), apiKey: apiKey}
}

// UseToken swaps the access token attached to subsequent requests. An empty
// token falls back to the anonymous API key.
func (c *RowClient) UseToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *RowClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" {
		return c.token
	}
	return c.apiKey
}

// Select fetches rows matching the filters; order is a "column.desc" style
// ordering clause, blank for the backend default.
func (c *RowClient) Select(ctx context.Context, table string, filters map[string]string, order string) ([]map[string]any, error) {
	query := filterValues(filters)
	if strings.TrimSpace(order) != "" {
		query.Set("order", strings.TrimSpace(order))
	}
	req, err := c.newRowRequest(ctx, http.MethodGet, table, query, nil, false)
	if err != nil {
		return nil, err
	}
	return c.doRows(req)
}

// Insert writes rows; when returning is set, the store's representation of
// the inserted rows (including generated ids) is decoded and returned.
func (c *RowClient) Insert(ctx context.Context, table string, rows []map[string]any, returning bool) ([]map[string]any, error) {
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode %s insert: %w", table, err)
	}
	req, err := c.newRowRequest(ctx, http.MethodPost, table, nil, bytes.NewReader(body), returning)
	if err != nil {
		return nil, err
	}
	if !returning {
		return nil, c.doStatus(req)
	}
	return c.doRows(req)
}

// Update patches every row matching the filters with the given values.
func (c *RowClient) Update(ctx context.Context, table string, filters map[string]string, values map[string]any) error {
	body, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s update: %w", table, err)
	}
	req, err := c.newRowRequest(ctx, http.MethodPatch, table, filterValues(filters), bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	return c.doStatus(req)
}

// Upsert inserts or merges a single row and returns the store's copy of it.
func (c *RowClient) Upsert(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	body, err := json.Marshal([]map[string]any{row})
	if err != nil {
		return nil, fmt.Errorf("encode %s upsert: %w", table, err)
	}
	req, err := c.newRowRequest(ctx, http.MethodPost, table, nil, bytes.NewReader(body), true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")
	rows, err := c.doRows(req)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s upsert returned no representation", table)
	}
	return rows[0], nil
}

// Delete removes every row matching the filters.
func (c *RowClient) Delete(ctx context.Context, table string, filters map[string]string) error {
	req, err := c.newRowRequest(ctx, http.MethodDelete, table, filterValues(filters), nil, false)
	if err != nil {
		return err
	}
	return c.doStatus(req)
}

func (c *RowClient) newRowRequest(ctx context.Context, method, table string, query url.Values, body io.Reader, returning bool) (*http.Request, error) {
	req, err := c.rest.NewRequest(ctx, method, "/rest/v1/"+strings.TrimSpace(table), body)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if returning {
		req.Header.Set("Prefer", "return=representation")
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	return req, nil
}

func (c *RowClient) doRows(req *http.Request) ([]map[string]any, error) {
	res, err := c.rest.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, unexpectedStatus(res)
	}
	var rows []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", req.URL.Path, err)
	}
	return rows, nil
}

func (c *RowClient) doStatus(req *http.Request) error {
	res, err := c.rest.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return unexpectedStatus(res)
	}
	return nil
}

func unexpectedStatus(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
	slog.Error("store request unexpected status",
		slog.Int("status", res.StatusCode),
		slog.String("url", res.Request.URL.String()),
		slog.String("body", strings.TrimSpace(string(body))))
	return fmt.Errorf("unexpected store response %d", res.StatusCode)
}

func filterValues(filters map[string]string) url.Values {
	values := url.Values{}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(filters[k])
		if key == "" || val == "" {
			continue
		}
		values.Set(key, "eq."+val)
	}
	return values
}
