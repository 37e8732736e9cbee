package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bistroDesk/internal/modules/catalog/domain"
)

// EnhancerClient calls the external text-rewrite service with the serialized
// catalog and expects a same-shaped catalog back. The service rewrites names
// and descriptions; ids, prices and categories must survive untouched, so the
// response is re-validated against the request before it is accepted.
type EnhancerClient struct {
	baseURL string
	client  *http.Client
}

func NewEnhancerClient(baseURL string, timeout time.Duration) *EnhancerClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EnhancerClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a rewrite endpoint is set at all.
func (c *EnhancerClient) Configured() bool { return c.baseURL != "" }

// Rewrite submits the catalog for rewriting and returns the rewritten copy.
func (c *EnhancerClient) Rewrite(ctx context.Context, items []domain.MenuItem) ([]domain.MenuItem, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("enhancer not configured")
	}

	payload, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return nil, fmt.Errorf("encode enhancer request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/enhance", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build enhancer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enhancer request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("enhancer response %d", res.StatusCode)
	}

	var decoded struct {
		Items []domain.MenuItem `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode enhancer response: %w", err)
	}
	return mergeRewrite(items, decoded.Items)
}

// mergeRewrite adopts rewritten names and descriptions onto the original
// items, keyed by id. Everything else keeps the original value, and a
// response that drops or invents items is rejected outright.
func mergeRewrite(original, rewritten []domain.MenuItem) ([]domain.MenuItem, error) {
	if len(rewritten) != len(original) {
		return nil, fmt.Errorf("enhancer returned %d items for %d", len(rewritten), len(original))
	}
	byID := make(map[string]domain.MenuItem, len(rewritten))
	for _, item := range rewritten {
		byID[item.ID.String()] = item
	}
	out := make([]domain.MenuItem, 0, len(original))
	for _, item := range original {
		replacement, ok := byID[item.ID.String()]
		if !ok {
			return nil, fmt.Errorf("enhancer dropped item %s", item.ID.String())
		}
		if strings.TrimSpace(replacement.Name) != "" {
			item.Name = replacement.Name
		}
		if strings.TrimSpace(replacement.Description) != "" {
			item.Description = replacement.Description
		}
		out = append(out, item)
	}
	return out, nil
}
