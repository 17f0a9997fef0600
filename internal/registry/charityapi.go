package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charapi/charapi/pkg/config"
	"github.com/charapi/charapi/pkg/evaluate"
)

// CharityAPIClient fetches IRS classification records from CharityAPI.
type CharityAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *Cache
}

// NewCharityAPIClient creates a client from service config. The cache may be
// nil to disable caching.
func NewCharityAPIClient(cfg config.ServiceConfig, cache *Cache) *CharityAPIClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CharityAPIClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
	}
}

// GetOrganization returns the classification record for an EIN, or nil when
// the registry has no such organization.
func (c *CharityAPIClient) GetOrganization(ctx context.Context, ein string) (*evaluate.DirectoryRecord, error) {
	key := evaluate.NormalizeEIN(ein)

	payload, hit, err := c.cache.Get("charityapi", key)
	if hit && err != nil {
		return nil, err
	}
	if !hit {
		payload, err = c.get(ctx, key)
		if err != nil {
			c.cache.PutError("charityapi", key, err)
			return nil, err
		}
		c.cache.Put("charityapi", key, payload)
	}

	var env struct {
		Data *evaluate.DirectoryRecord `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode charityapi payload: %w", err)
	}
	return env.Data, nil
}

func (c *CharityAPIClient) get(ctx context.Context, ein string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/organizations/%s", c.baseURL, ein)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("charityapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("charityapi: organization not found")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("charityapi API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
