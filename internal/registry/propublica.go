// Package registry implements the external data registry clients: ProPublica
// for organizations and filing history, CharityAPI for IRS classification.
// Both cache responses on disk, failures included.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/charapi/charapi/pkg/config"
	"github.com/charapi/charapi/pkg/evaluate"
)

// ProPublicaClient fetches from the ProPublica Nonprofit Explorer API.
type ProPublicaClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

// NewProPublicaClient creates a client from service config. The cache may be
// nil to disable caching.
func NewProPublicaClient(cfg config.ServiceConfig, cache *Cache) *ProPublicaClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ProPublicaClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
	}
}

type propublicaOrg struct {
	EIN  int    `json:"ein"`
	Name string `json:"name"`
}

type propublicaEnvelope struct {
	Organization    *propublicaOrg    `json:"organization"`
	FilingsWithData []evaluate.Filing `json:"filings_with_data"`
}

// GetOrganization returns the header record for an EIN, or nil when the
// registry has no such organization.
func (c *ProPublicaClient) GetOrganization(ctx context.Context, ein string) (*evaluate.Organization, error) {
	env, err := c.fetch(ctx, ein)
	if err != nil {
		return nil, err
	}
	if env.Organization == nil {
		return nil, nil
	}
	return &evaluate.Organization{
		EIN:  strconv.Itoa(env.Organization.EIN),
		Name: env.Organization.Name,
	}, nil
}

// GetAllFilings returns the organization's filings, most recent first.
func (c *ProPublicaClient) GetAllFilings(ctx context.Context, ein string) ([]evaluate.Filing, error) {
	env, err := c.fetch(ctx, ein)
	if err != nil {
		return nil, err
	}
	filings := env.FilingsWithData
	sort.Slice(filings, func(i, j int) bool {
		return filings[i].TaxPeriod > filings[j].TaxPeriod
	})
	return filings, nil
}

func (c *ProPublicaClient) fetch(ctx context.Context, ein string) (*propublicaEnvelope, error) {
	key := evaluate.NormalizeEIN(ein)

	if payload, hit, err := c.cache.Get("propublica", key); hit {
		if err != nil {
			return nil, err
		}
		var env propublicaEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, fmt.Errorf("decode cached propublica payload: %w", err)
		}
		return &env, nil
	}

	reqURL := fmt.Sprintf("%s/organizations/%s.json", c.baseURL, key)
	payload, err := c.get(ctx, reqURL)
	if err != nil {
		c.cache.PutError("propublica", key, err)
		return nil, err
	}

	var env propublicaEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode propublica payload: %w", err)
	}

	c.cache.Put("propublica", key, payload)
	return &env, nil
}

// SearchOrganizations queries the registry's full-text search.
func (c *ProPublicaClient) SearchOrganizations(ctx context.Context, query string) ([]evaluate.Organization, error) {
	key := "search-" + url.QueryEscape(query)

	payload, hit, err := c.cache.Get("propublica", key)
	if hit && err != nil {
		return nil, err
	}
	if !hit {
		reqURL := fmt.Sprintf("%s/search.json?q=%s", c.baseURL, url.QueryEscape(query))
		payload, err = c.get(ctx, reqURL)
		if err != nil {
			c.cache.PutError("propublica", key, err)
			return nil, err
		}
		c.cache.Put("propublica", key, payload)
	}

	var env struct {
		Organizations []propublicaOrg `json:"organizations"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode propublica search payload: %w", err)
	}

	out := make([]evaluate.Organization, 0, len(env.Organizations))
	for _, org := range env.Organizations {
		out = append(out, evaluate.Organization{
			EIN:  strconv.Itoa(org.EIN),
			Name: org.Name,
		})
	}
	return out, nil
}

func (c *ProPublicaClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("propublica request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("propublica: organization not found")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("propublica API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
