// Package eregulations implements the HTTP client for the upstream
// eRegulations API.
package eregulations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driven"
	"github.com/custodia-labs/eregs/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RegulationsClient = (*Client)(nil)

const (
	requestTimeout = 30 * time.Second
	userAgent      = "eregs-mcp/1.0"

	// Conservative defaults; the public deployments are small government
	// portals and do not advertise quota.
	requestsPerSecond = 5.0
	burstSize         = 10
)

// Client talks to one eRegulations deployment. Requests are rate
// limited with a token bucket, and GET responses can be served from an
// optional cache.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	cache    driven.ResponseCache
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the bearer key sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithCache enables response caching with the given TTL.
func WithCache(cache driven.ResponseCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the underlying HTTP client. Useful for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a client for the deployment at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetProcedure fetches a procedure by id.
func (c *Client) GetProcedure(ctx context.Context, procedureID int) (domain.Payload, error) {
	return c.getObject(ctx, fmt.Sprintf("Procedures/%d", procedureID))
}

// GetProcedureResume fetches the procedure summary block.
func (c *Client) GetProcedureResume(ctx context.Context, procedureID int) (domain.Payload, error) {
	return c.getObject(ctx, fmt.Sprintf("Procedures/%d/Resume", procedureID))
}

// GetProcedureCosts fetches the cost totals for a procedure.
func (c *Client) GetProcedureCosts(ctx context.Context, procedureID int) (domain.Payload, error) {
	return c.getObject(ctx, fmt.Sprintf("Procedures/%d/Totals", procedureID))
}

// GetProcedureRequirements fetches the requirement set for a procedure.
func (c *Client) GetProcedureRequirements(ctx context.Context, procedureID int) (domain.Payload, error) {
	return c.getObject(ctx, fmt.Sprintf("Procedures/%d/Requirements", procedureID))
}

// GetProcedureABC fetches the activity-based costing analysis.
func (c *Client) GetProcedureABC(ctx context.Context, procedureID int) (domain.Payload, error) {
	return c.getObject(ctx, fmt.Sprintf("Procedures/%d/ABC", procedureID))
}

// GetStep fetches one step of a procedure.
func (c *Client) GetStep(ctx context.Context, procedureID, stepID int) (domain.Payload, error) {
	return c.getObject(ctx, fmt.Sprintf("Procedures/%d/Steps/%d", procedureID, stepID))
}

// GetInstitution fetches an institution by id.
func (c *Client) GetInstitution(ctx context.Context, institutionID int) (domain.Payload, error) {
	return c.getObject(ctx, fmt.Sprintf("Institutions/%d", institutionID))
}

// GetCountries fetches the country list.
func (c *Client) GetCountries(ctx context.Context) ([]domain.Payload, error) {
	body, err := c.get(ctx, "Country")
	if err != nil {
		return nil, err
	}

	var countries []domain.Payload
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, fmt.Errorf("decoding country list: %w", err)
	}
	return countries, nil
}

// getObject fetches an endpoint and decodes a single JSON object.
func (c *Client) getObject(ctx context.Context, endpoint string) (domain.Payload, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload domain.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return payload, nil
}

// get performs a rate-limited GET, consulting the cache first.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, endpoint)
		if err != nil {
			logger.Warn("cache lookup for %s: %v", endpoint, err)
		} else if ok {
			logger.Debug("cache hit for %s", endpoint)
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", endpoint, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, endpoint, body, c.cacheTTL); err != nil {
			logger.Warn("caching %s: %v", endpoint, err)
		}
	}
	return body, nil
}
