// Package transfermarkt provides the HTTP client for the Transfermarkt-style
// data provider: competitions, clubs, players, profiles, valuations, jersey
// numbers, career stats and club search.
//
// The provider answers plain JSON GETs. A static requests-per-minute
// throttle can be enabled with a token bucket limiter; there are no retries.
package transfermarkt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/albapepper/playerdata/internal/logging"
	"github.com/albapepper/playerdata/internal/provider"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 6 << 20
)

// ClientConfig configures a Client. Zero values select defaults.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	// Timeout bounds a single request. Negative disables it.
	Timeout time.Duration
	// RequestsPerMinute throttles all requests. Zero or less means unlimited.
	RequestsPerMinute int
	Logger            *logging.Logger
}

// Client is the HTTP client for all provider endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// StatusError is returned when the provider answers with a non-200 status.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider %s returned %d: %s", e.Path, e.Code, e.Body)
}

func (e *StatusError) StatusCode() int { return e.Code }

// StatusCode extracts the HTTP status from an error chain.
func StatusCode(err error) (int, bool) {
	return provider.StatusCode(err)
}

// NewClient creates a provider client.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		switch {
		case timeout == 0:
			timeout = defaultTimeout
		case timeout < 0:
			timeout = 0
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// get performs a throttled GET and decodes the JSON body into target.
func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit wait")
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "http request %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrapf(err, "read response body %s", path)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Path: path, Code: resp.StatusCode, Body: truncate(body, 200)}
	}

	if err := sonic.Unmarshal(body, target); err != nil {
		return errors.Wrapf(err, "decode response %s", path)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
