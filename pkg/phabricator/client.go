package phabricator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// defaultRequestsPerSecond keeps pagination loops polite towards the
// Phabricator instance.
const defaultRequestsPerSecond = 4

// Client is the HTTP wrapper for the Phabricator Conduit API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Conduit client for the given instance base URL
// (e.g. "https://phab.example.com") and API token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
	}
}

// SetRateLimit overrides the client-side request rate (requests per second).
func (c *Client) SetRateLimit(rps float64) {
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

// call performs one Conduit method call. Params are sent form-encoded with
// the api.token field added; the result payload is unmarshaled into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", method, err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api.token", c.token)

	endpoint := fmt.Sprintf("%s/api/%s", c.baseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call conduit %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("conduit %s: HTTP %d: %s", method, resp.StatusCode, string(raw))
	}

	var env conduitEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode conduit %s response: %w", method, err)
	}
	if env.ErrorCode != "" {
		return &ConduitError{Code: env.ErrorCode, Info: env.ErrorInfo}
	}

	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("failed to unmarshal conduit %s result: %w", method, err)
		}
	}
	return nil
}

// setConstraint encodes a list constraint the way Conduit expects form
// params: constraints[key][0]=a, constraints[key][1]=b, ...
func setConstraint[T any](params url.Values, key string, values []T) {
	for i, v := range values {
		params.Set(fmt.Sprintf("constraints[%s][%d]", key, i), fmt.Sprint(v))
	}
}
