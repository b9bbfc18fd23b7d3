// Package sdk implements the client for the Substra backend REST API.
//
// The backend exposes one route per asset kind (algo, objective,
// data_manager, data_sample, traintuple, testtuple, compute_plan), JSON
// responses, and multipart registration endpoints for assets carrying
// files. This package wraps those routes with typed operations and keeps
// all transport concerns (auth, retries, rate limiting) in one place.
package sdk

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"
)

const (
	defaultTimeout    = 5 * time.Minute
	defaultAPIVersion = "0.0"

	// The backend throttles aggressive clients; stay under its limits.
	defaultRateLimit = rate.Limit(10)
	defaultBurstSize = 20
)

// RetryConfig configures the retry mechanism for idempotent requests.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	}
}

// defaultTransport returns an http.Transport with tuned connection pool
// settings.
func defaultTransport(insecure bool) *http.Transport {
	t := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	if insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return t
}

// Options configures a Client. URL is the only required field; credentials
// may be left empty when the backend node does not require authentication.
type Options struct {
	URL      string
	Version  string
	Username string
	Password string
	Token    string
	Insecure bool
	Timeout  time.Duration

	// Retry is optional; if nil, DefaultRetryConfig is used.
	Retry *RetryConfig
}

// Client talks to a single Substra backend node.
type Client struct {
	base       *url.URL
	version    string
	username   string
	password   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryConfig
}

// New creates a backend client from the given options.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must use http or https", opts.URL)
	}

	version := opts.Version
	if version == "" {
		version = defaultAPIVersion
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retry := DefaultRetryConfig()
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	return &Client{
		base:     base,
		version:  version,
		username: opts.Username,
		password: opts.Password,
		token:    opts.Token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: defaultTransport(opts.Insecure),
		},
		limiter: rate.NewLimiter(defaultRateLimit, defaultBurstSize),
		retry:   retry,
	}, nil
}

// SetToken replaces the auth token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// assetURL builds the URL for an asset route, e.g. <base>/algo/<key>/.
// Trailing slashes matter to the backend.
func (c *Client) assetURL(kind Kind, elems ...string) string {
	parts := append([]string{kind.route()}, elems...)
	return c.base.String() + "/" + strings.Join(parts, "/") + "/"
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", fmt.Sprintf("application/json;version=%s", c.version))
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

// do sends a single request. The caller owns the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	c.setHeaders(req)

	klog.V(2).Infof("%s %s", req.Method, req.URL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting backend: %w", err)
	}
	klog.V(2).Infof("%s %s: %s", req.Method, req.URL, resp.Status)
	return resp, nil
}

// get performs a GET with retries on connection errors and 5xx responses.
func (c *Client) get(ctx context.Context, rawurl string, query url.Values) (*http.Response, error) {
	interval := c.retry.InitialInterval
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			klog.V(1).Infof("retrying %s (attempt %d): %v", rawurl, attempt, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
			interval = time.Duration(float64(interval) * c.retry.Multiplier)
			if interval > c.retry.MaxInterval {
				interval = c.retry.MaxInterval
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
		if err != nil {
			return nil, err
		}
		if query != nil {
			req.URL.RawQuery = query.Encode()
		}

		resp, err := c.do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = errorFromResponse(resp)
			resp.Body.Close()
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.retry.MaxRetries+1, lastErr)
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, rawurl string, query url.Values, out interface{}) error {
	resp, err := c.get(ctx, rawurl, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// postJSON performs a POST with a JSON body. Mutating calls are never
// retried.
func (c *Client) postJSON(ctx context.Context, rawurl string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Login exchanges the profile credentials for an API token and makes the
// client use it. The token is returned so callers can persist it.
func (c *Client) Login(ctx context.Context) (string, error) {
	if c.username == "" {
		return "", fmt.Errorf("profile has no username, run `substra config` first")
	}

	resp, err := c.postJSON(ctx, c.base.String()+"/api-token-auth/", map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(resp)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("backend returned an empty token")
	}

	c.token = payload.Token
	return payload.Token, nil
}

// TokenExpiry returns the expiry time embedded in an API token. The token
// signature is not checked, only the backend can do that.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return exp.Time, nil
}
