package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/you/plumbsvc/domain"
)

// tokenSkew is subtracted from the reported token lifetime so a token is
// refreshed proactively rather than mid-request.
const tokenSkew = 30 * time.Second

// Client wraps the field-service platform's REST API. It is a stateless
// pass-through per call; the only held state is the access token and the
// lookup cache, both process-local and never sent to the browser.
type Client struct {
	httpClient *http.Client

	baseURL      string
	authURL      string
	tenantID     string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	lookups lookupCache
}

// Config holds the CRM connection settings.
type Config struct {
	BaseURL      string
	AuthURL      string
	TenantID     string
	ClientID     string
	ClientSecret string
}

// NewClient creates a new CRM gateway client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.TenantID == "" {
		return nil, fmt.Errorf("crm credentials: %w", domain.ErrConfiguration)
	}

	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		authURL:      cfg.AuthURL,
		tenantID:     cfg.TenantID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}, nil
}

// UpstreamError carries the external API's HTTP status and message. Handlers
// log it and return a generic message to the caller.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("crm api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotActive reports whether an upstream error is the platform's
// "customer is not active" rejection, which handlers map to 409.
func IsNotActive(err error) bool {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	return strings.Contains(strings.ToLower(ue.Message), "is not active")
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// token returns a valid bearer token, fetching a new one when the cached
// token is absent or within the expiry skew.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenSkew)) {
		return c.accessToken, nil
	}
	return c.fetchTokenLocked(ctx)
}

// invalidateToken drops the cached token so the next call re-authenticates.
func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

func (c *Client) fetchTokenLocked(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: "empty access token"}
	}

	c.accessToken = tr.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// do performs one API call. On a 401 it refreshes the token and retries the
// original call exactly once; any further failure is surfaced to the caller.
// There is no broader retry or backoff policy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	err := c.doOnce(ctx, method, path, query, body, out)
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.StatusCode == http.StatusUnauthorized {
		c.invalidateToken()
		return c.doOnce(ctx, method, path, query, body, out)
	}
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		ue := &UpstreamError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrNotFound, ue)
		}
		return ue
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode crm response: %w", err)
		}
	}
	return nil
}

// readErrorMessage pulls the platform's error text out of its error envelope,
// falling back to the raw body.
func readErrorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))

	var envelope struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors map[string][]string
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Detail != "" {
			return envelope.Detail
		}
		if envelope.Title != "" {
			return envelope.Title
		}
	}
	return strings.TrimSpace(string(data))
}

// crmPath builds a tenant-scoped path under the given API module, e.g.
// crmPath("crm", "customers") -> /crm/v2/tenant/{tenant}/customers.
func (c *Client) crmPath(module, resource string) string {
	return fmt.Sprintf("/%s/v2/tenant/%s/%s", module, c.tenantID, resource)
}

// page is the platform's paged response envelope.
type page[T any] struct {
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	HasMore  bool `json:"hasMore"`
	Data     []T  `json:"data"`
}
