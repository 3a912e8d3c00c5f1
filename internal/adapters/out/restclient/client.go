// Package restclient implements out.Backend over the yadoma REST API.
package restclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/dockhand/internal/adapters/dto"
	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// APIPrefix is the path of the REST API below the server URL.
const APIPrefix = "/yadoma/api/v1"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is an HTTP client for the yadoma REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        zerowrap.Logger

	mu    sync.RWMutex
	token string
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout. Zero disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithInsecureTLS disables certificate verification.
func WithInsecureTLS() ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in for self-signed dev servers
		}
	}
}

// NewClient creates a client for the server at baseURL (scheme and host,
// optionally a path prefix).
func NewClient(baseURL string, log zerowrap.Logger, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken sets the bearer token sent with every subsequent request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request performs an HTTP request against the REST API.
func (c *Client) request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	endpoint := c.baseURL.String() + APIPrefix + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "restclient").
		Str("method", method).
		Str("path", path).
		Int(zerowrap.FieldStatus, resp.StatusCode).
		Dur(zerowrap.FieldDuration, time.Since(start)).
		Msg("backend request")

	return resp, nil
}

// parseResponse decodes a JSON response into target, or turns an error
// status into an *APIError.
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, body)
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode response: empty body")
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}
	return parseResponse(resp, target)
}

// Auth API

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	var result dto.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/authenticate", dto.LoginRequest{Email: email, Password: password}, &result); err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", fmt.Errorf("authenticate: empty token in response")
	}
	return result.Token, nil
}

// ValidateToken checks that the current token is still accepted.
func (c *Client) ValidateToken(ctx context.Context) error {
	var result dto.TokenValidationResponse
	if err := c.do(ctx, http.MethodGet, "/authenticate", nil, &result); err != nil {
		return err
	}
	if result.Valid != nil && !*result.Valid {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: "Token is not valid"}
	}
	return nil
}

// Users API

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/user/create", dto.LoginRequest{Email: email, Password: password}, nil)
}

// CurrentUser returns the profile of the token owner.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var result dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, &result); err != nil {
		return domain.User{}, err
	}
	return toUser(result), nil
}

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var result []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/user/all", nil, &result); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(result))
	for _, u := range result {
		users = append(users, toUser(u))
	}
	return users, nil
}

// DeleteUser removes an account. An unknown account yields domain.ErrUserNotFound.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	err := c.do(ctx, http.MethodDelete, "/user/delete/"+url.PathEscape(userID), nil, nil)
	if errors.Is(err, domain.ErrResourceNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrUserNotFound, err)
	}
	return err
}

// Containers API

// ListResources returns the containers owned by ownerID.
func (c *Client) ListResources(ctx context.Context, ownerID string) ([]domain.Resource, error) {
	var result []dto.ContainerResponse
	if err := c.do(ctx, http.MethodGet, "/container/"+url.PathEscape(ownerID)+"/all", nil, &result); err != nil {
		return nil, err
	}
	resources := make([]domain.Resource, 0, len(result))
	for _, r := range result {
		res := toResource(r)
		if res.OwnerID == "" {
			res.OwnerID = ownerID
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// GetResource returns one container.
func (c *Client) GetResource(ctx context.Context, resourceID string) (domain.Resource, error) {
	var result dto.ContainerResponse
	if err := c.do(ctx, http.MethodGet, "/container/get/"+url.PathEscape(resourceID), nil, &result); err != nil {
		return domain.Resource{}, err
	}
	return toResource(result), nil
}

// CreateResource creates a container.
func (c *Client) CreateResource(ctx context.Context, req domain.CreateResourceRequest) error {
	body := dto.ContainerCreateRequest{
		Name:    req.Name,
		Image:   req.Image,
		EnvVars: req.EnvVars,
	}
	if body.EnvVars == nil {
		body.EnvVars = []string{}
	}
	return c.do(ctx, http.MethodPost, "/container/create", body, nil)
}

// StartResource starts a container.
func (c *Client) StartResource(ctx context.Context, resourceID string) error {
	return c.do(ctx, http.MethodPost, "/container/start/"+url.PathEscape(resourceID), nil, nil)
}

// StopResource stops a container.
func (c *Client) StopResource(ctx context.Context, resourceID string) error {
	return c.do(ctx, http.MethodPost, "/container/stop/"+url.PathEscape(resourceID), nil, nil)
}

// RestartResource restarts a container.
func (c *Client) RestartResource(ctx context.Context, resourceID string) error {
	return c.do(ctx, http.MethodPost, "/container/restart/"+url.PathEscape(resourceID), nil, nil)
}

// DeleteResource removes a container.
func (c *Client) DeleteResource(ctx context.Context, resourceID string) error {
	return c.do(ctx, http.MethodDelete, "/container/delete/"+url.PathEscape(resourceID), nil, nil)
}

// System API

// SystemInfo returns host information.
func (c *Client) SystemInfo(ctx context.Context) (domain.SystemInfo, error) {
	var result dto.SystemInfoResponse
	if err := c.do(ctx, http.MethodGet, "/system/info", nil, &result); err != nil {
		return domain.SystemInfo{}, err
	}
	return toSystemInfo(result), nil
}

// DiskUsage returns host disk usage.
func (c *Client) DiskUsage(ctx context.Context) (domain.DiskUsage, error) {
	var result dto.DiskUsageResponse
	if err := c.do(ctx, http.MethodGet, "/system/disk-usage", nil, &result); err != nil {
		return domain.DiskUsage{}, err
	}
	return toDiskUsage(result), nil
}

// StreamURL builds the WebSocket URL of a resource stream.
func (c *Client) StreamURL(resourceID string, kind domain.StreamKind, token string) (string, error) {
	return StreamURL(c.baseURL.String(), resourceID, kind, token)
}

var _ out.Backend = (*Client)(nil)
