// Package adminapi implements the admin credential source against the hosted
// admin-auth HTTP API.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// Config captures the subset of admin-auth API behaviour we need.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client speaks to the hosted admin-auth endpoint. A definitive "no" from the
// API maps to ports.ErrSessionInvalid; transport and 5xx failures are returned
// as ordinary errors so resolution can fall back instead of logging the admin out.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds an admin-auth API client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("admin api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, client: hc}, nil
}

// adminPayload is the admin object in API responses.
type adminPayload struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (p adminPayload) profile() domainauth.AdminProfile {
	return domainauth.AdminProfile{
		ID:         p.ID,
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Role:       domainauth.NormalizeAdminRole(p.Role),
		Department: p.Department,
	}
}

// Validate checks a session token against GET /validate.
func (c *Client) Validate(ctx context.Context, token string) (domainauth.AdminProfile, error) {
	if token == "" {
		return domainauth.AdminProfile{}, ports.ErrSessionInvalid
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/validate", nil)
	if err != nil {
		return domainauth.AdminProfile{}, fmt.Errorf("create validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out struct {
		Success bool         `json:"success"`
		Admin   adminPayload `json:"admin"`
	}
	if err := c.do(req, &out); err != nil {
		return domainauth.AdminProfile{}, err
	}
	if !out.Success {
		return domainauth.AdminProfile{}, ports.ErrSessionInvalid
	}
	return out.Admin.profile(), nil
}

// Login exchanges credentials for an admin profile and a session token via POST /login.
func (c *Client) Login(ctx context.Context, in ports.AdminLoginInput) (domainauth.AdminProfile, string, error) {
	body, err := json.Marshal(map[string]any{
		"email":       in.Email,
		"password":    in.Password,
		"remember_me": in.RememberMe,
	})
	if err != nil {
		return domainauth.AdminProfile{}, "", fmt.Errorf("encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return domainauth.AdminProfile{}, "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Success bool         `json:"success"`
		Admin   adminPayload `json:"admin"`
		Token   string       `json:"token"`
	}
	if err := c.do(req, &out); err != nil {
		return domainauth.AdminProfile{}, "", err
	}
	if !out.Success || out.Token == "" {
		return domainauth.AdminProfile{}, "", ports.ErrSessionInvalid
	}
	return out.Admin.profile(), out.Token, nil
}

// Logout terminates the server-side session via DELETE /login.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/login", nil)
	if err != nil {
		return fmt.Errorf("create logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, nil)
}

// do executes a request and decodes the JSON response into out (when non-nil).
// 401 and 403 map to ports.ErrSessionInvalid.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("admin api request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ports.ErrSessionInvalid
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("admin api %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode admin api response: %w", err)
	}
	return nil
}

var _ ports.AdminAuthenticator = (*Client)(nil)
