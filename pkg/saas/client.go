// Package saas is a thin client for the multi-tenant SaaS administration
// API. It injects the bearer token on every call and normalizes all error
// responses through apierr before they reach callers.
package saas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nuqta-dev/tenadmin/internal/apierr"
)

// RequestStat describes one completed API call, for optional observability
// hooks (the watch command wires this to Prometheus counters).
type RequestStat struct {
	Method string
	Path   string
	Status int
	Err    error
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	OnRequest func(RequestStat)
}

// Client talks to the SaaS administration backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	onRequest  func(RequestStat)

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given backend.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("saas: base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if strings.HasPrefix(base, "http://") {
		log.Warn().Str("base_url", base).Msg("Using HTTP for SaaS API connection - consider enabling HTTPS")
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		onRequest:  cfg.OnRequest,
		token:      cfg.Token,
	}, nil
}

// SetToken replaces the bearer token used for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, err)
		return apierr.WrapConnection(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		remote := apierr.Normalize(op, resp.StatusCode, raw)
		c.observe(method, path, resp.StatusCode, remote)
		log.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("message", remote.Message).
			Msg("SaaS API request rejected")
		return remote
	}

	c.observe(method, path, resp.StatusCode, nil)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) observe(method, path string, status int, err error) {
	if c.onRequest != nil {
		c.onRequest(RequestStat{Method: method, Path: path, Status: status, Err: err})
	}
}

// Login authenticates the operator and returns the token pair. The access
// token is installed on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	payload := map[string]string{"username": username, "password": password}
	var session Session
	if err := c.do(ctx, "login", http.MethodPost, "/api/saas/login/", nil, payload, &session); err != nil {
		return Session{}, err
	}
	c.SetToken(session.Access)
	return session, nil
}

// Logout invalidates the current session on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/api/saas/logout/", nil, nil, nil)
}

// Me returns the authenticated operator's account.
func (c *Client) Me(ctx context.Context) (Account, error) {
	var account Account
	if err := c.do(ctx, "me", http.MethodGet, "/api/saas/me/", nil, nil, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// RefreshToken exchanges a refresh token for a fresh access token and
// installs it on the client.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (Session, error) {
	payload := map[string]string{"refresh": refresh}
	var session Session
	if err := c.do(ctx, "refresh_token", http.MethodPost, "/api/token/refresh/", nil, payload, &session); err != nil {
		return Session{}, err
	}
	if session.Refresh == "" {
		session.Refresh = refresh
	}
	c.SetToken(session.Access)
	return session, nil
}

// ListTenants fetches the full tenant collection. A non-array response body
// normalizes to an empty list rather than erroring.
func (c *Client) ListTenants(ctx context.Context) ([]Tenant, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list_tenants", http.MethodGet, "/ten/tenants/", nil, nil, &raw); err != nil {
		return nil, err
	}

	var tenants []Tenant
	if err := json.Unmarshal(raw, &tenants); err != nil {
		log.Warn().Msg("Tenant listing response was not an array; treating as empty")
		return []Tenant{}, nil
	}
	if tenants == nil {
		tenants = []Tenant{}
	}
	return tenants, nil
}

// CreateTenant submits the Stage-1 tenant payload and returns the created
// record including its id and subdomain.
func (c *Client) CreateTenant(ctx context.Context, nt NewTenant) (Tenant, error) {
	var tenant Tenant
	if err := c.do(ctx, "create_tenant", http.MethodPost, "/ten/tenants/", nil, nt, &tenant); err != nil {
		return Tenant{}, err
	}
	return tenant, nil
}

// UpdateTenant patches an existing tenant.
func (c *Client) UpdateTenant(ctx context.Context, id int, ut UpdateTenant) (Tenant, error) {
	var tenant Tenant
	path := fmt.Sprintf("/ten/tenants/%d/", id)
	if err := c.do(ctx, "update_tenant", http.MethodPatch, path, nil, ut, &tenant); err != nil {
		return Tenant{}, err
	}
	return tenant, nil
}

// DeleteClient removes a client record; the backend cascades the owning
// tenant. The optional schema qualifies tenant-scoped deletion.
func (c *Client) DeleteClient(ctx context.Context, id int, schema string) error {
	var params url.Values
	if schema != "" {
		params = url.Values{"schema": {schema}}
	}
	path := fmt.Sprintf("/ten/clients/%d/", id)
	return c.do(ctx, "delete_client", http.MethodDelete, path, params, nil, nil)
}

// CreateClient submits the Stage-2 contact payload.
func (c *Client) CreateClient(ctx context.Context, nc NewClientContact) (ClientContact, error) {
	var contact ClientContact
	if err := c.do(ctx, "create_client", http.MethodPost, "/ten/addclients/", nil, nc, &contact); err != nil {
		return ClientContact{}, err
	}
	return contact, nil
}

// UpdateClient replaces an existing contact record.
func (c *Client) UpdateClient(ctx context.Context, id int, uc UpdateClientContact) (ClientContact, error) {
	var contact ClientContact
	path := fmt.Sprintf("/ten/updateclients/%d/", id)
	if err := c.do(ctx, "update_client", http.MethodPut, path, nil, uc, &contact); err != nil {
		return ClientContact{}, err
	}
	return contact, nil
}

// CreateTenantUser provisions the Stage-3 manager account inside the
// tenant's schema.
func (c *Client) CreateTenantUser(ctx context.Context, nm NewManager) (Manager, error) {
	var manager Manager
	if err := c.do(ctx, "create_tenant_user", http.MethodPost, "/api/saas/addtenantusers/", nil, nm, &manager); err != nil {
		return Manager{}, err
	}
	return manager, nil
}

// UpdateManager updates an existing manager account in the given schema.
func (c *Client) UpdateManager(ctx context.Context, id int, schema string, um UpdateManager) error {
	params := url.Values{"schema": {schema}}
	path := fmt.Sprintf("/api/saas/updatemanagers/%d/", id)
	return c.do(ctx, "update_manager", http.MethodPut, path, params, um, nil)
}

// ListCurrencies fetches the currency reference collection.
func (c *Client) ListCurrencies(ctx context.Context) ([]Currency, error) {
	var currencies []Currency
	if err := c.do(ctx, "list_currencies", http.MethodGet, "/ten/currencies/", nil, nil, &currencies); err != nil {
		return nil, err
	}
	if currencies == nil {
		currencies = []Currency{}
	}
	return currencies, nil
}

// CreateCurrency adds a currency reference record.
func (c *Client) CreateCurrency(ctx context.Context, nc NewCurrency) (Currency, error) {
	var currency Currency
	if err := c.do(ctx, "create_currency", http.MethodPost, "/ten/currencies/", nil, nc, &currency); err != nil {
		return Currency{}, err
	}
	return currency, nil
}

// UpdateCurrency updates a currency reference record.
func (c *Client) UpdateCurrency(ctx context.Context, id int, nc NewCurrency) (Currency, error) {
	var currency Currency
	path := fmt.Sprintf("/ten/currencies/%d/", id)
	if err := c.do(ctx, "update_currency", http.MethodPut, path, nil, nc, &currency); err != nil {
		return Currency{}, err
	}
	return currency, nil
}

// DeleteCurrency removes a currency reference record.
func (c *Client) DeleteCurrency(ctx context.Context, id int) error {
	path := fmt.Sprintf("/ten/currencies/%d/", id)
	return c.do(ctx, "delete_currency", http.MethodDelete, path, nil, nil, nil)
}

// ListMeasureUnits fetches the measure-unit reference collection.
func (c *Client) ListMeasureUnits(ctx context.Context) ([]MeasureUnit, error) {
	var units []MeasureUnit
	if err := c.do(ctx, "list_measure_units", http.MethodGet, "/ten/measure-units/", nil, nil, &units); err != nil {
		return nil, err
	}
	if units == nil {
		units = []MeasureUnit{}
	}
	return units, nil
}

// CreateMeasureUnit adds a measure-unit reference record.
func (c *Client) CreateMeasureUnit(ctx context.Context, nu NewMeasureUnit) (MeasureUnit, error) {
	var unit MeasureUnit
	if err := c.do(ctx, "create_measure_unit", http.MethodPost, "/ten/measure-units/", nil, nu, &unit); err != nil {
		return MeasureUnit{}, err
	}
	return unit, nil
}

// UpdateMeasureUnit updates a measure-unit reference record.
func (c *Client) UpdateMeasureUnit(ctx context.Context, id int, nu NewMeasureUnit) (MeasureUnit, error) {
	var unit MeasureUnit
	path := fmt.Sprintf("/ten/measure-units/%d/", id)
	if err := c.do(ctx, "update_measure_unit", http.MethodPut, path, nil, nu, &unit); err != nil {
		return MeasureUnit{}, err
	}
	return unit, nil
}

// DeleteMeasureUnit removes a measure-unit reference record.
func (c *Client) DeleteMeasureUnit(ctx context.Context, id int) error {
	path := fmt.Sprintf("/ten/measure-units/%d/", id)
	return c.do(ctx, "delete_measure_unit", http.MethodDelete, path, nil, nil, nil)
}
