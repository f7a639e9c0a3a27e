// Package client is the typed data access layer over the gateway: one method
// per domain operation, envelope unwrapping, and light post-processing of the
// spreadsheet-shaped payloads.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shoppinglist/internal/domain"
)

// APIError carries the error text of a failed gateway envelope.
type APIError struct {
	Action  string
	Status  int
	Message string
	Details string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("action %s: %s", e.Action, e.Message)
	}
	return fmt.Sprintf("action %s: %s: %s", e.Action, e.Message, e.Details)
}

// Config holds configuration for the data access client
type Config struct {
	// GatewayURL is the full URL of the gateway endpoint.
	GatewayURL string

	Timeout time.Duration

	// DemoFallback degrades first-load reads (categories, items) to a
	// built-in sample dataset instead of failing, so a UI is never empty
	// on first paint. User-initiated actions always surface errors.
	DemoFallback bool
}

// Client wraps the gateway with one strongly-typed method per operation.
// It owns no state beyond identity and debug overrides; every method is a
// pure request/response call.
type Client struct {
	gatewayURL   string
	httpClient   *http.Client
	demoFallback bool

	userEmail   string
	overrideURL string
	overrideKey string
}

// NewClient creates a new data access client
func NewClient(config *Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		gatewayURL:   config.GatewayURL,
		demoFallback: config.DemoFallback,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetUserEmail sets the identity forwarded to the backend on every call.
func (c *Client) SetUserEmail(email string) {
	c.userEmail = email
}

// SetOverrides sets the debug-only backend URL and suggestion key overrides.
// Empty values clear them.
func (c *Client) SetOverrides(overrideURL, overrideKey string) {
	c.overrideURL = overrideURL
	c.overrideKey = overrideKey
}

// call performs one gateway request and unwraps the envelope into out.
func (c *Client) call(ctx context.Context, action string, payload interface{}, out interface{}) error {
	target, err := url.Parse(c.gatewayURL)
	if err != nil {
		return fmt.Errorf("invalid gateway URL: %w", err)
	}

	query := target.Query()
	query.Set("action", action)
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		query.Set("payload", string(encoded))
	}
	if c.userEmail != "" {
		query.Set("userEmail", c.userEmail)
	}
	if c.overrideURL != "" {
		query.Set("override_url", c.overrideURL)
	}
	if c.overrideKey != "" {
		query.Set("override_key", c.overrideKey)
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
		Details string          `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("gateway returned invalid JSON: %w", err)
	}

	if envelope.Error != "" || resp.StatusCode != http.StatusOK {
		message := envelope.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			Action:  action,
			Status:  resp.StatusCode,
			Message: message,
			Details: envelope.Details,
		}
	}

	if out != nil && envelope.Data != nil && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", action, err)
		}
	}

	return nil
}

// GetMe resolves the logged-in user through the backend's getUserEmail
// action, synthesising display name and avatar from the address.
func (c *Client) GetMe(ctx context.Context) (domain.UserSession, error) {
	var email string
	if err := c.call(ctx, "getUserEmail", nil, &email); err != nil {
		return domain.UserSession{}, err
	}

	if email == "" {
		email = "usuario@google.com"
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	return domain.UserSession{
		Email:   email,
		Name:    name,
		Picture: fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=3b82f6&color=fff", url.QueryEscape(name)),
	}, nil
}

// GetCategories lists the reference categories. With DemoFallback enabled a
// failed fetch degrades to the sample dataset instead of erroring.
func (c *Client) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.call(ctx, "listarCategorias", nil, &categories); err != nil {
		if c.demoFallback {
			return SampleCategories(), nil
		}
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// GetItems lists the active shopping list. Same fallback policy as
// GetCategories.
func (c *Client) GetItems(ctx context.Context) ([]domain.ShoppingItem, error) {
	var items []domain.ShoppingItem
	if err := c.call(ctx, "listarItens", nil, &items); err != nil {
		if c.demoFallback {
			return SampleItems(), nil
		}
		return nil, err
	}
	if items == nil {
		items = []domain.ShoppingItem{}
	}
	return items, nil
}

// AddItem creates a pending item. The returned item is the backend echo and
// may be nil when the script does not echo creations.
func (c *Client) AddItem(ctx context.Context, input domain.NewItemInput) (*domain.ShoppingItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("item name must not be empty")
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("item quantity must be positive")
	}
	if input.PriceEstimate < 0 {
		return nil, fmt.Errorf("item price must not be negative")
	}

	var created domain.ShoppingItem
	if err := c.call(ctx, "adicionarItem", input, &created); err != nil {
		return nil, err
	}
	if created.Name == "" {
		return nil, nil
	}
	return &created, nil
}

// UpdateItem applies a partial update to an item.
func (c *Client) UpdateItem(ctx context.Context, id domain.ID, updates map[string]interface{}) error {
	payload := map[string]interface{}{"id": id}
	for key, value := range updates {
		payload[key] = value
	}
	return c.call(ctx, "editarItem", payload, nil)
}

// RemoveItem deletes an item from the active list. A missing id upstream is
// treated as a no-op, not a failure.
func (c *Client) RemoveItem(ctx context.Context, id domain.ID) error {
	err := c.call(ctx, "removerItem", map[string]interface{}{"id": id}, nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

// ToggleStatus flips an item between pending and purchased. Toggling twice
// returns the item to its original state, so callers must not retry blindly.
func (c *Client) ToggleStatus(ctx context.Context, id domain.ID) error {
	return c.call(ctx, "marcarComoComprado", map[string]interface{}{"id": id}, nil)
}

// FinalizePurchase sweeps every purchased item into one new purchase group
// and clears them from the active list. A no-op when nothing is purchased.
func (c *Client) FinalizePurchase(ctx context.Context) error {
	return c.call(ctx, "finalizarCompra", nil, nil)
}

// GetHistory fetches the purchase history with dashboard stats. Stats are
// recomputed locally when the upstream omits them.
func (c *Client) GetHistory(ctx context.Context) (domain.History, error) {
	var history domain.History
	if err := c.call(ctx, "obterHistorico", nil, &history); err != nil {
		return domain.History{}, err
	}

	if history.Purchases == nil {
		history.Purchases = []domain.PurchaseGroup{}
	}
	if history.Stats == nil {
		stats := domain.ComputeStats(history.Purchases)
		history.Stats = &stats
	}

	return history, nil
}

// ReloadList re-adds every line of a historical purchase back into the
// active list as new pending items. The historical record is not mutated.
func (c *Client) ReloadList(ctx context.Context, purchaseID domain.ID) error {
	return c.call(ctx, "carregarListaDoHistorico", map[string]interface{}{"idCompra": purchaseID}, nil)
}

// GetSmartSuggestions returns suggested item names for the current list.
// Suggestions are non-critical enrichment: every failure collapses into an
// empty list.
func (c *Client) GetSmartSuggestions(ctx context.Context, items []domain.ShoppingItem, categories []domain.Category) []string {
	payload := map[string]interface{}{
		"items":      items,
		"categories": categories,
	}

	var suggestions []string
	if err := c.call(ctx, "getSmartSuggestions", payload, &suggestions); err != nil {
		return []string{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions
}

// isNotFound reports whether an error is an upstream "item not found"
// business error.
func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	message := strings.ToLower(apiErr.Message)
	return strings.Contains(message, "não encontrado") || strings.Contains(message, "not found")
}
