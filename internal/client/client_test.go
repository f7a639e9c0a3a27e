package client

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppinglist/internal/config"
	"shoppinglist/internal/domain"
	"shoppinglist/internal/handler"
	"shoppinglist/internal/suggest"
	"shoppinglist/internal/upstream"
)

// newTestStack wires a fake Apps Script behind the real gateway handler and
// returns a client pointed at it. Every request in these tests crosses the
// full proxy path: client -> gateway -> classification -> fake script.
func newTestStack(t *testing.T) (*fakeScript, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := newFakeScript()
	scriptSrv := httptest.NewServer(fake.handler())
	t.Cleanup(scriptSrv.Close)

	cfg := &config.Config{ScriptURL: scriptSrv.URL}
	h := handler.NewGatewayHandler(cfg, upstream.NewClient(nil), nil,
		func(ctx context.Context, apiKey, modelID string) (suggest.Generator, error) {
			return nil, fmt.Errorf("no generator in tests")
		})

	router := gin.New()
	router.GET("/api/gateway", h.Gateway)
	gatewaySrv := httptest.NewServer(router)
	t.Cleanup(gatewaySrv.Close)

	return fake, NewClient(&Config{GatewayURL: gatewaySrv.URL + "/api/gateway"})
}

func TestAddThenListRoundTrip(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	created, err := c.AddItem(ctx, domain.NewItemInput{
		Name: "Arroz", Quantity: 2, Category: "Mercearia", PriceEstimate: 10.5,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)

	items, err := c.GetItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "Arroz", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, domain.Money(10.5), items[0].PriceEstimate)
}

func TestAddItemValidatesInputLocally(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	_, err := c.AddItem(ctx, domain.NewItemInput{Name: "  ", Quantity: 1})
	assert.Error(t, err)

	_, err = c.AddItem(ctx, domain.NewItemInput{Name: "Café", Quantity: 0})
	assert.Error(t, err)

	_, err = c.AddItem(ctx, domain.NewItemInput{Name: "Café", Quantity: 1, PriceEstimate: -1})
	assert.Error(t, err)

	items, err := c.GetItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "rejected inputs must never reach the backend")
}

func TestToggleStatusIsInvolution(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	created, err := c.AddItem(ctx, domain.NewItemInput{Name: "Leite", Quantity: 1, PriceEstimate: 5})
	require.NoError(t, err)

	require.NoError(t, c.ToggleStatus(ctx, created.ID))
	items, err := c.GetItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPurchased, items[0].Status)

	require.NoError(t, c.ToggleStatus(ctx, created.ID))
	items, err = c.GetItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, items[0].Status)
}

func TestUpdateItemAppliesPartialChanges(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	created, err := c.AddItem(ctx, domain.NewItemInput{Name: "Pão", Quantity: 1, PriceEstimate: 8})
	require.NoError(t, err)

	err = c.UpdateItem(ctx, created.ID, map[string]interface{}{
		"nome":       "Pão integral",
		"quantidade": 3,
	})
	require.NoError(t, err)

	items, err := c.GetItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pão integral", items[0].Name)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, domain.Money(8), items[0].PriceEstimate, "untouched fields must survive the update")
}

func TestRemoveItemMissingIDIsNoop(t *testing.T) {
	_, c := newTestStack(t)

	err := c.RemoveItem(context.Background(), "does-not-exist")
	assert.NoError(t, err)
}

func TestFinalizeWithNothingPurchasedIsNoop(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	_, err := c.AddItem(ctx, domain.NewItemInput{Name: "Arroz", Quantity: 1, PriceEstimate: 10})
	require.NoError(t, err)

	require.NoError(t, c.FinalizePurchase(ctx))

	items, err := c.GetItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "pending items must stay on the list")

	history, err := c.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history.Purchases)
}

func TestFinalizeSweepsPurchasedItems(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	arroz, err := c.AddItem(ctx, domain.NewItemInput{Name: "Arroz", Quantity: 2, Category: "Mercearia", PriceEstimate: 10})
	require.NoError(t, err)
	banana, err := c.AddItem(ctx, domain.NewItemInput{Name: "Banana", Quantity: 2, Category: "Hortifruti", PriceEstimate: 2.5})
	require.NoError(t, err)
	_, err = c.AddItem(ctx, domain.NewItemInput{Name: "Café", Quantity: 1, Category: "Mercearia", PriceEstimate: 15})
	require.NoError(t, err)

	require.NoError(t, c.ToggleStatus(ctx, arroz.ID))
	require.NoError(t, c.ToggleStatus(ctx, banana.ID))
	require.NoError(t, c.FinalizePurchase(ctx))

	items, err := c.GetItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Café", items[0].Name)

	history, err := c.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history.Purchases, 1)

	group := history.Purchases[0]
	require.Len(t, group.Items, 2)
	assert.Equal(t, domain.Money(25), group.Total, "group total must equal the sum of price*quantity")
}

func TestReloadRestoresPurchaseLinesAsPending(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	item, err := c.AddItem(ctx, domain.NewItemInput{Name: "Arroz", Quantity: 2, Category: "Mercearia", PriceEstimate: 10})
	require.NoError(t, err)
	require.NoError(t, c.ToggleStatus(ctx, item.ID))
	require.NoError(t, c.FinalizePurchase(ctx))

	history, err := c.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history.Purchases, 1)
	group := history.Purchases[0]

	require.NoError(t, c.ReloadList(ctx, group.ID))

	items, err := c.GetItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(group.Items))
	assert.Equal(t, "Arroz", items[0].Name)
	assert.Equal(t, domain.StatusPending, items[0].Status)
	assert.NotEqual(t, item.ID, items[0].ID, "reloaded items are new rows, not the originals")

	after, err := c.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, after.Purchases, 1)
	assert.Equal(t, group.Total, after.Purchases[0].Total, "reload must not mutate the historical record")
}

func TestGetHistoryCoercesStringCurrency(t *testing.T) {
	_, c := newTestStack(t)
	ctx := context.Background()

	item, err := c.AddItem(ctx, domain.NewItemInput{Name: "Arroz", Quantity: 2, Category: "Mercearia", PriceEstimate: 10})
	require.NoError(t, err)
	require.NoError(t, c.ToggleStatus(ctx, item.ID))
	require.NoError(t, c.FinalizePurchase(ctx))

	history, err := c.GetHistory(ctx)
	require.NoError(t, err)
	require.NotNil(t, history.Stats)
	assert.Equal(t, domain.Money(20), history.Stats.TotalSpent)
	assert.Equal(t, 1, history.Stats.TotalPurchases)
	assert.Equal(t, "Mercearia", history.Stats.FavoriteCategory)
}

func TestGetHistoryRecomputesMissingStats(t *testing.T) {
	fake, c := newTestStack(t)
	ctx := context.Background()

	item, err := c.AddItem(ctx, domain.NewItemInput{Name: "Banana", Quantity: 4, Category: "Hortifruti", PriceEstimate: 2})
	require.NoError(t, err)
	require.NoError(t, c.ToggleStatus(ctx, item.ID))
	require.NoError(t, c.FinalizePurchase(ctx))

	fake.mu.Lock()
	fake.omitStats = true
	fake.mu.Unlock()

	history, err := c.GetHistory(ctx)
	require.NoError(t, err)
	require.NotNil(t, history.Stats)
	assert.Equal(t, domain.Money(8), history.Stats.TotalSpent)
	assert.Equal(t, 4, history.Stats.TotalItems)
	assert.Equal(t, "Hortifruti", history.Stats.FavoriteCategory)
}

func TestGetMeSynthesizesProfileFromEmail(t *testing.T) {
	_, c := newTestStack(t)

	session, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tester@example.com", session.Email)
	assert.Equal(t, "tester", session.Name)
	assert.Contains(t, session.Picture, "ui-avatars.com")
}

func TestUserEmailForwardedOnEveryCall(t *testing.T) {
	fake, c := newTestStack(t)
	c.SetUserEmail("ana@example.com")

	_, err := c.GetItems(context.Background())
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "ana@example.com", fake.lastUserEmail)
}

func TestSuggestionsFailureCollapsesToEmptyList(t *testing.T) {
	// No Gemini key configured anywhere, so the gateway rejects the call.
	_, c := newTestStack(t)

	suggestions := c.GetSmartSuggestions(context.Background(), nil, nil)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestDemoFallbackDegradesFirstLoadReads(t *testing.T) {
	deadSrv := httptest.NewServer(nil)
	deadSrv.Close()

	withFallback := NewClient(&Config{GatewayURL: deadSrv.URL, DemoFallback: true})
	ctx := context.Background()

	categories, err := withFallback.GetCategories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, categories)

	items, err := withFallback.GetItems(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, items)

	// User actions never degrade, with or without the flag.
	assert.Error(t, withFallback.ToggleStatus(ctx, "1"))

	strict := NewClient(&Config{GatewayURL: deadSrv.URL})
	_, err = strict.GetItems(ctx)
	assert.Error(t, err)
}
