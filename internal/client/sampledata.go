package client

import (
	"time"

	"shoppinglist/internal/domain"
)

// Sample dataset for the demo-fallback degraded mode: first-load reads fall
// back to these so the UI is never empty on first paint when the backend is
// unreachable or not configured yet.

// SampleCategories returns the built-in reference categories.
func SampleCategories() []domain.Category {
	return []domain.Category{
		{ID: "cat-1", Name: "Hortifruti", Icon: "🥦", Color: "#22c55e"},
		{ID: "cat-2", Name: "Padaria", Icon: "🥖", Color: "#f59e0b"},
		{ID: "cat-3", Name: "Carnes", Icon: "🥩", Color: "#ef4444"},
		{ID: "cat-4", Name: "Laticínios", Icon: "🧀", Color: "#eab308"},
		{ID: "cat-5", Name: "Limpeza", Icon: "🧼", Color: "#3b82f6"},
	}
}

// SampleItems returns a small starter list.
func SampleItems() []domain.ShoppingItem {
	today := time.Now().Format(time.RFC3339)
	return []domain.ShoppingItem{
		{ID: "demo-1", Name: "Pão francês", Quantity: 6, Category: "Padaria", PriceEstimate: 0.90, Status: domain.StatusPending, AddedAt: today},
		{ID: "demo-2", Name: "Banana", Quantity: 6, Category: "Hortifruti", PriceEstimate: 0.80, Status: domain.StatusPending, AddedAt: today},
		{ID: "demo-3", Name: "Leite", Quantity: 2, Category: "Laticínios", PriceEstimate: 5.50, Status: domain.StatusPending, AddedAt: today},
	}
}
