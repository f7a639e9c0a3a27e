package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemStatus is the lifecycle state of an active list item.
type ItemStatus string

const (
	StatusPending   ItemStatus = "pendente"
	StatusPurchased ItemStatus = "comprado"
)

// The JSON tags in this package are the wire contract of the Apps Script
// backend and must round-trip unchanged. Field names stay Portuguese on the
// wire even though the Go identifiers are English.

// ID is an item or purchase identifier. The spreadsheet backend is not
// consistent about the type: row-derived ids arrive as numbers, generated
// ones as strings. Both decode into the string form.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Money is a decimal amount in the list's currency. The spreadsheet backend
// frequently serializes currency cells as strings ("12.50"), so decoding
// coerces both forms.
type Money float64

// UnmarshalJSON accepts JSON numbers and numeric strings. Empty strings
// decode to zero, matching how empty spreadsheet cells come back.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*m = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid money value %q: %w", s, err)
		}
		*m = Money(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Money(f)
	return nil
}

// MarshalJSON always emits a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(m))
}

// Category is immutable reference data fetched once per session segment.
type Category struct {
	ID    ID     `json:"id"`
	Name  string `json:"nome"`
	Icon  string `json:"icone"`
	Color string `json:"cor"`
}

// ShoppingItem is one line of the active list. Items are created pending,
// toggle between pending and purchased, and leave the list either by removal
// or by being swept into a PurchaseGroup on finalize.
type ShoppingItem struct {
	ID            ID         `json:"id"`
	Name          string     `json:"nome"`
	Quantity      int        `json:"quantidade"`
	Category      string     `json:"categoria"`
	PriceEstimate Money      `json:"precoEstimado"`
	Status        ItemStatus `json:"status"`
	AddedAt       string     `json:"dataAdicao"`
}

// NewItemInput is the caller-supplied part of an item; id, status and date
// are assigned upstream.
type NewItemInput struct {
	Name          string `json:"nome"`
	Quantity      int    `json:"quantidade"`
	Category      string `json:"categoria"`
	PriceEstimate Money  `json:"precoEstimado"`
}

// PurchaseLine is one historical line item inside a PurchaseGroup.
type PurchaseLine struct {
	PurchaseID ID     `json:"idCompra,omitempty"`
	Date       string `json:"data,omitempty"`
	Name       string `json:"nome"`
	Quantity   int    `json:"quantidade"`
	Category   string `json:"categoria"`
	Price      Money  `json:"preco"`
	Total      Money  `json:"total"`
}

// PurchaseGroup is one finalized purchase. Immutable once created, except
// for being the source of a reload operation.
type PurchaseGroup struct {
	ID    ID             `json:"id"`
	Date  string         `json:"data"`
	Items []PurchaseLine `json:"itens"`
	Total Money          `json:"total"`
}

// DashboardStats is derived data recomputed on every history fetch. It is
// never persisted by this layer.
type DashboardStats struct {
	TotalSpent       Money  `json:"totalGasto"`
	TotalPurchases   int    `json:"totalCompras"`
	TotalItems       int    `json:"totalItens"`
	AverageSpend     Money  `json:"gastoMedio"`
	FavoriteCategory string `json:"categoriaFavorita"`
}

// History is the payload of the obterHistorico action.
type History struct {
	Purchases []PurchaseGroup `json:"compras"`
	Stats     *DashboardStats `json:"estatisticas,omitempty"`
}

// UserSession identifies the logged-in user. Created at login, persisted
// client-side, destroyed at logout.
type UserSession struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
