package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"shoppinglist/internal/domain"
)

// fakeScript is an in-memory stand-in for the Apps Script deployment. It
// implements the action semantics the real script exposes, including its
// quirks: envelope-wrapped responses, stringly-typed currency in the stats
// payload, and business errors for unknown ids.
type fakeScript struct {
	mu         sync.Mutex
	categories []domain.Category
	items      []domain.ShoppingItem
	groups     []domain.PurchaseGroup
	email      string
	omitStats  bool

	lastUserEmail string
}

func newFakeScript() *fakeScript {
	return &fakeScript{
		categories: []domain.Category{
			{ID: "1", Name: "Mercearia", Icon: "🛒", Color: "#3b82f6"},
			{ID: "2", Name: "Hortifruti", Icon: "🥦", Color: "#22c55e"},
		},
		email: "tester@example.com",
	}
}

func (f *fakeScript) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.lastUserEmail = r.URL.Query().Get("userEmail")
		action := r.URL.Query().Get("action")
		payload := r.URL.Query().Get("payload")

		w.Header().Set("Content-Type", "application/json")

		switch action {
		case "getUserEmail":
			writeData(w, f.email)
		case "listarCategorias":
			writeData(w, f.categories)
		case "listarItens":
			writeData(w, f.items)
		case "adicionarItem":
			f.addItem(w, payload)
		case "editarItem":
			f.editItem(w, payload)
		case "removerItem":
			f.removeItem(w, payload)
		case "marcarComoComprado":
			f.toggleItem(w, payload)
		case "finalizarCompra":
			f.finalize(w)
		case "obterHistorico":
			f.history(w)
		case "carregarListaDoHistorico":
			f.reload(w, payload)
		default:
			writeError(w, fmt.Sprintf("Ação desconhecida: %s", action))
		}
	}
}

func writeData(w http.ResponseWriter, data interface{}) {
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, message string) {
	json.NewEncoder(w).Encode(map[string]interface{}{"error": message})
}

func (f *fakeScript) addItem(w http.ResponseWriter, payload string) {
	var input domain.NewItemInput
	if err := json.Unmarshal([]byte(payload), &input); err != nil {
		writeError(w, "Payload inválido")
		return
	}

	item := domain.ShoppingItem{
		ID:            domain.ID(uuid.NewString()),
		Name:          input.Name,
		Quantity:      input.Quantity,
		Category:      input.Category,
		PriceEstimate: input.PriceEstimate,
		Status:        domain.StatusPending,
		AddedAt:       time.Now().Format(time.RFC3339),
	}
	f.items = append(f.items, item)
	writeData(w, item)
}

func (f *fakeScript) findItem(payload string) (int, bool) {
	var ref struct {
		ID domain.ID `json:"id"`
	}
	if err := json.Unmarshal([]byte(payload), &ref); err != nil {
		return 0, false
	}
	for i, item := range f.items {
		if item.ID == ref.ID {
			return i, true
		}
	}
	return 0, false
}

func (f *fakeScript) editItem(w http.ResponseWriter, payload string) {
	idx, ok := f.findItem(payload)
	if !ok {
		writeError(w, "Item não encontrado")
		return
	}

	var updates struct {
		Name          *string       `json:"nome"`
		Quantity      *int          `json:"quantidade"`
		Category      *string       `json:"categoria"`
		PriceEstimate *domain.Money `json:"precoEstimado"`
	}
	if err := json.Unmarshal([]byte(payload), &updates); err != nil {
		writeError(w, "Payload inválido")
		return
	}

	if updates.Name != nil {
		f.items[idx].Name = *updates.Name
	}
	if updates.Quantity != nil {
		f.items[idx].Quantity = *updates.Quantity
	}
	if updates.Category != nil {
		f.items[idx].Category = *updates.Category
	}
	if updates.PriceEstimate != nil {
		f.items[idx].PriceEstimate = *updates.PriceEstimate
	}
	writeData(w, f.items[idx])
}

func (f *fakeScript) removeItem(w http.ResponseWriter, payload string) {
	idx, ok := f.findItem(payload)
	if !ok {
		writeError(w, "Item não encontrado")
		return
	}
	f.items = append(f.items[:idx], f.items[idx+1:]...)
	writeData(w, true)
}

func (f *fakeScript) toggleItem(w http.ResponseWriter, payload string) {
	idx, ok := f.findItem(payload)
	if !ok {
		writeError(w, "Item não encontrado")
		return
	}
	if f.items[idx].Status == domain.StatusPending {
		f.items[idx].Status = domain.StatusPurchased
	} else {
		f.items[idx].Status = domain.StatusPending
	}
	writeData(w, true)
}

func (f *fakeScript) finalize(w http.ResponseWriter) {
	var purchased []domain.ShoppingItem
	var remaining []domain.ShoppingItem
	for _, item := range f.items {
		if item.Status == domain.StatusPurchased {
			purchased = append(purchased, item)
		} else {
			remaining = append(remaining, item)
		}
	}

	if len(purchased) == 0 {
		writeData(w, false)
		return
	}

	group := domain.PurchaseGroup{
		ID:   domain.ID(uuid.NewString()),
		Date: time.Now().Format("02/01/2006"),
	}
	for _, item := range purchased {
		line := domain.PurchaseLine{
			PurchaseID: group.ID,
			Date:       group.Date,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Category:   item.Category,
			Price:      item.PriceEstimate,
			Total:      item.PriceEstimate * domain.Money(item.Quantity),
		}
		group.Items = append(group.Items, line)
		group.Total += line.Total
	}

	f.groups = append(f.groups, group)
	f.items = remaining
	writeData(w, true)
}

func (f *fakeScript) history(w http.ResponseWriter) {
	response := map[string]interface{}{
		"compras": f.groups,
	}

	if !f.omitStats {
		stats := domain.ComputeStats(f.groups)
		// The real spreadsheet serializes the currency cells as strings.
		response["estatisticas"] = map[string]interface{}{
			"totalGasto":        fmt.Sprintf("%.2f", float64(stats.TotalSpent)),
			"totalCompras":      stats.TotalPurchases,
			"totalItens":        stats.TotalItems,
			"gastoMedio":        fmt.Sprintf("%.2f", float64(stats.AverageSpend)),
			"categoriaFavorita": stats.FavoriteCategory,
		}
	}

	writeData(w, response)
}

func (f *fakeScript) reload(w http.ResponseWriter, payload string) {
	var ref struct {
		PurchaseID domain.ID `json:"idCompra"`
	}
	if err := json.Unmarshal([]byte(payload), &ref); err != nil {
		writeError(w, "Payload inválido")
		return
	}

	for _, group := range f.groups {
		if group.ID != ref.PurchaseID {
			continue
		}
		for _, line := range group.Items {
			f.items = append(f.items, domain.ShoppingItem{
				ID:            domain.ID(uuid.NewString()),
				Name:          line.Name,
				Quantity:      line.Quantity,
				Category:      line.Category,
				PriceEstimate: line.Price,
				Status:        domain.StatusPending,
				AddedAt:       time.Now().Format(time.RFC3339),
			})
		}
		writeData(w, true)
		return
	}

	writeError(w, "Compra não encontrada")
}
