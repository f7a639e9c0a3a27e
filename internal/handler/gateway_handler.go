package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"shoppinglist/internal/config"
	"shoppinglist/internal/domain"
	"shoppinglist/internal/model"
	"shoppinglist/internal/suggest"
	"shoppinglist/internal/upstream"
)

// GeneratorFactory builds a suggestion generator for a resolved API key.
// Needed because override_key callers get a generator distinct from the
// environment-configured one.
type GeneratorFactory func(ctx context.Context, apiKey, model string) (suggest.Generator, error)

// GatewayHandler serves the single proxy endpoint. It is stateless: one
// request in, one envelope out, no shared mutable state across invocations.
type GatewayHandler struct {
	cfg        *config.Config
	script     *upstream.Client
	defaultGen suggest.Generator
	newGen     GeneratorFactory
}

// NewGatewayHandler creates a new gateway handler. defaultGen may be nil when
// no suggestion key is configured.
func NewGatewayHandler(cfg *config.Config, script *upstream.Client, defaultGen suggest.Generator, newGen GeneratorFactory) *GatewayHandler {
	return &GatewayHandler{
		cfg:        cfg,
		script:     script,
		defaultGen: defaultGen,
		newGen:     newGen,
	}
}

// suggestionPayload is the decoded payload of a getSmartSuggestions call.
type suggestionPayload struct {
	Items      []domain.ShoppingItem `json:"items"`
	Categories []domain.Category     `json:"categories"`
}

// Gateway handles the GET /api/gateway endpoint
// @Summary Forward one action to the shopping-list backend
// @Description Proxies an action-based RPC call to the Apps Script deployment, or serves smart suggestions, and normalizes the response into a JSON envelope
// @Tags gateway
// @Produce json
// @Param action query string false "Action name (listarItens, adicionarItem, ...)"
// @Param payload query string false "JSON-encoded action payload"
// @Param userEmail query string false "Caller identity forwarded for backend-side authorization"
// @Param override_url query string false "Debug-only backend URL override"
// @Param override_key query string false "Debug-only suggestion key override"
// @Success 200 {object} model.Envelope "Success envelope"
// @Failure 400 {object} model.Envelope "Configuration or business error"
// @Failure 502 {object} model.Envelope "Upstream or provider failure"
// @Router /api/gateway [get]
func (h *GatewayHandler) Gateway(c *gin.Context) {
	action := c.Query("action")

	// Absent action is a valid no-op, answered with a well-formed envelope.
	if action == "" {
		respondEmpty(c)
		return
	}

	if action == "getSmartSuggestions" {
		h.handleSuggestions(c)
		return
	}

	h.handleProxy(c, action)
}

// Preflight handles the OPTIONS /api/gateway endpoint
func (h *GatewayHandler) Preflight(c *gin.Context) {
	respondEmpty(c)
}

// handleProxy forwards an action to the Apps Script deployment and maps the
// classified result onto the envelope contract.
func (h *GatewayHandler) handleProxy(c *gin.Context, action string) {
	baseURL := h.cfg.ResolveScriptURL(c.Query("override_url"))

	data, err := h.script.Call(c.Request.Context(), baseURL, action, c.Query("payload"), c.Query("userEmail"))
	if err != nil {
		var scriptErr *upstream.ScriptError
		if errors.As(err, &scriptErr) {
			respondError(c, scriptErr.Kind, scriptErr.Envelope())
			return
		}
		respondError(c, model.ErrKindUpstream, model.Envelope{
			Error:   "Erro de Proxy Fatal",
			Details: err.Error(),
		})
		return
	}

	respondOK(c, data)
}

// handleSuggestions serves getSmartSuggestions locally through the
// generative provider instead of proxying.
func (h *GatewayHandler) handleSuggestions(c *gin.Context) {
	key := h.cfg.ResolveGeminiKey(c.Query("override_key"))
	if key == "" {
		respondError(c, model.ErrKindConfig, model.Envelope{
			Error: "API Key não configurada.",
			Hint:  "Defina GEMINI_API_KEY para habilitar sugestões.",
		})
		return
	}

	var payload suggestionPayload
	if raw := c.Query("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			respondError(c, model.ErrKindBusiness, model.Envelope{
				Error:   "Payload inválido",
				Details: err.Error(),
			})
			return
		}
	}

	generator, err := h.resolveGenerator(c.Request.Context(), key)
	if err != nil {
		respondError(c, model.ErrKindProvider, model.Envelope{
			Error:   "Erro na IA",
			Details: err.Error(),
		})
		return
	}

	suggestions, err := suggest.NewService(generator).Suggest(c.Request.Context(), payload.Items)
	if err != nil {
		respondError(c, model.ErrKindProvider, model.Envelope{
			Error:   "Erro na IA",
			Details: err.Error(),
		})
		return
	}

	respondOK(c, suggestions)
}

// resolveGenerator reuses the boot-time generator for the configured key and
// builds a throwaway one for override keys.
func (h *GatewayHandler) resolveGenerator(ctx context.Context, key string) (suggest.Generator, error) {
	if key == h.cfg.GeminiAPIKey && h.defaultGen != nil {
		return h.defaultGen, nil
	}
	return h.newGen(ctx, key, h.cfg.GeminiModelID)
}
