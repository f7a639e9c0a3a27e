package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shoppinglist/internal/model"
)

const previewLimit = 80

// Client talks to a Google Apps Script web-app deployment. The deployment is
// an opaque action-based RPC target: it takes action/payload/userEmail query
// parameters and answers via redirect chains, sometimes with HTML error pages
// instead of structured errors. This client normalizes all of that.
type Client struct {
	httpClient *http.Client
}

// Config holds configuration for the Apps Script client
type Config struct {
	Timeout time.Duration
}

// DefaultConfig returns a default configuration for the Apps Script client
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// NewClient creates a new Apps Script client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	return &Client{
		httpClient: &http.Client{
			// Apps Script answers through a redirect chain; the default
			// policy follows it.
			Timeout: config.Timeout,
		},
	}
}

// ValidateDeploymentURL checks a configured base URL for the two misconfigurations
// users hit constantly: pasting the script editor URL, or pasting the head
// ("/dev") deployment URL. Both are caught here, before any network call.
func ValidateDeploymentURL(raw string) *ScriptError {
	sanitized := strings.TrimSpace(raw)

	if sanitized == "" {
		return &ScriptError{
			Op:      "validate_url",
			Kind:    model.ErrKindConfig,
			Message: "URL do backend não configurada",
			Details: "Nenhuma URL de implantação foi definida.",
			Hint:    "Defina APPS_SCRIPT_URL com a URL de implantação (/exec) do Apps Script.",
		}
	}

	if strings.Contains(sanitized, "/edit") {
		return &ScriptError{
			Op:      "validate_url",
			Kind:    model.ErrKindConfig,
			Message: "URL Inválida (Modo Editor)",
			Details: "Você está usando a URL do editor. Use a URL de IMPLANTAÇÃO (/exec).",
			Hint:    "Vá em Implantar > Nova Implantação e copie a URL final.",
		}
	}

	if strings.HasSuffix(sanitized, "/dev") {
		return &ScriptError{
			Op:      "validate_url",
			Kind:    model.ErrKindConfig,
			Message: "URL Inválida (Implantação de Teste)",
			Details: "A URL termina em /dev, que só funciona para o dono do script.",
			Hint:    "Use a URL de implantação de produção, que termina em /exec.",
		}
	}

	parsed, err := url.Parse(sanitized)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &ScriptError{
			Op:      "validate_url",
			Kind:    model.ErrKindConfig,
			Message: "URL do backend inválida",
			Details: fmt.Sprintf("O valor configurado não é uma URL absoluta: %q", sanitized),
			Hint:    "Copie a URL completa de implantação, começando com https://.",
			Err:     err,
		}
	}

	return nil
}

// Call forwards one action to the script deployment and classifies the raw
// response. On success it returns the upstream payload (the value of the
// upstream envelope's data field). All failures come back as *ScriptError.
func (c *Client) Call(ctx context.Context, baseURL, action, payload, userEmail string) (json.RawMessage, error) {
	if scriptErr := ValidateDeploymentURL(baseURL); scriptErr != nil {
		return nil, scriptErr
	}

	target, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		// Unreachable after validation, kept for safety.
		return nil, &ScriptError{
			Op:      "build_url",
			Kind:    model.ErrKindConfig,
			Message: "URL do backend inválida",
			Err:     err,
		}
	}

	query := target.Query()
	if action != "" {
		query.Set("action", action)
	}
	if payload != "" {
		query.Set("payload", payload)
	}
	if userEmail != "" {
		query.Set("userEmail", userEmail)
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &ScriptError{
			Op:      "build_request",
			Kind:    model.ErrKindUpstream,
			Message: "Falha ao montar a requisição para o Google Script",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ScriptError{
			Op:      "do_request",
			Kind:    model.ErrKindUpstream,
			Message: "Google Script inacessível",
			Details: err.Error(),
			Hint:    "Verifique sua conexão e se o script está implantado.",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	// The body is read as text before any parse attempt: the deployment
	// legitimately returns HTML error pages and those must never leak to
	// the caller as markup.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ScriptError{
			Op:      "read_body",
			Kind:    model.ErrKindUpstream,
			Message: "Falha ao ler a resposta do Google Script",
			Status:  resp.StatusCode,
			Err:     err,
		}
	}

	return classify(resp.StatusCode, resp.Header.Get("Content-Type"), body)
}

// classify turns a raw upstream response into either a payload or a
// *ScriptError, per the classification order: markup detection first, then
// JSON parse, then upstream business errors.
func classify(status int, contentType string, body []byte) (json.RawMessage, error) {
	text := strings.TrimSpace(string(body))

	if status == http.StatusNotFound || looksLikeMarkup(contentType, text) {
		return nil, &ScriptError{
			Op:      "classify_response",
			Kind:    model.ErrKindUpstream,
			Message: "Google Script não respondeu com JSON",
			Details: "O servidor retornou uma página HTML ou erro 404.",
			Hint: "1. Verifique se a URL termina em /exec.\n" +
				"2. Verifique se o ID do Script está correto.\n" +
				"3. Certifique-se que o script está implantado para 'Qualquer Pessoa'.",
			Status: status,
		}
	}

	var generic interface{}
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		return nil, &ScriptError{
			Op:      "parse_response",
			Kind:    model.ErrKindMalformed,
			Message: "Resposta do Google não é um JSON válido",
			Details: "O script retornou texto puro em vez de dados formatados.",
			Preview: preview(text),
			Status:  status,
			Err:     err,
		}
	}

	if obj, ok := generic.(map[string]interface{}); ok {
		var parsed struct {
			Data    json.RawMessage `json:"data"`
			Error   string          `json:"error"`
			Details string          `json:"details"`
			Hint    string          `json:"hint"`
		}
		// Cannot fail: the body already decoded into a JSON object.
		_ = json.Unmarshal([]byte(text), &parsed)

		// An upstream JSON body carrying an error field is a business
		// error, not a transport error.
		if parsed.Error != "" {
			return nil, &ScriptError{
				Op:      "classify_response",
				Kind:    model.ErrKindBusiness,
				Message: parsed.Error,
				Details: parsed.Details,
				Hint:    parsed.Hint,
				Status:  status,
			}
		}

		if _, hasData := obj["data"]; hasData {
			return parsed.Data, nil
		}
	}

	// Some script actions answer with the payload at the top level instead
	// of wrapping it in {data}. Pass it through untouched.
	return json.RawMessage(text), nil
}

func looksLikeMarkup(contentType, text string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

func preview(text string) string {
	if len(text) > previewLimit {
		return text[:previewLimit]
	}
	return text
}
