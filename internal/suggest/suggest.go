// Package suggest produces smart shopping suggestions from a generative
// model. Suggestions are optional enrichment: every failure here is reported
// as a provider error that callers are expected to downgrade, never a crash.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"shoppinglist/internal/domain"
)

const suggestionCount = 5

// ProviderError represents an error that occurred during a suggestion call
type ProviderError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Err == nil {
		return "suggest error: " + e.Op
	}
	return "suggest error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Generator is the seam over the generative model: one prompt in, one text
// completion out.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Service turns the current list into grocery suggestions.
type Service struct {
	generator Generator
}

// NewService creates a suggestion service. A nil generator means no provider
// key was configured; calls will fail with a provider error.
func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// Suggest asks the model for complementary grocery items given the current
// list. Returns up to suggestionCount trimmed item names.
func (s *Service) Suggest(ctx context.Context, items []domain.ShoppingItem) ([]string, error) {
	if s.generator == nil {
		return nil, &ProviderError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("API Key não configurada"),
		}
	}

	text, err := s.generator.GenerateText(ctx, buildPrompt(items))
	if err != nil {
		return nil, &ProviderError{
			Op:  "generate",
			Err: err,
		}
	}

	return parseSuggestions(text), nil
}

// buildPrompt lists the current item names and asks for comma-separated
// names only, which keeps the response parseable without structured output.
func buildPrompt(items []domain.ShoppingItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return fmt.Sprintf(
		"Lista: [%s]. Sugira %d itens de mercado. Responda apenas nomes separados por vírgula.",
		strings.Join(names, ", "), suggestionCount,
	)
}

// parseSuggestions splits a completion on commas, trims each fragment and
// drops the empty ones.
func parseSuggestions(text string) []string {
	parts := strings.Split(text, ",")
	suggestions := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		suggestions = append(suggestions, trimmed)
	}
	return suggestions
}
