package main

import (
	"context"
	"fmt"
	"log"

	"shoppinglist/internal/config"
	"shoppinglist/internal/handler"
	"shoppinglist/internal/server"
	"shoppinglist/internal/suggest"
	"shoppinglist/internal/upstream"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the suggestion generator when a key is configured;
	// without one, suggestion calls answer with a provider-error envelope.
	var defaultGenerator suggest.Generator
	if cfg.GeminiAPIKey != "" {
		generator, err := suggest.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			log.Printf("Warning: failed to initialize Gemini client: %v", err)
		} else {
			defaultGenerator = generator
		}
	}

	// Initialize the Apps Script client
	log.Println("Initializing Apps Script client...")
	scriptClient := upstream.NewClient(&upstream.Config{
		Timeout: cfg.UpstreamTimeout,
	})

	// Create handler
	gatewayHandler := handler.NewGatewayHandler(cfg, scriptClient, defaultGenerator,
		func(ctx context.Context, apiKey, model string) (suggest.Generator, error) {
			return suggest.NewGeminiGenerator(ctx, apiKey, model)
		})

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg, gatewayHandler)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
