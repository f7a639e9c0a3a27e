package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// FallbackScriptURL is the last-resort deployment URL used when neither a
// per-request override nor APPS_SCRIPT_URL is set. Misconfiguration is the
// dominant failure mode of this system, so the resolution order
// (override > environment > this constant) is fixed and documented here.
const FallbackScriptURL = "https://script.google.com/macros/s/AKfycbxgt0XKD21dsD8EqMNQv0-8VFvBGjrktswc8t6FC8kwKdVsIZyoelpKO4rRiXOrXBQ/exec"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging configuration
	LogFormat string
	LogLevel  string

	// Apps Script backend configuration
	ScriptURL       string
	UpstreamTimeout time.Duration

	// Suggestion provider configuration
	GeminiAPIKey  string
	GeminiModelID string

	// Client behavior
	DemoFallback bool
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 60)) * time.Second,

		// Logging configuration
		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		// Apps Script backend configuration
		ScriptURL:       os.Getenv("APPS_SCRIPT_URL"),
		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT", 30)) * time.Second,

		// Suggestion provider configuration
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModelID: getEnvString("GEMINI_MODEL_ID", "gemini-3-flash-preview"),

		// Client behavior
		DemoFallback: getEnvBool("DEMO_FALLBACK", false),
	}

	validateConfig(config)

	return config, nil
}

// ResolveScriptURL applies the per-request configuration resolution order:
// explicit override > environment value > built-in fallback constant.
func (c *Config) ResolveScriptURL(override string) string {
	if override != "" {
		return override
	}
	if c.ScriptURL != "" {
		return c.ScriptURL
	}
	return FallbackScriptURL
}

// ResolveGeminiKey applies the same order for the suggestion provider key.
// There is no fallback constant for secrets; absent means absent.
func (c *Config) ResolveGeminiKey(override string) string {
	if override != "" {
		return override
	}
	return c.GeminiAPIKey
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.ScriptURL == "" {
		log.Println("Warning: No APPS_SCRIPT_URL provided. Falling back to the built-in deployment URL.")
	}

	if config.GeminiAPIKey == "" {
		log.Println("Warning: No Gemini API key provided. Smart suggestions will be unavailable.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
