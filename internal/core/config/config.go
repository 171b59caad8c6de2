// Package config provides configuration management for the evaluation service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zipari/business-rules/internal/types"
)

// EvalAPIConfig holds configuration for the HTTP evaluation API service.
type EvalAPIConfig struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration
	MaxPayloadBytes int
}

// DefaultEvalAPIConfig returns configuration with default values.
func DefaultEvalAPIConfig() *EvalAPIConfig {
	return &EvalAPIConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		RequestTimeout:  30 * time.Second,
		MaxPayloadBytes: types.MaxPayloadSize,
	}
}

// APITokens extracts bearer tokens from environment variables.
// Supports BR_API_TOKEN (single) and BR_API_TOKEN_N (rotation).
// Multiple tokens enable rotation: old and new tokens valid during migration.
// Returns nil when no tokens are configured; callers treat that as auth disabled.
func APITokens() ([]string, error) {
	var tokens []string
	seen := make(map[string]bool)

	if val := strings.TrimSpace(os.Getenv("BR_API_TOKEN")); val != "" {
		if err := validateToken(val); err != nil {
			return nil, fmt.Errorf("BR_API_TOKEN: %w", err)
		}
		tokens = append(tokens, val)
		seen[val] = true
	}

	for i := 1; ; i++ {
		key := fmt.Sprintf("BR_API_TOKEN_%d", i)
		val := strings.TrimSpace(os.Getenv(key))
		if val == "" {
			break
		}
		if err := validateToken(val); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if seen[val] {
			return nil, fmt.Errorf("duplicate token found in environment variables (check BR_API_TOKEN and BR_API_TOKEN_* for conflicts)")
		}
		tokens = append(tokens, val)
		seen[val] = true
	}

	return tokens, nil
}

// validateToken rejects tokens too short to resist brute force.
func validateToken(token string) error {
	if len(token) < 16 {
		return fmt.Errorf("token must be at least 16 characters, got %d", len(token))
	}
	return nil
}
