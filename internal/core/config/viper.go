package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zipari/business-rules/internal/types"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*EvalAPIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultEvalAPIConfig
	v.SetDefault("eval_api.host", "0.0.0.0")
	v.SetDefault("eval_api.port", 8080)
	v.SetDefault("eval_api.request_timeout", "30s")
	v.SetDefault("eval_api.max_payload_bytes", types.MaxPayloadSize)

	// Bind environment variables with BR_ prefix
	v.SetEnvPrefix("BR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject tokens in config files
	// Tokens must be environment-only per 12-factor principles
	if err := validateNoTokensInConfig(v); err != nil {
		return nil, err
	}

	cfg := &EvalAPIConfig{
		Host:            v.GetString("eval_api.host"),
		Port:            v.GetInt("eval_api.port"),
		RequestTimeout:  v.GetDuration("eval_api.request_timeout"),
		MaxPayloadBytes: v.GetInt("eval_api.max_payload_bytes"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive timeout and payload limits.
func validateConfig(cfg *EvalAPIConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxPayloadBytes <= 0 {
		return fmt.Errorf("max_payload_bytes must be positive, got %d", cfg.MaxPayloadBytes)
	}
	return nil
}

// validateNoTokensInConfig enforces environment-only tokens (12-factor principle).
func validateNoTokensInConfig(v *viper.Viper) error {
	if v.IsSet("api_token") || v.IsSet("eval_api.api_token") {
		return fmt.Errorf("API tokens not allowed in config files (use BR_API_TOKEN environment variable)")
	}
	return nil
}
