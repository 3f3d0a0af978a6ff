// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like CAPABILITY_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env at several depths so tests and the binary both pick
// it up regardless of working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig picks up well-known env vars for values still empty
// after expansion.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Capability.Conversation.APIKey == "" {
		if val := os.Getenv("CONVERSATION_API_KEY"); val != "" {
			cfg.Capability.Conversation.APIKey = val
		}
	}
	if cfg.Capability.Conversation.BaseURL == "" {
		if val := os.Getenv("CONVERSATION_BASE_URL"); val != "" {
			cfg.Capability.Conversation.BaseURL = val
		}
	}

	if cfg.Capability.API.APIKey == "" {
		if val := os.Getenv("CAPABILITY_API_KEY"); val != "" {
			cfg.Capability.API.APIKey = val
		}
	}
	if cfg.Capability.API.BaseURL == "" {
		if val := os.Getenv("CAPABILITY_API_BASE_URL"); val != "" {
			cfg.Capability.API.BaseURL = val
		}
	}

	if cfg.Store.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Store.Redis.Address = val
		}
	}
	if cfg.Store.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Store.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "prepline"
	}

	// Capability defaults
	if cfg.Capability.Conversation.Timeout == 0 {
		cfg.Capability.Conversation.Timeout = 30000
	}
	if cfg.Capability.API.Timeout == 0 {
		cfg.Capability.API.Timeout = 10000
	}
	if cfg.Capability.MaxRetries == 0 {
		cfg.Capability.MaxRetries = 2
	}

	// Scoring defaults: READY >= 80, ALMOST_THERE >= 65, NEEDS_WORK >= 50
	if len(cfg.Scoring.Bands) == 0 {
		cfg.Scoring.Bands = []BandConfig{
			{Verdict: "READY", MinPercent: 80},
			{Verdict: "ALMOST_THERE", MinPercent: 65},
			{Verdict: "NEEDS_WORK", MinPercent: 50},
		}
	}

	// Quiz defaults
	if cfg.Quiz.QuestionCount == 0 {
		cfg.Quiz.QuestionCount = 20
	}
	if cfg.Quiz.PassPercent == 0 {
		cfg.Quiz.PassPercent = 70
	}

	// Planning defaults
	if cfg.Planning.MinimumUnits == 0 {
		cfg.Planning.MinimumUnits = 1
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.MetricsAddress == "" {
		cfg.Observability.MetricsAddress = ":9102"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Quiz.PassPercent < 0 || cfg.Quiz.PassPercent > 100 {
		return fmt.Errorf("quiz.pass_percent must be within [0,100]")
	}
	if cfg.Planning.MinimumUnits < 0 {
		return fmt.Errorf("planning.minimum_units must be non-negative")
	}

	prev := 101.0
	for _, band := range cfg.Scoring.Bands {
		if band.MinPercent < 0 || band.MinPercent > 100 {
			return fmt.Errorf("scoring band %s: min_percent must be within [0,100]", band.Verdict)
		}
		if band.MinPercent >= prev {
			return fmt.Errorf("scoring bands must be strictly descending by min_percent")
		}
		prev = band.MinPercent
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
