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

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like CAPTIONER_API_KEY
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

	// Environment-specific overlay, e.g. config.production.yaml.
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

// LoadFromFile loads configuration from a specific file path.
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

// loadEnvFile tries .env in a few locations so the binary works from the
// repo root, from cmd/enricher, and from package test directories.
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

// findProjectRoot walks up directories looking for go.mod.
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

// expandEnvVars resolves ${VAR} placeholders in string config values.
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

// overrideEmptyConfig fills secrets from the environment when the yaml left
// them empty. Keys are never committed in configs/.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Captioner.APIKey == "" {
		if val := os.Getenv("CAPTIONER_API_KEY"); val != "" {
			cfg.Captioner.APIKey = val
		}
	}
	if cfg.Captioner.APIKey == "" {
		if val := os.Getenv("OPENAI_API_KEY"); val != "" {
			cfg.Captioner.APIKey = val
		}
	}

	if cfg.Composer.APIKey == "" {
		if val := os.Getenv("COMPOSER_API_KEY"); val != "" {
			cfg.Composer.APIKey = val
		}
	}
	if cfg.Composer.APIKey == "" {
		cfg.Composer.APIKey = cfg.Captioner.APIKey
	}

	if cfg.Cache.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
	if cfg.Cache.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Cache.Postgres.User = val
		}
	}
	if cfg.Cache.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Cache.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catalog-enricher"
	}

	if cfg.Archive.SpoolDir == "" {
		cfg.Archive.SpoolDir = filepath.Join(os.TempDir(), "catalog-enricher-images")
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "file"
	}
	if cfg.Cache.File.Path == "" {
		cfg.Cache.File.Path = "description_cache.json"
	}
	if cfg.Cache.Redis.Key == "" {
		cfg.Cache.Redis.Key = "enricher:descriptions"
	}
	if cfg.Cache.Postgres.MaxConnections == 0 {
		cfg.Cache.Postgres.MaxConnections = 25
	}
	if cfg.Cache.Postgres.MaxIdle == 0 {
		cfg.Cache.Postgres.MaxIdle = 5
	}
	if cfg.Cache.Postgres.SSLMode == "" {
		cfg.Cache.Postgres.SSLMode = "disable"
	}

	if cfg.Captioner.Model == "" {
		cfg.Captioner.Model = "gpt-4o-mini"
	}
	if cfg.Captioner.Timeout == 0 {
		cfg.Captioner.Timeout = 60000
	}
	if cfg.Captioner.MaxRetries == 0 {
		cfg.Captioner.MaxRetries = 2
	}
	if cfg.Captioner.MaxTokens == 0 {
		cfg.Captioner.MaxTokens = 120
	}

	if cfg.Composer.Strategy == "" {
		cfg.Composer.Strategy = "template"
	}
	if cfg.Composer.Model == "" {
		cfg.Composer.Model = "gpt-4"
	}
	if cfg.Composer.Timeout == 0 {
		cfg.Composer.Timeout = 60000
	}
	if cfg.Composer.MaxRetries == 0 {
		cfg.Composer.MaxRetries = 2
	}
	if cfg.Composer.MaxTokens == 0 {
		cfg.Composer.MaxTokens = 200
	}
	if cfg.Composer.Temperature == 0 {
		cfg.Composer.Temperature = 0.8
	}

	if cfg.Tags.FillerToken == "" {
		cfg.Tags.FillerToken = "fashion"
	}

	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = 1
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Spreadsheet.InputPath == "" {
		return fmt.Errorf("spreadsheet.input_path is required")
	}
	if cfg.Spreadsheet.OutputPath == "" {
		return fmt.Errorf("spreadsheet.output_path is required")
	}

	switch cfg.Cache.Backend {
	case "file":
		// path always defaulted
	case "redis":
		if cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required for the redis backend")
		}
	case "postgres":
		if cfg.Cache.Postgres.Host == "" {
			return fmt.Errorf("cache.postgres.host is required for the postgres backend")
		}
		if cfg.Cache.Postgres.Database == "" {
			return fmt.Errorf("cache.postgres.database is required for the postgres backend")
		}
		if cfg.Cache.Postgres.User == "" {
			return fmt.Errorf("cache.postgres.user is required for the postgres backend")
		}
	default:
		return fmt.Errorf("cache.backend must be one of file, redis, postgres (got %q)", cfg.Cache.Backend)
	}

	switch cfg.Composer.Strategy {
	case "template":
	case "generative":
		if cfg.Composer.BaseURL == "" {
			return fmt.Errorf("composer.base_url is required for the generative strategy")
		}
	default:
		return fmt.Errorf("composer.strategy must be template or generative (got %q)", cfg.Composer.Strategy)
	}

	if cfg.Captioner.BaseURL == "" {
		return fmt.Errorf("captioner.base_url is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
