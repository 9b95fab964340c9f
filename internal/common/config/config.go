// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Spreadsheet SpreadsheetConfig `mapstructure:"spreadsheet"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Captioner   CaptionerConfig   `mapstructure:"captioner"`
	Composer    ComposerConfig    `mapstructure:"composer"`
	Tags        TagsConfig        `mapstructure:"tags"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// SpreadsheetConfig locates the input workbook and the output artifact.
type SpreadsheetConfig struct {
	InputPath  string `mapstructure:"input_path"`
	OutputPath string `mapstructure:"output_path"`
	Sheet      string `mapstructure:"sheet"` // empty = first sheet
}

// ArchiveConfig lists the photo archives and the spool location for
// extracted images.
type ArchiveConfig struct {
	Paths    []string `mapstructure:"paths"`
	SpoolDir string   `mapstructure:"spool_dir"`
}

// CacheConfig selects the description cache backend.
type CacheConfig struct {
	Backend  string         `mapstructure:"backend"` // file | redis | postgres
	File     FileConfig     `mapstructure:"file"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"` // hash key holding the cache document
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// CaptionerConfig holds settings for the vision captioning API.
type CaptionerConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// ComposerConfig selects and tunes the description composition strategy.
type ComposerConfig struct {
	Strategy    string  `mapstructure:"strategy"` // template | generative
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// TagsConfig tunes tag normalization.
type TagsConfig struct {
	VocabularyPath string `mapstructure:"vocabulary_path"` // empty = built-in table
	MinCount       int    `mapstructure:"min_count"`       // 0 = no backfill
	FillerToken    string `mapstructure:"filler_token"`
}

// PipelineConfig tunes the per-record description pass.
type PipelineConfig struct {
	Workers int `mapstructure:"workers"` // <=1 = sequential
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig optionally exposes /metrics for the duration of a run.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
