// Package config loads mockedup settings from an optional YAML file with
// environment variable overrides. Secrets (database passwords) are read from
// the environment only.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/DGarbs51/mockedup/internal/schema"
	"github.com/DGarbs51/mockedup/internal/sink"
)

// Output formats accepted by generate.
const (
	FormatXLSX       = "xlsx"
	FormatCSV        = "csv"
	FormatJSON       = "json"
	FormatPostgres   = "postgres"
	FormatClickHouse = "clickhouse"
)

var Formats = []string{FormatXLSX, FormatCSV, FormatJSON, FormatPostgres, FormatClickHouse}

var ErrUnknownFormat = errors.New("unknown output format")

type Config struct {
	// Seed fixes the random stream; 0 picks a fresh seed per run.
	Seed uint64 `yaml:"seed" env:"MOCKEDUP_SEED" env-default:"0"`

	Limits     LimitsConfig     `yaml:"limits"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

type LimitsConfig struct {
	MaxRows    int `yaml:"max_rows" env:"MOCKEDUP_MAX_ROWS" env-default:"100000"`
	MaxColumns int `yaml:"max_columns" env:"MOCKEDUP_MAX_COLUMNS" env-default:"64"`
	MaxTables  int `yaml:"max_tables" env:"MOCKEDUP_MAX_TABLES" env-default:"50"`
}

type OutputConfig struct {
	Formats []string `yaml:"formats" env:"MOCKEDUP_FORMATS" env-separator:"," env-default:"xlsx"`
	// Path is the base name for file outputs; each format adds its own
	// extension, csv uses it as a directory.
	Path string `yaml:"path" env:"MOCKEDUP_OUT" env-default:"mock_data"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"MOCKEDUP_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"MOCKEDUP_LOG_DEVELOPMENT" env-default:"false"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"PGDATABASE" env-default:"mockedup"`
	SSLMode  string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"require"`
	Retries  int    `yaml:"retries" env:"MOCKEDUP_PG_RETRIES" env-default:"3"`
	Recreate bool   `yaml:"recreate" env:"MOCKEDUP_PG_RECREATE" env-default:"false"`
}

type ClickHouseConfig struct {
	Addr     string `yaml:"addr" env:"CLICKHOUSE_ADDR_TCP" env-default:"localhost:9000"`
	Database string `yaml:"database" env:"CLICKHOUSE_DATABASE" env-default:"default"`
	Username string `yaml:"username" env:"CLICKHOUSE_USERNAME" env-default:"default"`
	Password string `yaml:"-" env:"CLICKHOUSE_PASSWORD"` // Secret - not in YAML
	Secure   bool   `yaml:"secure" env:"CLICKHOUSE_SECURE" env-default:"false"`
	Recreate bool   `yaml:"recreate" env:"MOCKEDUP_CH_RECREATE" env-default:"false"`
}

// Load reads path (YAML) with environment overrides, or the environment alone
// when path is empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cleanenv cannot. It normalizes format names to
// lower case and drops repeats.
func (c *Config) Validate() error {
	if c.Limits.MaxRows < 1 || c.Limits.MaxColumns < 1 || c.Limits.MaxTables < 1 {
		return fmt.Errorf("limits must be positive (max_rows=%d, max_columns=%d, max_tables=%d)",
			c.Limits.MaxRows, c.Limits.MaxColumns, c.Limits.MaxTables)
	}
	formats := make([]string, 0, len(c.Output.Formats))
	for _, f := range c.Output.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(Formats, f) {
			return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, f, strings.Join(Formats, ", "))
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return errors.New("at least one output format is required")
	}
	c.Output.Formats = formats
	if c.Output.Path == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

// SchemaLimits converts the configured limits for schema validation.
func (c *Config) SchemaLimits() schema.Limits {
	return schema.Limits{
		MaxRows:    c.Limits.MaxRows,
		MaxColumns: c.Limits.MaxColumns,
		MaxTables:  c.Limits.MaxTables,
	}
}

func (c *Config) PostgresSink() sink.PostgresConfig {
	return sink.PostgresConfig{
		Host:     c.Postgres.Host,
		Port:     c.Postgres.Port,
		User:     c.Postgres.User,
		Password: c.Postgres.Password,
		Database: c.Postgres.Database,
		SSLMode:  c.Postgres.SSLMode,
		Retries:  c.Postgres.Retries,
		Recreate: c.Postgres.Recreate,
	}
}

func (c *Config) ClickHouseSink() sink.ClickHouseConfig {
	return sink.ClickHouseConfig{
		Addr:     c.ClickHouse.Addr,
		Database: c.ClickHouse.Database,
		Username: c.ClickHouse.Username,
		Password: c.ClickHouse.Password,
		Secure:   c.ClickHouse.Secure,
		Recreate: c.ClickHouse.Recreate,
	}
}
