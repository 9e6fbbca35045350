package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Cassandra Cassandra `mapstructure:"cassandra"`
	History   History   `mapstructure:"history"`
	Debug     bool      `mapstructure:"debug"`
}

// Cassandra holds connection settings and the result-bounding limits.
type Cassandra struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Keyspace       string `mapstructure:"keyspace"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	ConnectTimeout int    `mapstructure:"connect_timeout"` // seconds
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds

	// RowsLimit bounds how many rows a single query result materializes,
	// ColumnsLimit how many columns are scanned per row, ResultLimit how
	// many entries schema listing queries may return.
	RowsLimit    int `mapstructure:"rows_limit"`
	ColumnsLimit int `mapstructure:"columns_limit"`
	ResultLimit  int `mapstructure:"result_limit"`
}

// History holds query-history persistence settings.
type History struct {
	Dir   string `mapstructure:"dir"`
	Limit int    `mapstructure:"limit"`
}

// Load reads configuration from the given file (optional, YAML) with
// environment overrides (CQLVIEW_ prefix) and applies defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("cassandra.host", "127.0.0.1")
	v.SetDefault("cassandra.port", 9042)
	v.SetDefault("cassandra.keyspace", "")
	v.SetDefault("cassandra.username", "cassandra")
	v.SetDefault("cassandra.password", "cassandra")
	v.SetDefault("cassandra.connect_timeout", 10)
	v.SetDefault("cassandra.request_timeout", 10)
	v.SetDefault("cassandra.rows_limit", 1000)
	v.SetDefault("cassandra.columns_limit", 50)
	v.SetDefault("cassandra.result_limit", 5000)
	v.SetDefault("history.dir", "")
	v.SetDefault("history.limit", 100)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("CQLVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	limits := []struct {
		name string
		val  int
	}{
		{"cassandra.port", c.Cassandra.Port},
		{"cassandra.rows_limit", c.Cassandra.RowsLimit},
		{"cassandra.columns_limit", c.Cassandra.ColumnsLimit},
		{"cassandra.result_limit", c.Cassandra.ResultLimit},
		{"history.limit", c.History.Limit},
	}
	for _, l := range limits {
		if l.val <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %d", l.name, l.val)
		}
	}
	return nil
}
