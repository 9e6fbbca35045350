package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Cassandra.Host)
	assert.Equal(t, 9042, cfg.Cassandra.Port)
	assert.Equal(t, "cassandra", cfg.Cassandra.Username)
	assert.Equal(t, 10, cfg.Cassandra.ConnectTimeout)
	assert.Equal(t, 10, cfg.Cassandra.RequestTimeout)
	assert.Equal(t, 1000, cfg.Cassandra.RowsLimit)
	assert.Equal(t, 50, cfg.Cassandra.ColumnsLimit)
	assert.Equal(t, 5000, cfg.Cassandra.ResultLimit)
	assert.Equal(t, "", cfg.Cassandra.Keyspace)
	assert.Equal(t, "", cfg.History.Dir)
	assert.Equal(t, 100, cfg.History.Limit)
	assert.False(t, cfg.Debug)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cqlview.yaml")
	content := `
cassandra:
  host: db.example.com
  port: 9043
  keyspace: demo
  rows_limit: 25
history:
  dir: /tmp/cqlview-history
  limit: 10
debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.example.com", cfg.Cassandra.Host)
	assert.Equal(t, 9043, cfg.Cassandra.Port)
	assert.Equal(t, "demo", cfg.Cassandra.Keyspace)
	assert.Equal(t, 25, cfg.Cassandra.RowsLimit)
	// untouched keys keep their defaults
	assert.Equal(t, 50, cfg.Cassandra.ColumnsLimit)
	assert.Equal(t, "/tmp/cqlview-history", cfg.History.Dir)
	assert.Equal(t, 10, cfg.History.Limit)
	assert.True(t, cfg.Debug)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CQLVIEW_CASSANDRA_HOST", "env.example.com")
	t.Setenv("CQLVIEW_CASSANDRA_ROWS_LIMIT", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env.example.com", cfg.Cassandra.Host)
	assert.Equal(t, 7, cfg.Cassandra.RowsLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero rows limit", content: "cassandra:\n  rows_limit: 0\n"},
		{name: "negative columns limit", content: "cassandra:\n  columns_limit: -1\n"},
		{name: "zero result limit", content: "cassandra:\n  result_limit: 0\n"},
		{name: "zero history limit", content: "history:\n  limit: 0\n"},
		{name: "zero port", content: "cassandra:\n  port: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cqlview.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
