package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Events.PulsarURL)
	assert.False(t, cfg.Events.PGNotify)
	assert.Equal(t, "list_events", cfg.Events.PGChannel)
	assert.Equal(t, 2, cfg.Events.Workers)
	assert.Equal(t, 256, cfg.Events.QueueSize)
	assert.False(t, cfg.TLS.Enabled)
}

func TestLoad_InvalidEventWorkers(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"EVENTS_WORKERS", "0"},
		{"EVENTS_WORKERS", "many"},
		{"EVENTS_QUEUE_SIZE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_PGNotifyRequiresPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("EVENTS_PG_NOTIFY", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EVENTS_PG_NOTIFY")
}

func TestLoad_InvalidDBPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoad_SQLiteDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_DSN", ":memory:")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, ":memory:", cfg.Store.SQLiteDSN)
}

func TestLoad_TLSValidation(t *testing.T) {
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("TLS_CERT_PATH", "")
	t.Setenv("TLS_KEY_PATH", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_TLSValidation_MissingKeyPath(t *testing.T) {
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("TLS_CERT_PATH", "/path/to/cert")
	t.Setenv("TLS_KEY_PATH", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_AllowedHosts(t *testing.T) {
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com, localhost:3000,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "api.example.com", "localhost:3000"}, cfg.Server.AllowedHosts)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "superlists.yml")
	content := `
server:
  port: "9000"
store:
  driver: sqlite
  sqlite_dsn: lists.db
  auto_migrate: false
log:
  level: debug
  format: json
events:
  pulsar_url: pulsar://localhost:6650
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("file values", func(t *testing.T) {
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.Server.Port)
		assert.Equal(t, DriverSQLite, cfg.Store.Driver)
		assert.Equal(t, "lists.db", cfg.Store.SQLiteDSN)
		assert.False(t, cfg.Store.AutoMigrate)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "pulsar://localhost:6650", cfg.Events.PulsarURL)
		assert.Equal(t, "localhost", cfg.Database.Host, "unset keys keep defaults")
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "7000", cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	})
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value    string
		defVal   bool
		expected bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"NO", true, false},
		{"invalid", true, true},
		{"invalid", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseBool(tt.value, tt.defVal))
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, cfg.ConnectionString())
}
