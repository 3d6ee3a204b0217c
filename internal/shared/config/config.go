package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	gookit "github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	TLS       TLSConfig
	Telemetry TelemetryConfig
	Log       LogConfig
	Events    EventsConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type StoreConfig struct {
	Driver      string
	SQLiteDSN   string
	AutoMigrate bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type LogConfig struct {
	Level  string
	Format string
}

type EventsConfig struct {
	PulsarURL string
	Topic     string

	// PGNotify publishes events with pg_notify on PGChannel (postgres only).
	PGNotify  bool
	PGChannel string

	Workers   int
	QueueSize int
}

// Load reads configuration from the environment, using the YAML file named by
// CONFIG_FILE (if any) for values the environment leaves unset.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	l := &loader{}
	if path != "" {
		file := gookit.New("superlists")
		file.AddDriver(yaml.Driver)
		if err := file.LoadFiles(path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		l.file = file
	}

	dbPort, err := strconv.Atoi(l.get("DB_PORT", "database.port", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	workers, err := positiveInt(l.get("EVENTS_WORKERS", "events.workers", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENTS_WORKERS: %w", err)
	}

	queueSize, err := positiveInt(l.get("EVENTS_QUEUE_SIZE", "events.queue_size", "256"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENTS_QUEUE_SIZE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         l.get("PORT", "server.port", "8080"),
			Host:         l.get("HOST", "server.host", "0.0.0.0"),
			AllowedHosts: splitList(l.get("ALLOWED_HOSTS", "server.allowed_hosts", "")),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(l.get("STORE_DRIVER", "store.driver", DriverPostgres)),
			SQLiteDSN:   l.get("SQLITE_DSN", "store.sqlite_dsn", "superlists.db"),
			AutoMigrate: l.getBool("DB_AUTO_MIGRATE", "store.auto_migrate", true),
		},
		Database: DatabaseConfig{
			Host:     l.get("DB_HOST", "database.host", "localhost"),
			Port:     dbPort,
			User:     l.get("DB_USER", "database.user", "superlists"),
			Password: l.get("DB_PASSWORD", "database.password", ""),
			DBName:   l.get("DB_NAME", "database.name", "superlists"),
			SSLMode:  l.get("DB_SSLMODE", "database.sslmode", "disable"),
		},
		TLS: TLSConfig{
			Enabled:      l.getBool("TLS_ENABLED", "tls.enabled", false),
			CertPath:     l.get("TLS_CERT_PATH", "tls.cert_path", ""),
			KeyPath:      l.get("TLS_KEY_PATH", "tls.key_path", ""),
			RedirectHTTP: l.getBool("TLS_REDIRECT_HTTP", "tls.redirect_http", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      l.getBool("OTEL_ENABLED", "telemetry.enabled", false),
			ServiceName:  l.get("OTEL_SERVICE_NAME", "telemetry.service_name", "superlists"),
			Environment:  l.get("ENVIRONMENT", "telemetry.environment", "development"),
			OTLPEndpoint: l.get("OTEL_EXPORTER_ENDPOINT", "telemetry.otlp_endpoint", "localhost:4317"),
			MetricsPort:  l.get("METRICS_PORT", "telemetry.metrics_port", "9090"),
		},
		Log: LogConfig{
			Level:  l.get("LOG_LEVEL", "log.level", "info"),
			Format: l.get("LOG_FORMAT", "log.format", "text"),
		},
		Events: EventsConfig{
			PulsarURL: l.get("PULSAR_URL", "events.pulsar_url", ""),
			Topic:     l.get("PULSAR_TOPIC", "events.topic", "superlists-events"),
			PGNotify:  l.getBool("EVENTS_PG_NOTIFY", "events.pg_notify", false),
			PGChannel: l.get("EVENTS_PG_CHANNEL", "events.pg_channel", "list_events"),
			Workers:   workers,
			QueueSize: queueSize,
		},
	}

	switch cfg.Store.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: must be %q or %q", cfg.Store.Driver, DriverPostgres, DriverSQLite)
	}

	if cfg.Events.PGNotify && cfg.Store.Driver != DriverPostgres {
		return nil, fmt.Errorf("EVENTS_PG_NOTIFY requires STORE_DRIVER=%s", DriverPostgres)
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr is the host:port the HTTP server listens on.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// loader resolves a setting from the environment first, then the config file.
type loader struct {
	file *gookit.Config
}

func (l *loader) get(envKey, fileKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if l.file != nil {
		if value := l.file.String(fileKey); value != "" {
			return value
		}
	}
	return defaultValue
}

func (l *loader) getBool(envKey, fileKey string, defaultValue bool) bool {
	return parseBool(l.get(envKey, fileKey, ""), defaultValue)
}

// parseBool accepts true/false, 1/0 and yes/no in any case.
func parseBool(value string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func positiveInt(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
