package configs

import (
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/signals/internal/infrastructure/env"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Broker   BrokerConfig   `koanf:"broker"`
	Database DatabaseConfig `koanf:"database"`
	MongoDB  MongoDBConfig  `koanf:"mongodb"`
	Room     RoomConfig     `koanf:"room"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	HTTP     HTTPConfig     `koanf:"http"`
	Logger   LoggerConfig   `koanf:"logger"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

type BrokerConfig struct {
	URI               string        `koanf:"uri"`
	ClientID          string        `koanf:"client_id"`
	Exchange          string        `koanf:"exchange"`
	KeepAlive         time.Duration `koanf:"keep_alive"`
	ReconnectInterval time.Duration `koanf:"reconnect_interval"`
	DialAttempts      int           `koanf:"dial_attempts"`
	Prefetch          int           `koanf:"prefetch"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type MongoDBConfig struct {
	Enabled  bool          `koanf:"enabled"`
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

type RoomConfig struct {
	MaxCapacity     int           `koanf:"max_capacity"`
	MaxAvailability time.Duration `koanf:"max_availability"`
}

type PipelineConfig struct {
	InboundBuffer      int           `koanf:"inbound_buffer"`
	NotificationBuffer int           `koanf:"notification_buffer"`
	RateLimit          int           `koanf:"rate_limit"` // calls per agent per window, 0 disables
	RateWindow         time.Duration `koanf:"rate_window"`
}

type HTTPConfig struct {
	Host         string        `koanf:"host"`
	Port         uint16        `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type LoggerConfig struct {
	FilePath string `koanf:"file_path"`
	Encoding string `koanf:"encoding"`
	Level    string `koanf:"level"`
	Logger   string `koanf:"logger"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Environment string  `koanf:"environment"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the YAML file at path (optional), fills defaults, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var (
	ErrMissingBrokerURI   = errors.New("broker.uri is required")
	ErrMissingClientID    = errors.New("broker.client_id is required")
	ErrMissingDatabaseURL = errors.New("database.url is required when database.driver is postgres")
	ErrUnknownDriver      = errors.New("database.driver must be one of [postgres, memory]")
	ErrInvalidBuffer      = errors.New("pipeline buffers must be positive")
	ErrInvalidRateLimit   = errors.New("pipeline.rate_window must be positive when pipeline.rate_limit is set")
)

func (c *Config) Validate() error {
	var errs []error

	if c.Broker.URI == "" {
		errs = append(errs, ErrMissingBrokerURI)
	}
	if c.Broker.ClientID == "" {
		errs = append(errs, ErrMissingClientID)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, ErrMissingDatabaseURL)
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrUnknownDriver, c.Database.Driver))
	}

	if c.Pipeline.InboundBuffer <= 0 || c.Pipeline.NotificationBuffer <= 0 {
		errs = append(errs, ErrInvalidBuffer)
	}
	if c.Pipeline.RateLimit < 0 || (c.Pipeline.RateLimit > 0 && c.Pipeline.RateWindow <= 0) {
		errs = append(errs, ErrInvalidRateLimit)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}

func applyDefaults(k *koanf.Koanf) {
	// Broker defaults
	setDefault(k, "broker.exchange", "amq.topic")
	setDefault(k, "broker.keep_alive", 5*time.Second)
	setDefault(k, "broker.reconnect_interval", 2*time.Second)
	setDefault(k, "broker.dial_attempts", 5)
	setDefault(k, "broker.prefetch", 64)

	// Database defaults
	setDefault(k, "database.driver", DriverPostgres)
	setDefault(k, "database.max_open_conns", 10)
	setDefault(k, "database.max_idle_conns", 5)
	setDefault(k, "database.conn_max_lifetime", 30*time.Minute)

	setDefault(k, "mongodb.enabled", false)
	setDefault(k, "mongodb.uri", "mongodb://localhost:27017")
	setDefault(k, "mongodb.database", "signals")
	setDefault(k, "mongodb.timeout", 10*time.Second)

	// Room limits
	setDefault(k, "room.max_capacity", 100)
	setDefault(k, "room.max_availability", 24*time.Hour)

	setDefault(k, "pipeline.inbound_buffer", 256)
	setDefault(k, "pipeline.notification_buffer", 1024)
	setDefault(k, "pipeline.rate_limit", 0)
	setDefault(k, "pipeline.rate_window", time.Second)

	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)

	setDefault(k, "logger.encoding", "json")
	setDefault(k, "logger.level", "info")
	setDefault(k, "logger.logger", "zap")

	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.endpoint", "localhost:4318")
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.sample_ratio", 1.0)
}

func applyEnvOverrides(k *koanf.Koanf) {
	// Broker config from env
	if uri := env.GetString("BROKER_URI", ""); uri != "" {
		k.Set("broker.uri", uri)
	}
	if clientID := env.GetString("BROKER_CLIENT_ID", ""); clientID != "" {
		k.Set("broker.client_id", clientID)
	}
	if prefetch := env.GetInt("BROKER_PREFETCH", 0); prefetch > 0 {
		k.Set("broker.prefetch", prefetch)
	}
	if keepAlive := env.GetDuration("BROKER_KEEP_ALIVE", 0); keepAlive > 0 {
		k.Set("broker.keep_alive", keepAlive)
	}

	// Database config from env
	if driver := env.GetString("DATABASE_DRIVER", ""); driver != "" {
		k.Set("database.driver", driver)
	}
	if url := env.GetString("DATABASE_URL", ""); url != "" {
		k.Set("database.url", url)
	}
	if maxOpen := env.GetInt("DATABASE_MAX_OPEN_CONNS", 0); maxOpen > 0 {
		k.Set("database.max_open_conns", maxOpen)
	}

	if uri := env.GetString("MONGODB_URI", ""); uri != "" {
		k.Set("mongodb.uri", uri)
		k.Set("mongodb.enabled", env.GetBool("MONGODB_ENABLED", true))
	}

	if maxCapacity := env.GetInt("ROOM_MAX_CAPACITY", 0); maxCapacity > 0 {
		k.Set("room.max_capacity", maxCapacity)
	}
	if maxAvailability := env.GetDuration("ROOM_MAX_AVAILABILITY", 0); maxAvailability > 0 {
		k.Set("room.max_availability", maxAvailability)
	}

	if rateLimit := env.GetInt("PIPELINE_RATE_LIMIT", 0); rateLimit > 0 {
		k.Set("pipeline.rate_limit", rateLimit)
	}
	if rateWindow := env.GetDuration("PIPELINE_RATE_WINDOW", 0); rateWindow > 0 {
		k.Set("pipeline.rate_window", rateWindow)
	}

	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}

	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if logger := env.GetString("LOGGER_LOGGER", ""); logger != "" {
		k.Set("logger.logger", logger)
	}
	if filePath := env.GetString("LOGGER_FILE_PATH", ""); filePath != "" {
		k.Set("logger.file_path", filePath)
	}

	if endpoint := env.GetString("OTEL_EXPORTER_OTLP_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
		k.Set("tracing.enabled", true)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
