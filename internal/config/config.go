package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Directory   DirectoryConfig   `mapstructure:"directory"`
	Discovery   DiscoveryConfig   `mapstructure:"discovery"`
	Propagation PropagationConfig `mapstructure:"propagation"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds server configuration. Port has no default: each
// service command falls back to its own port when it is unset.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int    `mapstructure:"max_header_bytes"`
}

// DatabaseConfig holds database configuration. Driver is "postgres" or
// "memory"; the memory driver keeps everything in process for local runs.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// RedisConfig holds the connection used by discovery, the redis
// propagation queue and the idempotency store.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// DirectoryConfig points the enrollment service at the course and
// student directories.
type DirectoryConfig struct {
	CatalogURL string `mapstructure:"catalog_url"`
	UserURL    string `mapstructure:"user_url"`
	Timeout    int    `mapstructure:"timeout"`
}

// DiscoveryConfig controls the optional availability probe.
type DiscoveryConfig struct {
	Enabled           bool                `mapstructure:"enabled"`
	Backend           string              `mapstructure:"backend"`
	CatalogService    string              `mapstructure:"catalog_service"`
	UserService       string              `mapstructure:"user_service"`
	EnrollmentService string              `mapstructure:"enrollment_service"`
	Instances         map[string][]string `mapstructure:"instances"`
	AdvertiseAddr     string              `mapstructure:"advertise_addr"`
	TTL               int                 `mapstructure:"ttl"`
	HeartbeatInterval int                 `mapstructure:"heartbeat_interval"`
}

// PropagationConfig selects how seat counts are pushed back to the catalog.
type PropagationConfig struct {
	Mode       string `mapstructure:"mode"`
	Workers    int    `mapstructure:"workers"`
	BufferSize int    `mapstructure:"buffer_size"`
	JobTimeout int    `mapstructure:"job_timeout"`
}

// IdempotencyConfig enables Idempotency-Key replay on enrollment creation.
type IdempotencyConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTL     int  `mapstructure:"ttl_hours"`
}

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// CORSConfig holds allowed origins for the HTTP APIs.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	PropagationSync  = "sync"
	PropagationQueue = "queue"
	PropagationRedis = "redis"

	DiscoveryStatic = "static"
	DiscoveryRedis  = "redis"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var config *Config

// Init initializes the configuration
func Init() {
	config = &Config{}

	setDefaults()

	viper.SetEnvPrefix("CE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// Get returns the global configuration
func Get() *Config {
	if config == nil {
		Init()
	}
	return config
}

// Seconds converts one of the integer second settings into a duration,
// falling back when the value is not positive.
func Seconds(v int, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}

func setDefaults() {
	viper.SetDefault("app.name", "course-enrollment")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 15)
	viper.SetDefault("server.write_timeout", 15)
	viper.SetDefault("server.shutdown_timeout", 10)
	viper.SetDefault("server.max_header_bytes", 1048576)

	viper.SetDefault("database.driver", DriverPostgres)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "course_enrollment")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.log_level", "warn")
	viper.SetDefault("database.auto_migrate", true)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")

	viper.SetDefault("directory.catalog_url", "http://localhost:8081")
	viper.SetDefault("directory.user_url", "http://localhost:8082")
	viper.SetDefault("directory.timeout", 5)

	viper.SetDefault("discovery.enabled", false)
	viper.SetDefault("discovery.backend", DiscoveryStatic)
	viper.SetDefault("discovery.catalog_service", "catalog-service")
	viper.SetDefault("discovery.user_service", "user-service")
	viper.SetDefault("discovery.enrollment_service", "enrollment-service")
	viper.SetDefault("discovery.ttl", 30)
	viper.SetDefault("discovery.heartbeat_interval", 10)

	viper.SetDefault("propagation.mode", PropagationSync)
	viper.SetDefault("propagation.workers", 3)
	viper.SetDefault("propagation.buffer_size", 256)
	viper.SetDefault("propagation.job_timeout", 10)

	viper.SetDefault("idempotency.enabled", false)
	viper.SetDefault("idempotency.ttl_hours", 24)

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.endpoint", "localhost:4318")
	viper.SetDefault("tracing.insecure", true)
	viper.SetDefault("tracing.sample_ratio", 1.0)

	viper.SetDefault("cors.allowed_origins", []string{"*"})
}
