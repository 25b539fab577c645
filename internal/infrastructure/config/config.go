package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Logger      LoggerConfig    `mapstructure:"logger"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Security    SecurityConfig  `mapstructure:"security"`
	Ledger      LedgerConfig    `mapstructure:"ledger"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Kafka       KafkaConfig     `mapstructure:"kafka"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Web3        Web3Config      `mapstructure:"web3"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	RequestTimeout    time.Duration `mapstructure:"requestTimeout"`    // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
	SeedFile        string        `mapstructure:"seedFile"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// AuthConfig contains token and password hashing settings
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwtSecret"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"accessTokenTTL"`  // minutes
	RefreshTokenTTL time.Duration `mapstructure:"refreshTokenTTL"` // hours
	BcryptCost      int           `mapstructure:"bcryptCost"`
	AdminAPIKey     string        `mapstructure:"adminApiKey"`
}

// SecurityConfig contains the card data encryption key (hex encoded, 32 bytes)
type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryptionKey"`
}

// LedgerConfig contains transaction processing settings
type LedgerConfig struct {
	MaxRetries        int `mapstructure:"maxRetries"`
	ReferenceAttempts int `mapstructure:"referenceAttempts"`
}

// CacheConfig selects and configures the cache backend
type CacheConfig struct {
	Driver      string        `mapstructure:"driver"`      // memory or redis
	DefaultTTL  time.Duration `mapstructure:"defaultTTL"`  // seconds
	GasPriceTTL time.Duration `mapstructure:"gasPriceTTL"` // seconds
	Redis       RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"poolSize"`
	MinIdleConns int    `mapstructure:"minIdleConns"`
	KeyPrefix    string `mapstructure:"keyPrefix"`
}

// Addr returns the host:port pair used by the redis client
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig contains domain event publishing settings
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchTimeout time.Duration `mapstructure:"batchTimeout"` // milliseconds
}

// SchedulerConfig contains background sweep settings
type SchedulerConfig struct {
	BatchSize  int           `mapstructure:"batchSize"`
	JobTimeout time.Duration `mapstructure:"jobTimeout"` // seconds
}

// Web3Config contains chain oracle settings
type Web3Config struct {
	OracleLatency time.Duration `mapstructure:"oracleLatency"` // milliseconds
}

// Validate checks that the settings required to start are present
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwtSecret is required"))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("auth token lifetimes must be positive"))
	}
	if len(c.Security.EncryptionKey) != 64 {
		errs = append(errs, errors.New("security.encryptionKey must be 32 bytes hex encoded"))
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q is not supported", c.Cache.Driver))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic are required when kafka is enabled"))
	}

	return errors.Join(errs...)
}
