package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "FB"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults plus environment still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	return decode(v, env)
}

// decode unmarshals viper state into Config and normalizes durations
func decode(v *viper.Viper, env string) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.requestTimeout", 10)    // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds
	v.SetDefault("database.seedFile", "configs/seed.yaml")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("auth.issuer", "fintech-backoffice")
	v.SetDefault("auth.accessTokenTTL", 60)   // minutes
	v.SetDefault("auth.refreshTokenTTL", 168) // hours
	v.SetDefault("auth.bcryptCost", 12)

	v.SetDefault("ledger.maxRetries", 3)
	v.SetDefault("ledger.referenceAttempts", 5)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.defaultTTL", 300) // seconds
	v.SetDefault("cache.gasPriceTTL", 30) // seconds
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.poolSize", 10)
	v.SetDefault("cache.redis.minIdleConns", 2)
	v.SetDefault("cache.redis.keyPrefix", "fb:")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "fintech.events")
	v.SetDefault("kafka.batchTimeout", 50) // milliseconds

	v.SetDefault("scheduler.batchSize", 100)
	v.SetDefault("scheduler.jobTimeout", 300) // seconds

	v.SetDefault("web3.oracleLatency", 0) // milliseconds
}

// getEnvironment determines the environment to use based on FB_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides makes sure secrets and connection settings from the
// environment win over file values
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"FB_DB_HOST":        "database.host",
		"FB_DB_PORT":        "database.port",
		"FB_DB_USERNAME":    "database.username",
		"FB_DB_PASSWORD":    "database.password",
		"FB_DB_NAME":        "database.database",
		"FB_DB_SSL_MODE":    "database.sslMode",
		"FB_SERVER_HOST":    "server.host",
		"FB_LOGGER_LEVEL":   "logger.level",
		"FB_JWT_SECRET":     "auth.jwtSecret",
		"FB_ADMIN_API_KEY":  "auth.adminApiKey",
		"FB_ENCRYPTION_KEY": "security.encryptionKey",
		"FB_CACHE_DRIVER":   "cache.driver",
		"FB_REDIS_HOST":     "cache.redis.host",
		"FB_REDIS_PASSWORD": "cache.redis.password",
		"FB_KAFKA_TOPIC":    "kafka.topic",
		"FB_DB_SEED_FILE":   "database.seedFile",
	}
	for env, key := range overrides {
		if val := os.Getenv(env); val != "" {
			v.Set(key, val)
		}
	}

	if port := getEnvInt("FB_SERVER_PORT", 0); port > 0 {
		v.Set("server.port", port)
	}
	if port := getEnvInt("FB_REDIS_PORT", 0); port > 0 {
		v.Set("cache.redis.port", port)
	}
	if maxOpenConns := getEnvInt("FB_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if retryAttempts := getEnvInt("FB_DB_RETRY_ATTEMPTS", -1); retryAttempts >= 0 {
		v.Set("database.retryAttempts", retryAttempts)
	}
	if brokers := os.Getenv("FB_KAFKA_BROKERS"); brokers != "" {
		v.Set("kafka.brokers", strings.Split(brokers, ","))
		v.Set("kafka.enabled", true)
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts duration fields from their raw unit values
func processDurations(config *Config) {
	config.Server.ReadTimeout = config.Server.ReadTimeout * time.Second
	config.Server.WriteTimeout = config.Server.WriteTimeout * time.Second
	config.Server.IdleTimeout = config.Server.IdleTimeout * time.Second
	config.Server.ReadHeaderTimeout = config.Server.ReadHeaderTimeout * time.Second
	config.Server.ShutdownTimeout = config.Server.ShutdownTimeout * time.Second
	config.Server.RequestTimeout = config.Server.RequestTimeout * time.Second

	config.Database.ConnMaxLifetime = config.Database.ConnMaxLifetime * time.Minute
	config.Database.ConnMaxIdleTime = config.Database.ConnMaxIdleTime * time.Minute
	config.Database.QueryTimeout = config.Database.QueryTimeout * time.Second
	config.Database.RetryDelay = config.Database.RetryDelay * time.Second

	config.Auth.AccessTokenTTL = config.Auth.AccessTokenTTL * time.Minute
	config.Auth.RefreshTokenTTL = config.Auth.RefreshTokenTTL * time.Hour

	config.Cache.DefaultTTL = config.Cache.DefaultTTL * time.Second
	config.Cache.GasPriceTTL = config.Cache.GasPriceTTL * time.Second

	config.Kafka.BatchTimeout = config.Kafka.BatchTimeout * time.Millisecond
	config.Scheduler.JobTimeout = config.Scheduler.JobTimeout * time.Second
	config.Web3.OracleLatency = config.Web3.OracleLatency * time.Millisecond
}
