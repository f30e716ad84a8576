package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

// Config holds every runtime setting. Values come from an optional YAML file
// (CONFIG_PATH) and are overridden by environment variables, which may in turn be
// seeded from a .env file.
type Config struct {
	HTTPPort string `yaml:"http_port"`
	LogLevel string `yaml:"log_level"`

	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSslMode  string `yaml:"db_ssl_mode"`

	// RedisAddr empty disables the tracking cache and the tracking rate limit.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// KafkaBrokers empty disables notifications.
	KafkaBrokers            []string `yaml:"kafka_brokers"`
	KafkaNotificationsTopic string   `yaml:"kafka_notifications_topic"`

	JWTSecret string `yaml:"jwt_secret"`

	TrackingCacheTTLSeconds int    `yaml:"tracking_cache_ttl_seconds"`
	TrackRateLimitPerMinute int    `yaml:"track_rate_limit_per_minute"`
	TrackingCodeMaxAttempts int    `yaml:"tracking_code_max_attempts"`
	ReconciliationSchedule  string `yaml:"reconciliation_schedule"`
	ShutdownTimeoutSeconds  int    `yaml:"shutdown_timeout_seconds"`
}

func defaultConfig() Config {
	return Config{
		HTTPPort:                "8080",
		LogLevel:                "info",
		DBPort:                  "5432",
		DBSslMode:               "disable",
		KafkaNotificationsTopic: "delivery.notifications",
		TrackingCacheTTLSeconds: 30,
		TrackRateLimitPerMinute: 60,
		TrackingCodeMaxAttempts: 5,
		ReconciliationSchedule:  "0 0 * * * *",
		ShutdownTimeoutSeconds:  10,
	}
}

// LoadConfig builds the configuration: defaults, then the YAML file named by
// CONFIG_PATH, then environment variables. A missing .env file is not an error.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	envString("HTTP_PORT", &c.HTTPPort)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("DB_HOST", &c.DBHost)
	envString("DB_PORT", &c.DBPort)
	envString("DB_USER", &c.DBUser)
	envString("DB_PASSWORD", &c.DBPassword)
	envString("DB_NAME", &c.DBName)
	envString("DB_SSLMODE", &c.DBSslMode)
	envString("REDIS_ADDR", &c.RedisAddr)
	envString("REDIS_PASSWORD", &c.RedisPassword)
	envString("KAFKA_NOTIFICATIONS_TOPIC", &c.KafkaNotificationsTopic)
	envString("JWT_SECRET", &c.JWTSecret)
	envString("RECONCILIATION_SCHEDULE", &c.ReconciliationSchedule)

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}

	return errors.Join(
		envInt("REDIS_DB", &c.RedisDB),
		envInt("TRACKING_CACHE_TTL_SECONDS", &c.TrackingCacheTTLSeconds),
		envInt("TRACK_RATE_LIMIT_PER_MINUTE", &c.TrackRateLimitPerMinute),
		envInt("TRACKING_CODE_MAX_ATTEMPTS", &c.TrackingCodeMaxAttempts),
		envInt("SHUTDOWN_TIMEOUT_SECONDS", &c.ShutdownTimeoutSeconds),
	)
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}
	if c.DBHost == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaNotificationsTopic == "" {
		errs = append(errs, errors.New("KAFKA_NOTIFICATIONS_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if c.TrackingCacheTTLSeconds < 0 || c.TrackRateLimitPerMinute < 0 || c.TrackingCodeMaxAttempts < 0 {
		errs = append(errs, errors.New("cache TTL, rate limit and code attempts must not be negative"))
	}
	return errors.Join(errs...)
}

// DSN renders the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) TrackingCacheTTL() time.Duration {
	return time.Duration(c.TrackingCacheTTLSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
