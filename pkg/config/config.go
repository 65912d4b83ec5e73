package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig selects postgres when URL is set, sqlite at Path otherwise
type DatabaseConfig struct {
	URL  string `mapstructure:"url"`
	Path string `mapstructure:"path"`
}

// RedisConfig is optional; an empty Addr disables caching and rate limiting
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds secrets for admin tokens and API keys
type AuthConfig struct {
	JWTSecret        string        `mapstructure:"jwt_secret"`
	APIMasterSecret  string        `mapstructure:"api_master_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	AdminUsername    string        `mapstructure:"admin_username"`
	AdminPassword    string        `mapstructure:"admin_password"`
	DefaultRateLimit int           `mapstructure:"default_rate_limit"`
}

// LogConfig configures zap
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// OptimizerConfig holds the defaults used when a request leaves an option at zero
type OptimizerConfig struct {
	MaxPasses    int           `mapstructure:"max_passes"`
	TimeBudgetMs int           `mapstructure:"time_budget_ms"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// legacy env names kept working for existing deployments
var envBindings = map[string]string{
	"server.port":            "PORT",
	"server.mode":            "GIN_MODE",
	"database.url":           "DATABASE_URL",
	"database.path":          "DATA_PATH",
	"redis.addr":             "REDIS_ADDR",
	"redis.password":         "REDIS_PASSWORD",
	"redis.db":               "REDIS_DB",
	"auth.jwt_secret":        "JWT_SECRET",
	"auth.api_master_secret": "API_MASTER_SECRET",
	"auth.admin_username":    "ADMIN_USERNAME",
	"auth.admin_password":    "ADMIN_PASSWORD",
	"log.level":              "LOG_LEVEL",
	"log.format":             "LOG_FORMAT",
}

// LoadDotEnv loads the first .env found in the working directory or its parents.
func LoadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads configuration. Priority: environment > config file > defaults.
// An empty path searches for config.yaml in ./config and the working directory.
func Load(path string) (*Config, error) {
	LoadDotEnv()

	v := viper.New()

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "seating.db")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "admin123")
	v.SetDefault("auth.default_rate_limit", 10000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("optimizer.max_passes", 50)
	v.SetDefault("optimizer.time_budget_ms", 2000)
	v.SetDefault("optimizer.cache_ttl", "10m")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SEATING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, "SEATING_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the server cannot start without
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "test" {
		if c.Auth.APIMasterSecret == "" {
			return fmt.Errorf("config: API_MASTER_SECRET is required in %s mode", c.Server.Mode)
		}
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("config: JWT_SECRET is required in %s mode", c.Server.Mode)
		}
	}
	if c.Optimizer.MaxPasses <= 0 {
		return fmt.Errorf("config: optimizer.max_passes must be positive")
	}
	if c.Optimizer.TimeBudgetMs <= 0 {
		return fmt.Errorf("config: optimizer.time_budget_ms must be positive")
	}
	return nil
}

// TimeBudget returns the default optimizer time budget
func (c OptimizerConfig) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetMs) * time.Millisecond
}
