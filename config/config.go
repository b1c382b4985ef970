// config/config.go

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

const (
	ModeDebug   = "debug"
	ModeTest    = "test"
	ModeRelease = "release"

	MediumMemory = "memory"
	MediumRedis  = "redis"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	OTP       OTPConfig       `mapstructure:"otp"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type ServerConfig struct {
	Host    string        `mapstructure:"host"`
	Port    string        `mapstructure:"port"`
	Mode    string        `mapstructure:"mode"`
	Timeout TimeoutConfig `mapstructure:"timeout"`
	TLS     TLSConfig     `mapstructure:"tls"`
}

// TimeoutConfig values are seconds
type TimeoutConfig struct {
	Read       int `mapstructure:"read"`
	Write      int `mapstructure:"write"`
	Idle       int `mapstructure:"idle"`
	ReadHeader int `mapstructure:"read_header"`
}

type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type OTPConfig struct {
	ExpiryMS    int `mapstructure:"expiry_ms"`
	Length      int `mapstructure:"length"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

type SessionConfig struct {
	Medium          string        `mapstructure:"medium"`
	TTL             time.Duration `mapstructure:"ttl"`
	CookieName      string        `mapstructure:"cookie_name"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	Timeout   int    `mapstructure:"timeout"`
	HashKeys  bool   `mapstructure:"hash_keys"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type AnalyticsConfig struct {
	HistorySize int `mapstructure:"history_size"`
}

// LoadConfig reads path (or config.yaml from ./config and the working
// directory when path is empty), then applies environment overrides on top
// of the defaults. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", ModeRelease)
	v.SetDefault("server.timeout.read", 5)
	v.SetDefault("server.timeout.write", 10)
	v.SetDefault("server.timeout.idle", 120)
	v.SetDefault("server.timeout.read_header", 2)
	v.SetDefault("server.tls.enabled", false)

	v.SetDefault("otp.expiry_ms", int(domain.DefaultExpiry/time.Millisecond))
	v.SetDefault("otp.length", domain.DefaultCodeLength)
	v.SetDefault("otp.max_attempts", domain.DefaultMaxAttempts)

	v.SetDefault("session.medium", MediumMemory)
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.cookie_name", "otp_session")
	v.SetDefault("session.max_sessions", 0)
	v.SetDefault("session.cleanup_interval", "5m")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "otp")
	v.SetDefault("redis.timeout", 5)
	v.SetDefault("redis.hash_keys", true)

	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("auth.issuer", "otp-service")

	v.SetDefault("rate_limit.rps", 10)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("analytics.history_size", 50)
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.host":                "SERVER_HOST",
		"server.port":                "SERVER_PORT",
		"server.mode":                "SERVER_MODE",
		"server.timeout.read":        "SERVER_TIMEOUT_READ",
		"server.timeout.write":       "SERVER_TIMEOUT_WRITE",
		"server.timeout.idle":        "SERVER_TIMEOUT_IDLE",
		"server.timeout.read_header": "SERVER_TIMEOUT_READ_HEADER",
		"server.tls.enabled":         "TLS_ENABLED",
		"server.tls.cert_file":       "TLS_CERT_FILE",
		"server.tls.key_file":        "TLS_KEY_FILE",

		"otp.expiry_ms":    "OTP_EXPIRY_MS",
		"otp.length":       "OTP_LENGTH",
		"otp.max_attempts": "MAX_ATTEMPTS",

		"session.medium":           "SESSION_MEDIUM",
		"session.ttl":              "SESSION_TTL",
		"session.cookie_name":      "SESSION_COOKIE_NAME",
		"session.max_sessions":     "SESSION_MAX_SESSIONS",
		"session.cleanup_interval": "SESSION_CLEANUP_INTERVAL",

		"redis.host":       "REDIS_HOST",
		"redis.port":       "REDIS_PORT",
		"redis.password":   "REDIS_PASSWORD",
		"redis.db":         "REDIS_DB",
		"redis.key_prefix": "REDIS_KEY_PREFIX",
		"redis.timeout":    "REDIS_TIMEOUT",
		"redis.hash_keys":  "REDIS_HASH_KEYS",

		"auth.jwt_secret": "JWT_SECRET",
		"auth.token_ttl":  "JWT_TOKEN_TTL",
		"auth.issuer":     "JWT_ISSUER",

		"rate_limit.rps":   "RATE_LIMIT_RPS",
		"rate_limit.burst": "RATE_LIMIT_BURST",

		"analytics.history_size": "ANALYTICS_HISTORY_SIZE",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// Settings returns the lifecycle constants for the OTP manager
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		Expiry:      time.Duration(c.OTP.ExpiryMS) * time.Millisecond,
		CodeLength:  c.OTP.Length,
		MaxAttempts: c.OTP.MaxAttempts,
	}
}

// IsDevelopment reports whether generated codes may be revealed
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == ModeDebug || c.Server.Mode == ModeTest
}

func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ModeDebug, ModeTest, ModeRelease:
	default:
		return fmt.Errorf("%w: unknown server mode %q", domain.ErrInvalidSettings, c.Server.Mode)
	}

	if err := utils.ValidateSettings(c.Settings()); err != nil {
		return err
	}

	switch c.Session.Medium {
	case MediumMemory, MediumRedis:
	default:
		return fmt.Errorf("%w: unknown session medium %q", domain.ErrInvalidSettings, c.Session.Medium)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive", domain.ErrInvalidSettings)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("%w: session cookie name is required", domain.ErrInvalidSettings)
	}
	if c.Session.MaxSessions < 0 {
		return fmt.Errorf("%w: max sessions cannot be negative", domain.ErrInvalidSettings)
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("%w: rate limit rps and burst must be positive", domain.ErrInvalidSettings)
	}

	if c.Analytics.HistorySize <= 0 {
		return fmt.Errorf("%w: analytics history size must be positive", domain.ErrInvalidSettings)
	}

	if c.Server.Mode == ModeRelease && c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: jwt secret is required in release mode", domain.ErrInvalidSettings)
	}

	if c.Server.TLS.Enabled && (c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "") {
		return fmt.Errorf("%w: tls requires cert_file and key_file", domain.ErrInvalidSettings)
	}

	return nil
}
