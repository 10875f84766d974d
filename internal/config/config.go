package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
	SessionTTL string `yaml:"session_ttl"`
}

type OTPConfig struct {
	TTL    string `yaml:"ttl"`
	Length int    `yaml:"length"`
}

type LimitConfig struct {
	Max    int    `yaml:"max"`
	Window string `yaml:"window"`
}

type RateLimitConfig struct {
	Resend LimitConfig `yaml:"resend"`
	Reset  LimitConfig `yaml:"reset"`
}

type RegistrationConfig struct {
	StaleAfter      string `yaml:"stale_after"`
	ReclaimInterval string `yaml:"reclaim_interval"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	OTP          OTPConfig          `yaml:"otp"`
	RateLimits   RateLimitConfig    `yaml:"rate_limits"`
	Registration RegistrationConfig `yaml:"registration"`
	Twilio       TwilioConfig       `yaml:"twilio"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Casbin       CasbinConfig       `yaml:"casbin"`
}

// Config is the parsed runtime configuration. Secrets come from the
// environment and override whatever the YAML file carries.
type Config struct {
	Port    string
	GinMode string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SessionTTL time.Duration

	OTPTTL    time.Duration
	OTPLength int

	ResendLimit domain.RateLimitPolicy
	ResetLimit  domain.RateLimitPolicy

	StaleAfter      time.Duration
	ReclaimInterval time.Duration

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml (or the CONFIG_PATH override) and applies
// environment overrides for the secret-bearing fields.
func Load() (*Config, error) {
	path := env("CONFIG_PATH", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	sessTTL, err := time.ParseDuration(configFile.JWT.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	resendWindow, err := time.ParseDuration(configFile.RateLimits.Resend.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid resend window: %w", err)
	}
	resetWindow, err := time.ParseDuration(configFile.RateLimits.Reset.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid reset window: %w", err)
	}
	staleAfter, err := time.ParseDuration(configFile.Registration.StaleAfter)
	if err != nil {
		return nil, fmt.Errorf("invalid registration stale window: %w", err)
	}
	reclaimInterval, err := time.ParseDuration(configFile.Registration.ReclaimInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid reclaim interval: %w", err)
	}

	return &Config{
		Port:    fmt.Sprintf("%d", configFile.App.Port),
		GinMode: configFile.App.GinMode,

		DSN: env("DATABASE_DSN", configFile.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret:  env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:  configFile.JWT.Issuer,
		AccessTTL:  accTTL,
		RefreshTTL: refTTL,
		SessionTTL: sessTTL,

		OTPTTL:    otpTTL,
		OTPLength: configFile.OTP.Length,

		ResendLimit: domain.RateLimitPolicy{Max: configFile.RateLimits.Resend.Max, Window: resendWindow},
		ResetLimit:  domain.RateLimitPolicy{Max: configFile.RateLimits.Reset.Max, Window: resetWindow},

		StaleAfter:      staleAfter,
		ReclaimInterval: reclaimInterval,

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),

		SMTPHost:     env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:     configFile.SMTP.Port,
		SMTPUsername: env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword: env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPFrom:     env("SMTP_FROM", configFile.SMTP.From),

		CasbinModelPath: configFile.Casbin.ModelPath,
	}, nil
}

// Policies maps the configured limits onto the operation classes the
// rate limiter understands.
func (c *Config) Policies() map[domain.OperationClass]domain.RateLimitPolicy {
	return map[domain.OperationClass]domain.RateLimitPolicy{
		domain.OpResend: c.ResendLimit,
		domain.OpReset:  c.ResetLimit,
	}
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
