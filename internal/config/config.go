package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/you/plumbsvc/domain"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	Env     string `yaml:"env"`
	BaseURL string `yaml:"base_url"`
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

type SessionConfig struct {
	HashKey  string `yaml:"hash_key"`
	BlockKey string `yaml:"block_key"`
	TTL      string `yaml:"ttl"`
}

type CRMConfig struct {
	BaseURL      string `yaml:"base_url"`
	AuthURL      string `yaml:"auth_url"`
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type LoginLinkConfig struct {
	Secret string `yaml:"secret"`
	TTL    string `yaml:"ttl"`
}

type CampaignConfig struct {
	Window         string `yaml:"window"`
	UnsubscribeTTL string `yaml:"unsubscribe_ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ResendConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
}

type GoogleOAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type RateLimitConfig struct {
	Window string `yaml:"window"`
	Max    int    `yaml:"max"`
}

type ConfigFile struct {
	App       AppConfig         `yaml:"app"`
	Database  DatabaseConfig    `yaml:"database"`
	Redis     RedisConfig       `yaml:"redis"`
	Session   SessionConfig     `yaml:"session"`
	CRM       CRMConfig         `yaml:"crm"`
	LoginLink LoginLinkConfig   `yaml:"login_link"`
	Campaign  CampaignConfig    `yaml:"campaign"`
	OTP       OTPConfig         `yaml:"otp"`
	Twilio    TwilioConfig      `yaml:"twilio"`
	Resend    ResendConfig      `yaml:"resend"`
	Google    GoogleOAuthConfig `yaml:"google"`
	RateLimit RateLimitConfig   `yaml:"rate_limit"`
}

type Config struct {
	Port    string
	Env     string
	BaseURL string
	GinMode string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionHashKey  string
	SessionBlockKey string
	SessionTTL      time.Duration

	CRMBaseURL      string
	CRMAuthURL      string
	CRMTenantID     string
	CRMClientID     string
	CRMClientSecret string

	LoginLinkSecret string
	LoginLinkTTL    time.Duration

	CampaignWindow time.Duration
	UnsubscribeTTL time.Duration

	OTP_TTL          time.Duration
	OTP_Length       int
	OTP_MaxAttempts  int
	OTP_ResendWindow time.Duration

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	ResendAPIKey    string
	ResendFromEmail string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	CronSecret string

	RateLimitWindow time.Duration
	RateLimitMax    int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := time.ParseDuration(configFile.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	linkTTL, err := time.ParseDuration(configFile.LoginLink.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid login link TTL: %w", err)
	}

	campaignWindow, err := time.ParseDuration(configFile.Campaign.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid campaign window: %w", err)
	}

	unsubTTL, err := time.ParseDuration(configFile.Campaign.UnsubscribeTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid unsubscribe TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	rlWindow, err := time.ParseDuration(configFile.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := &Config{
		Port:    fmt.Sprintf("%d", configFile.App.Port),
		Env:     env("APP_ENV", configFile.App.Env),
		BaseURL: configFile.App.BaseURL,
		GinMode: configFile.App.GinMode,

		DSN: env("DATABASE_DSN", configFile.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		SessionHashKey:  env("SESSION_HASH_KEY", configFile.Session.HashKey),
		SessionBlockKey: env("SESSION_BLOCK_KEY", configFile.Session.BlockKey),
		SessionTTL:      sessionTTL,

		CRMBaseURL:      configFile.CRM.BaseURL,
		CRMAuthURL:      configFile.CRM.AuthURL,
		CRMTenantID:     env("CRM_TENANT_ID", configFile.CRM.TenantID),
		CRMClientID:     env("CRM_CLIENT_ID", configFile.CRM.ClientID),
		CRMClientSecret: env("CRM_CLIENT_SECRET", configFile.CRM.ClientSecret),

		LoginLinkSecret: env("LOGIN_LINK_SECRET", configFile.LoginLink.Secret),
		LoginLinkTTL:    linkTTL,

		CampaignWindow: campaignWindow,
		UnsubscribeTTL: unsubTTL,

		OTP_TTL:          otpTTL,
		OTP_Length:       configFile.OTP.Length,
		OTP_MaxAttempts:  configFile.OTP.MaxAttempts,
		OTP_ResendWindow: resWnd,

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),

		ResendAPIKey:    env("RESEND_API_KEY", configFile.Resend.APIKey),
		ResendFromEmail: env("RESEND_FROM_EMAIL", configFile.Resend.FromEmail),

		GoogleClientID:     env("GOOGLE_CLIENT_ID", configFile.Google.ClientID),
		GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", configFile.Google.ClientSecret),
		GoogleRedirectURL:  configFile.Google.RedirectURL,

		CronSecret: os.Getenv("CRON_SECRET"),

		RateLimitWindow: rlWindow,
		RateLimitMax:    configFile.RateLimit.Max,
	}

	// Session keys are a boot-time fatal condition, not a per-request error.
	if cfg.SessionHashKey == "" || cfg.SessionBlockKey == "" {
		return nil, fmt.Errorf("session hash/block key: %w", domain.ErrConfiguration)
	}
	if cfg.LoginLinkSecret == "" {
		return nil, fmt.Errorf("login link secret: %w", domain.ErrConfiguration)
	}
	if cfg.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET: %w", domain.ErrConfiguration)
	}

	return cfg, nil
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

// IsProduction reports whether secure cookie flags should be forced on.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
