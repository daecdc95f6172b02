package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Store          StoreConfig          `mapstructure:"store"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Queue          QueueConfig          `mapstructure:"queue"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Admin          AdminConfig          `mapstructure:"admin"`
	Twilio         TwilioConfig         `mapstructure:"twilio"`
	Fallback       FallbackConfig       `mapstructure:"fallback"`
	Speech         SpeechConfig         `mapstructure:"speech"`
	Payment        PaymentConfig        `mapstructure:"payment"`
	Email          EmailConfig          `mapstructure:"email"`
	Vault          VaultConfig          `mapstructure:"vault"`
	Reaper         ReaperConfig         `mapstructure:"reaper"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	Prometheus     PrometheusConfig     `mapstructure:"prometheus"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	RateLimiting   RateLimitingConfig   `mapstructure:"rate_limiting"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	CORS           CORSConfig           `mapstructure:"cors"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// PublicBaseURL is the externally reachable URL Twilio posts webhooks to.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

// StoreConfig selects the row store backend. Backend "rest" talks to the
// hosted PostgREST endpoint; "postgres" connects straight to the database.
type StoreConfig struct {
	Backend     string `mapstructure:"backend"`
	RestURL     string `mapstructure:"rest_url"`
	RestAPIKey  string `mapstructure:"rest_api_key"`
	PostgresURL string `mapstructure:"postgres_url"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// QueueConfig selects the event bus. Backend "nats" or "rabbitmq".
type QueueConfig struct {
	Backend string `mapstructure:"backend"`
	URL     string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret              string        `mapstructure:"secret"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
}

// AdminConfig provisions the dispatcher accounts allowed into the admin API.
// Accounts are configured, not self-registered.
type AdminConfig struct {
	Accounts []AdminAccount `mapstructure:"accounts"`
}

type AdminAccount struct {
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
	TenantID     string `mapstructure:"tenant_id"`
	Role         string `mapstructure:"role"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	// ValidateSignatures is off in local development where requests are not
	// signed by Twilio.
	ValidateSignatures bool `mapstructure:"validate_signatures"`
}

// FallbackConfig selects the generative fallback provider: "gemini", "openai"
// or "anthropic".
type FallbackConfig struct {
	Provider        string `mapstructure:"provider"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	// MediaStream enables the experimental live audio bridge.
	MediaStream bool `mapstructure:"media_stream"`
}

// SpeechConfig drives template pre-rendering.
type SpeechConfig struct {
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
}

type PaymentConfig struct {
	Stripe StripeConfig `mapstructure:"stripe"`
}

type StripeConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	SuccessURL string `mapstructure:"success_url"`
}

type EmailConfig struct {
	Provider       string `mapstructure:"provider"`
	FromEmail      string `mapstructure:"from_email"`
	FromName       string `mapstructure:"from_name"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SMTPUsername   string `mapstructure:"smtp_username"`
	SMTPPassword   string `mapstructure:"smtp_password"`
}

type VaultConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
}

// ReaperConfig drives the background sweep of expired conversations.
type ReaperConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type OpenTelemetryConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	Jaeger      JaegerConfig `mapstructure:"jaeger"`
	ServiceName string       `mapstructure:"service_name"`
}

type JaegerConfig struct {
	Endpoint     string  `mapstructure:"endpoint"`
	SamplerType  string  `mapstructure:"sampler_type"`
	SamplerParam float64 `mapstructure:"sampler_param"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type RateLimitingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      int           `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}
