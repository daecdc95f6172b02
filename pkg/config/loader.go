package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("app.public_base_url", "PUBLIC_BASE_URL")
	viper.BindEnv("store.rest_url", "STORE_REST_URL")
	viper.BindEnv("store.rest_api_key", "STORE_REST_API_KEY")
	viper.BindEnv("store.postgres_url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.url", "QUEUE_URL", "NATS_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	viper.BindEnv("twilio.account_sid", "TWILIO_ACCOUNT_SID")
	viper.BindEnv("twilio.auth_token", "TWILIO_AUTH_TOKEN")
	viper.BindEnv("fallback.gemini_api_key", "GEMINI_API_KEY")
	viper.BindEnv("fallback.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("fallback.anthropic_api_key", "ANTHROPIC_API_KEY")
	viper.BindEnv("speech.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("email.sendgrid_api_key", "SENDGRID_API_KEY")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars carry the deploy settings.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "repairline")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.read_timeout", 15*time.Second)
	viper.SetDefault("http.write_timeout", 15*time.Second)
	viper.SetDefault("http.idle_timeout", time.Minute)
	viper.SetDefault("store.backend", "postgres")
	viper.SetDefault("store.auto_migrate", true)
	viper.SetDefault("queue.backend", "nats")
	viper.SetDefault("jwt.access_token_duration", 12*time.Hour)
	viper.SetDefault("fallback.provider", "gemini")
	viper.SetDefault("email.provider", "smtp")
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.from_email", "noreply@repairline.io")
	viper.SetDefault("email.from_name", "RepairLine")
	viper.SetDefault("reaper.interval", time.Hour)
	viper.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")
	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.max_requests", 120)
	viper.SetDefault("rate_limiting.window", time.Minute)
}
