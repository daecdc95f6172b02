package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/adapter/ai/anthropic"
	"github.com/fieldserve/repairline/internal/adapter/ai/gemini"
	"github.com/fieldserve/repairline/internal/adapter/ai/openai"
	"github.com/fieldserve/repairline/internal/adapter/cache"
	"github.com/fieldserve/repairline/internal/adapter/http/fiber/handlers"
	"github.com/fieldserve/repairline/internal/adapter/http/fiber/middleware"
	"github.com/fieldserve/repairline/internal/adapter/queue"
	"github.com/fieldserve/repairline/internal/adapter/storage/postgres"
	"github.com/fieldserve/repairline/internal/adapter/storage/rest"
	"github.com/fieldserve/repairline/internal/adapter/telephony"
	"github.com/fieldserve/repairline/internal/adapter/vault"
	wsAdapter "github.com/fieldserve/repairline/internal/adapter/websocket"
	"github.com/fieldserve/repairline/internal/observability/telemetry"
	"github.com/fieldserve/repairline/internal/ports"
	"github.com/fieldserve/repairline/internal/service/audio"
	"github.com/fieldserve/repairline/internal/service/auth"
	"github.com/fieldserve/repairline/internal/service/conversation"
	"github.com/fieldserve/repairline/internal/service/dispatch"
	"github.com/fieldserve/repairline/internal/service/email"
	"github.com/fieldserve/repairline/internal/service/faq"
	"github.com/fieldserve/repairline/internal/service/health"
	"github.com/fieldserve/repairline/internal/service/payment"
	"github.com/fieldserve/repairline/internal/service/speech"
	"github.com/fieldserve/repairline/internal/service/tenant"
	"github.com/fieldserve/repairline/pkg/config"
)

const (
	serviceName    = "repairline"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting RepairLine",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.Logging.Level == "debug" {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}

	// 3. Overlay provider secrets from Vault when enabled
	if cfg.Vault.Enabled {
		if err := overlayVaultSecrets(cfg); err != nil {
			logger.Fatal("Failed to read Vault secrets", zap.Error(err))
		}
		logger.Info("Provider secrets loaded from Vault")
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(telemetry.TracerConfig{
			ServiceName:  serviceName,
			Version:      serviceVersion,
			Endpoint:     cfg.OpenTelemetry.Jaeger.Endpoint,
			SamplerType:  cfg.OpenTelemetry.Jaeger.SamplerType,
			SamplerParam: cfg.OpenTelemetry.Jaeger.SamplerParam,
		})
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize the Row Store
	var (
		convRepo   ports.ConversationRepository
		faqRepo    ports.FAQRepository
		audioRepo  ports.AudioTemplateRepository
		tenantRepo ports.TenantRepository
		storePing  func(ctx context.Context) error
	)

	switch cfg.Store.Backend {
	case "rest":
		client := rest.NewClient(cfg.Store.RestURL, cfg.Store.RestAPIKey, logger)
		convRepo = rest.NewConversationRepository(client, logger)
		faqRepo = rest.NewFAQRepository(client, logger)
		audioRepo = rest.NewAudioTemplateRepository(client, logger)
		tenantRepo = rest.NewTenantRepository(client, logger)
		storePing = func(ctx context.Context) error {
			var rows []struct{}
			return client.Select(ctx, "tenants", nil, &rows)
		}
	default:
		db, err := postgres.NewConnection(cfg.Store.PostgresURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer postgres.Close(db)
		if cfg.Store.AutoMigrate {
			if err := postgres.RunMigrations(db); err != nil {
				logger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}
		convRepo = postgres.NewConversationRepository(db, logger)
		faqRepo = postgres.NewFAQRepository(db, logger)
		audioRepo = postgres.NewAudioTemplateRepository(db, logger)
		tenantRepo = postgres.NewTenantRepository(db, logger)
		sqlDB, _ := db.DB()
		storePing = func(ctx context.Context) error { return pingSQL(ctx, sqlDB) }
	}

	// 6. Initialize Cache, falling back to in-memory when Redis is down
	appCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	var messageQueue queue.MessageQueue
	switch cfg.Queue.Backend {
	case "rabbitmq":
		messageQueue, err = queue.NewRabbitMQQueue(cfg.Queue.URL, logger)
	default:
		messageQueue, err = queue.NewNATSQueue(cfg.Queue.URL, logger)
	}
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Services (Business Logic Layer)
	conversationService := conversation.NewService(convRepo, appCache, logger)
	tenantService := tenant.NewService(tenantRepo, appCache, logger)
	faqService := faq.NewService(faqRepo, appCache, logger)
	audioService := audio.NewService(audioRepo, logger)

	accounts := make([]auth.Account, 0, len(cfg.Admin.Accounts))
	for _, a := range cfg.Admin.Accounts {
		accounts = append(accounts, auth.Account{
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
			TenantID:     a.TenantID,
			Role:         a.Role,
		})
	}
	authService := auth.NewService(accounts, cfg.JWT.Secret, cfg.JWT.AccessTokenDuration, logger)

	emailService, err := email.NewService(&email.Config{
		Provider:       cfg.Email.Provider,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		SMTPHost:       cfg.Email.SMTPHost,
		SMTPPort:       cfg.Email.SMTPPort,
		SMTPUsername:   cfg.Email.SMTPUsername,
		SMTPPassword:   cfg.Email.SMTPPassword,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	paymentService := payment.NewStripeService(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.SuccessURL, logger)

	openaiClient := openai.NewClient(cfg.Speech.OpenAIAPIKey, logger)
	objectStore := rest.NewObjectStore(cfg.Store.RestURL, cfg.Store.RestAPIKey, logger)
	speechService := speech.NewService(openaiClient, objectStore, audioRepo, logger)

	responder := newResponder(cfg, openaiClient, logger)

	dispatchService := dispatch.NewService(
		conversationService,
		tenantService,
		faqService,
		audioService,
		responder,
		emailService,
		paymentService,
		messageQueue,
		logger,
	)

	messenger := telephony.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, logger)

	// 9. Health checks
	healthService := health.NewService(serviceVersion, logger)
	healthService.RegisterCache(appCache)
	healthService.RegisterPing("store", storePing)

	// 10. Dispatcher monitor feed
	hub := wsAdapter.NewHub()
	go hub.Run()
	if err := messageQueue.Subscribe("turn.completed", func(data []byte) error {
		hub.Publish(data)
		return nil
	}); err != nil {
		logger.Error("Failed to subscribe to turn events", zap.Error(err))
	}

	// 11. Background reaper for expired conversations
	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go runReaper(reaperCtx, conversationService, cfg.Reaper.Interval, logger)

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
		}))
	}

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// Twilio webhooks (no auth; guarded by signature validation)
	webhookToken := ""
	if cfg.Twilio.ValidateSignatures {
		webhookToken = cfg.Twilio.AuthToken
	}
	webhookHandler := handlers.NewWebhookHandler(
		dispatchService,
		tenantService,
		audioService,
		messenger,
		webhookToken,
		cfg.App.PublicBaseURL,
		logger,
	)
	app.Post("/webhook/voice", webhookHandler.HandleVoice)
	app.Post("/webhook/sms", webhookHandler.HandleSMS)

	// Admin API
	adminHandler := handlers.NewAdminHandler(authService, faqService, speechService, logger)
	v1 := app.Group("/api/v1", middleware.CircuitBreaker(logger))
	v1.Post("/auth/login", adminHandler.Login)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/faqs", adminHandler.ListFAQs)
	protected.Post("/faqs", adminHandler.CreateFAQ)
	protected.Put("/faqs/:id", adminHandler.UpdateFAQ)
	protected.Delete("/faqs/:id", adminHandler.DeleteFAQ)
	protected.Post("/audio/render", adminHandler.RenderAudio)

	// Dispatcher monitor WebSocket
	app.Use("/ws/monitor", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := authService.ValidateToken(c.Context(), c.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("tenant_id", claims.TenantID)
		return c.Next()
	})
	app.Get("/ws/monitor", websocket.New(func(c *websocket.Conn) {
		tenantID, _ := c.Locals("tenant_id").(string)
		hub.AddClient(c, tenantID)
	}))

	// Experimental live voice bridge
	if cfg.Fallback.MediaStream {
		mediaHandler := wsAdapter.NewMediaStreamHandler(cfg.Fallback.GeminiAPIKey, logger)
		mediaHandler.RegisterRoutes(app)
	}

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// newResponder picks the generative fallback provider from config.
func newResponder(cfg *config.Config, openaiClient *openai.Client, logger *zap.Logger) ports.Responder {
	switch strings.ToLower(cfg.Fallback.Provider) {
	case "openai":
		return openaiClient
	case "anthropic":
		return anthropic.NewClient(cfg.Fallback.AnthropicAPIKey, logger)
	default:
		return gemini.NewClient(cfg.Fallback.GeminiAPIKey, logger)
	}
}

// runReaper periodically deactivates expired conversations.
func runReaper(ctx context.Context, conversations ports.ConversationService, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := conversations.Reap(ctx, time.Now().UTC())
			if err != nil {
				logger.Warn("Reaper sweep failed", zap.Error(err))
				continue
			}
			telemetry.ReapedConversationsTotal.Add(float64(n))
		}
	}
}

func overlayVaultSecrets(cfg *config.Config) error {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		return err
	}

	if v, err := sm.GetTwilioAuthToken(); err == nil {
		cfg.Twilio.AuthToken = v
	}
	if v, err := sm.GetGeminiAPIKey(); err == nil {
		cfg.Fallback.GeminiAPIKey = v
	}
	if v, err := sm.GetStripeAPIKey(); err == nil {
		cfg.Payment.Stripe.SecretKey = v
	}
	if v, err := sm.GetStoreCredentials(); err == nil {
		cfg.Store.PostgresURL = v
	}
	return nil
}

func pingSQL(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database handle unavailable")
	}
	return db.PingContext(ctx)
}
