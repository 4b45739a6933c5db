package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/whatsapp-order-bot/cmd/mainconfig"
	"github.com/wolfman30/whatsapp-order-bot/internal/api/router"
	"github.com/wolfman30/whatsapp-order-bot/internal/bot"
	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	appconfig "github.com/wolfman30/whatsapp-order-bot/internal/config"
	"github.com/wolfman30/whatsapp-order-bot/internal/customers"
	"github.com/wolfman30/whatsapp-order-bot/internal/messaging"
	"github.com/wolfman30/whatsapp-order-bot/internal/notify"
	"github.com/wolfman30/whatsapp-order-bot/internal/observability/metrics"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
	"github.com/wolfman30/whatsapp-order-bot/internal/session"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting whatsapp-order-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	botMetrics := metrics.NewBotMetrics(nil)

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		catalogRepo catalog.Repository
		directory   customers.Directory
		orderStore  orders.Store
		msgStore    *messaging.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		catalogRepo = catalog.NewPostgresRepository(pool)
		directory = customers.NewPostgresDirectory(pool)
		orderStore = orders.NewPostgresStore(pool)
		msgStore = messaging.NewStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores with the sample menu")
		catalogRepo = catalog.NewSeededMemoryRepository()
		directory = customers.NewMemoryDirectory()
		orderStore = orders.NewMemoryStore()
	}

	// Sessions: per-customer pending order proposals.
	var sessions session.Store = session.NewMemoryStore()
	if cfg.SessionBackend == "redis" {
		if cfg.RedisAddr == "" {
			logger.Error("SESSION_BACKEND=redis requires REDIS_ADDR")
			os.Exit(1)
		}
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		sessions = session.NewRedisStore(redis.NewClient(opts))
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	}

	// Outbound messenger: real WhatsApp sender when credentials exist.
	var messenger bot.Messenger
	if cfg.WhatsAppAccessToken != "" && cfg.WhatsAppPhoneNumberID != "" {
		sender, err := messaging.NewWhatsAppSender(messaging.WhatsAppConfig{
			APIURL:        cfg.WhatsAppAPIURL,
			AccessToken:   cfg.WhatsAppAccessToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			BusinessName:  cfg.BusinessName,
			Timeout:       cfg.WhatsAppSendTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to build whatsapp sender", "error", err)
			os.Exit(1)
		}
		messenger = sender
	} else {
		logger.Warn("whatsapp credentials not configured, replies will only be logged")
		messenger = messaging.NewLogSender(logger)
	}

	// Optional new-order email notifications.
	var orderNotifier bot.OrderNotifier
	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if emailSender != nil {
		if svc := notify.NewService(emailSender, cfg.NotifyEmail, logger); svc != nil {
			orderNotifier = svc
		}
	}

	numbers := orders.NewNumberGenerator()
	lifecycle := bot.NewLifecycleManager(directory, orderStore, sessions, numbers, orderNotifier, logger)
	engine := bot.NewEngine(bot.EngineConfig{
		Catalog:   catalogRepo,
		Customers: directory,
		Orders:    orderStore,
		Sessions:  sessions,
		Lifecycle: lifecycle,
		Messenger: messenger,
		Business: bot.BusinessInfo{
			Name:  cfg.BusinessName,
			Phone: cfg.BusinessPhone,
			Email: cfg.BusinessEmail,
		},
		Metrics: botMetrics,
		Logger:  logger,
	})

	// Job pipeline: in-memory channel by default, SQS when configured.
	workerOpts := []bot.WorkerOption{bot.WithWorkerCount(cfg.WorkerCount)}
	if msgStore != nil {
		workerOpts = append(workerOpts, bot.WithProcessedMarker(msgStore))
	}
	var (
		publisher *bot.Publisher
		worker    *bot.Worker
	)
	if cfg.UseMemoryQueue || cfg.OrderQueueURL == "" {
		queue := bot.NewMemoryQueue(256)
		publisher = bot.NewPublisher(queue, logger)
		worker = bot.NewWorker(engine, queue, logger, workerOpts...)
	} else {
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		queue := bot.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.OrderQueueURL)
		publisher = bot.NewPublisher(queue, logger)
		worker = bot.NewWorker(engine, queue, logger, workerOpts...)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	worker.Start(workerCtx)

	automation := messaging.NewAutomationNotifier(cfg.AutomationWebhookURL, logger)
	messagingHandler := messaging.NewHandler(cfg.WhatsAppVerifyToken, publisher, msgStore, automation, botMetrics, logger)
	ordersHandler := orders.NewHandler(orderStore, numbers, logger)
	customersHandler := customers.NewHandler(directory, logger)

	routerCfg := &router.Config{
		Logger:           logger,
		MessagingHandler: messagingHandler,
		OrdersHandler:    ordersHandler,
		CustomersHandler: customersHandler,
		MetricsHandler:   promhttp.Handler(),
		AdminJWTSecret:   cfg.AdminJWTSecret,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	stopWorkers()
	worker.Wait()

	logger.Info("server stopped")
}
