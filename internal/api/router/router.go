package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/whatsapp-order-bot/internal/customers"
	httpmiddleware "github.com/wolfman30/whatsapp-order-bot/internal/http/middleware"
	"github.com/wolfman30/whatsapp-order-bot/internal/messaging"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	MessagingHandler *messaging.Handler
	OrdersHandler    *orders.Handler
	CustomersHandler *customers.Handler
	MetricsHandler   http.Handler

	// AdminJWTSecret guards the REST API when set; webhooks stay public.
	AdminJWTSecret     string
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.MessagingHandler.HealthCheck)
		public.Route("/webhook", func(r chi.Router) {
			r.Get("/whatsapp", cfg.MessagingHandler.VerifyWebhook)
			r.Post("/whatsapp", cfg.MessagingHandler.ReceiveWebhook)
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// REST API for operators/dashboards
	r.Route("/api", func(api chi.Router) {
		if cfg.AdminJWTSecret != "" {
			api.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
		}
		if cfg.OrdersHandler != nil {
			api.Route("/orders", func(r chi.Router) {
				r.Get("/", cfg.OrdersHandler.List)
				r.Post("/", cfg.OrdersHandler.Create)
				r.Get("/{id}", cfg.OrdersHandler.GetByID)
				r.Patch("/{id}/status", cfg.OrdersHandler.UpdateStatus)
			})
		}
		if cfg.CustomersHandler != nil {
			api.Route("/customers", func(r chi.Router) {
				r.Get("/", cfg.CustomersHandler.List)
				r.Post("/", cfg.CustomersHandler.Upsert)
				r.Get("/phone/{phone}", cfg.CustomersHandler.GetByPhone)
			})
		}
	})

	return r
}
