package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/whatsapp-order-bot/internal/bot"
	"github.com/wolfman30/whatsapp-order-bot/internal/observability/metrics"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

var webhookTracer = otel.Tracer("orderbot.internal.messaging.whatsapp")

type inboundPublisher interface {
	EnqueueInbound(ctx context.Context, jobID string, msg bot.InboundMessage) error
}

// Handler handles WhatsApp webhook requests.
type Handler struct {
	verifyToken string
	publisher   inboundPublisher
	store       *Store
	automation  *AutomationNotifier
	metrics     *metrics.BotMetrics
	logger      *logging.Logger
}

// NewHandler creates a webhook handler. store and automation may be nil.
func NewHandler(verifyToken string, publisher inboundPublisher, store *Store, automation *AutomationNotifier, botMetrics *metrics.BotMetrics, logger *logging.Logger) *Handler {
	if publisher == nil {
		panic("messaging: publisher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		verifyToken: verifyToken,
		publisher:   publisher,
		store:       store,
		automation:  automation,
		metrics:     botMetrics,
		logger:      logger,
	}
}

// VerifyWebhook handles GET /webhook/whatsapp: the subscription handshake.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		h.logger.Info("whatsapp webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	h.logger.Warn("whatsapp webhook verification failed", "mode", mode)
	w.WriteHeader(http.StatusForbidden)
}

// ReceiveWebhook handles POST /webhook/whatsapp: inbound messages.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "messaging.whatsapp.webhook")
	defer span.End()
	started := time.Now()

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to parse whatsapp webhook", "error", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	msg, ok := payload.firstMessage()
	if !ok {
		// Delivery receipts and other non-message notifications are
		// acknowledged and dropped.
		w.WriteHeader(http.StatusOK)
		return
	}

	text := ""
	if msg.Text != nil {
		text = msg.Text.Body
	}
	span.SetAttributes(
		attribute.String("orderbot.whatsapp.from", msg.From),
		attribute.String("orderbot.whatsapp.type", msg.Type),
	)
	h.logger.Info("received whatsapp message", "from", msg.From, "type", msg.Type)

	if h.store != nil {
		rec := MessageRecord{
			Phone:       msg.From,
			MessageType: msg.Type,
			Content:     text,
			Direction:   DirectionIncoming,
		}
		if err := h.store.InsertMessage(ctx, rec); err != nil {
			// The log row is an audit trail, not a precondition.
			h.logger.Error("failed to store inbound message", "error", err, "from", msg.From)
			span.RecordError(err)
		}
	}

	inbound := bot.InboundMessage{
		Phone:       msg.From,
		Text:        text,
		MessageType: msg.Type,
		ReceivedAt:  time.Now().UTC(),
	}
	publishCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := h.publisher.EnqueueInbound(publishCtx, "", inbound); err != nil {
		h.logger.Error("failed to enqueue inbound message", "error", err, "from", msg.From)
		span.RecordError(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if h.automation != nil {
		go func(phone, text, msgType string) {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			h.automation.Notify(notifyCtx, phone, text, msgType)
		}(msg.From, text, msg.Type)
	}

	h.metrics.ObserveWebhookLatency(time.Since(started).Seconds())
	w.WriteHeader(http.StatusOK)
}

// HealthCheck returns a simple health check response.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "ok",
		"service": "whatsapp-order-bot",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
