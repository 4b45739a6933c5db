package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// AutomationNotifier forwards every inbound message to an external automation
// webhook (e.g. an n8n workflow). Best-effort: the automation being down must
// never affect the conversation flow.
type AutomationNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewAutomationNotifier creates a notifier, or nil when no URL is configured.
func NewAutomationNotifier(webhookURL string, logger *logging.Logger) *AutomationNotifier {
	if webhookURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AutomationNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

type automationEvent struct {
	Phone       string `json:"phoneNumber"`
	Text        string `json:"messageText"`
	MessageType string `json:"messageType"`
	Timestamp   string `json:"timestamp"`
}

// Notify posts the inbound message to the automation webhook. Errors are
// logged and swallowed.
func (n *AutomationNotifier) Notify(ctx context.Context, phone, text, messageType string) {
	if n == nil {
		return
	}
	event := automationEvent{
		Phone:       phone,
		Text:        text,
		MessageType: messageType,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("failed to encode automation event", "error", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("failed to build automation request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("automation webhook not available", "error", err)
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("automation webhook rejected event", "status", resp.StatusCode)
		return
	}
	n.logger.Debug("automation webhook triggered", "phone", phone)
}
