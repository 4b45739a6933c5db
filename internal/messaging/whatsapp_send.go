package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/whatsapp-order-bot/internal/bot"
	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// WhatsAppConfig controls the Cloud API sender.
type WhatsAppConfig struct {
	APIURL        string
	AccessToken   string
	PhoneNumberID string
	BusinessName  string
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// WhatsAppSender delivers replies through the WhatsApp Cloud API. It
// implements bot.Messenger. Sends are not retried; per the conversation
// design all retries are customer-initiated.
type WhatsAppSender struct {
	apiURL        string
	accessToken   string
	phoneNumberID string
	businessName  string
	httpClient    *http.Client
	logger        *logging.Logger
}

// NewWhatsAppSender creates a configured sender.
func NewWhatsAppSender(cfg WhatsAppConfig, logger *logging.Logger) (*WhatsAppSender, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("messaging: whatsapp access token is required")
	}
	if strings.TrimSpace(cfg.PhoneNumberID) == "" {
		return nil, fmt.Errorf("messaging: whatsapp phone number id is required")
	}
	apiURL := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if apiURL == "" {
		apiURL = "https://graph.facebook.com/v18.0"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.Default()
	}
	businessName := cfg.BusinessName
	if businessName == "" {
		businessName = "Our Store"
	}
	return &WhatsAppSender{
		apiURL:        apiURL,
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		businessName:  businessName,
		httpClient:    httpClient,
		logger:        logger,
	}, nil
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText delivers a plain text message.
func (s *WhatsAppSender) SendText(ctx context.Context, to, body string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
	return s.post(ctx, payload)
}

// SendMenu renders the active products and delivers them as a text message.
func (s *WhatsAppSender) SendMenu(ctx context.Context, to string, products []catalog.Product) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽️ *%s Menu*\n\n", s.businessName)
	for i, p := range products {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. *%s* - $%s\n   %s", p.ID, p.Name, p.UnitPrice.Dollars(), p.Description)
	}
	b.WriteString("\n\n💬 To order, reply with item numbers and quantities:\n")
	b.WriteString(`Example: "1x2, 3x1" (2 Pizza Margherita, 1 Caesar Salad)`)
	b.WriteString("\n\n📞 Need help? Reply HELP")
	return s.SendText(ctx, to, b.String())
}

// SendOrderConfirmation delivers the order-confirmed message.
func (s *WhatsAppSender) SendOrderConfirmation(ctx context.Context, to string, details bot.OrderConfirmation) error {
	var b strings.Builder
	b.WriteString("🎉 *Order Confirmed!*\n\n")
	fmt.Fprintf(&b, "📋 Order Number: %s\n", details.OrderNumber)
	fmt.Fprintf(&b, "💰 Total: $%s\n\n", details.Total.Dollars())
	b.WriteString("📦 Items:\n")
	for _, item := range details.Items {
		fmt.Fprintf(&b, "• %s x%d - $%s\n", item.Name, item.Quantity, item.UnitPrice.Dollars())
	}
	b.WriteString("\n⏰ Estimated delivery: 30-45 minutes\n\n")
	b.WriteString("Thank you for your order! We'll keep you updated on your order status.\n\n")
	b.WriteString("Reply HELP for assistance or TRACK to check your order status.")
	return s.SendText(ctx, to, b.String())
}

func (s *WhatsAppSender) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("messaging: encode whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.apiURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("messaging: build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("messaging: whatsapp send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("messaging: whatsapp send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
