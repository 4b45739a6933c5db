package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/wolfman30/whatsapp-order-bot/internal/bot"
	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
)

type capturedRequest struct {
	path    string
	auth    string
	payload textPayload
}

func newTestSender(t *testing.T, status int) (*WhatsAppSender, *[]capturedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		captured []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p textPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		mu.Lock()
		captured = append(captured, capturedRequest{
			path:    r.URL.Path,
			auth:    r.Header.Get("Authorization"),
			payload: p,
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	sender, err := NewWhatsAppSender(WhatsAppConfig{
		APIURL:        srv.URL,
		AccessToken:   "test-token",
		PhoneNumberID: "1234567890",
		BusinessName:  "Test Store",
		HTTPClient:    srv.Client(),
	}, nil)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	return sender, &captured
}

func TestSendText(t *testing.T) {
	sender, captured := newTestSender(t, http.StatusOK)

	if err := sender.SendText(context.Background(), "+15557654321", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(*captured) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*captured))
	}
	req := (*captured)[0]
	if req.path != "/1234567890/messages" {
		t.Errorf("path = %q", req.path)
	}
	if req.auth != "Bearer test-token" {
		t.Errorf("auth header = %q", req.auth)
	}
	if req.payload.MessagingProduct != "whatsapp" || req.payload.To != "+15557654321" {
		t.Errorf("unexpected payload: %+v", req.payload)
	}
	if req.payload.Text.Body != "hello" {
		t.Errorf("body = %q", req.payload.Text.Body)
	}
}

func TestSendTextAPIError(t *testing.T) {
	sender, _ := newTestSender(t, http.StatusUnauthorized)

	if err := sender.SendText(context.Background(), "+15557654321", "hello"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestSendMenu(t *testing.T) {
	sender, captured := newTestSender(t, http.StatusOK)

	products := []catalog.Product{
		{ID: 1, Name: "Pizza Margherita", Description: "Classic pizza with tomato, mozzarella, and basil", UnitPrice: 1299},
		{ID: 3, Name: "Caesar Salad", Description: "Fresh romaine lettuce with Caesar dressing", UnitPrice: 799},
	}
	if err := sender.SendMenu(context.Background(), "+15557654321", products); err != nil {
		t.Fatalf("send menu: %v", err)
	}

	body := (*captured)[0].payload.Text.Body
	if !strings.Contains(body, "Test Store Menu") {
		t.Errorf("menu missing business name: %q", body)
	}
	if !strings.Contains(body, "1. *Pizza Margherita* - $12.99") {
		t.Errorf("menu missing pizza line: %q", body)
	}
	if !strings.Contains(body, "3. *Caesar Salad* - $7.99") {
		t.Errorf("menu missing salad line: %q", body)
	}
	if !strings.Contains(body, `"1x2, 3x1"`) {
		t.Errorf("menu missing ordering example: %q", body)
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	sender, captured := newTestSender(t, http.StatusOK)

	details := bot.OrderConfirmation{
		OrderNumber: "ORD-20260831-AB12CD34",
		Items: []orders.LineItem{
			{ProductID: 1, Name: "Pizza Margherita", UnitPrice: 1299, Quantity: 2, LineTotal: 2598},
		},
		Total: 2598,
	}
	if err := sender.SendOrderConfirmation(context.Background(), "+15557654321", details); err != nil {
		t.Fatalf("send confirmation: %v", err)
	}

	body := (*captured)[0].payload.Text.Body
	if !strings.Contains(body, "Order Confirmed") {
		t.Errorf("confirmation missing header: %q", body)
	}
	if !strings.Contains(body, "ORD-20260831-AB12CD34") {
		t.Errorf("confirmation missing order number: %q", body)
	}
	if !strings.Contains(body, "Total: $25.98") {
		t.Errorf("confirmation missing total: %q", body)
	}
}

func TestNewWhatsAppSenderValidation(t *testing.T) {
	if _, err := NewWhatsAppSender(WhatsAppConfig{PhoneNumberID: "1"}, nil); err == nil {
		t.Error("missing access token must be rejected")
	}
	if _, err := NewWhatsAppSender(WhatsAppConfig{AccessToken: "t"}, nil); err == nil {
		t.Error("missing phone number id must be rejected")
	}
}
