package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// Service emails the business when an order is confirmed. It implements
// bot.OrderNotifier.
type Service struct {
	email   EmailSender
	toEmail string
	logger  *logging.Logger
}

// NewService creates a notification service. Returns nil when email delivery
// or a recipient is not configured, which callers treat as "notifications off".
func NewService(email EmailSender, toEmail string, logger *logging.Logger) *Service {
	if email == nil || toEmail == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, toEmail: toEmail, logger: logger}
}

// NotifyOrderConfirmed sends the new-order email.
func (s *Service) NotifyOrderConfirmed(ctx context.Context, o *orders.Order) error {
	if s == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New confirmed order %s\n\n", o.OrderNumber)
	if o.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	}
	if o.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", o.CustomerPhone)
	}
	b.WriteString("\nItems:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s x%d ($%s)\n", item.Name, item.Quantity, item.LineTotal.Dollars())
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", o.Total.Dollars())

	msg := EmailMessage{
		To:      s.toEmail,
		Subject: fmt.Sprintf("New order %s ($%s)", o.OrderNumber, o.Total.Dollars()),
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: order confirmation email: %w", err)
	}
	s.logger.Info("order notification sent", "order_number", o.OrderNumber)
	return nil
}
