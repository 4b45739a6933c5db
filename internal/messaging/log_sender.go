package messaging

import (
	"context"

	"github.com/wolfman30/whatsapp-order-bot/internal/bot"
	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// LogSender is a bot.Messenger that only logs outbound replies. Used in
// development when no WhatsApp credentials are configured.
type LogSender struct {
	logger *logging.Logger
}

// NewLogSender creates a log-only messenger.
func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendText(ctx context.Context, to, body string) error {
	s.logger.Info("outbound text (log only)", "to", to, "body", body)
	return nil
}

func (s *LogSender) SendMenu(ctx context.Context, to string, products []catalog.Product) error {
	s.logger.Info("outbound menu (log only)", "to", to, "products", len(products))
	return nil
}

func (s *LogSender) SendOrderConfirmation(ctx context.Context, to string, details bot.OrderConfirmation) error {
	s.logger.Info("outbound order confirmation (log only)", "to", to, "order_number", details.OrderNumber)
	return nil
}
