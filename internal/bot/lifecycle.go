package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/whatsapp-order-bot/internal/customers"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
	"github.com/wolfman30/whatsapp-order-bot/internal/session"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// OrderNotifier is told about confirmed orders (e.g. to email the business).
type OrderNotifier interface {
	NotifyOrderConfirmed(ctx context.Context, o *orders.Order) error
}

// LifecycleManager turns a confirmed session into a persisted order.
type LifecycleManager struct {
	customers customers.Directory
	orders    orders.Store
	sessions  session.Store
	numbers   orders.NumberGenerator
	notifier  OrderNotifier
	logger    *logging.Logger
}

// NewLifecycleManager creates an order lifecycle manager. notifier may be nil.
func NewLifecycleManager(directory customers.Directory, store orders.Store, sessions session.Store, numbers orders.NumberGenerator, notifier OrderNotifier, logger *logging.Logger) *LifecycleManager {
	if directory == nil {
		panic("bot: customer directory cannot be nil")
	}
	if store == nil {
		panic("bot: order store cannot be nil")
	}
	if sessions == nil {
		panic("bot: session store cannot be nil")
	}
	if numbers == nil {
		numbers = orders.NewNumberGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LifecycleManager{
		customers: directory,
		orders:    store,
		sessions:  sessions,
		numbers:   numbers,
		notifier:  notifier,
		logger:    logger,
	}
}

// Confirm persists the session as a confirmed order and deletes the session.
// On any persistence failure the session is left untouched so the customer
// can simply send CONFIRM again.
func (m *LifecycleManager) Confirm(ctx context.Context, phone string, sess session.Session) (*orders.Order, error) {
	customer, err := m.customers.GetOrCreateByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("bot: resolve customer: %w", err)
	}

	order := &orders.Order{
		OrderNumber:   m.numbers.Next(),
		CustomerID:    customer.ID,
		Status:        orders.StatusConfirmed,
		Total:         sess.Total,
		Items:         sess.Items,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
	}
	if err := m.orders.Insert(ctx, order); err != nil {
		// A number collision is retryable with a fresh number; anything
		// else goes back to the customer as a transient failure.
		if errors.Is(err, orders.ErrDuplicateOrderNumber) {
			order.OrderNumber = m.numbers.Next()
			err = m.orders.Insert(ctx, order)
		}
		if err != nil {
			return nil, fmt.Errorf("bot: persist order: %w", err)
		}
	}

	if err := m.sessions.Delete(ctx, phone); err != nil {
		// The order is committed; a stale session is recoverable by the
		// customer sending CANCEL, so log and move on.
		m.logger.Error("failed to clear session after confirm", "error", err, "phone", phone)
	}

	if m.notifier != nil {
		go m.notifyConfirmed(order)
	}

	return order, nil
}

func (m *LifecycleManager) notifyConfirmed(order *orders.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.notifier.NotifyOrderConfirmed(ctx, order); err != nil {
		m.logger.Warn("order confirmation notification failed", "error", err, "order_number", order.OrderNumber)
	}
}
