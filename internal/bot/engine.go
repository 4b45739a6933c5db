package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/internal/customers"
	"github.com/wolfman30/whatsapp-order-bot/internal/observability/metrics"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
	"github.com/wolfman30/whatsapp-order-bot/internal/session"
	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// Messenger delivers replies back to the customer over the messaging channel.
// Delivery failures are logged by the engine but never undo a state
// transition that already committed.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendMenu(ctx context.Context, to string, products []catalog.Product) error
	SendOrderConfirmation(ctx context.Context, to string, details OrderConfirmation) error
}

// OrderConfirmation carries the data rendered into the confirmation message.
type OrderConfirmation struct {
	OrderNumber string
	Items       []orders.LineItem
	Total       catalog.Cents
}

// EngineConfig wires the conversation engine's collaborators.
type EngineConfig struct {
	Catalog   catalog.Repository
	Customers customers.Directory
	Orders    orders.Store
	Sessions  session.Store
	Pricing   *PricingEngine
	Lifecycle *LifecycleManager
	Messenger Messenger
	Business  BusinessInfo
	Metrics   *metrics.BotMetrics
	Logger    *logging.Logger
}

// Engine orchestrates one inbound message at a time per customer: classify,
// dispatch, mutate the session, reply.
type Engine struct {
	catalog   catalog.Repository
	customers customers.Directory
	orders    orders.Store
	sessions  session.Store
	pricing   *PricingEngine
	lifecycle *LifecycleManager
	messenger Messenger
	business  BusinessInfo
	metrics   *metrics.BotMetrics
	logger    *logging.Logger
	locks     *session.KeyedMutex
	now       func() time.Time
}

// NewEngine creates a conversation engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Catalog == nil {
		panic("bot: catalog cannot be nil")
	}
	if cfg.Customers == nil {
		panic("bot: customer directory cannot be nil")
	}
	if cfg.Orders == nil {
		panic("bot: order store cannot be nil")
	}
	if cfg.Sessions == nil {
		panic("bot: session store cannot be nil")
	}
	if cfg.Messenger == nil {
		panic("bot: messenger cannot be nil")
	}
	if cfg.Pricing == nil {
		cfg.Pricing = NewPricingEngine(cfg.Catalog)
	}
	if cfg.Lifecycle == nil {
		cfg.Lifecycle = NewLifecycleManager(cfg.Customers, cfg.Orders, cfg.Sessions, nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Engine{
		catalog:   cfg.Catalog,
		customers: cfg.Customers,
		orders:    cfg.Orders,
		sessions:  cfg.Sessions,
		pricing:   cfg.Pricing,
		lifecycle: cfg.Lifecycle,
		messenger: cfg.Messenger,
		business:  cfg.Business,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		locks:     session.NewKeyedMutex(),
		now:       time.Now,
	}
}

// HandleMessage processes one inbound message. Messages from the same phone
// number are serialized via a per-key lock; messages from different customers
// run concurrently. Any panic in a handler is caught here so a single bad
// message cannot take down a worker, and the customer still gets a reply.
func (e *Engine) HandleMessage(ctx context.Context, phone, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic while handling message", "panic", fmt.Sprint(r), "phone", phone)
			e.sendText(ctx, phone, apologyReply, "apology")
			err = fmt.Errorf("bot: panic handling message: %v", r)
		}
	}()

	intent := Classify(text)
	normalized := Normalize(text)
	e.metrics.ObserveInbound(string(intent))
	e.logger.Debug("inbound message classified", "phone", phone, "intent", intent)

	unlock := e.locks.Lock(phone)
	defer unlock()

	switch intent {
	case IntentMenu:
		return e.handleMenu(ctx, phone)
	case IntentHelp:
		e.sendText(ctx, phone, helpReply(e.business), "help")
		return nil
	case IntentTrack:
		return e.handleTrack(ctx, phone)
	case IntentOrder:
		return e.handleOrder(ctx, phone, normalized)
	case IntentConfirm:
		return e.handleConfirm(ctx, phone)
	case IntentCancel:
		return e.handleCancel(ctx, phone)
	default:
		e.sendText(ctx, phone, unknownReply, "unknown")
		return nil
	}
}

func (e *Engine) handleMenu(ctx context.Context, phone string) error {
	if _, err := e.customers.GetOrCreateByPhone(ctx, phone); err != nil {
		e.logger.Error("failed to ensure customer", "error", err, "phone", phone)
		e.sendText(ctx, phone, apologyReply, "apology")
		return fmt.Errorf("bot: ensure customer: %w", err)
	}
	products, err := e.catalog.ListActive(ctx)
	if err != nil {
		e.logger.Error("failed to load menu", "error", err, "phone", phone)
		e.sendText(ctx, phone, apologyReply, "apology")
		return fmt.Errorf("bot: load menu: %w", err)
	}
	if err := e.messenger.SendMenu(ctx, phone, products); err != nil {
		e.logger.Error("failed to deliver menu", "error", err, "phone", phone)
		e.metrics.ObserveReply("menu", "error")
		return nil
	}
	e.metrics.ObserveReply("menu", "ok")
	return nil
}

func (e *Engine) handleTrack(ctx context.Context, phone string) error {
	order, err := e.orders.GetLatestByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, orders.ErrOrderNotFound) {
			e.logger.Error("failed to look up latest order", "error", err, "phone", phone)
		}
		e.sendText(ctx, phone, noRecentOrdersReply, "track")
		return nil
	}
	e.sendText(ctx, phone, trackingReply(order), "track")
	return nil
}

// handleOrder prices the parsed requests and stores them as the customer's
// pending session, replacing any previous proposal outright.
func (e *Engine) handleOrder(ctx context.Context, phone, normalized string) error {
	requests := ParseOrder(normalized)
	if len(requests) == 0 {
		e.sendText(ctx, phone, parseFailureReply, "parse_failure")
		return nil
	}

	quote, err := e.pricing.Price(ctx, requests)
	if err != nil {
		e.logger.Error("failed to price order", "error", err, "phone", phone)
		e.sendText(ctx, phone, transientErrorReply, "error")
		return err
	}

	sess := session.Session{
		Items:     quote.Items,
		Total:     quote.Total,
		CreatedAt: e.now().UTC(),
	}
	if err := e.sessions.Set(ctx, phone, sess); err != nil {
		e.logger.Error("failed to store session", "error", err, "phone", phone)
		e.sendText(ctx, phone, transientErrorReply, "error")
		return fmt.Errorf("bot: store session: %w", err)
	}

	e.sendText(ctx, phone, orderSummaryReply(quote.Items, quote.Total), "order_summary")
	return nil
}

func (e *Engine) handleConfirm(ctx context.Context, phone string) error {
	sess, ok, err := e.sessions.Get(ctx, phone)
	if err != nil {
		e.logger.Error("failed to read session", "error", err, "phone", phone)
		e.sendText(ctx, phone, transientErrorReply, "error")
		return fmt.Errorf("bot: read session: %w", err)
	}
	if !ok {
		e.sendText(ctx, phone, noPendingOrderReply, "no_pending_order")
		return nil
	}

	order, err := e.lifecycle.Confirm(ctx, phone, sess)
	if err != nil {
		// Session intentionally preserved: the customer retries by
		// sending CONFIRM again.
		e.logger.Error("failed to confirm order", "error", err, "phone", phone)
		e.sendText(ctx, phone, transientErrorReply, "error")
		return err
	}
	e.metrics.ObserveOrderConfirmed()

	details := OrderConfirmation{
		OrderNumber: order.OrderNumber,
		Items:       order.Items,
		Total:       order.Total,
	}
	if err := e.messenger.SendOrderConfirmation(ctx, phone, details); err != nil {
		e.logger.Error("failed to deliver order confirmation", "error", err, "phone", phone, "order_number", order.OrderNumber)
		e.metrics.ObserveReply("order_confirmation", "error")
		return nil
	}
	e.metrics.ObserveReply("order_confirmation", "ok")
	return nil
}

// handleCancel clears any pending session. Cancelling with no session is a
// no-op that still gets the acknowledgment, so a double CANCEL is harmless.
func (e *Engine) handleCancel(ctx context.Context, phone string) error {
	if err := e.sessions.Delete(ctx, phone); err != nil {
		e.logger.Error("failed to delete session", "error", err, "phone", phone)
		e.sendText(ctx, phone, transientErrorReply, "error")
		return fmt.Errorf("bot: delete session: %w", err)
	}
	e.sendText(ctx, phone, cancelledReply, "cancelled")
	return nil
}

func (e *Engine) sendText(ctx context.Context, phone, body, kind string) {
	if err := e.messenger.SendText(ctx, phone, body); err != nil {
		e.logger.Error("failed to deliver reply", "error", err, "phone", phone, "kind", kind)
		e.metrics.ObserveReply(kind, "error")
		return
	}
	e.metrics.ObserveReply(kind, "ok")
}
