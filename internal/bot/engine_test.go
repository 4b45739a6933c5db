package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/internal/customers"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
	"github.com/wolfman30/whatsapp-order-bot/internal/session"
)

type sentText struct {
	to   string
	body string
}

type recordingMessenger struct {
	mu            sync.Mutex
	texts         []sentText
	menus         int
	confirmations []OrderConfirmation
	textErr       error
}

func (m *recordingMessenger) SendText(ctx context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.textErr != nil {
		return m.textErr
	}
	m.texts = append(m.texts, sentText{to: to, body: body})
	return nil
}

func (m *recordingMessenger) SendMenu(ctx context.Context, to string, products []catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menus++
	return nil
}

func (m *recordingMessenger) SendOrderConfirmation(ctx context.Context, to string, details OrderConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, details)
	return nil
}

func (m *recordingMessenger) lastText(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		t.Fatal("no text messages sent")
	}
	return m.texts[len(m.texts)-1].body
}

type testHarness struct {
	engine    *Engine
	messenger *recordingMessenger
	directory *customers.MemoryDirectory
	orders    orders.Store
	sessions  session.Store
}

func newTestHarness(t *testing.T, opts func(*EngineConfig)) *testHarness {
	t.Helper()

	h := &testHarness{
		messenger: &recordingMessenger{},
		directory: customers.NewMemoryDirectory(),
		orders:    orders.NewMemoryStore(),
		sessions:  session.NewMemoryStore(),
	}
	cfg := EngineConfig{
		Catalog:   catalog.NewSeededMemoryRepository(),
		Customers: h.directory,
		Orders:    h.orders,
		Sessions:  h.sessions,
		Messenger: h.messenger,
		Business:  BusinessInfo{Name: "Test Store", Phone: "+15550001111", Email: "shop@example.com"},
	}
	if opts != nil {
		opts(&cfg)
	}
	h.orders = cfg.Orders
	h.sessions = cfg.Sessions
	h.engine = NewEngine(cfg)
	return h
}

const testPhone = "+15557654321"

func TestFullOrderFlow(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := context.Background()

	if err := h.engine.HandleMessage(ctx, testPhone, "menu"); err != nil {
		t.Fatalf("menu: %v", err)
	}
	if h.messenger.menus != 1 {
		t.Fatalf("expected 1 menu delivery, got %d", h.messenger.menus)
	}
	if _, err := h.directory.GetByPhone(ctx, testPhone); err != nil {
		t.Fatalf("menu must register the customer: %v", err)
	}

	if err := h.engine.HandleMessage(ctx, testPhone, "1x2, 3x1"); err != nil {
		t.Fatalf("order: %v", err)
	}
	summary := h.messenger.lastText(t)
	if !strings.Contains(summary, "Order Summary") {
		t.Errorf("summary missing header: %q", summary)
	}
	if !strings.Contains(summary, "$33.97") {
		t.Errorf("summary missing total: %q", summary)
	}
	if !strings.Contains(summary, "Pizza Margherita x2") {
		t.Errorf("summary missing pizza line: %q", summary)
	}
	sess, ok, err := h.sessions.Get(ctx, testPhone)
	if err != nil || !ok {
		t.Fatalf("expected pending session, ok=%v err=%v", ok, err)
	}
	if sess.Total != 3397 {
		t.Fatalf("session total = %d, want 3397", sess.Total)
	}

	if err := h.engine.HandleMessage(ctx, testPhone, "confirm"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(h.messenger.confirmations) != 1 {
		t.Fatalf("expected 1 confirmation, got %d", len(h.messenger.confirmations))
	}
	details := h.messenger.confirmations[0]
	if !strings.HasPrefix(details.OrderNumber, "ORD-") {
		t.Errorf("order number = %q, want ORD- prefix", details.OrderNumber)
	}
	if details.Total != 3397 {
		t.Errorf("confirmed total = %d, want 3397", details.Total)
	}
	if _, ok, _ := h.sessions.Get(ctx, testPhone); ok {
		t.Error("session must be cleared after confirm")
	}

	order, err := h.orders.GetLatestByPhone(ctx, testPhone)
	if err != nil {
		t.Fatalf("latest order: %v", err)
	}
	if order.Status != orders.StatusConfirmed {
		t.Errorf("order status = %q, want confirmed", order.Status)
	}

	if err := h.engine.HandleMessage(ctx, testPhone, "track"); err != nil {
		t.Fatalf("track: %v", err)
	}
	tracking := h.messenger.lastText(t)
	if !strings.Contains(tracking, order.OrderNumber) {
		t.Errorf("tracking reply missing order number: %q", tracking)
	}
	if !strings.Contains(tracking, "CONFIRMED") {
		t.Errorf("tracking reply missing status: %q", tracking)
	}
}

func TestConfirmWithoutSession(t *testing.T) {
	h := newTestHarness(t, nil)

	if err := h.engine.HandleMessage(context.Background(), testPhone, "confirm"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := h.messenger.lastText(t); got != noPendingOrderReply {
		t.Errorf("reply = %q, want %q", got, noPendingOrderReply)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := context.Background()

	if err := h.engine.HandleMessage(ctx, testPhone, "1x1"); err != nil {
		t.Fatalf("order: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := h.engine.HandleMessage(ctx, testPhone, "cancel"); err != nil {
			t.Fatalf("cancel %d: %v", i, err)
		}
		if got := h.messenger.lastText(t); got != cancelledReply {
			t.Errorf("cancel %d reply = %q, want %q", i, got, cancelledReply)
		}
	}
	if _, ok, _ := h.sessions.Get(ctx, testPhone); ok {
		t.Error("session must be gone after cancel")
	}
}

func TestNewOrderReplacesSession(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := context.Background()

	if err := h.engine.HandleMessage(ctx, testPhone, "1x1"); err != nil {
		t.Fatalf("first order: %v", err)
	}
	if err := h.engine.HandleMessage(ctx, testPhone, "3x1"); err != nil {
		t.Fatalf("second order: %v", err)
	}

	sess, ok, err := h.sessions.Get(ctx, testPhone)
	if err != nil || !ok {
		t.Fatalf("expected session, ok=%v err=%v", ok, err)
	}
	if len(sess.Items) != 1 || sess.Items[0].Name != "Caesar Salad" {
		t.Fatalf("session must hold only the second order, got %+v", sess.Items)
	}
	if sess.Total != 799 {
		t.Errorf("session total = %d, want 799", sess.Total)
	}
}

func TestUnparseableOrder(t *testing.T) {
	h := newTestHarness(t, nil)

	// "1, 2" hits the loose order pattern but yields no items.
	if err := h.engine.HandleMessage(context.Background(), testPhone, "1, 2"); err != nil {
		t.Fatalf("order: %v", err)
	}
	if got := h.messenger.lastText(t); got != parseFailureReply {
		t.Errorf("reply = %q, want parse failure copy", got)
	}
	if _, ok, _ := h.sessions.Get(context.Background(), testPhone); ok {
		t.Error("parse failure must not create a session")
	}
}

func TestUnknownProductStillCreatesSession(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := context.Background()

	// "9x1" parses but resolves to nothing; the proposal is empty but real.
	if err := h.engine.HandleMessage(ctx, testPhone, "9x1"); err != nil {
		t.Fatalf("order: %v", err)
	}
	summary := h.messenger.lastText(t)
	if !strings.Contains(summary, "$0.00") {
		t.Errorf("summary should show a zero total: %q", summary)
	}
	sess, ok, err := h.sessions.Get(ctx, testPhone)
	if err != nil || !ok {
		t.Fatalf("expected session, ok=%v err=%v", ok, err)
	}
	if len(sess.Items) != 0 || sess.Total != 0 {
		t.Errorf("session should be empty, got %+v", sess)
	}
}

func TestUnknownIntentReply(t *testing.T) {
	h := newTestHarness(t, nil)

	if err := h.engine.HandleMessage(context.Background(), testPhone, "good morning"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := h.messenger.lastText(t); got != unknownReply {
		t.Errorf("reply = %q, want the options copy", got)
	}
}

func TestHelpReplyIncludesContact(t *testing.T) {
	h := newTestHarness(t, nil)

	if err := h.engine.HandleMessage(context.Background(), testPhone, "help"); err != nil {
		t.Fatalf("help: %v", err)
	}
	got := h.messenger.lastText(t)
	if !strings.Contains(got, "+15550001111") || !strings.Contains(got, "shop@example.com") {
		t.Errorf("help reply missing business contact: %q", got)
	}
}

func TestTrackWithoutOrders(t *testing.T) {
	h := newTestHarness(t, nil)

	if err := h.engine.HandleMessage(context.Background(), testPhone, "track"); err != nil {
		t.Fatalf("track: %v", err)
	}
	if got := h.messenger.lastText(t); got != noRecentOrdersReply {
		t.Errorf("reply = %q, want %q", got, noRecentOrdersReply)
	}
}

type failingOrderStore struct {
	orders.Store
}

func (failingOrderStore) Insert(ctx context.Context, o *orders.Order) error {
	return errors.New("db down")
}

func TestConfirmFailurePreservesSession(t *testing.T) {
	h := newTestHarness(t, func(cfg *EngineConfig) {
		cfg.Orders = failingOrderStore{Store: orders.NewMemoryStore()}
	})
	ctx := context.Background()

	if err := h.engine.HandleMessage(ctx, testPhone, "1x2, 3x1"); err != nil {
		t.Fatalf("order: %v", err)
	}
	if err := h.engine.HandleMessage(ctx, testPhone, "confirm"); err == nil {
		t.Fatal("expected confirm to fail")
	}
	if got := h.messenger.lastText(t); got != transientErrorReply {
		t.Errorf("reply = %q, want transient error copy", got)
	}

	// The customer retries by sending CONFIRM again, so the proposal stays.
	sess, ok, err := h.sessions.Get(ctx, testPhone)
	if err != nil || !ok {
		t.Fatalf("session must survive the failed confirm, ok=%v err=%v", ok, err)
	}
	if sess.Total != 3397 {
		t.Errorf("session total = %d, want 3397", sess.Total)
	}
}

type panickingSessionStore struct {
	session.Store
}

func (panickingSessionStore) Get(ctx context.Context, phone string) (session.Session, bool, error) {
	panic("boom")
}

func TestPanicRecovery(t *testing.T) {
	h := newTestHarness(t, func(cfg *EngineConfig) {
		cfg.Sessions = panickingSessionStore{Store: session.NewMemoryStore()}
	})

	err := h.engine.HandleMessage(context.Background(), testPhone, "confirm")
	if err == nil {
		t.Fatal("expected an error from the recovered panic")
	}
	if got := h.messenger.lastText(t); got != apologyReply {
		t.Errorf("reply = %q, want apology copy", got)
	}
}

func TestConcurrentMessagesSamePhone(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.engine.HandleMessage(ctx, testPhone, "1x2, 3x1")
			_ = h.engine.HandleMessage(ctx, testPhone, "confirm")
		}()
	}
	wg.Wait()

	list, err := h.orders.List(ctx)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	for _, o := range list {
		if o.Total != 3397 {
			t.Errorf("order %s total = %d, want 3397: interleaved session writes", o.OrderNumber, o.Total)
		}
	}
}
