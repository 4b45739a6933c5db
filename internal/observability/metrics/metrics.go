package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the conversation flow.
type BotMetrics struct {
	inboundTotal    *prometheus.CounterVec
	repliesTotal    *prometheus.CounterVec
	ordersConfirmed prometheus.Counter
	webhookLatency  prometheus.Histogram
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: "bot",
			Name:      "inbound_messages_total",
			Help:      "Total inbound messages by classified intent",
		}, []string{"intent"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: "bot",
			Name:      "replies_total",
			Help:      "Total outbound replies by kind and delivery status",
		}, []string{"kind", "status"}),
		ordersConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: "bot",
			Name:      "orders_confirmed_total",
			Help:      "Total orders persisted through the confirm flow",
		}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orderbot",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of inbound webhook processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.repliesTotal, m.ordersConfirmed, m.webhookLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(intent string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(intent).Inc()
}

func (m *BotMetrics) ObserveReply(kind, status string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(kind, status).Inc()
}

func (m *BotMetrics) ObserveOrderConfirmed() {
	if m == nil {
		return
	}
	m.ordersConfirmed.Inc()
}

func (m *BotMetrics) ObserveWebhookLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}
