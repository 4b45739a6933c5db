package bot

import (
	"context"
	"fmt"

	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// Publisher enqueues inbound messages for asynchronous processing.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("bot: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// EnqueueInbound publishes a handle-inbound-message job.
func (p *Publisher) EnqueueInbound(ctx context.Context, jobID string, msg InboundMessage) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, body, err := encodePayload(jobID, msg)
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("bot: failed to enqueue job: %w", err)
	}

	p.logger.Debug("inbound message job enqueued", "job_id", payload.ID, "phone", msg.Phone)
	return nil
}
