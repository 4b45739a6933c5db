package bot

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/wolfman30/whatsapp-order-bot/pkg/logging"
)

// Processor handles one inbound message end to end.
type Processor interface {
	HandleMessage(ctx context.Context, phone, text string) error
}

// ProcessedMarker marks an inbound message record as processed once the
// engine has handled it. Optional.
type ProcessedMarker interface {
	MarkProcessed(ctx context.Context, phone, content string) error
}

const (
	defaultWorkerCount = 2
	defaultWaitSeconds = 2
	defaultBatchSize   = 5
	maxWaitSeconds     = 20
)

// Worker consumes inbound-message jobs from the queue and invokes the engine.
// Each job runs as its own task; ordering guarantees come from the engine's
// per-customer lock, not from the queue.
type Worker struct {
	processor Processor
	queue     queueClient
	processed ProcessedMarker
	logger    *logging.Logger

	workers         int
	receiveWaitSecs int
	receiveBatch    int
	wg              sync.WaitGroup
}

// WorkerOption customizes worker behavior.
type WorkerOption func(*Worker)

// WithWorkerCount sets the number of concurrent consumers.
func WithWorkerCount(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithProcessedMarker records processed state for inbound message rows.
func WithProcessedMarker(m ProcessedMarker) WorkerOption {
	return func(w *Worker) {
		w.processed = m
	}
}

// NewWorker creates a queue consumer around the processor.
func NewWorker(processor Processor, queue queueClient, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if processor == nil {
		panic("bot: processor cannot be nil")
	}
	if queue == nil {
		panic("bot: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	w := &Worker{
		processor:       processor,
		queue:           queue,
		logger:          logger,
		workers:         defaultWorkerCount,
		receiveWaitSecs: defaultWaitSeconds,
		receiveBatch:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.receiveWaitSecs > maxWaitSeconds {
		w.receiveWaitSecs = maxWaitSeconds
	}
	return w
}

// Start launches the consumer goroutines. They exit when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.run(ctx, id)
		}(i)
	}
}

// Wait blocks until all consumers have exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, id int) {
	logger := w.logger.With("worker", id)
	logger.Info("bot worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("bot worker stopping")
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.receiveBatch, w.receiveWaitSecs)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("bot worker stopping")
				return
			}
			logger.Error("failed to receive jobs", "error", err)
			continue
		}

		for _, msg := range messages {
			w.handle(ctx, logger, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, logger *logging.Logger, msg queueMessage) {
	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		logger.Error("failed to decode job payload", "error", err, "message_id", msg.ID)
		// Poison message: delete rather than redeliver forever.
		if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
			logger.Error("failed to delete poison message", "error", err, "message_id", msg.ID)
		}
		return
	}

	inbound := payload.Inbound
	if err := w.processor.HandleMessage(ctx, inbound.Phone, inbound.Text); err != nil {
		logger.Error("message handling failed", "error", err, "job_id", payload.ID, "phone", inbound.Phone)
	}

	if w.processed != nil {
		if err := w.processed.MarkProcessed(ctx, inbound.Phone, inbound.Text); err != nil {
			logger.Warn("failed to mark message processed", "error", err, "job_id", payload.ID)
		}
	}

	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		logger.Error("failed to delete job message", "error", err, "job_id", payload.ID)
	}
}
