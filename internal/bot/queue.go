package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// queueClient abstracts the job transport so the worker can run against SQS
// in production and an in-memory channel in development and tests.
type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// InboundMessage is one message received from the channel webhook.
type InboundMessage struct {
	Phone       string    `json:"phone"`
	Text        string    `json:"text"`
	MessageType string    `json:"message_type"`
	ReceivedAt  time.Time `json:"received_at"`
}

type queuePayload struct {
	ID      string         `json:"id"`
	Inbound InboundMessage `json:"inbound"`
}

func encodePayload(jobID string, msg InboundMessage) (queuePayload, string, error) {
	payload := queuePayload{ID: jobID, Inbound: msg}
	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return queuePayload{}, "", fmt.Errorf("bot: failed to encode payload: %w", err)
	}
	return payload, string(body), nil
}
