package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Message directions and the subset of types the bot understands.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// MessageRecord is one row of the message log.
type MessageRecord struct {
	ID          int64
	Phone       string
	MessageType string
	Content     string
	Direction   string
	Processed   bool
	CreatedAt   time.Time
}

// PgxPool is the subset of pgxpool.Pool used by the store.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store keeps an audit log of inbound and outbound messages in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a message log store. Returns nil for a nil pool so the
// webhook handler can run without a database in development.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

// InsertMessage appends a message to the log.
func (s *Store) InsertMessage(ctx context.Context, rec MessageRecord) error {
	query := `
		INSERT INTO messages (phone_number, message_type, content, direction, processed)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query, rec.Phone, rec.MessageType, rec.Content, rec.Direction, rec.Processed)
	if err != nil {
		return fmt.Errorf("messaging: insert message: %w", err)
	}
	return nil
}

// MarkProcessed flags the matching unprocessed inbound rows as handled.
func (s *Store) MarkProcessed(ctx context.Context, phone, content string) error {
	query := `
		UPDATE messages
		SET processed = TRUE
		WHERE phone_number = $1 AND content = $2 AND processed = FALSE
	`
	if _, err := s.pool.Exec(ctx, query, phone, content); err != nil {
		return fmt.Errorf("messaging: mark processed: %w", err)
	}
	return nil
}

// ListRecentByPhone returns the newest messages for a phone number.
func (s *Store) ListRecentByPhone(ctx context.Context, phone string, limit int) ([]MessageRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, phone_number, message_type, content, direction, processed, created_at
		FROM messages
		WHERE phone_number = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("messaging: list messages: %w", err)
	}
	defer rows.Close()

	var out []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Phone,
			&rec.MessageType,
			&rec.Content,
			&rec.Direction,
			&rec.Processed,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("messaging: scan message: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("messaging: iterate messages: %w", err)
	}
	return out, nil
}
