/*
Package store persists chat messages and user records in PostgreSQL.

The message log is append-only and time-ordered; the user store is keyed by
unique email. Content validation happens in the chat coordinator before any
write reaches this package — the store only fails on storage errors.
*/
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message type discriminators and the reserved system sender tag.
const (
	TypeMessage = "message"
	TypeSystem  = "system"

	SystemSender = "System"
)

// Message is a persisted chat or system message. Immutable once written;
// ordering is by creation time with the store-assigned id breaking ties.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"timestamp"`
}

// MessageStore is the durable, append-only log of chat and system messages.
type MessageStore struct {
	pool *pgxpool.Pool
}

// NewMessageStore returns a MessageStore backed by the given pool.
func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// Append persists a message and returns it with the store-assigned id and
// timestamp. It fails only when the backing store is unreachable.
func (s *MessageStore) Append(ctx context.Context, text, sender, msgType string) (Message, error) {
	msg := Message{
		Text:   text,
		Sender: sender,
		Type:   msgType,
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (text, sender, type)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		text, sender, msgType,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}

	return msg, nil
}

// Recent returns the last limit messages in chronological order.
func (s *MessageStore) Recent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, text, sender, type, created_at
		 FROM messages
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Message, error) {
		var m Message
		err := row.Scan(&m.ID, &m.Text, &m.Sender, &m.Type, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan recent messages: %w", err)
	}

	// The query returns newest-first; clients render oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
