package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Message delivery states.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusMailto  = "mailto" // handed to the visitor's own mail client
)

var ErrNotFound = errors.New("not found")

// Message is a contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveMessage inserts m. ID must be set.
func (s *Store) SaveMessage(ctx context.Context, m Message) error {
	if m.Status == "" {
		m.Status = StatusPending
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, body, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Email, m.Body, m.Status, m.Error, m.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("error saving message: %w", err)
	}
	return nil
}

// UpdateMessageStatus records the outcome of a delivery attempt.
func (s *Store) UpdateMessageStatus(ctx context.Context, id, status, errMsg string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE messages SET status = ?, error = ? WHERE id = ?`, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("error updating message %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetMessage loads one message by ID.
func (s *Store) GetMessage(ctx context.Context, id string) (Message, error) {
	var m Message
	err := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), body, status, COALESCE(error, ''), created_at
		FROM messages WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.Status, &m.Error, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Message{}, fmt.Errorf("error loading message %s: %w", id, err)
	}
	return m, nil
}

// RecentMessages returns the newest messages first.
func (s *Store) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), body, status, COALESCE(error, ''), created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.Status, &m.Error, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
