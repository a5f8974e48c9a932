package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Message delivery outcomes.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Message is a stored contact form submission.
type Message struct {
	ID        string    `json:"id"`
	FormID    string    `json:"form_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveMessage stores a submission attempt.
func (d *DB) SaveMessage(ctx context.Context, m Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := d.ExecContext(ctx, `
		INSERT INTO messages (id, form_id, name, email, subject, body, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.FormID, m.Name, m.Email, m.Subject, m.Body, m.Status, m.Error, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// GetMessage returns one message by id.
func (d *DB) GetMessage(ctx context.Context, id string) (Message, error) {
	row := d.QueryRowContext(ctx, `
		SELECT id, form_id, name, email, subject, body, status, error, created_at
		FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return m, err
}

// RecentMessages returns the newest messages first.
func (d *DB) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, form_id, name, email, subject, body, status, error, created_at
		FROM messages
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMessage removes a message.
func (d *DB) DeleteMessage(ctx context.Context, id string) error {
	res, err := d.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (Message, error) {
	var m Message
	var ts string
	if err := s.Scan(&m.ID, &m.FormID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &m.Error, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("scanning message: %w", err)
	}
	m.CreatedAt = parseTime(ts)
	return m, nil
}
