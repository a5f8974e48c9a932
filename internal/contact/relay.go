package contact

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Message is what a relay delivers.
type Message struct {
	ID     string
	FormID string
	Fields Fields
	SentAt time.Time
}

// Relay delivers a contact message to the site owner. Implementations talk
// to third-party services and are treated as opaque.
type Relay interface {
	Send(ctx context.Context, msg Message) error
}

// RelayFunc adapts a function to Relay.
type RelayFunc func(ctx context.Context, msg Message) error

func (f RelayFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// LogRelay only logs messages. Used in development when no relay is
// configured.
type LogRelay struct {
	Logger *zap.Logger
}

func (r LogRelay) Send(_ context.Context, msg Message) error {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("contact message (log relay)",
		zap.String("id", msg.ID),
		zap.String("name", msg.Fields.Name),
		zap.String("email", msg.Fields.Email),
		zap.String("subject", msg.Fields.Subject),
		zap.Int("message_len", len(msg.Fields.Message)),
	)
	return nil
}
