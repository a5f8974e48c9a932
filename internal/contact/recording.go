package contact

import (
	"context"

	"github.com/Zachkp/portfolio/internal/store"
	"go.uber.org/zap"
)

// MessageSaver persists submission attempts.
type MessageSaver interface {
	SaveMessage(ctx context.Context, m store.Message) error
}

// RecordingRelay forwards to Next and stores every attempt with its
// outcome. A storage failure is logged and never masks the delivery result.
type RecordingRelay struct {
	Next   Relay
	Saver  MessageSaver
	Logger *zap.Logger
}

func (r *RecordingRelay) Send(ctx context.Context, msg Message) error {
	sendErr := r.Next.Send(ctx, msg)

	rec := store.Message{
		ID:        msg.ID,
		FormID:    msg.FormID,
		Name:      msg.Fields.Name,
		Email:     msg.Fields.Email,
		Subject:   msg.Fields.Subject,
		Body:      msg.Fields.Message,
		Status:    store.StatusSent,
		CreatedAt: msg.SentAt,
	}
	if sendErr != nil {
		rec.Status = store.StatusFailed
		rec.Error = sendErr.Error()
	}
	if err := r.Saver.SaveMessage(context.WithoutCancel(ctx), rec); err != nil && r.Logger != nil {
		r.Logger.Warn("recording contact message", zap.String("id", msg.ID), zap.Error(err))
	}
	return sendErr
}
