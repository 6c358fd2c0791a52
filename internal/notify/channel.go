package notify

import (
	"context"
	"errors"
	"log/slog"
)

var (
	ErrNoEmailAddress = errors.New("recipient has no email address")
	ErrNoPhoneNumber  = errors.New("recipient has no phone number")
)

// Sender delivers one rendered message over one channel. Implementations for
// real providers plug in here; the defaults write structured log lines so the
// pipeline is exercised end to end without provider credentials.
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, msg Message, rendered Rendered) error
}

type LogEmailSender struct {
	logger *slog.Logger
}

func NewLogEmailSender(logger *slog.Logger) *LogEmailSender {
	return &LogEmailSender{logger: logger}
}

func (s *LogEmailSender) Channel() Channel {
	return ChannelEmail
}

func (s *LogEmailSender) Send(_ context.Context, msg Message, rendered Rendered) error {
	if msg.RecipientEmail == "" {
		return ErrNoEmailAddress
	}
	s.logger.Info("email dispatched",
		"to", msg.RecipientEmail,
		"event", string(msg.Event),
		"subject", rendered.Subject,
	)
	return nil
}

type LogWhatsAppSender struct {
	logger *slog.Logger
}

func NewLogWhatsAppSender(logger *slog.Logger) *LogWhatsAppSender {
	return &LogWhatsAppSender{logger: logger}
}

func (s *LogWhatsAppSender) Channel() Channel {
	return ChannelWhatsApp
}

func (s *LogWhatsAppSender) Send(_ context.Context, msg Message, rendered Rendered) error {
	if msg.RecipientPhone == "" {
		return ErrNoPhoneNumber
	}
	s.logger.Info("whatsapp dispatched",
		"to", msg.RecipientPhone,
		"event", string(msg.Event),
		"body_len", len(rendered.Body),
	)
	return nil
}
