package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/ports"
)

// LogSender writes each message to the log instead of delivering it. It is
// used when no SMTP host is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg ports.MailMessage) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail (log sender)")
	return nil
}

var _ ports.MailSender = (*LogSender)(nil)
