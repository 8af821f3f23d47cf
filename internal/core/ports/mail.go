package ports

import "context"

// MailMessage is a plain-text email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// MailSender delivers a message synchronously.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailQueue accepts messages for background delivery. Enqueue never blocks
// and never reports delivery failures to the caller.
type MailQueue interface {
	Enqueue(msg MailMessage)
}

// MailThrottle limits how often a confirmation mail is re-issued for key.
// Allow reports true when a mail may be sent now.
type MailThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}
