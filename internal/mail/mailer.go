package mail

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Attachment is one file delivered with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is an outbound mail.
type Message struct {
	From        string
	To          string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Mailer is the delivery contract. Actual transport lives outside this
// core; finalized documents are handed over through this interface.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer logs instead of sending. Default when no transport is
// configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("mail delivery skipped (no transport configured)")
	return nil
}
