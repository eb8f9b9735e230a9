// Package mail delivers the one-time codes. SMTPMailer talks to a real relay;
// LogMailer only records that a message would have been sent.
package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends plain-text mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds the relay client. No connection is opened until the
// first Send.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. The body is
// included only when showBody is set, which local development relies on to
// read the one-time code.
type LogMailer struct {
	log      zerolog.Logger
	showBody bool
}

func NewLogMailer(log zerolog.Logger, showBody bool) *LogMailer {
	return &LogMailer{log: log, showBody: showBody}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	ev := m.log.Info().Str("to", to).Str("subject", subject)
	if m.showBody {
		ev = ev.Str("body", body)
	}
	ev.Msg("mail not sent (log driver)")
	return nil
}
