package mail

import (
	"context"
	"fmt"

	"portfolio_backend/internal/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends the password-reset email. Kept as an interface so the worker
// can be tested without an SMTP server.
type Mailer interface {
	SendResetEmail(ctx context.Context, to, resetLink string) error
}

const resetBodyHTML = `<p>You requested a password reset.</p>
<p>Click the link below to reset your password:</p>
<a href="%s">%s</a>
<p>This link will expire in 1 hour.</p>`

type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.SMTPHost,
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.SMTPUsername),
		gomail.WithPassword(cfg.SMTPPassword),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("mail.NewSMTPMailer: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.MailFrom}, nil
}

func (m *SMTPMailer) SendResetEmail(ctx context.Context, to, resetLink string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail: invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: invalid recipient address: %w", err)
	}
	msg.Subject("Password Reset Request")
	msg.SetBodyString(gomail.TypeTextHTML, fmt.Sprintf(resetBodyHTML, resetLink, resetLink))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}
	return nil
}
