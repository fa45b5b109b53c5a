package mail

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPChannel sends through an SMTP relay, dialing once per message.
type SMTPChannel struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPChannel does not contact the server; bad hosts or credentials surface on Send.
func NewSMTPChannel(cfg SMTPConfig) *SMTPChannel {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Secure
	return &SMTPChannel{cfg: cfg, dialer: d}
}

// From is the sender address, falling back to the account itself.
func (c *SMTPChannel) From() string {
	if c.cfg.From != "" {
		return c.cfg.From
	}
	return c.cfg.User
}

// Send delivers msg. gomail has no dial timeout, so the context bounds the wait;
// an abandoned dial finishes in the background.
func (c *SMTPChannel) Send(ctx context.Context, msg Message) error {
	if c.cfg.Host == "" || c.cfg.User == "" || c.cfg.Password == "" {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.From())
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), c.cfg.Host))
	m.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- c.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s via %s:%d: %w", msg.To, c.cfg.Host, c.cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", msg.To, ctx.Err())
	}
}
