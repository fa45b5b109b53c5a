// Package mail delivers notification emails over SMTP or the Resend API.
package mail

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned at send time by a channel that has no credentials.
var ErrNotConfigured = errors.New("mail channel not configured")

// Message is one outbound HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Channel delivers messages. Implementations are not required to be safe for
// concurrent use; callers send sequentially on one channel.
type Channel interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig is everything needed to reach an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS (usually port 465)
	User     string
	Password string
	From     string
}
