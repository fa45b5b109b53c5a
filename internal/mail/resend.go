package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendChannel sends through the Resend HTTP API.
type ResendChannel struct {
	client *resend.Client
	apiKey string
	from   string
}

func NewResendChannel(apiKey, from string) *ResendChannel {
	return &ResendChannel{client: resend.NewClient(apiKey), apiKey: apiKey, from: from}
}

func (c *ResendChannel) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send to %s: %w", msg.To, err)
	}
	return nil
}
