package mail

import (
	"MyPlants/internal/config"
)

const ProviderResend = "resend"

// Factory builds channels: tenant SMTP channels on demand and the process-wide default.
type Factory struct {
	def Channel
}

// NewFactory selects the default channel from MAIL_PROVIDER. Missing credentials
// are not an error here; the channel reports ErrNotConfigured when used.
func NewFactory(cfg *config.Config) *Factory {
	m := cfg.Mail
	var def Channel
	if m.Provider == ProviderResend {
		def = NewResendChannel(m.ResendAPIKey, m.From)
	} else {
		def = NewSMTPChannel(SMTPConfig{
			Host:     m.Host,
			Port:     m.Port,
			Secure:   m.Secure,
			User:     m.User,
			Password: m.Password,
			From:     m.From,
		})
	}
	return &Factory{def: def}
}

// Custom returns a channel for a tenant's own SMTP account.
func (f *Factory) Custom(cfg SMTPConfig) Channel {
	return NewSMTPChannel(cfg)
}

// Default returns the process-wide channel.
func (f *Factory) Default() Channel {
	return f.def
}
