package notification

import (
	"context"
	"errors"
	"fmt"

	"MyPlants/internal/mail"
	"MyPlants/internal/settings"
)

// SettingsFinder reads tenant settings. *settings.Repository implements it.
type SettingsFinder interface {
	FindByOwner(ctx context.Context, ownerID string) (*settings.Settings, error)
}

// Decrypter reveals stored secrets. *vault.Vault implements it.
type Decrypter interface {
	Decrypt(text string) string
}

// ChannelFactory builds mail channels. *mail.Factory implements it.
type ChannelFactory interface {
	Custom(cfg mail.SMTPConfig) mail.Channel
	Default() mail.Channel
}

// Resolver picks the mail channel for a tenant on every call, so settings
// changes apply from the next cycle on.
type Resolver struct {
	settings SettingsFinder
	vault    Decrypter
	channels ChannelFactory
}

func NewResolver(settings SettingsFinder, vault Decrypter, channels ChannelFactory) *Resolver {
	return &Resolver{settings: settings, vault: vault, channels: channels}
}

// Resolve returns the tenant's own SMTP channel when it has a user and a password,
// and the default channel otherwise. Only a failed settings read is an error;
// unusable configurations fail later, at send time.
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (mail.Channel, error) {
	st, err := r.settings.FindByOwner(ctx, tenantID)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return nil, fmt.Errorf("load settings of %s: %w", tenantID, err)
	}
	if st == nil || !st.SMTP.HasCredentials() {
		return r.channels.Default(), nil
	}
	return r.channels.Custom(mail.SMTPConfig{
		Host:     st.SMTP.Host,
		Port:     st.SMTP.Port,
		Secure:   st.SMTP.Secure,
		User:     st.SMTP.User,
		Password: r.vault.Decrypt(st.SMTP.Password),
		From:     st.SMTP.FromEmail,
	}), nil
}
