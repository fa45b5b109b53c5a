package notification

import (
	"context"
	"errors"
	"testing"

	"MyPlants/internal/mail"
	"MyPlants/internal/settings"
	"MyPlants/internal/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, st settingsMap) (*Resolver, *fakeFactory, *vault.Vault) {
	t.Helper()
	v, err := vault.New("test-secret")
	require.NoError(t, err)
	f := &fakeFactory{def: &fakeChannel{}, customCh: &fakeChannel{}}
	return NewResolver(st, v, f), f, v
}

func TestResolveCustomChannel(t *testing.T) {
	st := settingsMap{byOwner: map[string]*settings.Settings{}}
	r, f, v := newTestResolver(t, st)

	sealed, err := v.Encrypt("hunter2")
	require.NoError(t, err)
	st.byOwner["user-1"] = &settings.Settings{
		OwnerID: "user-1",
		SMTP: &settings.SMTP{
			Host:      "smtp.example.com",
			Port:      465,
			Secure:    true,
			User:      "me@example.com",
			Password:  sealed,
			FromEmail: "garden@example.com",
		},
	}

	ch, err := r.Resolve(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Same(t, f.customCh, ch)
	require.Len(t, f.custom, 1)
	assert.Equal(t, mail.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     465,
		Secure:   true,
		User:     "me@example.com",
		Password: "hunter2",
		From:     "garden@example.com",
	}, f.custom[0])
}

func TestResolveFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		st   *settings.Settings
	}{
		{name: "no settings"},
		{name: "no smtp", st: &settings.Settings{OwnerID: "user-1"}},
		{name: "user without password", st: &settings.Settings{OwnerID: "user-1", SMTP: &settings.SMTP{Host: "smtp.example.com", User: "me@example.com"}}},
		{name: "password without user", st: &settings.Settings{OwnerID: "user-1", SMTP: &settings.SMTP{Host: "smtp.example.com", Password: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := settingsMap{byOwner: map[string]*settings.Settings{}}
			if tt.st != nil {
				st.byOwner["user-1"] = tt.st
			}
			r, f, _ := newTestResolver(t, st)

			ch, err := r.Resolve(context.Background(), "user-1")
			require.NoError(t, err)
			assert.Same(t, f.def, ch)
			assert.Empty(t, f.custom)
		})
	}
}

func TestResolveStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	r, _, _ := newTestResolver(t, settingsMap{err: boom})

	_, err := r.Resolve(context.Background(), "user-1")
	require.ErrorIs(t, err, boom)
}
