package notification

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"MyPlants/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidLink is returned for confirmation links with a missing, expired or forged token.
var ErrInvalidLink = errors.New("invalid confirmation link")

// Links builds the confirmation URLs embedded in reminders and checks them on the way back.
// Without a signing key links are plain and every token is accepted.
type Links struct {
	baseURL string
	key     []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewLinks(cfg *config.Config) *Links {
	return &Links{
		baseURL: cfg.APIURL,
		key:     []byte(cfg.Notify.LinkSigningKey),
		ttl:     cfg.Notify.LinkTTL,
		now:     time.Now,
	}
}

// ConfirmURL returns {base}/plants/{id}/confirm, plus ?token= when signing is on.
func (l *Links) ConfirmURL(plantID string) (string, error) {
	link := fmt.Sprintf("%s/plants/%s/confirm", l.baseURL, url.PathEscape(plantID))
	if len(l.key) == 0 {
		return link, nil
	}

	now := l.now()
	claims := jwt.RegisteredClaims{
		Subject:  plantID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if l.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(l.ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.key)
	if err != nil {
		return "", fmt.Errorf("sign confirmation link: %w", err)
	}
	return link + "?token=" + url.QueryEscape(token), nil
}

// Verify checks that token was issued for plantID and has not expired.
func (l *Links) Verify(plantID, token string) error {
	if len(l.key) == 0 {
		return nil
	}
	if token == "" {
		return ErrInvalidLink
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return l.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(l.now))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if claims.Subject != plantID {
		return fmt.Errorf("%w: issued for another plant", ErrInvalidLink)
	}
	return nil
}
