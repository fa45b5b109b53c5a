package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"MyPlants/internal/plant"

	"go.uber.org/zap"
)

// ErrInvalidSlug is returned for slugs with characters other than a-z, 0-9 and '-'.
var ErrInvalidSlug = errors.New("slug may only contain lowercase letters, numbers and hyphens")

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Store is the persistence the settings service needs. *Repository implements it.
type Store interface {
	FindByOwner(ctx context.Context, ownerID string) (*Settings, error)
	FindPublicBySlug(ctx context.Context, slug string) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) (*Settings, error)
}

// Encrypter protects secrets before they are persisted.
type Encrypter interface {
	Encrypt(text string) (string, error)
}

// PlantLister lists a tenant's plants for the public profile.
type PlantLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*plant.Plant, error)
}

// Service manages tenant settings and public profiles.
type Service struct {
	store  Store
	vault  Encrypter
	plants PlantLister
	log    *zap.Logger
}

func NewService(store Store, vault Encrypter, plants PlantLister, log *zap.Logger) *Service {
	return &Service{store: store, vault: vault, plants: plants, log: log.Named("settings")}
}

// UpdateRequest is the body of a settings write. Secrets arrive in plaintext;
// leaving a secret empty keeps the stored one.
type UpdateRequest struct {
	ModelAPIKey string       `json:"model_api_key"`
	SMTP        *SMTPRequest `json:"smtp"`
	Slug        string       `json:"slug"`
	IsPublic    bool         `json:"is_public"`
	DisplayName string       `json:"display_name" validate:"max=80"`
}

type SMTPRequest struct {
	Host      string `json:"host"`
	Port      int    `json:"port" validate:"omitempty,min=1,max=65535"`
	Secure    bool   `json:"secure"`
	User      string `json:"user"`
	Password  string `json:"password"`
	FromEmail string `json:"from_email" validate:"omitempty,email"`
}

// Get returns the owner's settings; a tenant without settings gets an empty document.
func (s *Service) Get(ctx context.Context, ownerID string) (*Settings, error) {
	st, err := s.store.FindByOwner(ctx, ownerID)
	if errors.Is(err, ErrNotFound) {
		return &Settings{OwnerID: ownerID}, nil
	}
	return st, err
}

// Update upserts the owner's settings, encrypting secrets first.
func (s *Service) Update(ctx context.Context, ownerID string, req UpdateRequest) (*Settings, error) {
	if req.Slug != "" && !slugPattern.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}

	current, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	next := &Settings{
		OwnerID:     ownerID,
		ModelAPIKey: current.ModelAPIKey,
		Slug:        req.Slug,
		IsPublic:    req.IsPublic,
		DisplayName: req.DisplayName,
	}
	if req.ModelAPIKey != "" {
		if next.ModelAPIKey, err = s.vault.Encrypt(req.ModelAPIKey); err != nil {
			return nil, fmt.Errorf("encrypt api key: %w", err)
		}
	}
	if req.SMTP != nil {
		next.SMTP = &SMTP{
			Host:      req.SMTP.Host,
			Port:      req.SMTP.Port,
			Secure:    req.SMTP.Secure,
			User:      req.SMTP.User,
			FromEmail: req.SMTP.FromEmail,
		}
		switch {
		case req.SMTP.Password != "":
			if next.SMTP.Password, err = s.vault.Encrypt(req.SMTP.Password); err != nil {
				return nil, fmt.Errorf("encrypt smtp password: %w", err)
			}
		case current.SMTP != nil:
			next.SMTP.Password = current.SMTP.Password
		}
	}

	saved, err := s.store.Upsert(ctx, next)
	if err != nil {
		return nil, err
	}
	s.log.Info("settings updated", zap.String("owner_id", ownerID), zap.Bool("custom_smtp", saved.SMTP.HasCredentials()))
	return saved, nil
}

// Profile is a public page: display name plus the tenant's plants.
type Profile struct {
	DisplayName string              `json:"display_name"`
	Slug        string              `json:"slug"`
	Plants      []plant.PublicPlant `json:"plants"`
}

// PublicProfile returns ErrNotFound for unknown or private slugs.
func (s *Service) PublicProfile(ctx context.Context, slug string) (*Profile, error) {
	st, err := s.store.FindPublicBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	plants, err := s.plants.ListByOwner(ctx, st.OwnerID)
	if err != nil {
		return nil, err
	}

	p := &Profile{DisplayName: st.DisplayName, Slug: st.Slug, Plants: make([]plant.PublicPlant, 0, len(plants))}
	if p.DisplayName == "" {
		p.DisplayName = "MyPlants user"
	}
	for _, pl := range plants {
		p.Plants = append(p.Plants, pl.Public())
	}
	return p, nil
}
