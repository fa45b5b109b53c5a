package plant

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Light is how much sun a plant wants.
type Light string

const (
	LightShade        Light = "shade"
	LightPartialShade Light = "partial_shade"
	LightDiffuse      Light = "diffuse"
	LightFullSun      Light = "full_sun"
)

// Plant is a user-owned plant with a recurring watering cycle.
type Plant struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID          string             `bson:"owner_id" json:"user_id"`                            // tenant that owns the plant
	Name             string             `bson:"name" json:"name"`                                   // shown in reminder subjects
	ScientificName   string             `bson:"scientific_name,omitempty" json:"scientific_name,omitempty"`
	Nickname         string             `bson:"nickname,omitempty" json:"nickname,omitempty"`
	Light            Light              `bson:"light" json:"light"`
	IntervalDays     int                `bson:"interval_days" json:"interval_days"` // watering cadence, >= 1
	PetFriendly      bool               `bson:"pet_friendly" json:"pet_friendly"`
	LastWateredAt    *time.Time         `bson:"last_watered_at,omitempty" json:"last_watered_at,omitempty"`
	AcquiredAt       *time.Time         `bson:"acquired_at,omitempty" json:"acquired_at,omitempty"`
	ImageURL         string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	RemindersEnabled *bool              `bson:"reminders_enabled,omitempty" json:"reminders_enabled"` // nil means enabled
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	NotifyEmail      string             `bson:"notify_email,omitempty" json:"user_email,omitempty"` // reminder recipient
	NotificationSent bool               `bson:"notification_sent" json:"notification_sent"`         // reminder sent since last watering
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// RemindersOn reports whether the owner wants reminders for this plant.
func (p *Plant) RemindersOn() bool {
	return p.RemindersEnabled == nil || *p.RemindersEnabled
}

// NextWatering is LastWateredAt plus IntervalDays calendar days.
// ok is false for plants that were never watered.
func (p *Plant) NextWatering() (next time.Time, ok bool) {
	if p.LastWateredAt == nil {
		return time.Time{}, false
	}
	return p.LastWateredAt.AddDate(0, 0, p.IntervalDays), true
}

// IsDue reports whether a reminder should go out at now: the plant has a recipient,
// has been watered at least once, its next watering has arrived and no reminder was
// sent since the last watering.
func (p *Plant) IsDue(now time.Time) bool {
	if p.NotificationSent || p.NotifyEmail == "" {
		return false
	}
	next, ok := p.NextWatering()
	return ok && !now.Before(next)
}

// PublicPlant is the view of a plant shown on public profiles.
type PublicPlant struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ScientificName string     `json:"scientific_name,omitempty"`
	Nickname       string     `json:"nickname,omitempty"`
	Light          Light      `json:"light"`
	IntervalDays   int        `json:"interval_days"`
	PetFriendly    bool       `json:"pet_friendly"`
	LastWateredAt  *time.Time `json:"last_watered_at,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
}

// Public strips owner, recipient and reminder state.
func (p *Plant) Public() PublicPlant {
	return PublicPlant{
		ID:             p.ID.Hex(),
		Name:           p.Name,
		ScientificName: p.ScientificName,
		Nickname:       p.Nickname,
		Light:          p.Light,
		IntervalDays:   p.IntervalDays,
		PetFriendly:    p.PetFriendly,
		LastWateredAt:  p.LastWateredAt,
		ImageURL:       p.ImageURL,
	}
}
