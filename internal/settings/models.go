package settings

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings holds one tenant's preferences. Secrets are stored encrypted.
type Settings struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`                // unique per tenant
	ModelAPIKey string             `bson:"model_api_key,omitempty"` // encrypted, used by plant identification
	SMTP        *SMTP              `bson:"smtp,omitempty"`
	Slug        string             `bson:"slug,omitempty"` // public profile path, unique when set
	IsPublic    bool               `bson:"is_public"`
	DisplayName string             `bson:"display_name,omitempty"`
}

// SMTP is a tenant's own outgoing mail account.
type SMTP struct {
	Host      string `bson:"host"`
	Port      int    `bson:"port"`
	Secure    bool   `bson:"secure"`
	User      string `bson:"user"`
	Password  string `bson:"password"` // encrypted
	FromEmail string `bson:"from_email,omitempty"`
}

// HasCredentials reports whether the account is complete enough to send with.
func (s *SMTP) HasCredentials() bool {
	return s != nil && s.User != "" && s.Password != ""
}

// View is the API representation; secrets are reduced to presence flags.
type View struct {
	UserID      string    `json:"user_id"`
	HasAPIKey   bool      `json:"has_api_key"`
	SMTP        *SMTPView `json:"smtp,omitempty"`
	Slug        string    `json:"slug,omitempty"`
	IsPublic    bool      `json:"is_public"`
	DisplayName string    `json:"display_name,omitempty"`
}

type SMTPView struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Secure      bool   `json:"secure"`
	User        string `json:"user"`
	HasPassword bool   `json:"has_password"`
	FromEmail   string `json:"from_email,omitempty"`
}

// View masks the stored secrets.
func (s *Settings) View() View {
	v := View{
		UserID:      s.OwnerID,
		HasAPIKey:   s.ModelAPIKey != "",
		Slug:        s.Slug,
		IsPublic:    s.IsPublic,
		DisplayName: s.DisplayName,
	}
	if s.SMTP != nil {
		v.SMTP = &SMTPView{
			Host:        s.SMTP.Host,
			Port:        s.SMTP.Port,
			Secure:      s.SMTP.Secure,
			User:        s.SMTP.User,
			HasPassword: s.SMTP.Password != "",
			FromEmail:   s.SMTP.FromEmail,
		}
	}
	return v
}
