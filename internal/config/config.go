package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DevEncryptionKey is used when ENCRYPTION_KEY is not set. Fine for local runs only.
const DevEncryptionKey = "my-secret-key-default-123"

// Config holds application configuration loaded from environment variables.
type Config struct {
	MongoURI      string `envconfig:"MONGO_URI" required:"true"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"myplants"`

	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":3001"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	APIURL      string   `envconfig:"API_URL" default:"http://localhost:3001/api"` // base of confirmation links

	EncryptionKey string `envconfig:"ENCRYPTION_KEY" default:"my-secret-key-default-123"`

	Mail   MailConfig
	Notify NotifyConfig

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"` // json|console
}

// MailConfig describes the process-wide default mail channel.
type MailConfig struct {
	Provider     string `envconfig:"MAIL_PROVIDER" default:"smtp"` // smtp|resend
	Host         string `envconfig:"EMAIL_HOST" default:"smtp.gmail.com"`
	Port         int    `envconfig:"EMAIL_PORT" default:"587"`
	Secure       bool   `envconfig:"EMAIL_SECURE" default:"false"`
	User         string `envconfig:"EMAIL_USER"`
	Password     string `envconfig:"EMAIL_PASS"`
	From         string `envconfig:"EMAIL_FROM" default:"\"MyPlants\" <noreply@myplants.com>"`
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
}

// NotifyConfig tunes the watering reminder job.
type NotifyConfig struct {
	Interval          time.Duration `envconfig:"NOTIFY_INTERVAL" default:"1h"`
	SendTimeout       time.Duration `envconfig:"NOTIFY_SEND_TIMEOUT" default:"30s"`
	TenantConcurrency int           `envconfig:"NOTIFY_TENANT_CONCURRENCY" default:"4"`
	SendRate          float64       `envconfig:"NOTIFY_SEND_RATE" default:"2"` // per tenant, 0 = unlimited
	LinkSigningKey    string        `envconfig:"LINK_SIGNING_KEY"`
	LinkTTL           time.Duration `envconfig:"LINK_TTL" default:"720h"`
}

// NewConfig reads environment variables into Config.
func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	// Gmail app passwords are usually pasted as 4x4 blocks.
	cfg.Mail.Password = strings.Join(strings.Fields(cfg.Mail.Password), "")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

// UsesDevEncryptionKey reports whether secrets are protected by the built-in key.
func (c *Config) UsesDevEncryptionKey() bool {
	return c.EncryptionKey == DevEncryptionKey
}
