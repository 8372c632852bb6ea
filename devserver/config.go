package devserver

import (
	"time"

	"github.com/utpal03/portalkit/internal/tag"
)

// Config configures the development stub backend.
type Config struct {
	Addr string `json:"addr" default:":8080"`

	// JWTSecret signs access tokens. Never use the default outside of
	// local development.
	JWTSecret string `json:"jwtSecret" default:"portal-dev-secret"`

	AccessTokenTTL  time.Duration `json:"accessTokenTTL" default:"15m"`
	RefreshTokenTTL time.Duration `json:"refreshTokenTTL" default:"168h"`

	// SweepSchedule is the cron spec for purging expired refresh tokens.
	SweepSchedule string `json:"sweepSchedule" default:"@hourly"`

	// MailWorkers sizes the async mailer pool.
	MailWorkers int `json:"mailWorkers" default:"4"`

	// LoginRate and LoginBurst throttle credential-bearing endpoints per
	// client IP.
	LoginRate  float64 `json:"loginRate" default:"1"`
	LoginBurst int     `json:"loginBurst" default:"10"`
}

// Init applies defaults to unset fields.
func (c *Config) Init() error {
	return tag.ApplyDefaults(c)
}
