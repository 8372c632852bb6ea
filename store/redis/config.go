package redis

import (
	"crypto/tls"
	"time"

	"github.com/utpal03/portalkit/internal/tag"
)

// Config holds connection settings for a single-node or clustered Redis.
type Config struct {
	// Addrs is the Redis address list. A single entry selects standalone
	// mode, multiple entries cluster mode.
	Addrs []string

	// Username for Redis 6+ ACL auth.
	Username string

	// Password for auth.
	Password string

	// DB index, standalone mode only.
	DB int

	// Protocol selects RESP2 (2) or RESP3 (3).
	Protocol int `default:"3"`

	// Timeouts, in milliseconds.
	DialTimeout  int64 `default:"5000"`
	ReadTimeout  int64 `default:"3000"`
	WriteTimeout int64 `default:"3000"`

	// PoolSize caps pooled connections; 0 uses the go-redis default.
	PoolSize int

	// MinIdleConns keeps warm connections around.
	MinIdleConns int

	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config
}

// ApplyDefaults fills zero fields from struct tags and validates the result.
func (c *Config) ApplyDefaults() error {
	if err := tag.ApplyDefaults(c); err != nil {
		return err
	}
	if len(c.Addrs) == 0 {
		return ErrEmptyAddrs
	}
	return nil
}

func (c *Config) dialTimeout() time.Duration  { return time.Duration(c.DialTimeout) * time.Millisecond }
func (c *Config) readTimeout() time.Duration  { return time.Duration(c.ReadTimeout) * time.Millisecond }
func (c *Config) writeTimeout() time.Duration { return time.Duration(c.WriteTimeout) * time.Millisecond }
