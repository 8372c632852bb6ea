package db

import (
	"strconv"
	"strings"

	"github.com/utpal03/portalkit/internal/tag"
)

// PostgresConfig configures a PostgreSQL connection.
type PostgresConfig struct {
	Host     string `json:"host" default:"localhost"`
	Port     int    `json:"port" default:"5432"`
	User     string `json:"user" default:"postgres"`
	Password string `json:"password"`
	Database string `json:"database"`

	SSLMode        string `json:"sslmode" default:"disable"`
	TimeZone       string `json:"timezone" default:"UTC"`
	ConnectTimeout int    `json:"connectTimeout" default:"10"`

	PoolConfig `json:"pool"`

	Level string `json:"level" default:"silent"`

	initialized bool
}

func (c *PostgresConfig) Driver() Driver {
	return DriverPostgres
}

func (c *PostgresConfig) Init() error {
	if c.initialized {
		return nil
	}
	if err := tag.ApplyDefaults(c); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *PostgresConfig) DSN() string {
	var b strings.Builder
	b.Grow(128)

	b.WriteString("host=")
	b.WriteString(c.Host)
	b.WriteString(" port=")
	b.WriteString(strconv.Itoa(c.Port))
	b.WriteString(" user=")
	b.WriteString(c.User)
	b.WriteString(" password=")
	b.WriteString(c.Password)
	b.WriteString(" dbname=")
	b.WriteString(c.Database)
	b.WriteString(" sslmode=")
	b.WriteString(c.SSLMode)
	b.WriteString(" TimeZone=")
	b.WriteString(c.TimeZone)
	b.WriteString(" connect_timeout=")
	b.WriteString(strconv.Itoa(c.ConnectTimeout))

	return b.String()
}

func (c *PostgresConfig) Pool() *PoolConfig {
	return &c.PoolConfig
}

func (c *PostgresConfig) LogLevel() LogLevel {
	return ParseLogLevel(c.Level)
}
