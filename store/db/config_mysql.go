package db

import (
	"strconv"
	"strings"
	"time"

	"github.com/utpal03/portalkit/internal/tag"
)

// MySQLConfig configures a MySQL connection.
type MySQLConfig struct {
	Host     string `json:"host" default:"localhost"`
	Port     int    `json:"port" default:"3306"`
	User     string `json:"user" default:"root"`
	Password string `json:"password"`
	Database string `json:"database"`

	Charset   string        `json:"charset" default:"utf8mb4"`
	ParseTime bool          `json:"parseTime" default:"true"`
	Loc       string        `json:"loc" default:"Local"`
	Timeout   time.Duration `json:"timeout" default:"10s"`

	PoolConfig `json:"pool"`

	Level string `json:"level" default:"silent"`

	initialized bool
}

func (c *MySQLConfig) Driver() Driver {
	return DriverMySQL
}

func (c *MySQLConfig) Init() error {
	if c.initialized {
		return nil
	}
	if err := tag.ApplyDefaults(c); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *MySQLConfig) DSN() string {
	var b strings.Builder
	b.Grow(128)

	b.WriteString(c.User)
	b.WriteByte(':')
	b.WriteString(c.Password)
	b.WriteString("@tcp(")
	b.WriteString(c.Host)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(c.Port))
	b.WriteString(")/")
	b.WriteString(c.Database)
	b.WriteString("?charset=")
	b.WriteString(c.Charset)
	b.WriteString("&parseTime=")
	b.WriteString(strconv.FormatBool(c.ParseTime))
	b.WriteString("&loc=")
	b.WriteString(c.Loc)
	b.WriteString("&timeout=")
	b.WriteString(c.Timeout.String())

	return b.String()
}

func (c *MySQLConfig) Pool() *PoolConfig {
	return &c.PoolConfig
}

func (c *MySQLConfig) LogLevel() LogLevel {
	return ParseLogLevel(c.Level)
}
