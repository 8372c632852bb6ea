package db

import (
	"strconv"
	"strings"
	"time"

	"github.com/utpal03/portalkit/internal/tag"
)

// SQLiteConfig configures a file-backed SQLite database. The zero value
// with Init applied is usable out of the box, which makes it the default
// backend of the development server.
type SQLiteConfig struct {
	FilePath string `json:"filePath" default:"./portal.db"`

	JournalMode string `json:"journalMode" default:"WAL"`
	BusyTimeout int    `json:"busyTimeout" default:"5000"`
	ForeignKeys bool   `json:"foreignKeys" default:"true"`

	PoolConfig `json:"pool"`

	Level string `json:"level" default:"silent"`

	initialized bool
}

func (c *SQLiteConfig) Driver() Driver {
	return DriverSQLite
}

func (c *SQLiteConfig) Init() error {
	if c.initialized {
		return nil
	}
	if err := tag.ApplyDefaults(c); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *SQLiteConfig) DSN() string {
	var b strings.Builder
	b.Grow(128)

	b.WriteString("file:")
	b.WriteString(c.FilePath)
	b.WriteString("?_journal_mode=")
	b.WriteString(c.JournalMode)
	b.WriteString("&_busy_timeout=")
	b.WriteString(strconv.Itoa(c.BusyTimeout))
	b.WriteString("&_foreign_keys=")
	b.WriteString(strconv.FormatBool(c.ForeignKeys))

	return b.String()
}

func (c *SQLiteConfig) Pool() *PoolConfig {
	pool := &c.PoolConfig
	// SQLite is a single file; one writer connection is plenty.
	if pool.MaxIdleConns == 0 {
		pool.MaxIdleConns = 1
	}
	if pool.MaxOpenConns == 0 {
		pool.MaxOpenConns = 1
	}
	if pool.ConnMaxLifetime == 0 {
		pool.ConnMaxLifetime = time.Hour
	}
	if pool.ConnMaxIdleTime == 0 {
		pool.ConnMaxIdleTime = 10 * time.Minute
	}
	return pool
}

func (c *SQLiteConfig) LogLevel() LogLevel {
	return ParseLogLevel(c.Level)
}
