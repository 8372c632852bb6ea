package db

import "errors"

var (
	// ErrUnsupportedDriver marks an unknown backend type.
	ErrUnsupportedDriver = errors.New("db: unsupported driver")

	// ErrInvalidConfig marks a nil or unusable configuration.
	ErrInvalidConfig = errors.New("db: invalid config")

	// ErrNotInitialized marks use of a client before New succeeded.
	ErrNotInitialized = errors.New("db: not initialized")
)
