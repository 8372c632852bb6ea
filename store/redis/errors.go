package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNil wraps redis.Nil, meaning the key does not exist.
	ErrNil = redis.Nil

	// ErrInvalidConfig marks a nil or unusable configuration.
	ErrInvalidConfig = errors.New("redis: invalid configuration")

	// ErrEmptyAddrs marks a configuration without addresses.
	ErrEmptyAddrs = errors.New("redis: addrs cannot be empty")
)
