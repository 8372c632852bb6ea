package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utpal03/portalkit/log"
	storeredis "github.com/utpal03/portalkit/store/redis"
)

const redisKeyPrefix = "portal:session:"

// Redis is a Store backed by a Redis hash, for deployments where the client
// runs behind a shared frontend and sessions must be visible across
// processes. Each store instance owns one session, addressed by namespace
// (typically a user or device id).
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	logger *log.Logger
}

var _ Store = (*Redis)(nil)

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithRedisTTL bounds the session lifetime server-side. Zero means no expiry.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// WithRedisLogger sets a custom logger.
func WithRedisLogger(logger *log.Logger) RedisOption {
	return func(r *Redis) {
		r.logger = logger
	}
}

// NewRedis creates a redis-backed store for the given namespace.
func NewRedis(client *storeredis.Client, namespace string, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client.Universal(),
		key:    redisKeyPrefix + namespace,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = log.G
	}

	return r
}

func (r *Redis) Save(ctx context.Context, s Session) error {
	roles, err := encodeRoles(s.Roles)
	if err != nil {
		return err
	}

	fields := map[string]string{
		KeyAccessToken:  s.AccessToken,
		KeyRefreshToken: s.RefreshToken,
		KeyUserID:       encodeUserID(s.UserID),
		KeyRoles:        roles,
	}
	if err := r.client.HSet(ctx, r.key, fields).Err(); err != nil {
		return err
	}
	return r.expire(ctx)
}

func (r *Redis) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	err := r.client.HSet(ctx, r.key,
		KeyAccessToken, accessToken,
		KeyRefreshToken, refreshToken,
	).Err()
	if err != nil {
		return err
	}
	return r.expire(ctx)
}

func (r *Redis) SetAccessToken(ctx context.Context, accessToken string) error {
	if err := r.client.HSet(ctx, r.key, KeyAccessToken, accessToken).Err(); err != nil {
		return err
	}
	return r.expire(ctx)
}

func (r *Redis) AccessToken(ctx context.Context) (string, error) {
	return r.get(ctx, KeyAccessToken)
}

func (r *Redis) RefreshToken(ctx context.Context) (string, error) {
	return r.get(ctx, KeyRefreshToken)
}

func (r *Redis) SetUser(ctx context.Context, userID int64, roles []Role) error {
	encoded, err := encodeRoles(roles)
	if err != nil {
		return err
	}

	err = r.client.HSet(ctx, r.key,
		KeyUserID, encodeUserID(userID),
		KeyRoles, encoded,
	).Err()
	if err != nil {
		return err
	}
	return r.expire(ctx)
}

func (r *Redis) UserID(ctx context.Context) (int64, error) {
	raw, err := r.get(ctx, KeyUserID)
	if err != nil {
		return 0, err
	}

	id, err := decodeUserID(raw)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

func (r *Redis) Roles(ctx context.Context) ([]Role, error) {
	raw, err := r.get(ctx, KeyRoles)
	if errors.Is(err, ErrNotFound) {
		return []Role{}, nil
	}
	if err != nil {
		return nil, err
	}

	roles, err := decodeRoles(raw)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", r.key).Msg("corrupt role data, destroying session")
		_ = r.Clear(ctx)
		return nil, ErrCorruptRoles
	}
	return roles, nil
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *Redis) get(ctx context.Context, field string) (string, error) {
	value, err := r.client.HGet(ctx, r.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (r *Redis) expire(ctx context.Context) error {
	if r.ttl <= 0 {
		return nil
	}
	return r.client.Expire(ctx, r.key, r.ttl).Err()
}
