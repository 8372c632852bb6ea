package session

import (
	"context"
	"sync"

	"github.com/utpal03/portalkit/log"
)

// Memory is an in-process Store. It is the default for tests and for
// short-lived tools that do not need the session to survive a restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	logger *log.Logger
}

var _ Store = (*Memory)(nil)

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithMemoryLogger sets a custom logger.
func WithMemoryLogger(logger *log.Logger) MemoryOption {
	return func(m *Memory) {
		m.logger = logger
	}
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		values: make(map[string]string, 4),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = log.G
	}

	return m
}

func (m *Memory) Save(ctx context.Context, s Session) error {
	roles, err := encodeRoles(s.Roles)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[KeyAccessToken] = s.AccessToken
	m.values[KeyRefreshToken] = s.RefreshToken
	m.values[KeyUserID] = encodeUserID(s.UserID)
	m.values[KeyRoles] = roles
	return nil
}

func (m *Memory) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[KeyAccessToken] = accessToken
	m.values[KeyRefreshToken] = refreshToken
	return nil
}

func (m *Memory) SetAccessToken(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[KeyAccessToken] = accessToken
	return nil
}

func (m *Memory) AccessToken(ctx context.Context) (string, error) {
	return m.get(KeyAccessToken)
}

func (m *Memory) RefreshToken(ctx context.Context) (string, error) {
	return m.get(KeyRefreshToken)
}

func (m *Memory) SetUser(ctx context.Context, userID int64, roles []Role) error {
	encoded, err := encodeRoles(roles)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[KeyUserID] = encodeUserID(userID)
	m.values[KeyRoles] = encoded
	return nil
}

func (m *Memory) UserID(ctx context.Context) (int64, error) {
	raw, err := m.get(KeyUserID)
	if err != nil {
		return 0, err
	}

	id, err := decodeUserID(raw)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

func (m *Memory) Roles(ctx context.Context) ([]Role, error) {
	raw, err := m.get(KeyRoles)
	if err != nil {
		return []Role{}, nil
	}

	roles, err := decodeRoles(raw)
	if err != nil {
		m.logger.Warn().Err(err).Msg("corrupt role data, destroying session")
		_ = m.Clear(ctx)
		return nil, ErrCorruptRoles
	}
	return roles, nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, KeyAccessToken)
	delete(m.values, KeyRefreshToken)
	delete(m.values, KeyUserID)
	delete(m.values, KeyRoles)
	return nil
}

func (m *Memory) get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}
