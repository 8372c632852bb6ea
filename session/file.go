package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/utpal03/portalkit/log"
)

// File is a Store persisted as a small JSON document on disk, the durable
// analogue of browser-local storage: the session survives restarts and is
// re-read by every consumer at call time.
type File struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

var _ Store = (*File)(nil)

// FileOption configures a File store.
type FileOption func(*File)

// WithFileLogger sets a custom logger.
func WithFileLogger(logger *log.Logger) FileOption {
	return func(f *File) {
		f.logger = logger
	}
}

// NewFile creates a file-backed store at path. The file is created lazily
// on first write.
func NewFile(path string, opts ...FileOption) *File {
	f := &File{path: path}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = log.G
	}

	return f
}

func (f *File) Save(ctx context.Context, s Session) error {
	roles, err := encodeRoles(s.Roles)
	if err != nil {
		return err
	}

	return f.update(func(values map[string]string) {
		values[KeyAccessToken] = s.AccessToken
		values[KeyRefreshToken] = s.RefreshToken
		values[KeyUserID] = encodeUserID(s.UserID)
		values[KeyRoles] = roles
	})
}

func (f *File) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	return f.update(func(values map[string]string) {
		values[KeyAccessToken] = accessToken
		values[KeyRefreshToken] = refreshToken
	})
}

func (f *File) SetAccessToken(ctx context.Context, accessToken string) error {
	return f.update(func(values map[string]string) {
		values[KeyAccessToken] = accessToken
	})
}

func (f *File) AccessToken(ctx context.Context) (string, error) {
	return f.get(KeyAccessToken)
}

func (f *File) RefreshToken(ctx context.Context) (string, error) {
	return f.get(KeyRefreshToken)
}

func (f *File) SetUser(ctx context.Context, userID int64, roles []Role) error {
	encoded, err := encodeRoles(roles)
	if err != nil {
		return err
	}

	return f.update(func(values map[string]string) {
		values[KeyUserID] = encodeUserID(userID)
		values[KeyRoles] = encoded
	})
}

func (f *File) UserID(ctx context.Context) (int64, error) {
	raw, err := f.get(KeyUserID)
	if err != nil {
		return 0, err
	}

	id, err := decodeUserID(raw)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

func (f *File) Roles(ctx context.Context) ([]Role, error) {
	raw, err := f.get(KeyRoles)
	if errors.Is(err, ErrNotFound) {
		return []Role{}, nil
	}
	if err != nil {
		return nil, err
	}

	roles, err := decodeRoles(raw)
	if err != nil {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("corrupt role data, destroying session")
		_ = f.Clear(ctx)
		return nil, ErrCorruptRoles
	}
	return roles, nil
}

func (f *File) Clear(ctx context.Context) error {
	return f.update(func(values map[string]string) {
		delete(values, KeyAccessToken)
		delete(values, KeyRefreshToken)
		delete(values, KeyUserID)
		delete(values, KeyRoles)
	})
}

// update performs a read-modify-write cycle under the lock, replacing the
// file atomically so a crash can never leave a half-written session.
func (f *File) update(mutate func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}

	mutate(values)

	return f.write(values)
}

func (f *File) get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string, 4), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session file read: %w", err)
	}

	values := make(map[string]string, 4)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		// An unreadable file is treated as no session at all.
		f.logger.Warn().Err(err).Str("path", f.path).Msg("unreadable session file, starting empty")
		return make(map[string]string, 4), nil
	}
	return values, nil
}

func (f *File) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session file dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session file write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("session file replace: %w", err)
	}
	return nil
}
