package session

import (
	"context"
	"errors"
)

// Storage keys. These are fixed wire-level names: the route gate and the
// authenticated fetcher read the store independently at call time, so the
// keys must stay stable across restarts.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refreshToken"
	KeyUserID       = "userId"
	KeyRoles        = "roles"
)

var (
	// ErrNotFound marks an absent value.
	ErrNotFound = errors.New("session: not found")

	// ErrCorruptRoles marks an unreadable persisted role payload. The
	// backend logs and destroys the session before returning it, so
	// callers only ever decide between "fail closed" and "treat as none".
	ErrCorruptRoles = errors.New("session: corrupt role data")
)

// Store is the persistence capability behind the Session. Implementations
// must be safe for concurrent use; individual reads and writes are atomic
// but sequences of calls are not coordinated.
//
// The store tracks no expiry of its own. Token expiry is discovered
// reactively through HTTP 401 responses.
type Store interface {
	// Save writes the whole session as one atomic update. Used at login.
	Save(ctx context.Context, s Session) error

	// SetTokens overwrites both tokens, leaving user id and roles untouched.
	SetTokens(ctx context.Context, accessToken, refreshToken string) error

	// SetAccessToken overwrites only the access token. Used after a
	// refresh round-trip; the refresh token must survive.
	SetAccessToken(ctx context.Context, accessToken string) error

	// AccessToken returns the stored access token, or ErrNotFound.
	AccessToken(ctx context.Context) (string, error)

	// RefreshToken returns the stored refresh token, or ErrNotFound.
	RefreshToken(ctx context.Context) (string, error)

	// SetUser overwrites the user id and roles together.
	SetUser(ctx context.Context, userID int64, roles []Role) error

	// UserID returns the stored user id, or ErrNotFound.
	UserID(ctx context.Context) (int64, error)

	// Roles returns the stored roles. An absent value reads as an empty
	// slice. A malformed payload destroys the session and returns
	// ErrCorruptRoles.
	Roles(ctx context.Context) ([]Role, error)

	// Clear removes the entire session: tokens, user id and roles.
	// Clearing an already empty store is a no-op.
	Clear(ctx context.Context) error
}
