package session_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utpal03/portalkit/session"
)

// storeUnderTest runs the same contract suite against every backend.
func storeUnderTest(t *testing.T) map[string]session.Store {
	t.Helper()

	return map[string]session.Store{
		"memory": session.NewMemory(),
		"file":   session.NewFile(filepath.Join(t.TempDir(), "session.json")),
	}
}

func TestStoreEmptyReads(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.AccessToken(ctx)
			assert.ErrorIs(t, err, session.ErrNotFound)

			_, err = store.RefreshToken(ctx)
			assert.ErrorIs(t, err, session.ErrNotFound)

			_, err = store.UserID(ctx)
			assert.ErrorIs(t, err, session.ErrNotFound)

			roles, err := store.Roles(ctx)
			require.NoError(t, err)
			assert.Empty(t, roles)
		})
	}
}

func TestStoreLastWriteWinsPerField(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SetTokens(ctx, "a1", "r1"))
			require.NoError(t, store.SetTokens(ctx, "a2", "r2"))

			access, err := store.AccessToken(ctx)
			require.NoError(t, err)
			assert.Equal(t, "a2", access)

			refresh, err := store.RefreshToken(ctx)
			require.NoError(t, err)
			assert.Equal(t, "r2", refresh)
		})
	}
}

func TestStoreSetAccessTokenPreservesRefreshToken(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SetTokens(ctx, "a1", "r1"))
			require.NoError(t, store.SetAccessToken(ctx, "a2"))

			access, err := store.AccessToken(ctx)
			require.NoError(t, err)
			assert.Equal(t, "a2", access)

			refresh, err := store.RefreshToken(ctx)
			require.NoError(t, err)
			assert.Equal(t, "r1", refresh)
		})
	}
}

func TestStoreRolesRoundTrip(t *testing.T) {
	ctx := context.Background()

	cases := [][]session.Role{
		{},
		{session.RoleDoctor},
		{session.RoleDoctor, session.RolePatient, "ADMIN"},
	}

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			for _, want := range cases {
				require.NoError(t, store.SetUser(ctx, 7, want))

				got, err := store.Roles(ctx)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestStoreRolesNormalizedAtWrite(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SetUser(ctx, 7, []session.Role{"doctor"}))

			got, err := store.Roles(ctx)
			require.NoError(t, err)
			assert.Equal(t, []session.Role{session.RoleDoctor}, got)
		})
	}
}

func TestStoreClearIdempotent(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, session.Session{
				AccessToken:  "a1",
				RefreshToken: "r1",
				UserID:       7,
				Roles:        []session.Role{session.RoleDoctor},
			}))

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))

			_, err := store.AccessToken(ctx)
			assert.ErrorIs(t, err, session.ErrNotFound)

			_, err = store.RefreshToken(ctx)
			assert.ErrorIs(t, err, session.ErrNotFound)

			_, err = store.UserID(ctx)
			assert.ErrorIs(t, err, session.ErrNotFound)

			roles, err := store.Roles(ctx)
			require.NoError(t, err)
			assert.Empty(t, roles)
		})
	}
}

func TestStoreSaveIsAtomicView(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, session.Session{
				AccessToken:  "a1",
				RefreshToken: "r1",
				UserID:       7,
				Roles:        []session.Role{session.RoleDoctor},
			}))

			access, err := store.AccessToken(ctx)
			require.NoError(t, err)
			assert.Equal(t, "a1", access)

			refresh, err := store.RefreshToken(ctx)
			require.NoError(t, err)
			assert.Equal(t, "r1", refresh)

			id, err := store.UserID(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(7), id)

			roles, err := store.Roles(ctx)
			require.NoError(t, err)
			assert.Equal(t, []session.Role{session.RoleDoctor}, roles)
		})
	}
}
