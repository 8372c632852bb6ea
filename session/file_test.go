package session_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utpal03/portalkit/session"
)

func TestFileStoreSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first := session.NewFile(path)
	require.NoError(t, first.Save(ctx, session.Session{
		AccessToken:  "a1",
		RefreshToken: "r1",
		UserID:       7,
		Roles:        []session.Role{session.RoleDoctor},
	}))

	// a fresh instance over the same path sees the same session
	second := session.NewFile(path)

	access, err := second.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", access)

	roles, err := second.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []session.Role{session.RoleDoctor}, roles)
}

func TestFileStoreStableKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	store := session.NewFile(path)
	require.NoError(t, store.Save(ctx, session.Session{
		AccessToken:  "a1",
		RefreshToken: "r1",
		UserID:       7,
		Roles:        []session.Role{session.RoleDoctor},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "a1", raw["token"])
	assert.Equal(t, "r1", raw["refreshToken"])
	assert.Equal(t, "7", raw["userId"])
	assert.JSONEq(t, `["DOCTOR"]`, raw["roles"])
}

func TestFileStoreCorruptRolesDestroysSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, os.WriteFile(path, []byte(`{
		"token": "a1",
		"refreshToken": "r1",
		"roles": "{not valid json"
	}`), 0o600))

	store := session.NewFile(path)

	_, err := store.Roles(ctx)
	assert.ErrorIs(t, err, session.ErrCorruptRoles)

	// the whole session is gone, not just the roles
	_, err = store.AccessToken(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.RefreshToken(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestFileStoreReadFailurePropagates(t *testing.T) {
	ctx := context.Background()

	// a directory where the session file should be: reads fail with a
	// real IO error, which must not be mistaken for an absent session
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.Mkdir(path, 0o700))

	store := session.NewFile(path)

	_, err := store.AccessToken(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)

	_, err = store.Roles(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
	assert.NotErrorIs(t, err, session.ErrCorruptRoles)
}

func TestFileStoreUnreadableFileReadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o600))

	store := session.NewFile(path)

	_, err := store.AccessToken(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	roles, err := store.Roles(ctx)
	require.NoError(t, err)
	assert.Empty(t, roles)
}
