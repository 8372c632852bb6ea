package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utpal03/portalkit/session"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, session.RoleDoctor, session.NormalizeRole(" doctor "))
	assert.Equal(t, session.RolePatient, session.NormalizeRole("Patient"))
	assert.Equal(t, session.Role(""), session.NormalizeRole("  "))
}

func TestNormalizeRolesDropsEmpty(t *testing.T) {
	roles := session.NormalizeRoles([]string{"doctor", "", "  ", "nurse"})
	assert.Equal(t, []session.Role{"DOCTOR", "NURSE"}, roles)
}

func TestRoleMatches(t *testing.T) {
	assert.True(t, session.RoleDoctor.Matches("doctor"))
	assert.True(t, session.RoleDoctor.Matches("Doctor"))
	assert.False(t, session.RoleDoctor.Matches("patient"))
}

func TestSessionAuthenticated(t *testing.T) {
	s := session.Session{}
	assert.False(t, s.Authenticated())

	// other fields alone do not authenticate
	s = session.Session{RefreshToken: "r1", UserID: 7, Roles: []session.Role{session.RoleDoctor}}
	assert.False(t, s.Authenticated())

	s.AccessToken = "a1"
	assert.True(t, s.Authenticated())
}

func TestSessionHasRole(t *testing.T) {
	s := session.Session{Roles: []session.Role{session.RolePatient}}

	assert.True(t, s.HasRole("patient"))
	assert.True(t, s.HasRole("PATIENT"))
	assert.False(t, s.HasRole("doctor"))
	assert.False(t, (&session.Session{}).HasRole("doctor"))
}
