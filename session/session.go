package session

import (
	"strings"
)

// Role is a normalized role name. Roles are upper-cased at session-write
// time so comparisons at use sites stay case-insensitive without re-parsing.
type Role string

const (
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// NormalizeRole converts a raw role name into its canonical form.
func NormalizeRole(raw string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(raw)))
}

// NormalizeRoles converts a slice of raw role names, dropping empty entries.
func NormalizeRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		if role := NormalizeRole(r); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

// Matches reports whether the role equals name, ignoring case.
func (r Role) Matches(name string) bool {
	return r == NormalizeRole(string(name))
}

// Session is the authenticated identity state held by the client.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	Roles        []Role `json:"roles"`
}

// Authenticated reports whether the session holds an access token.
// An absent access token means unauthenticated regardless of other fields.
func (s *Session) Authenticated() bool {
	return s.AccessToken != ""
}

// HasRole reports whether the session holds the named role,
// compared case-insensitively.
func (s *Session) HasRole(name string) bool {
	for _, role := range s.Roles {
		if role.Matches(name) {
			return true
		}
	}
	return false
}
