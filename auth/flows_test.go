package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utpal03/portalkit/errors"
	"github.com/utpal03/portalkit/session"
)

func recordingNavigator(routes *[]string) Navigator {
	return NavigatorFunc(func(route string) {
		*routes = append(*routes, route)
	})
}

func TestLoginStoresSessionAndNavigates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointLoginDoctor, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var in Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "drsmith", in.Username)
		assert.Equal(t, "secret1", in.Password)

		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "a1",
			"refreshToken": "r1",
			"id":           7,
			"roles":        []string{"DOCTOR"},
		})
	}))
	defer srv.Close()

	store := session.NewMemory()
	var routes []string
	c := NewClient(srv.URL, store, WithClientNavigator(recordingNavigator(&routes)))

	s, err := c.Login(context.Background(), LoginDoctor, Credentials{Username: "drsmith", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "a1", s.AccessToken)
	assert.Equal(t, []string{RouteDoctorDashboard}, routes)

	ctx := context.Background()
	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", access)

	refresh, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", refresh)

	userID, err := store.UserID(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, userID)

	roles, err := store.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []session.Role{session.RoleDoctor}, roles)
}

func TestLoginPatientNavigatesPatientDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointLoginPatient, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "a1",
			"refreshToken": "r1",
			"id":           12,
			"roles":        []string{"patient"},
		})
	}))
	defer srv.Close()

	var routes []string
	c := NewClient(srv.URL, session.NewMemory(), WithClientNavigator(recordingNavigator(&routes)))

	s, err := c.Login(context.Background(), LoginPatient, Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// Role names normalize to upper case before storage.
	assert.Equal(t, []session.Role{session.RolePatient}, s.Roles)
	assert.Equal(t, []string{RoutePatientDashboard}, routes)
}

func TestLoginValidatesBeforeSending(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, session.NewMemory())

	_, err := c.Login(context.Background(), LoginDoctor, Credentials{Username: "drsmith", Password: "short"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = c.Login(context.Background(), LoginDoctor, Credentials{Password: "secret1"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	assert.False(t, called)
}

func TestLoginRejectionLeavesStoreEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))
	defer srv.Close()

	store := session.NewMemory()
	c := NewClient(srv.URL, store)

	_, err := c.Login(context.Background(), LoginDoctor, Credentials{Username: "drsmith", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, errors.IsCredential(err))
	assert.Contains(t, err.Error(), "bad credentials")

	_, err = store.AccessToken(context.Background())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLoginWithoutDashboardRoleKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "a1",
			"refreshToken": "r1",
			"id":           3,
			"roles":        []string{"ADMIN"},
		})
	}))
	defer srv.Close()

	store := session.NewMemory()
	var routes []string
	c := NewClient(srv.URL, store, WithClientNavigator(recordingNavigator(&routes)))

	s, err := c.Login(context.Background(), LoginDoctor, Credentials{Username: "root", Password: "secret1"})
	require.ErrorIs(t, err, ErrNoDashboard)
	require.NotNil(t, s)

	// The session is stored; only the navigation is refused.
	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", access)
	assert.Empty(t, routes)
}

func patientForm() SignupForm {
	return SignupForm{
		Name:        "Alice Doe",
		Email:       "alice@example.com",
		Username:    "alice",
		Password:    "secret1",
		PhoneNumber: "5550001234",
		Age:         34,
		BloodGroup:  "O+",
	}
}

func doctorForm() SignupForm {
	return SignupForm{
		Name:             "Dr. Smith",
		Email:            "smith@example.com",
		Username:         "drsmith",
		Password:         "secret1",
		PhoneNumber:      "5550005678",
		Department:       "Cardiology",
		LicenseNumber:    "LIC-42",
		ConsultationFees: "500",
		AvailableDays:    []string{"MONDAY", "WEDNESDAY"},
	}
}

func TestSignupJSONNavigatesToLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointSignupPatient, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "alice", in["username"])
		assert.Equal(t, "PATIENT", in["role"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	var routes []string
	c := NewClient(srv.URL, session.NewMemory(), WithClientNavigator(recordingNavigator(&routes)))

	require.NoError(t, c.Signup(context.Background(), LoginPatient, patientForm()))
	assert.Equal(t, []string{RouteLogin}, routes)
}

func TestSignupWithImageSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointSignupDoctor, r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "drsmith", r.FormValue("username"))
		assert.Equal(t, "DOCTOR", r.FormValue("role"))
		assert.JSONEq(t, `["MONDAY","WEDNESDAY"]`, r.FormValue("availableDays"))

		file, header, err := r.FormFile("profileImage")
		if assert.NoError(t, err) {
			defer file.Close()
			assert.Equal(t, "me.png", header.Filename)
		}

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, session.NewMemory())

	form := doctorForm()
	form.ProfileImage = &ProfileImage{Filename: "me.png", Content: strings.NewReader("not-a-real-png")}

	require.NoError(t, c.Signup(context.Background(), LoginDoctor, form))
}

func TestSignupVariantValidation(t *testing.T) {
	c := NewClient("http://unused", session.NewMemory())
	ctx := context.Background()

	form := doctorForm()
	form.LicenseNumber = ""
	err := c.Signup(ctx, LoginDoctor, form)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	form = patientForm()
	form.BloodGroup = ""
	err = c.Signup(ctx, LoginPatient, form)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	form = patientForm()
	form.PhoneNumber = "123"
	err = c.Signup(ctx, LoginPatient, form)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestForgotPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointForgotPassword, r.URL.Path)

		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "alice@example.com", in["email"])

		json.NewEncoder(w).Encode(map[string]string{"message": "reset mail sent"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, session.NewMemory())

	msg, err := c.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "reset mail sent", msg)

	_, err = c.ForgotPassword(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestLogoutClearsSessionOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointLogout, r.URL.Path)
		// Logout authenticates with the refresh token, not the access token.
		assert.Equal(t, "r1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := session.NewMemory()
	require.NoError(t, store.Save(context.Background(), session.Session{
		AccessToken: "a1", RefreshToken: "r1", UserID: 7, Roles: []session.Role{session.RoleDoctor},
	}))

	var routes []string
	c := NewClient(srv.URL, store, WithClientNavigator(recordingNavigator(&routes)))

	require.NoError(t, c.Logout(context.Background()))

	_, err := store.AccessToken(context.Background())
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Roles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{RouteLogin}, routes)
}

func TestLogoutRejectionKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := session.NewMemory()
	require.NoError(t, store.SetTokens(context.Background(), "a1", "r1"))

	var routes []string
	c := NewClient(srv.URL, store, WithClientNavigator(recordingNavigator(&routes)))

	err := c.Logout(context.Background())
	require.Error(t, err)

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", access)
	assert.Empty(t, routes)
}

func TestLogoutWithoutTokensStillNavigates(t *testing.T) {
	var routes []string
	c := NewClient("http://unused", session.NewMemory(), WithClientNavigator(recordingNavigator(&routes)))

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, []string{RouteLogin}, routes)
}
