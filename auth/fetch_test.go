package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utpal03/portalkit/errors"
	"github.com/utpal03/portalkit/session"
)

func seededStore(t *testing.T, access, refresh string) session.Store {
	t.Helper()

	store := session.NewMemory()
	require.NoError(t, store.Save(context.Background(), session.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       7,
		Roles:        []session.Role{session.RoleDoctor},
	}))

	return store
}

func TestFetcherInjectsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, seededStore(t, "a1", "r1"))

	var out map[string]string
	resp, err := f.Get(context.Background(), "/appointments", WithResponse(&out))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer a1", gotAuth)
	assert.Equal(t, "ok", out["status"])
}

func TestFetcherRefreshesOnceAndRetries(t *testing.T) {
	var refreshCalls, apiCalls int32
	var bodies []string
	var tokens []string
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == EndpointRefreshToken {
			atomic.AddInt32(&refreshCalls, 1)

			var in map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "r1", in["refreshToken"])

			json.NewEncoder(w).Encode(map[string]string{"accessToken": "a2"})
			return
		}

		atomic.AddInt32(&apiCalls, 1)
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		tokens = append(tokens, r.Header.Get("Authorization"))
		mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer a2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := seededStore(t, "a1", "r1")
	f := NewFetcher(srv.URL, store)

	resp, err := f.Post(context.Background(), "/appointments", map[string]string{"doctorId": "3"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 1, refreshCalls)
	assert.EqualValues(t, 2, apiCalls)

	// The retry replays the same payload with the renewed token.
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.JSONEq(t, `{"doctorId":"3"}`, bodies[1])
	assert.Equal(t, []string{"Bearer a1", "Bearer a2"}, tokens)

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", access)
}

func TestFetcherRetryFailureIsTerminal(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == EndpointRefreshToken {
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "a2"})
			return
		}
		// Unauthorized even after the refresh.
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, seededStore(t, "a1", "r1"))

	resp, err := f.Get(context.Background(), "/appointments")
	require.NoError(t, err)
	defer resp.Body.Close()

	// The second 401 comes back as-is, with exactly one refresh attempted.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 1, refreshCalls)
}

func TestFetcherWithoutRefreshTokenReturns401(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == EndpointRefreshToken {
			atomic.AddInt32(&refreshCalls, 1)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := session.NewMemory()
	require.NoError(t, store.SetAccessToken(context.Background(), "a1"))

	f := NewFetcher(srv.URL, store)

	resp, err := f.Get(context.Background(), "/appointments")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 0, refreshCalls)
}

func TestFetcherRejectedRefreshDestroysSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == EndpointRefreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := seededStore(t, "a1", "r1")

	var navigated []string
	f := NewFetcher(srv.URL, store,
		WithNavigator(NavigatorFunc(func(route string) { navigated = append(navigated, route) })),
	)

	resp, err := f.Get(context.Background(), "/appointments")
	require.Error(t, err)
	require.Nil(t, resp)
	assert.True(t, errors.IsSessionInvalid(err))

	// the expired classification that triggered the refresh is preserved
	// underneath the terminal error
	assert.True(t, errors.IsSessionExpired(err))

	ctx := context.Background()
	_, err = store.AccessToken(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.RefreshToken(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.Equal(t, []string{RouteLogin}, navigated)
}

func TestFetcherNetworkErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	store := seededStore(t, "a1", "r1")
	f := NewFetcher(srv.URL, store)

	_, err := f.Get(context.Background(), "/appointments")
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err))

	// A transport failure never destroys the session.
	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", access)
}

func TestFetcherCollapsesConcurrentRefreshes(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == EndpointRefreshToken {
			atomic.AddInt32(&refreshCalls, 1)
			time.Sleep(100 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "a2"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer a2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, seededStore(t, "a1", "r1"))

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			resp, err := f.Get(context.Background(), "/appointments")
			if !assert.NoError(t, err) {
				return
			}
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, refreshCalls)
}

func TestBufferBody(t *testing.T) {
	payload, err := bufferBody(nil)
	require.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = bufferBody(strings.NewReader("raw"))
	require.NoError(t, err)
	assert.Equal(t, "raw", string(payload))

	payload, err = bufferBody(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(payload))
}
