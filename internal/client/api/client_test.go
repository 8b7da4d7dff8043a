package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avetisovm/amora/internal/client/session"
	"github.com/avetisovm/amora/internal/common"
	"github.com/avetisovm/amora/internal/logging"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return session.NewStore(db)
}

func newTestClient(t *testing.T, handler http.Handler, store *session.Store, opts ...Option) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, store, logging.NewDefault(), opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_SendsFormCredentials(t *testing.T) {
	store := newTestStore(t)

	var gotUsername, gotPassword, gotContentType string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotUsername = r.PostFormValue("username")
		gotPassword = r.PostFormValue("password")
		gotContentType = r.Header.Get("Content-Type")
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token":  "acc-1",
			"refresh_token": "ref-1",
			"token_type":    "bearer",
		})
	})

	c := newTestClient(t, handler, store)
	pair, err := c.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "acc-1", pair.AccessToken)
	require.Equal(t, "ref-1", pair.RefreshToken)
	require.Equal(t, "ada@example.com", gotUsername)
	require.Equal(t, "pw", gotPassword)
	require.Equal(t, contentTypeForm, gotContentType)
}

// Scenario B: a 401 is recovered transparently — refresh succeeds, the
// original call is replayed with the new token and its result returned.
func TestDo_RefreshAndReplay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "stale", "ref-1"))

	var refreshCalls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls.Add(1)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "ref-1", body["refresh_token"])
			writeJSON(w, http.StatusOK, map[string]string{
				"access_token":  "fresh",
				"refresh_token": "ref-2",
			})
		case "/users/me":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "u-1", "email": "a@b.c", "role": "user"})
		default:
			http.NotFound(w, r)
		}
	})

	c := newTestClient(t, handler, store)
	user, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
	require.EqualValues(t, 1, refreshCalls.Load())
	require.Equal(t, "fresh", store.AccessToken())
	require.Equal(t, "ref-2", store.RefreshToken())
}

// A call already replayed once is not retried on a second 401; it fails.
func TestDo_RetriesAtMostOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "stale", "ref-1"))

	var refreshCalls, meCalls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls.Add(1)
			writeJSON(w, http.StatusOK, map[string]string{
				"access_token":  "fresh",
				"refresh_token": "ref-2",
			})
		case "/users/me":
			meCalls.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
		default:
			http.NotFound(w, r)
		}
	})

	c := newTestClient(t, handler, store)
	_, err := c.Me(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.EqualValues(t, 1, refreshCalls.Load())
	require.EqualValues(t, 2, meCalls.Load())
}

// Scenario C: 403 is terminal — session cleared, hook fired, no refresh.
func TestDo_ForbiddenClearsSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "acc", "ref"))

	var refreshCalls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls.Add(1)
		}
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Banned"})
	})

	expired := false
	c := newTestClient(t, handler, store, WithSessionExpiredHook(func() { expired = true }))

	_, err := c.Me(ctx)
	require.ErrorIs(t, err, common.ErrAccountInactive)
	require.False(t, store.Authenticated())
	require.True(t, expired)
	require.EqualValues(t, 0, refreshCalls.Load())
}

// A 400 carrying the inactive-account marker is treated like a ban.
func TestDo_InactiveUserClearsSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "acc", "ref"))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Inactive user"})
	})

	c := newTestClient(t, handler, store)
	_, err := c.Me(ctx)
	require.ErrorIs(t, err, common.ErrAccountInactive)
	require.False(t, store.Authenticated())
}

// An ordinary 400 is a validation failure, not a ban.
func TestDo_ValidationDetailSurfaces(t *testing.T) {
	store := newTestStore(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	})

	c := newTestClient(t, handler, store)
	_, err := c.Register(context.Background(), "a@b.c", "pw")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Email already registered", verr.Detail)
	require.False(t, store.Authenticated())
}

// A 401 with no refresh token skips the network and clears the session.
func TestDo_NoRefreshToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "acc", ""))

	var refreshCalls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls.Add(1)
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
	})

	expired := false
	c := newTestClient(t, handler, store, WithSessionExpiredHook(func() { expired = true }))

	_, err := c.Me(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.EqualValues(t, 0, refreshCalls.Load())
	require.False(t, store.Authenticated())
	require.True(t, expired)
}

// Failed refresh drains everything with failure and clears the session.
func TestDo_RefreshFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "stale", "ref-1"))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "refresh expired"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
	})

	expired := false
	c := newTestClient(t, handler, store, WithSessionExpiredHook(func() { expired = true }))

	_, err := c.Me(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.False(t, store.Authenticated())
	require.True(t, expired)
}

// Scenario D: concurrent 401s share a single refresh; every parked call
// replays with the new token.
func TestDo_SingleFlightRefresh(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "stale", "ref-1"))

	var refreshCalls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls.Add(1)
			// widen the in-flight window so parked calls really park
			time.Sleep(150 * time.Millisecond)
			writeJSON(w, http.StatusOK, map[string]string{
				"access_token":  "fresh",
				"refresh_token": "ref-2",
			})
		case "/users/me":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "u-1", "email": "a@b.c", "role": "user"})
		default:
			http.NotFound(w, r)
		}
	})

	c := newTestClient(t, handler, store)

	const calls = 4
	var wg sync.WaitGroup
	errs := make([]error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Me(ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < calls; i++ {
		require.NoError(t, errs[i])
	}
	require.EqualValues(t, 1, refreshCalls.Load())
	require.Equal(t, "fresh", store.AccessToken())
}

func TestGetProfile_NotFoundMeansNoProfile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetTokens(context.Background(), "acc", "ref"))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Profile not found"})
	})

	c := newTestClient(t, handler, store)
	_, err := c.GetProfile(context.Background())
	require.ErrorIs(t, err, common.ErrNoProfile)
	// an expected state, not a terminal one: the session survives
	require.True(t, store.Authenticated())
}

func TestImageURL(t *testing.T) {
	store := newTestStore(t)
	c := NewHTTPClient("http://localhost:8000/api/v1", store, logging.NewDefault())

	require.Equal(t, "", c.ImageURL(""))
	require.Equal(t, "https://cdn.example.com/a.jpg", c.ImageURL("https://cdn.example.com/a.jpg"))
	require.Equal(t, "http://localhost:8000/static/a.jpg", c.ImageURL("/static/a.jpg"))
	require.Equal(t, "http://localhost:8000/static/a.jpg", c.ImageURL("static/a.jpg"))
}
