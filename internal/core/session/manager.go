package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/core/storage"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Manager owns the token pair. Reads share an RWMutex; login, refresh and
// logout are serialized by writeMu so only one writer persists at a time.
type Manager struct {
	store storage.Storage
	auth  Authenticator
	doer  Doer
	log   zerolog.Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	username     string

	writeMu    sync.Mutex
	flight     singleflight.Group
	refreshing atomic.Bool
}

// New creates a Manager with an empty, unauthenticated session. Call Hydrate
// to load a persisted session.
func New(store storage.Storage, auth Authenticator, doer Doer, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		auth:  auth,
		doer:  doer,
		log:   log,
	}
}

// Hydrate loads the persisted session. A leftover refresh token without an
// access token (interrupted write) is discarded.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	values, err := m.store.Get(ctx, KeyAccessToken, KeyRefreshToken, KeyUsername)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	access := values[KeyAccessToken]
	refresh := values[KeyRefreshToken]
	username := values[KeyUsername]

	if access == "" && (refresh != "" || username != "") {
		m.log.Warn().Msg("discarding partial session without access token")
		if err := m.store.Remove(ctx, KeyRefreshToken, KeyUsername); err != nil {
			return fmt.Errorf("discard partial session: %w", err)
		}
		refresh, username = "", ""
	}

	m.mu.Lock()
	m.accessToken = access
	m.refreshToken = refresh
	m.username = username
	m.mu.Unlock()

	m.log.Debug().Str("status", string(m.Status())).Msg("session hydrated")
	return nil
}

// Session returns a snapshot of the current session.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Session{
		AccessToken:  m.accessToken,
		RefreshToken: m.refreshToken,
		Username:     m.username,
		Status:       m.statusLocked(),
	}
}

// Status returns the current authentication state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statusLocked()
}

func (m *Manager) statusLocked() Status {
	switch {
	case m.accessToken == "":
		return StatusUnauthenticated
	case m.refreshing.Load():
		return StatusRefreshing
	default:
		return StatusAuthenticated
	}
}

// Authenticated reports whether an access token is held.
func (m *Manager) Authenticated() bool {
	return m.Status() != StatusUnauthenticated
}

// ExpiresAt returns the expiry of the current access token, if it carries one.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	m.mu.RLock()
	token := m.accessToken
	m.mu.RUnlock()

	return tokenExpiry(token)
}

// Register creates an account. No tokens are stored.
func (m *Manager) Register(ctx context.Context, creds Credentials) error {
	if err := m.auth.Register(ctx, creds); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	m.log.Info().Str("username", creds.Username).Msg("registered")
	return nil
}

// Login authenticates and persists the returned token pair along with the
// username. Failures are never retried.
func (m *Manager) Login(ctx context.Context, creds Credentials) error {
	pair, err := m.auth.Authenticate(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.setTokensLocked(ctx, pair, creds.Username); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.log.Info().Str("username", creds.Username).Msg("logged in")
	return nil
}

// Logout clears the tokens and the remembered username. Calling it when
// already logged out is safe.
func (m *Manager) Logout(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.clearLocked(ctx, KeyAccessToken, KeyRefreshToken, KeyUsername); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	m.log.Debug().Msg("logged out")
	return nil
}

// Refresh exchanges the refresh token for a new pair. Concurrent calls share
// one underlying refresh. On failure every token is cleared.
func (m *Manager) Refresh(ctx context.Context) bool {
	m.mu.RLock()
	current := m.accessToken
	m.mu.RUnlock()

	return m.refreshFrom(ctx, current)
}

// refreshFrom refreshes unless the access token already moved on from stale,
// in which case another caller completed a refresh first.
func (m *Manager) refreshFrom(ctx context.Context, stale string) bool {
	// The result is shared by every waiter, so one caller's cancellation must
	// not abort it for the others.
	ctx = context.WithoutCancel(ctx)

	v, _, _ := m.flight.Do("refresh", func() (any, error) {
		m.refreshing.Store(true)
		defer m.refreshing.Store(false)

		return m.doRefresh(ctx, stale), nil
	})

	return v.(bool)
}

func (m *Manager) doRefresh(ctx context.Context, stale string) bool {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	access, refresh, username := m.accessToken, m.refreshToken, m.username
	m.mu.RUnlock()

	if access != "" && access != stale {
		m.log.Debug().Msg("token already refreshed")
		return true
	}

	if refresh == "" {
		m.log.Debug().Msg("no refresh token")
		m.clearTokensLocked(ctx)
		return false
	}

	pair, err := m.auth.Refresh(ctx, refresh)
	if err != nil {
		m.log.Warn().Err(err).Msg("refresh failed")
		m.clearTokensLocked(ctx)
		return false
	}

	if err := m.setTokensLocked(ctx, pair, username); err != nil {
		m.log.Error().Err(err).Msg("persist refreshed tokens")
		m.clearTokensLocked(ctx)
		return false
	}

	m.log.Debug().Msg("token refreshed")
	return true
}

// Do sends req with the current access token as a bearer credential. A 401 is
// followed by exactly one refresh and one retry; a 401 on the retry fails with
// errs.ErrAuthenticationRequired. Other responses, successful or not, are
// returned unchanged. Request bodies must be replayable (req.GetBody set, as
// http.NewRequest does for in-memory bodies).
func (m *Manager) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	m.mu.RLock()
	token := m.accessToken
	m.mu.RUnlock()

	if token == "" {
		return nil, errs.ErrAuthenticationRequired
	}

	resp, err := m.send(ctx, req, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	discard(resp)

	m.log.Debug().Str("url", req.URL.Path).Msg("unauthorized, refreshing")

	if !m.refreshFrom(ctx, token) {
		return nil, errs.ErrAuthenticationRequired
	}

	m.mu.RLock()
	token = m.accessToken
	m.mu.RUnlock()

	resp, err = m.send(ctx, req, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		discard(resp)

		m.writeMu.Lock()
		m.clearTokensLocked(ctx)
		m.writeMu.Unlock()

		return nil, errs.ErrAuthenticationRequired
	}

	return resp, nil
}

func (m *Manager) send(ctx context.Context, req *http.Request, token string) (*http.Response, error) {
	r := req.Clone(ctx)
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, errors.New("request body cannot be replayed")
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		r.Body = body
	}

	r.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.doer.Do(r)
	if err != nil {
		return nil, &errs.NetworkError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	return resp, nil
}

// setTokensLocked persists then adopts pair. Caller holds writeMu.
func (m *Manager) setTokensLocked(ctx context.Context, pair TokenPair, username string) error {
	values := map[string]string{
		KeyAccessToken:  pair.AccessToken,
		KeyRefreshToken: pair.RefreshToken,
	}
	if username != "" {
		values[KeyUsername] = username
	}

	if err := m.store.Set(ctx, values); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}

	m.mu.Lock()
	m.accessToken = pair.AccessToken
	m.refreshToken = pair.RefreshToken
	if username != "" {
		m.username = username
	}
	m.mu.Unlock()

	return nil
}

// clearTokensLocked drops both tokens after a failed refresh. Storage errors
// are logged; memory is cleared regardless.
func (m *Manager) clearTokensLocked(ctx context.Context) {
	if err := m.clearLocked(ctx, KeyAccessToken, KeyRefreshToken); err != nil {
		m.log.Error().Err(err).Msg("clear tokens")
	}
}

// clearLocked removes keys from storage and memory. Memory is cleared even
// when the storage remove fails. Caller holds writeMu.
func (m *Manager) clearLocked(ctx context.Context, keys ...string) error {
	err := m.store.Remove(ctx, keys...)

	m.mu.Lock()
	for _, key := range keys {
		switch key {
		case KeyAccessToken:
			m.accessToken = ""
		case KeyRefreshToken:
			m.refreshToken = ""
		case KeyUsername:
			m.username = ""
		}
	}
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("remove %v: %w", keys, err)
	}
	return nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
