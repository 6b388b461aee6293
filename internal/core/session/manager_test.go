package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/store/jsonfile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memStorage implements storage.Storage in memory.
type memStorage struct {
	mu        sync.Mutex
	values    map[string]string
	removeErr error
}

func newMemStorage(values map[string]string) *memStorage {
	if values == nil {
		values = map[string]string{}
	}
	return &memStorage{values: values}
}

func (s *memStorage) Get(_ context.Context, keys ...string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *memStorage) Set(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *memStorage) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *memStorage) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// fakeAuth implements Authenticator.
type fakeAuth struct {
	refreshCalls atomic.Int32
	refreshDelay time.Duration
	refreshErr   error
	next         TokenPair
	loginErr     error
}

func (a *fakeAuth) Register(_ context.Context, _ Credentials) error { return a.loginErr }

func (a *fakeAuth) Authenticate(_ context.Context, _ Credentials) (TokenPair, error) {
	if a.loginErr != nil {
		return TokenPair{}, a.loginErr
	}
	return a.next, nil
}

func (a *fakeAuth) Refresh(_ context.Context, _ string) (TokenPair, error) {
	a.refreshCalls.Add(1)
	if a.refreshDelay > 0 {
		time.Sleep(a.refreshDelay)
	}
	if a.refreshErr != nil {
		return TokenPair{}, a.refreshErr
	}
	return a.next, nil
}

// tokenDoer answers 200 for the accepted bearer token and 401 otherwise.
type tokenDoer struct {
	mu       sync.Mutex
	accept   string
	requests []string
	bodies   []string
	err      error
}

func (d *tokenDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}

	auth := req.Header.Get("Authorization")
	d.requests = append(d.requests, auth)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		d.bodies = append(d.bodies, string(b))
	}

	status := http.StatusUnauthorized
	if auth == "Bearer "+d.accept {
		status = http.StatusOK
	}

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
		Header:     http.Header{},
	}, nil
}

func (d *tokenDoer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func newManager(t *testing.T, store *memStorage, auth *fakeAuth, doer Doer) *Manager {
	t.Helper()
	m := New(store, auth, doer, zerolog.New(io.Discard))
	require.NoError(t, m.Hydrate(context.Background()))
	return m
}

func authedStore() *memStorage {
	return newMemStorage(map[string]string{
		KeyAccessToken:  "old",
		KeyRefreshToken: "refresh-1",
		KeyUsername:     "alice",
	})
}

func newRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "http://wishlist.test/add_item", bytes.NewBufferString(body))
	require.NoError(t, err)
	return req
}

func TestHydrate(t *testing.T) {
	t.Run("authenticated when access token present", func(t *testing.T) {
		m := newManager(t, authedStore(), &fakeAuth{}, &tokenDoer{})

		s := m.Session()
		assert.Equal(t, StatusAuthenticated, s.Status)
		assert.Equal(t, "alice", s.Username)
		assert.Equal(t, "refresh-1", s.RefreshToken)
	})

	t.Run("unauthenticated when empty", func(t *testing.T) {
		m := newManager(t, newMemStorage(nil), &fakeAuth{}, &tokenDoer{})
		assert.Equal(t, StatusUnauthenticated, m.Status())
		assert.False(t, m.Authenticated())
	})

	t.Run("discards refresh token without access token", func(t *testing.T) {
		store := newMemStorage(map[string]string{KeyRefreshToken: "dangling", KeyUsername: "bob"})
		m := newManager(t, store, &fakeAuth{}, &tokenDoer{})

		assert.Equal(t, StatusUnauthenticated, m.Status())
		assert.Empty(t, store.snapshot())
		assert.Empty(t, m.Session().RefreshToken)
	})
}

func TestLogin_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()
	auth := &fakeAuth{next: TokenPair{AccessToken: "access", RefreshToken: "refresh"}}

	first := New(jsonfile.NewKVStore(path), auth, &tokenDoer{}, zerolog.Nop())
	require.NoError(t, first.Hydrate(ctx))
	require.NoError(t, first.Login(ctx, Credentials{Username: "alice", Password: "password123"}))
	assert.Equal(t, StatusAuthenticated, first.Status())

	restarted := New(jsonfile.NewKVStore(path), auth, &tokenDoer{}, zerolog.Nop())
	require.NoError(t, restarted.Hydrate(ctx))

	s := restarted.Session()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "access", s.AccessToken)
	assert.Equal(t, "refresh", s.RefreshToken)
	assert.Equal(t, "alice", s.Username)
}

func TestLogin_FailureSurfacesDetail(t *testing.T) {
	store := newMemStorage(nil)
	auth := &fakeAuth{loginErr: &errs.ServiceError{StatusCode: 401, Detail: "Invalid credentials."}}
	m := newManager(t, store, auth, &tokenDoer{})

	err := m.Login(context.Background(), Credentials{Username: "alice", Password: "wrong"})

	var svcErr *errs.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Invalid credentials.", svcErr.Detail)
	assert.Empty(t, store.snapshot())
	assert.Equal(t, StatusUnauthenticated, m.Status())
}

func TestRegister_StoresNothing(t *testing.T) {
	store := newMemStorage(nil)
	m := newManager(t, store, &fakeAuth{}, &tokenDoer{})

	require.NoError(t, m.Register(context.Background(), Credentials{Username: "alice", Password: "password123"}))
	assert.Empty(t, store.snapshot())
	assert.Equal(t, StatusUnauthenticated, m.Status())
}

func TestDo_RefreshesOnceAndRetriesOnce(t *testing.T) {
	store := authedStore()
	auth := &fakeAuth{next: TokenPair{AccessToken: "new", RefreshToken: "refresh-2"}}
	doer := &tokenDoer{accept: "new"}
	m := newManager(t, store, auth, doer)

	resp, err := m.Do(context.Background(), newRequest(t, `{"title":"lamp"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), auth.refreshCalls.Load())
	assert.Equal(t, []string{"Bearer old", "Bearer new"}, doer.requests)
	assert.Equal(t, []string{`{"title":"lamp"}`, `{"title":"lamp"}`}, doer.bodies, "body replayed on retry")

	persisted := store.snapshot()
	assert.Equal(t, "new", persisted[KeyAccessToken])
	assert.Equal(t, "refresh-2", persisted[KeyRefreshToken])
	assert.Equal(t, "alice", persisted[KeyUsername])
}

func TestDo_NoRefreshTokenRequiresAuthentication(t *testing.T) {
	store := newMemStorage(map[string]string{KeyAccessToken: "old"})
	auth := &fakeAuth{}
	m := newManager(t, store, auth, &tokenDoer{accept: "new"})

	_, err := m.Do(context.Background(), newRequest(t, "{}"))

	require.ErrorIs(t, err, errs.ErrAuthenticationRequired)
	assert.Equal(t, int32(0), auth.refreshCalls.Load())
	assert.NotContains(t, store.snapshot(), KeyAccessToken)
	assert.NotContains(t, store.snapshot(), KeyRefreshToken)
	assert.Equal(t, StatusUnauthenticated, m.Status())
}

func TestDo_InvalidRefreshTokenClearsStorage(t *testing.T) {
	store := authedStore()
	auth := &fakeAuth{refreshErr: &errs.ServiceError{StatusCode: 400, Detail: "Invalid refresh token."}}
	m := newManager(t, store, auth, &tokenDoer{accept: "new"})

	_, err := m.Do(context.Background(), newRequest(t, "{}"))

	require.ErrorIs(t, err, errs.ErrAuthenticationRequired)
	assert.Equal(t, int32(1), auth.refreshCalls.Load())

	persisted := store.snapshot()
	assert.NotContains(t, persisted, KeyAccessToken)
	assert.NotContains(t, persisted, KeyRefreshToken)
	assert.Equal(t, StatusUnauthenticated, m.Status())
}

func TestDo_SecondUnauthorizedIsHardFailure(t *testing.T) {
	store := authedStore()
	auth := &fakeAuth{next: TokenPair{AccessToken: "still-bad", RefreshToken: "refresh-2"}}
	doer := &tokenDoer{accept: "never"}
	m := newManager(t, store, auth, doer)

	_, err := m.Do(context.Background(), newRequest(t, "{}"))

	require.ErrorIs(t, err, errs.ErrAuthenticationRequired)
	assert.Equal(t, 2, doer.count(), "original plus exactly one retry")
	assert.Equal(t, int32(1), auth.refreshCalls.Load())
	assert.NotContains(t, store.snapshot(), KeyAccessToken)
}

func TestDo_OtherStatusReturnedUnchanged(t *testing.T) {
	m := newManager(t, authedStore(), &fakeAuth{}, doerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader(`{"detail":"Invalid wishlist ID format"}`)),
		}, nil
	}))

	resp, err := m.Do(context.Background(), newRequest(t, "{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"detail":"Invalid wishlist ID format"}`, string(body))
}

func TestDo_WithoutTokenSkipsNetwork(t *testing.T) {
	doer := &tokenDoer{}
	m := newManager(t, newMemStorage(nil), &fakeAuth{}, doer)

	_, err := m.Do(context.Background(), newRequest(t, "{}"))

	assert.ErrorIs(t, err, errs.ErrAuthenticationRequired)
	assert.Zero(t, doer.count())
}

func TestDo_TransportFailureIsNetworkError(t *testing.T) {
	doer := &tokenDoer{err: errors.New("dial tcp: connection refused")}
	m := newManager(t, authedStore(), &fakeAuth{}, doer)

	_, err := m.Do(context.Background(), newRequest(t, "{}"))

	var netErr *errs.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "POST /add_item", netErr.Op)
	assert.NotErrorIs(t, err, errs.ErrAuthenticationRequired)
	assert.Equal(t, StatusAuthenticated, m.Status(), "network failure keeps the session")
}

func TestDo_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	auth := &fakeAuth{
		next:         TokenPair{AccessToken: "new", RefreshToken: "refresh-2"},
		refreshDelay: 50 * time.Millisecond,
	}
	doer := &tokenDoer{accept: "new"}
	m := newManager(t, authedStore(), auth, doer)

	const callers = 10
	var wg sync.WaitGroup
	errCh := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodGet, "http://wishlist.test/get_wishlists", nil)
			if err != nil {
				errCh <- err
				return
			}
			resp, err := m.Do(context.Background(), req)
			if err != nil {
				errCh <- err
				return
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errCh <- errors.New(resp.Status)
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("call failed: %v", err)
	}
	assert.Equal(t, int32(1), auth.refreshCalls.Load())
	assert.Equal(t, "new", m.Session().AccessToken)
}

func TestRefresh_Public(t *testing.T) {
	auth := &fakeAuth{next: TokenPair{AccessToken: "new", RefreshToken: "refresh-2"}}
	m := newManager(t, authedStore(), auth, &tokenDoer{})

	assert.True(t, m.Refresh(context.Background()))
	assert.Equal(t, "new", m.Session().AccessToken)
	assert.Equal(t, StatusAuthenticated, m.Status())
}

func TestLogout(t *testing.T) {
	t.Run("clears tokens and username", func(t *testing.T) {
		store := authedStore()
		m := newManager(t, store, &fakeAuth{}, &tokenDoer{})

		require.NoError(t, m.Logout(context.Background()))

		assert.Empty(t, store.snapshot())
		assert.Equal(t, Session{Status: StatusUnauthenticated}, m.Session())
	})

	t.Run("idempotent", func(t *testing.T) {
		m := newManager(t, newMemStorage(nil), &fakeAuth{}, &tokenDoer{})

		assert.NoError(t, m.Logout(context.Background()))
		assert.NoError(t, m.Logout(context.Background()))
	})

	t.Run("clears memory when storage fails", func(t *testing.T) {
		store := authedStore()
		store.removeErr = errors.New("disk full")
		m := newManager(t, store, &fakeAuth{}, &tokenDoer{})

		err := m.Logout(context.Background())

		assert.Error(t, err)
		assert.Equal(t, StatusUnauthenticated, m.Status())
	})
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	store := newMemStorage(map[string]string{KeyAccessToken: token})
	m := newManager(t, store, &fakeAuth{}, &tokenDoer{})

	got, ok := m.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	opaque := newManager(t, authedStore(), &fakeAuth{}, &tokenDoer{})
	_, ok = opaque.ExpiresAt()
	assert.False(t, ok)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
