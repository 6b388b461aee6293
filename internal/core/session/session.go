// Package session owns the access/refresh token pair, persists it, and wraps
// outbound requests with a single refresh-and-retry on authorization failure.
package session

import "context"

// Status is the authentication state of a Session.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
	StatusRefreshing      Status = "refreshing"
)

// Storage keys used to persist the session.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUsername     = "username"
)

// Session is a snapshot of the current authentication state.
type Session struct {
	AccessToken  string
	RefreshToken string
	Username     string
	Status       Status
}

// Credentials are the username and password submitted to login or register.
// They are never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is the pair returned by the authenticate and refresh endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticator performs the unauthenticated calls against the service.
type Authenticator interface {
	Register(ctx context.Context, creds Credentials) error
	Authenticate(ctx context.Context, creds Credentials) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}
