package api

import (
	"context"

	"github.com/hay-kot/wishlist/internal/core/session"
)

var _ session.Authenticator = (*AuthClient)(nil)

// Register creates an account.
func (c *AuthClient) Register(ctx context.Context, creds session.Credentials) error {
	return c.post(ctx, c.endpoints.Register(), creds, nil)
}

// Authenticate exchanges credentials for a token pair.
func (c *AuthClient) Authenticate(ctx context.Context, creds session.Credentials) (session.TokenPair, error) {
	var pair session.TokenPair
	if err := c.post(ctx, c.endpoints.Authenticate(), creds, &pair); err != nil {
		return session.TokenPair{}, err
	}
	if pair.AccessToken == "" {
		return session.TokenPair{}, ErrEmptyTokens
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The service rotates the
// refresh token, so the old one is unusable afterwards.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	var pair session.TokenPair
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.post(ctx, c.endpoints.Refresh(), req, &pair); err != nil {
		return session.TokenPair{}, err
	}
	if pair.AccessToken == "" {
		return session.TokenPair{}, ErrEmptyTokens
	}
	return pair, nil
}
