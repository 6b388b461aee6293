package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/wishlist/internal/api"
	"github.com/hay-kot/wishlist/internal/api/apitest"
	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/core/session"
)

func TestEndpoints(t *testing.T) {
	e, err := api.NewEndpoints("https://example.test/v1/")
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/v1/register", e.Register())
	assert.Equal(t, "https://example.test/v1/authenticate", e.Authenticate())
	assert.Equal(t, "https://example.test/v1/refresh", e.Refresh())
	assert.Equal(t, "https://example.test/v1/get_wishlists", e.GetWishlists())
	assert.Equal(t, "https://example.test/v1/create_wishlist", e.CreateWishlist())
	assert.Equal(t, "https://example.test/v1/view_items?wishlist_id=a%26b", e.ViewItems("a&b"))
	assert.Equal(t, "https://example.test/v1/add_item", e.AddItem())
	assert.Equal(t, "https://example.test/v1/remove_item/abc", e.RemoveItem("abc"))
	assert.Equal(t, "https://example.test/v1/view_list/abc", e.ViewList("abc"))
}

func TestNewEndpoints_RejectsRelative(t *testing.T) {
	_, err := api.NewEndpoints("/just/a/path")
	assert.Error(t, err)
}

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestDecodeResponse(t *testing.T) {
	t.Run("success decodes body", func(t *testing.T) {
		var out api.WishlistsResponse
		err := api.DecodeResponse(response(200, `{"wishlists":[{"id":"1","wishlist_name":"Travel"}]}`), &out)
		require.NoError(t, err)
		assert.Equal(t, []api.Wishlist{{ID: "1", Name: "Travel"}}, out.Wishlists)
	})

	t.Run("string detail", func(t *testing.T) {
		err := api.DecodeResponse(response(400, `{"detail":"Invalid wishlist ID format"}`), nil)

		var svcErr *errs.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Invalid wishlist ID format", svcErr.Detail)
	})

	t.Run("validation detail list", func(t *testing.T) {
		body := `{"detail":[{"loc":["body","password"],"msg":"too short"},{"msg":"missing field"}]}`
		err := api.DecodeResponse(response(422, body), nil)

		var svcErr *errs.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "too short; missing field", svcErr.Detail)
	})

	t.Run("no detail", func(t *testing.T) {
		err := api.DecodeResponse(response(502, `<html>bad gateway</html>`), nil)

		var svcErr *errs.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Empty(t, svcErr.Detail)
		assert.Equal(t, "Unknown error", errs.UserMessage(err))
	})
}

func TestNewJSONRequest_Replayable(t *testing.T) {
	req, err := api.NewJSONRequest(context.Background(), http.MethodPost, "http://x.test/add_item", map[string]string{"a": "b"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	require.NotNil(t, req.GetBody)

	body, err := req.GetBody()
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	assert.JSONEq(t, `{"a":"b"}`, string(data))
}

func newAuthClient(t *testing.T, srv *apitest.Server) *api.AuthClient {
	t.Helper()
	e, err := api.NewEndpoints(srv.URL)
	require.NoError(t, err)
	return api.NewAuthClient(e, srv.Client())
}

func TestAuthClient_RegisterAndAuthenticate(t *testing.T) {
	srv := apitest.New(t)
	client := newAuthClient(t, srv)
	ctx := context.Background()

	creds := session.Credentials{Username: "alice", Password: "password123"}
	require.NoError(t, client.Register(ctx, creds))

	err := client.Register(ctx, creds)
	var svcErr *errs.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "User already exists.", svcErr.Detail)

	pair, err := client.Authenticate(ctx, creds)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestAuthClient_AuthenticateFailures(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("alice", "password123")
	client := newAuthClient(t, srv)

	_, err := client.Authenticate(context.Background(), session.Credentials{Username: "alice", Password: "nope"})
	assert.Equal(t, "Invalid credentials.", errs.UserMessage(err))

	_, err = client.Authenticate(context.Background(), session.Credentials{Username: "bob", Password: "nope"})
	assert.Equal(t, "User not found.", errs.UserMessage(err))
}

func TestAuthClient_RefreshRotates(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("alice", "password123")
	client := newAuthClient(t, srv)
	ctx := context.Background()

	pair, err := client.Authenticate(ctx, session.Credentials{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	next, err := client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = client.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "Invalid refresh token.", errs.UserMessage(err))
}

func TestAuthClient_NetworkFailure(t *testing.T) {
	e, err := api.NewEndpoints("http://wishlist.invalid")
	require.NoError(t, err)

	client := api.NewAuthClient(e, doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("no route to host")
	}))

	err = client.Register(context.Background(), session.Credentials{Username: "a", Password: "b"})

	var netErr *errs.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "POST /register", netErr.Op)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
