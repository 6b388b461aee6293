// Package api describes the wishlist service's HTTP contract and implements
// its unauthenticated authentication calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/core/session"
)

// Endpoints resolves service paths against a base URL.
type Endpoints struct {
	base *url.URL
}

// NewEndpoints parses baseURL. The base may carry a path prefix.
func NewEndpoints(baseURL string) (Endpoints, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return Endpoints{}, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Endpoints{}, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return Endpoints{base: u}, nil
}

func (e Endpoints) resolve(path string, query url.Values) string {
	u := *e.base
	u.Path = e.base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (e Endpoints) Register() string       { return e.resolve("/register", nil) }
func (e Endpoints) Authenticate() string   { return e.resolve("/authenticate", nil) }
func (e Endpoints) Refresh() string        { return e.resolve("/refresh", nil) }
func (e Endpoints) GetWishlists() string   { return e.resolve("/get_wishlists", nil) }
func (e Endpoints) CreateWishlist() string { return e.resolve("/create_wishlist", nil) }
func (e Endpoints) AddItem() string        { return e.resolve("/add_item", nil) }

func (e Endpoints) ViewItems(wishlistID string) string {
	return e.resolve("/view_items", url.Values{"wishlist_id": {wishlistID}})
}

func (e Endpoints) RemoveItem(itemID string) string {
	return e.resolve("/remove_item/"+itemID, nil)
}

// ViewList is the public share link of a wishlist.
func (e Endpoints) ViewList(wishlistID string) string {
	return e.resolve("/view_list/"+wishlistID, nil)
}

// NewJSONRequest builds a request with body encoded as JSON. A nil body sends
// no payload. The body is replayable through GetBody.
func NewJSONRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// DecodeResponse closes resp.Body. A 2xx response is decoded into out (when
// non-nil); any other status becomes an *errs.ServiceError carrying the
// service's detail message.
func DecodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	svcErr := &errs.ServiceError{StatusCode: resp.StatusCode}

	var body ErrorResponse
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && json.Unmarshal(data, &body) == nil {
		svcErr.Detail = body.detailText()
	}

	return svcErr
}

// AuthClient performs the calls that need no bearer credential.
type AuthClient struct {
	endpoints Endpoints
	doer      session.Doer
}

// NewAuthClient creates an AuthClient sending through doer.
func NewAuthClient(endpoints Endpoints, doer session.Doer) *AuthClient {
	return &AuthClient{endpoints: endpoints, doer: doer}
}

func (c *AuthClient) post(ctx context.Context, target string, body, out any) error {
	req, err := NewJSONRequest(ctx, http.MethodPost, target, body)
	if err != nil {
		return err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return &errs.NetworkError{Op: "POST " + req.URL.Path, Err: err}
	}

	return DecodeResponse(resp, out)
}

// ErrEmptyTokens is returned when the service answers 2xx without tokens.
var ErrEmptyTokens = errors.New("service returned an empty token pair")
