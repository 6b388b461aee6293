// Package remote implements wishlist.Store against the wishlist service.
package remote

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hay-kot/wishlist/internal/api"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
)

// Requester sends authenticated requests. *session.Manager implements it.
type Requester interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

var (
	_ wishlist.Store           = (*Store)(nil)
	_ wishlist.PasswordRemover = (*Store)(nil)
)

// Store is the remote wishlist backend.
type Store struct {
	endpoints api.Endpoints
	client    Requester
	log       zerolog.Logger
}

// New creates a Store sending through client.
func New(endpoints api.Endpoints, client Requester, log zerolog.Logger) *Store {
	return &Store{
		endpoints: endpoints,
		client:    client,
		log:       log.With().Str("component", "remote").Logger(),
	}
}

func (s *Store) call(ctx context.Context, method, target string, body, out any) error {
	req, err := api.NewJSONRequest(ctx, method, target, body)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return err
	}

	if err := api.DecodeResponse(resp, out); err != nil {
		s.log.Debug().Err(err).Str("method", method).Str("path", req.URL.Path).Msg("call failed")
		return err
	}
	return nil
}

func (s *Store) ListWishlists(ctx context.Context) ([]wishlist.Wishlist, error) {
	var resp api.WishlistsResponse
	if err := s.call(ctx, http.MethodGet, s.endpoints.GetWishlists(), nil, &resp); err != nil {
		return nil, err
	}

	out := make([]wishlist.Wishlist, 0, len(resp.Wishlists))
	for _, w := range resp.Wishlists {
		out = append(out, wishlist.Wishlist{ID: w.ID, Name: w.Name})
	}
	return out, nil
}

func (s *Store) CreateWishlist(ctx context.Context, name string) (wishlist.Wishlist, error) {
	var resp api.CreateWishlistResponse
	body := api.CreateWishlistRequest{Name: name}
	if err := s.call(ctx, http.MethodPost, s.endpoints.CreateWishlist(), body, &resp); err != nil {
		return wishlist.Wishlist{}, err
	}

	s.log.Info().Str("wishlist_id", resp.WishlistID).Msg("wishlist created")
	return wishlist.Wishlist{ID: resp.WishlistID, Name: name}, nil
}

func (s *Store) ListItems(ctx context.Context, wishlistID string) ([]wishlist.Item, error) {
	var resp api.ItemsResponse
	if err := s.call(ctx, http.MethodGet, s.endpoints.ViewItems(wishlistID), nil, &resp); err != nil {
		return nil, err
	}

	out := make([]wishlist.Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, wishlist.Item{
			ID:    it.ID,
			Title: it.Title,
			Image: deref(it.Image),
			URL:   deref(it.URL),
		})
	}
	return out, nil
}

func (s *Store) AddItem(ctx context.Context, wishlistID string, item wishlist.Item) (wishlist.Item, error) {
	var resp api.AddItemResponse
	body := api.AddItemRequest{
		WishlistID: wishlistID,
		Title:      item.Title,
		Image:      item.Image,
		URL:        item.URL,
	}
	if err := s.call(ctx, http.MethodPost, s.endpoints.AddItem(), body, &resp); err != nil {
		return wishlist.Item{}, err
	}

	item.ID = resp.ID
	return item, nil
}

func (s *Store) RemoveItem(ctx context.Context, wishlistID string, item wishlist.Item) error {
	return s.RemoveItemWithPassword(ctx, wishlistID, item, "")
}

// RemoveItemWithPassword removes item from a write-protected wishlist. An
// empty password sends no body.
func (s *Store) RemoveItemWithPassword(ctx context.Context, _ string, item wishlist.Item, password string) error {
	var body any
	if password != "" {
		body = api.RemoveItemRequest{Password: password}
	}
	return s.call(ctx, http.MethodDelete, s.endpoints.RemoveItem(item.ID), body, nil)
}

// ShareURL returns the public link of wishlistID.
func (s *Store) ShareURL(wishlistID string) string {
	return s.endpoints.ViewList(wishlistID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
