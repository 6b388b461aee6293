package wishlist

import (
	"context"
	"errors"
	"fmt"
)

// Router picks the backing store for a wishlist id. The id alone decides:
// LocalID goes to the local store, anything else to the remote store.
type Router struct {
	remote        Store
	local         Store
	authenticated func() bool
}

// NewRouter creates a Router. local may be nil to disable the local list.
// authenticated gates remote listing so a logged-out user still sees the
// local list.
func NewRouter(remote, local Store, authenticated func() bool) *Router {
	return &Router{remote: remote, local: local, authenticated: authenticated}
}

// For returns the store responsible for wishlistID.
func (r *Router) For(wishlistID string) Store {
	if wishlistID == LocalID {
		if r.local == nil {
			return disabledStore{}
		}
		return r.local
	}
	return r.remote
}

// LocalEnabled reports whether the local list is available.
func (r *Router) LocalEnabled() bool { return r.local != nil }

// ListWishlists returns the local pseudo-wishlist first (when enabled)
// followed by the remote wishlists (when logged in).
func (r *Router) ListWishlists(ctx context.Context) ([]Wishlist, error) {
	var out []Wishlist

	if r.local != nil {
		local, err := r.local.ListWishlists(ctx)
		if err != nil {
			return nil, fmt.Errorf("list local wishlists: %w", err)
		}
		out = append(out, local...)
	}

	if r.authenticated == nil || r.authenticated() {
		remote, err := r.remote.ListWishlists(ctx)
		if err != nil {
			return nil, fmt.Errorf("list remote wishlists: %w", err)
		}
		out = append(out, remote...)
	}

	return out, nil
}

// CreateWishlist creates a remote wishlist.
func (r *Router) CreateWishlist(ctx context.Context, name string) (Wishlist, error) {
	return r.remote.CreateWishlist(ctx, name)
}

// Find returns the listed wishlist with id. Asking for the local list while
// it is disabled returns ErrLocalDisabled.
func (r *Router) Find(ctx context.Context, id string) (Wishlist, error) {
	if id == LocalID && r.local == nil {
		return Wishlist{}, ErrLocalDisabled
	}

	lists, err := r.ListWishlists(ctx)
	if err != nil {
		return Wishlist{}, err
	}
	for _, w := range lists {
		if w.ID == id {
			return w, nil
		}
	}
	return Wishlist{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Resolve picks the wishlist to act on: explicit when set, otherwise
// preferred when it is still listed, otherwise the first listed wishlist.
func (r *Router) Resolve(ctx context.Context, explicit, preferred string) (Wishlist, error) {
	if explicit != "" {
		return r.Find(ctx, explicit)
	}

	lists, err := r.ListWishlists(ctx)
	if err != nil {
		return Wishlist{}, err
	}
	if len(lists) == 0 {
		return Wishlist{}, ErrNoWishlist
	}

	for _, w := range lists {
		if w.ID == preferred {
			return w, nil
		}
	}
	return lists[0], nil
}

type disabledStore struct{}

func (disabledStore) ListWishlists(context.Context) ([]Wishlist, error) { return nil, nil }

func (disabledStore) CreateWishlist(context.Context, string) (Wishlist, error) {
	return Wishlist{}, errors.ErrUnsupported
}

func (disabledStore) ListItems(context.Context, string) ([]Item, error) {
	return nil, ErrLocalDisabled
}

func (disabledStore) AddItem(context.Context, string, Item) (Item, error) {
	return Item{}, ErrLocalDisabled
}

func (disabledStore) RemoveItem(context.Context, string, Item) error { return ErrLocalDisabled }
