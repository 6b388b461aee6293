// Package wishlist defines the wishlist domain types and the capability set
// shared by the remote and local stores.
package wishlist

import (
	"context"
	"errors"
)

// LocalID is the reserved id of the local pseudo-wishlist. Operations on it
// never reach the service.
const LocalID = "local"

var (
	// ErrLocalDisabled is returned for LocalID when the local list is turned off.
	ErrLocalDisabled = errors.New("local wishlist is disabled")
	// ErrNotFound is returned when a wishlist id is not among the listed wishlists.
	ErrNotFound = errors.New("wishlist not found")
	// ErrNoWishlist is returned when there is no wishlist to select.
	ErrNoWishlist = errors.New("no wishlist available, create one first")
)

// Wishlist is a named collection of items.
type Wishlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsLocal reports whether w is the local pseudo-wishlist.
func (w Wishlist) IsLocal() bool { return w.ID == LocalID }

// Item is a saved product. ID is assigned by the service and empty for local
// items, which are identified by URL.
type Item struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url"`
}

// Store is the capability set of a wishlist backend.
type Store interface {
	// ListWishlists returns the wishlists visible to the user.
	ListWishlists(ctx context.Context) ([]Wishlist, error)
	// CreateWishlist creates a wishlist. Repeated calls create duplicates.
	CreateWishlist(ctx context.Context, name string) (Wishlist, error)
	// ListItems returns the items of wishlistID in store order.
	ListItems(ctx context.Context, wishlistID string) ([]Item, error)
	// AddItem saves item into wishlistID and returns it as stored.
	AddItem(ctx context.Context, wishlistID string, item Item) (Item, error)
	// RemoveItem deletes item from wishlistID.
	RemoveItem(ctx context.Context, wishlistID string, item Item) error
}

// PasswordRemover is implemented by stores that support write-protected
// wishlists, where removal requires the wishlist's password.
type PasswordRemover interface {
	RemoveItemWithPassword(ctx context.Context, wishlistID string, item Item, password string) error
}
