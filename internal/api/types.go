package api

import (
	"encoding/json"
	"strings"
)

// RefreshRequest is the body of POST /refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ErrorResponse is the body of a non-2xx response. Validation failures carry
// a list of objects instead of a string.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func (e ErrorResponse) detailText() string {
	if len(e.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, d := range list {
			if d.Msg != "" {
				msgs = append(msgs, d.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(e.Detail)
}

// Wishlist is a wishlist as returned by GET /get_wishlists.
type Wishlist struct {
	ID   string `json:"id"`
	Name string `json:"wishlist_name"`
}

// WishlistsResponse is the body of GET /get_wishlists.
type WishlistsResponse struct {
	Wishlists []Wishlist `json:"wishlists"`
}

// CreateWishlistRequest is the body of POST /create_wishlist.
type CreateWishlistRequest struct {
	Name string `json:"wishlist_name"`
}

// CreateWishlistResponse is the body returned by POST /create_wishlist.
type CreateWishlistResponse struct {
	Message    string `json:"message"`
	WishlistID string `json:"wishlist_id"`
}

// Item is a wishlist item as returned by GET /view_items.
type Item struct {
	ID         string  `json:"id"`
	WishlistID string  `json:"wishlist_id"`
	Title      string  `json:"title"`
	Image      *string `json:"image"`
	URL        *string `json:"url"`
}

// ItemsResponse is the body of GET /view_items.
type ItemsResponse struct {
	WishlistID string `json:"wishlist_id"`
	Items      []Item `json:"items"`
}

// AddItemRequest is the body of POST /add_item.
type AddItemRequest struct {
	WishlistID string `json:"wishlist_id"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	URL        string `json:"url"`
}

// AddItemResponse is the body returned by POST /add_item.
type AddItemResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// RemoveItemRequest is the optional body of DELETE /remove_item/{id} for
// write-protected wishlists.
type RemoveItemRequest struct {
	Password string `json:"password,omitempty"`
}
