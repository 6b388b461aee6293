package apitest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hay-kot/wishlist/internal/api"
	"github.com/hay-kot/wishlist/internal/core/session"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decode(r, &creds); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	if creds.Username == "" || creds.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Username and password are required.")
		return
	}
	if len(creds.Password) < 8 {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters long.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[creds.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "User already exists.")
		return
	}
	s.users[creds.Username] = creds.Password

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "User registered successfully."})
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decode(r, &creds); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	password, ok := s.users[creds.Username]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found.")
		return
	}
	if password != creds.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	pair, err := s.issueLocked(creds.Username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.refresh[req.RefreshToken]
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid refresh token.")
		return
	}
	delete(s.refresh, req.RefreshToken)

	pair, err := s.issueLocked(username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleGetWishlists(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := api.WishlistsResponse{Wishlists: []api.Wishlist{}}
	for _, wl := range s.wishlists {
		if wl.owner == user {
			out.Wishlists = append(out.Wishlists, wl.Wishlist)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateWishlist(w http.ResponseWriter, r *http.Request) {
	var req api.CreateWishlistRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "wishlist_name is required.")
		return
	}

	s.mu.Lock()
	id := s.addWishlistLocked(currentUser(r), req.Name, "")
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.CreateWishlistResponse{
		Message:    "Wishlist '" + req.Name + "' created successfully.",
		WishlistID: id,
	})
}

// ownedLocked returns the wishlist id owned by user, or nil.
func (s *Server) ownedLocked(id, user string) *wishlistRecord {
	for i := range s.wishlists {
		if s.wishlists[i].ID == id && s.wishlists[i].owner == user {
			return &s.wishlists[i]
		}
	}
	return nil
}

func (s *Server) handleViewItems(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("wishlist_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ownedLocked(id, currentUser(r)) == nil {
		writeDetail(w, http.StatusNotFound, "Wishlist does not exist or access denied")
		return
	}

	writeJSON(w, http.StatusOK, api.ItemsResponse{WishlistID: id, Items: s.itemsLocked(id)})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req api.AddItemRequest
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ownedLocked(req.WishlistID, currentUser(r)) == nil {
		writeDetail(w, http.StatusNotFound, "Wishlist does not exist or access denied")
		return
	}

	for _, it := range s.items {
		if it.WishlistID == req.WishlistID && it.URL != nil && *it.URL == req.URL {
			writeDetail(w, http.StatusBadRequest, "Item with this URL already exists in the wishlist")
			return
		}
	}

	image, link := req.Image, req.URL
	item := api.Item{
		ID:         uuid.NewString(),
		WishlistID: req.WishlistID,
		Title:      req.Title,
		Image:      &image,
		URL:        &link,
	}
	s.items = append(s.items, item)

	writeJSON(w, http.StatusOK, api.AddItemResponse{Message: "Item added successfully", ID: item.ID})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.RemoveItemRequest
	if r.ContentLength > 0 {
		_ = decode(r, &req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID != id {
			continue
		}

		wl := s.ownedLocked(it.WishlistID, currentUser(r))
		if wl == nil {
			writeDetail(w, http.StatusNotFound, "Wishlist not found or access denied")
			return
		}
		if wl.password != "" && wl.password != req.Password {
			writeDetail(w, http.StatusForbidden, "Invalid password.")
			return
		}

		s.items = append(s.items[:i], s.items[i+1:]...)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed successfully"})
		return
	}

	writeDetail(w, http.StatusNotFound, "Item not found")
}
