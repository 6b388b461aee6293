// Package apitest runs an in-memory implementation of the wishlist service
// contract for tests.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hay-kot/wishlist/internal/api"
)

type ctxKey struct{}

type wishlistRecord struct {
	api.Wishlist
	owner    string
	password string
}

// Server is a fake wishlist service. Zero-configuration: register users via
// AddUser or the /register endpoint.
type Server struct {
	*httptest.Server

	secret    []byte
	accessTTL time.Duration

	mu            sync.Mutex
	users         map[string]string
	access        map[string]string
	refresh       map[string]string
	wishlists     []wishlistRecord
	items         []api.Item
	calls         map[string]int
	failNextCount map[string]int
}

// New starts a Server and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		secret:        []byte("apitest-secret"),
		accessTTL:     15 * time.Minute,
		users:         map[string]string{},
		access:        map[string]string{},
		refresh:       map[string]string{},
		calls:         map[string]int{},
		failNextCount: map[string]int{},
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)

	r.Post("/register", s.handleRegister)
	r.Post("/authenticate", s.handleAuthenticate)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/view_list/{id}", s.handleViewList)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/get_wishlists", s.handleGetWishlists)
		r.Post("/create_wishlist", s.handleCreateWishlist)
		r.Get("/view_items", s.handleViewItems)
		r.Post("/add_item", s.handleAddItem)
		r.Delete("/remove_item/{id}", s.handleRemoveItem)
	})

	return r
}

// AddUser registers a user directly.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// AddWishlist creates a wishlist owned by username and returns its id.
func (s *Server) AddWishlist(username, name, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addWishlistLocked(username, name, password)
}

func (s *Server) addWishlistLocked(username, name, password string) string {
	id := uuid.NewString()
	s.wishlists = append(s.wishlists, wishlistRecord{
		Wishlist: api.Wishlist{ID: id, Name: name},
		owner:    username,
		password: password,
	})
	return id
}

// ExpireAccessTokens invalidates every issued access token. Refresh tokens
// stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = map[string]string{}
}

// RevokeRefreshTokens invalidates every issued refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = map[string]string{}
}

// FailNext makes the next n requests to path answer 500.
func (s *Server) FailNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextCount[path] = n
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Items returns a copy of the items stored in wishlistID.
func (s *Server) Items(wishlistID string) []api.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked(wishlistID)
}

func (s *Server) itemsLocked(wishlistID string) []api.Item {
	out := []api.Item{}
	for _, it := range s.items {
		if it.WishlistID == wishlistID {
			out = append(out, it)
		}
	}
	return out
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/remove_item/") {
			path = "/remove_item"
		}
		if strings.HasPrefix(path, "/view_list/") {
			path = "/view_list"
		}

		s.mu.Lock()
		s.calls[path]++
		fail := s.failNextCount[path] > 0
		if fail {
			s.failNextCount[path]--
		}
		s.mu.Unlock()

		if fail {
			writeDetail(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeDetail(w, http.StatusUnauthorized, "Missing Authorization header.")
			return
		}

		tokenType, token, _ := strings.Cut(header, " ")
		if tokenType != "Bearer" {
			writeDetail(w, http.StatusUnauthorized, "Invalid token type.")
			return
		}

		s.mu.Lock()
		username, ok := s.access[token]
		s.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Access token expired.")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) string {
	username, _ := r.Context().Value(ctxKey{}).(string)
	return username
}

func (s *Server) mint(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// issueLocked mints and records a fresh pair for username.
func (s *Server) issueLocked(username string) (map[string]string, error) {
	access, err := s.mint(username, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.mint(username, 180*24*time.Hour)
	if err != nil {
		return nil, err
	}

	s.access[access] = username
	s.refresh[refresh] = username

	return map[string]string{
		"status":        "ok",
		"access_token":  access,
		"refresh_token": refresh,
	}, nil
}

func (s *Server) handleViewList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	var found *wishlistRecord
	for i := range s.wishlists {
		if s.wishlists[i].ID == id {
			found = &s.wishlists[i]
			break
		}
	}
	var items []api.Item
	var name string
	if found != nil {
		items = s.itemsLocked(id)
		name = found.Name
	}
	s.mu.Unlock()

	if found == nil {
		writeDetail(w, http.StatusNotFound, "Wishlist not found")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = viewListTmpl.Execute(w, struct {
		Name  string
		Items []api.Item
	}{name, items})
}

var viewListTmpl = template.Must(template.New("view").Parse(`<!DOCTYPE html>
<html><head><title>{{ .Name }}</title></head>
<body><h1>Wishlist: {{ .Name }}</h1>
{{ range .Items }}<div class="item"><a href="{{ .URL }}">{{ .Title }}</a></div>
{{ end }}</body></html>`))

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
