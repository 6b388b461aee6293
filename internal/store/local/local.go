// Package local implements the device-only wishlist kept in storage.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/core/storage"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
)

// KeyItems is the storage key holding the JSON encoded item list.
const KeyItems = "localWishlist"

// DefaultName is the display name of the local pseudo-wishlist.
const DefaultName = "Saved on this device"

var _ wishlist.Store = (*Store)(nil)

// Store keeps items in insertion order as a single storage value. Items are
// identified by URL.
type Store struct {
	store storage.Storage
	name  string

	mu sync.Mutex
}

// New creates a Store. An empty name uses DefaultName.
func New(store storage.Storage, name string) *Store {
	if name == "" {
		name = DefaultName
	}
	return &Store{store: store, name: name}
}

func (s *Store) ListWishlists(context.Context) ([]wishlist.Wishlist, error) {
	return []wishlist.Wishlist{{ID: wishlist.LocalID, Name: s.name}}, nil
}

func (s *Store) CreateWishlist(context.Context, string) (wishlist.Wishlist, error) {
	return wishlist.Wishlist{}, fmt.Errorf("create local wishlist: %w", errors.ErrUnsupported)
}

func (s *Store) ListItems(ctx context.Context, _ string) ([]wishlist.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) AddItem(ctx context.Context, _ string, item wishlist.Item) (wishlist.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadLocked(ctx)
	if err != nil {
		return wishlist.Item{}, err
	}

	if slices.ContainsFunc(items, func(it wishlist.Item) bool { return it.URL == item.URL }) {
		return wishlist.Item{}, errs.ErrDuplicateItem
	}

	item.ID = ""
	if err := s.saveLocked(ctx, append(items, item)); err != nil {
		return wishlist.Item{}, err
	}
	return item, nil
}

func (s *Store) RemoveItem(ctx context.Context, _ string, item wishlist.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(items, func(it wishlist.Item) bool { return it.URL == item.URL })
	if i < 0 {
		return nil
	}
	return s.saveLocked(ctx, slices.Delete(items, i, i+1))
}

func (s *Store) loadLocked(ctx context.Context) ([]wishlist.Item, error) {
	values, err := s.store.Get(ctx, KeyItems)
	if err != nil {
		return nil, fmt.Errorf("load local items: %w", err)
	}

	raw, ok := values[KeyItems]
	if !ok || raw == "" {
		return []wishlist.Item{}, nil
	}

	var items []wishlist.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode local items: %w", err)
	}
	return items, nil
}

func (s *Store) saveLocked(ctx context.Context, items []wishlist.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode local items: %w", err)
	}
	if err := s.store.Set(ctx, map[string]string{KeyItems: string(data)}); err != nil {
		return fmt.Errorf("save local items: %w", err)
	}
	return nil
}
