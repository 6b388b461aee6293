package wishlist

import (
	"context"
	"fmt"

	"github.com/hay-kot/wishlist/internal/core/storage"
)

// KeySelected is the storage key holding the selected wishlist id.
const KeySelected = "selectedWishlist"

// Selection persists the currently selected wishlist id.
type Selection struct {
	store storage.Storage
}

// NewSelection creates a Selection backed by store.
func NewSelection(store storage.Storage) *Selection {
	return &Selection{store: store}
}

// Get returns the selected id, or "" when nothing is selected.
func (s *Selection) Get(ctx context.Context) (string, error) {
	values, err := s.store.Get(ctx, KeySelected)
	if err != nil {
		return "", fmt.Errorf("load selection: %w", err)
	}
	return values[KeySelected], nil
}

// Set selects id.
func (s *Selection) Set(ctx context.Context, id string) error {
	if err := s.store.Set(ctx, map[string]string{KeySelected: id}); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

// Clear forgets the selection.
func (s *Selection) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, KeySelected); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}
