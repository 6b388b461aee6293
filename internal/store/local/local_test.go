package local

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
	"github.com/hay-kot/wishlist/internal/store/jsonfile"
)

func newStore(t *testing.T) (*Store, *jsonfile.KVStore) {
	t.Helper()
	kv := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "storage.json"))
	return New(kv, ""), kv
}

func item(n string) wishlist.Item {
	return wishlist.Item{Title: "Item " + n, URL: "https://shop.test/" + n, Image: "https://img.test/" + n + ".jpg"}
}

func TestStore_ListWishlists(t *testing.T) {
	s, _ := newStore(t)

	lists, err := s.ListWishlists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []wishlist.Wishlist{{ID: wishlist.LocalID, Name: DefaultName}}, lists)

	named := New(nil, "Offline")
	lists, err = named.ListWishlists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Offline", lists[0].Name)
}

func TestStore_EmptyList(t *testing.T) {
	s, _ := newStore(t)

	items, err := s.ListItems(context.Background(), wishlist.LocalID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c"} {
		_, err := s.AddItem(ctx, wishlist.LocalID, item(n))
		require.NoError(t, err)
	}

	items, err := s.ListItems(ctx, wishlist.LocalID)
	require.NoError(t, err)
	assert.Equal(t, []wishlist.Item{item("a"), item("b"), item("c")}, items)
}

func TestStore_AddDuplicate(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, wishlist.LocalID, item("a"))
	require.NoError(t, err)

	dup := item("a")
	dup.Title = "Other title"
	_, err = s.AddItem(ctx, wishlist.LocalID, dup)
	require.ErrorIs(t, err, errs.ErrDuplicateItem)

	items, err := s.ListItems(ctx, wishlist.LocalID)
	require.NoError(t, err)
	assert.Equal(t, []wishlist.Item{item("a")}, items)
}

func TestStore_Remove(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c"} {
		_, err := s.AddItem(ctx, wishlist.LocalID, item(n))
		require.NoError(t, err)
	}

	require.NoError(t, s.RemoveItem(ctx, wishlist.LocalID, wishlist.Item{URL: "https://shop.test/b"}))
	require.NoError(t, s.RemoveItem(ctx, wishlist.LocalID, wishlist.Item{URL: "https://shop.test/missing"}))

	items, err := s.ListItems(ctx, wishlist.LocalID)
	require.NoError(t, err)
	assert.Equal(t, []wishlist.Item{item("a"), item("c")}, items)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()

	_, err := New(jsonfile.NewKVStore(path), "").AddItem(ctx, wishlist.LocalID, item("a"))
	require.NoError(t, err)

	items, err := New(jsonfile.NewKVStore(path), "").ListItems(ctx, wishlist.LocalID)
	require.NoError(t, err)
	assert.Equal(t, []wishlist.Item{item("a")}, items)
}

func TestStore_IgnoresItemID(t *testing.T) {
	s, _ := newStore(t)

	in := item("a")
	in.ID = "server-id"
	out, err := s.AddItem(context.Background(), wishlist.LocalID, in)
	require.NoError(t, err)
	assert.Empty(t, out.ID)
}

func TestStore_CreateUnsupported(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.CreateWishlist(context.Background(), "x")
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
}

func TestStore_CorruptValue(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, map[string]string{KeyItems: "{not json"}))

	_, err := s.ListItems(ctx, wishlist.LocalID)
	assert.Error(t, err)
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddItem(ctx, wishlist.LocalID, item(n))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.ListItems(ctx, wishlist.LocalID)
	require.NoError(t, err)
	assert.Len(t, items, 6)
}
