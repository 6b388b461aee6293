package remote

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/wishlist/internal/api"
	"github.com/hay-kot/wishlist/internal/api/apitest"
	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/core/session"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
	"github.com/hay-kot/wishlist/internal/store/jsonfile"
)

type fixture struct {
	srv     *apitest.Server
	manager *session.Manager
	store   *Store
}

func setup(t *testing.T) fixture {
	t.Helper()

	srv := apitest.New(t)
	srv.AddUser("alice", "correct-horse")

	endpoints, err := api.NewEndpoints(srv.URL)
	require.NoError(t, err)

	kv := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "storage.json"))
	auth := api.NewAuthClient(endpoints, srv.Client())
	manager := session.New(kv, auth, srv.Client(), zerolog.Nop())

	err = manager.Login(context.Background(), session.Credentials{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	return fixture{
		srv:     srv,
		manager: manager,
		store:   New(endpoints, manager, zerolog.Nop()),
	}
}

func TestStore_CreateListAndItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.store.CreateWishlist(ctx, "Birthday")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Birthday", created.Name)

	lists, err := f.store.ListWishlists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []wishlist.Wishlist{created}, lists)

	added, err := f.store.AddItem(ctx, created.ID, wishlist.Item{
		Title: "Kettle",
		Image: "https://img.test/kettle.jpg",
		URL:   "https://shop.test/kettle",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	items, err := f.store.ListItems(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []wishlist.Item{added}, items)

	require.NoError(t, f.store.RemoveItem(ctx, created.ID, added))

	items, err = f.store.ListItems(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_CreateTwiceMakesTwo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, err := f.store.CreateWishlist(ctx, "Gifts")
	require.NoError(t, err)
	b, err := f.store.CreateWishlist(ctx, "Gifts")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	lists, err := f.store.ListWishlists(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 2)
}

func TestStore_DuplicateURLKeepsServiceDetail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.srv.AddWishlist("alice", "Home", "")

	item := wishlist.Item{Title: "Lamp", URL: "https://shop.test/lamp"}
	_, err := f.store.AddItem(ctx, id, item)
	require.NoError(t, err)

	_, err = f.store.AddItem(ctx, id, item)
	var svcErr *errs.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Item with this URL already exists in the wishlist", errs.UserMessage(err))
	assert.Len(t, f.srv.Items(id), 1)
}

func TestStore_ExpiredAccessTokenRefreshes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.srv.AddWishlist("alice", "Home", "")
	before := f.manager.Session().AccessToken

	f.srv.ExpireAccessTokens()

	lists, err := f.store.ListWishlists(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
	assert.Equal(t, 1, f.srv.Calls("/refresh"))
	assert.Equal(t, 2, f.srv.Calls("/get_wishlists"))
	assert.NotEqual(t, before, f.manager.Session().AccessToken)
}

func TestStore_RevokedRefreshRequiresLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.srv.ExpireAccessTokens()
	f.srv.RevokeRefreshTokens()

	_, err := f.store.ListWishlists(ctx)
	require.ErrorIs(t, err, errs.ErrAuthenticationRequired)
	assert.False(t, f.manager.Authenticated())
}

func TestStore_ServerErrorNotRetried(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.srv.AddWishlist("alice", "Home", "")

	f.srv.FailNext("/add_item", 1)

	_, err := f.store.AddItem(ctx, id, wishlist.Item{Title: "Mug", URL: "https://shop.test/mug"})
	var svcErr *errs.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
	assert.Equal(t, 1, f.srv.Calls("/add_item"))
	assert.Empty(t, f.srv.Items(id))

	f.srv.FailNext("/create_wishlist", 1)
	_, err = f.store.CreateWishlist(ctx, "Nope")
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 1, f.srv.Calls("/create_wishlist"))
}

func TestStore_ForeignWishlist(t *testing.T) {
	f := setup(t)
	f.srv.AddUser("bob", "bob-password")
	id := f.srv.AddWishlist("bob", "Private", "")

	_, err := f.store.ListItems(context.Background(), id)
	assert.Equal(t, "Wishlist does not exist or access denied", errs.UserMessage(err))
}

func TestStore_RemoveItemWithPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.srv.AddWishlist("alice", "Locked", "s3cret")

	added, err := f.store.AddItem(ctx, id, wishlist.Item{Title: "Book", URL: "https://shop.test/book"})
	require.NoError(t, err)

	err = f.store.RemoveItem(ctx, id, added)
	assert.Equal(t, "Invalid password.", errs.UserMessage(err))

	err = f.store.RemoveItemWithPassword(ctx, id, added, "wrong")
	assert.Equal(t, "Invalid password.", errs.UserMessage(err))

	require.NoError(t, f.store.RemoveItemWithPassword(ctx, id, added, "s3cret"))
	assert.Empty(t, f.srv.Items(id))
}

func TestStore_LoggedOutSkipsNetwork(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.manager.Logout(ctx))

	_, err := f.store.ListWishlists(ctx)
	require.ErrorIs(t, err, errs.ErrAuthenticationRequired)
	assert.Equal(t, 0, f.srv.Calls("/get_wishlists"))
}

func TestStore_ShareURL(t *testing.T) {
	f := setup(t)
	assert.Equal(t, f.srv.URL+"/view_list/abc", f.store.ShareURL("abc"))
}
