package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/wishlist"
)

func wishlistFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "wishlist",
		Aliases:     []string{"w"},
		Usage:       "wishlist id (defaults to the selected wishlist)",
		Destination: dest,
	}
}

// resolveWishlist returns the wishlist a command acts on: explicit when set,
// else the persisted selection, else the first listed wishlist.
func (f *Flags) resolveWishlist(ctx context.Context, explicit string) (wishlist.Wishlist, error) {
	preferred, err := f.Selection.Get(ctx)
	if err != nil {
		return wishlist.Wishlist{}, err
	}
	return f.Wishlists.Resolve(ctx, explicit, preferred)
}
