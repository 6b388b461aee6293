package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/wishlist"
	"github.com/hay-kot/wishlist/internal/printer"
)

// ErrItemNotFound is returned when rm matches no item.
var ErrItemNotFound = errors.New("item not found")

type RmCmd struct {
	flags    *Flags
	wishlist string
	password string
	page     int
}

// NewRmCmd creates a new rm command.
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application.
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Remove an item from a wishlist",
		UsageText: "wishlist rm [options] ID|URL",
		Description: `Removes the item with the given id or URL. Local items are matched by URL.
The page given by --page is shown afterwards, stepping back when it no longer exists.`,
		Flags: []cli.Flag{
			wishlistFlag(&cmd.wishlist),
			&cli.StringFlag{
				Name:        "password",
				Usage:       "password of a write-protected wishlist",
				Sources:     cli.EnvVars("WISHLIST_LIST_PASSWORD"),
				Destination: &cmd.password,
			},
			&cli.IntFlag{
				Name:        "page",
				Aliases:     []string{"n"},
				Usage:       "page to show after removal",
				Value:       1,
				Destination: &cmd.page,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	ref := c.Args().First()
	if ref == "" {
		return errors.New("item id or url is required")
	}

	list, err := cmd.flags.resolveWishlist(ctx, cmd.wishlist)
	if err != nil {
		return err
	}

	store := cmd.flags.Wishlists.For(list.ID)
	items, err := store.ListItems(ctx, list.ID)
	if err != nil {
		return err
	}

	item, ok := findItem(items, ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, ref)
	}

	if cmd.password != "" {
		remover, ok := store.(wishlist.PasswordRemover)
		if !ok {
			return errors.New("this wishlist is not password protected")
		}
		err = remover.RemoveItemWithPassword(ctx, list.ID, item, cmd.password)
	} else {
		err = store.RemoveItem(ctx, list.ID, item)
	}
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Removed %q", item.Title)
	return cmd.flags.showPage(ctx, c, list, cmd.page, "text")
}

func findItem(items []wishlist.Item, ref string) (wishlist.Item, bool) {
	for _, it := range items {
		if (it.ID != "" && it.ID == ref) || it.URL == ref {
			return it, true
		}
	}
	return wishlist.Item{}, false
}
