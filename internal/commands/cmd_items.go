package commands

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/paginate"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
)

type ItemsCmd struct {
	flags    *Flags
	wishlist string
	page     int
	format   string
}

// NewItemsCmd creates a new items command.
func NewItemsCmd(flags *Flags) *ItemsCmd {
	return &ItemsCmd{flags: flags}
}

// Register adds the items command to the application.
func (cmd *ItemsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "items",
		Usage:       "Show one page of a wishlist",
		UsageText:   "wishlist items [--wishlist ID] [--page N]",
		Description: "Lists the items of the selected wishlist, one page at a time. Out of range pages are clamped.",
		Flags:       cmd.Flags(false),
		Action:      cmd.Run,
	})
	return app
}

// Flags returns a fresh set of the items flags. local keeps them from
// propagating to subcommands when registered on the root command.
func (cmd *ItemsCmd) Flags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "wishlist",
			Aliases:     []string{"w"},
			Usage:       "wishlist id (defaults to the selected wishlist)",
			Local:       local,
			Destination: &cmd.wishlist,
		},
		&cli.IntFlag{
			Name:        "page",
			Aliases:     []string{"n"},
			Usage:       "page number",
			Value:       1,
			Local:       local,
			Destination: &cmd.page,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "output format (text, json)",
			Value:       "text",
			Local:       local,
			Destination: &cmd.format,
		},
	}
}

type pageJSON struct {
	Wishlist   wishlist.Wishlist `json:"wishlist"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Items      []wishlist.Item   `json:"items"`
}

// Run shows the requested page. It is also the root command's action.
func (cmd *ItemsCmd) Run(ctx context.Context, c *cli.Command) error {
	list, err := cmd.flags.resolveWishlist(ctx, cmd.wishlist)
	if err != nil {
		return err
	}

	return cmd.flags.showPage(ctx, c, list, cmd.page, cmd.format)
}

// showPage loads list and prints page number of it.
func (f *Flags) showPage(ctx context.Context, c *cli.Command, list wishlist.Wishlist, number int, format string) error {
	items, err := f.Wishlists.For(list.ID).ListItems(ctx, list.ID)
	if err != nil {
		return err
	}

	size := f.Config.PageSize
	page := paginate.Project(items, number, size)

	if format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(pageJSON{
			Wishlist:   list,
			Page:       page.Number,
			TotalPages: page.TotalPages,
			Items:      page.Items,
		})
	}

	renderPage(c.Root().Writer, list, page, size)
	return nil
}
