package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/validate"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
	"github.com/hay-kot/wishlist/internal/printer"
	"github.com/hay-kot/wishlist/internal/styles"
)

type ListsCmd struct {
	flags  *Flags
	format string
}

// NewListsCmd creates a new lists command.
func NewListsCmd(flags *Flags) *ListsCmd {
	return &ListsCmd{flags: flags}
}

// Register adds the lists command and its create subcommand to the application.
func (cmd *ListsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "lists",
		Aliases:     []string{"ls"},
		Usage:       "List your wishlists",
		UsageText:   "wishlist lists [options]",
		Description: "Shows the local wishlist followed by your remote wishlists. The selected one is marked.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a wishlist and select it",
				UsageText: "wishlist lists create NAME",
				Action:    cmd.runCreate,
			},
		},
	})
	return app
}

func (cmd *ListsCmd) run(ctx context.Context, c *cli.Command) error {
	lists, err := cmd.flags.Wishlists.ListWishlists(ctx)
	if err != nil {
		return err
	}

	selected, err := cmd.flags.resolveWishlist(ctx, "")
	if err != nil && !errors.Is(err, wishlist.ErrNoWishlist) {
		return err
	}

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(lists)
	}

	if len(lists) == 0 {
		printer.Ctx(ctx).Infof("No wishlists yet. Create one with 'wishlist lists create NAME'.")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tID\tNAME")
	for _, l := range lists {
		marker := " "
		if l.ID == selected.ID {
			marker = styles.SelectedStyle.Render(printer.Arrow)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", marker, l.ID, l.Name)
	}
	return w.Flush()
}

func (cmd *ListsCmd) runCreate(ctx context.Context, c *cli.Command) error {
	name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if err := validate.WishlistName(name); err != nil {
		return err
	}

	created, err := cmd.flags.Wishlists.CreateWishlist(ctx, name)
	if err != nil {
		return err
	}

	if err := cmd.flags.Selection.Set(ctx, created.ID); err != nil {
		return err
	}

	printer.Ctx(ctx).Success(fmt.Sprintf("Created %q", created.Name), "id: "+created.ID)
	return nil
}
