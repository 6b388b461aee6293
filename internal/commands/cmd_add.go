package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/validate"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
	"github.com/hay-kot/wishlist/internal/printer"
)

type AddCmd struct {
	flags     *Flags
	wishlist  string
	url       string
	title     string
	image     string
	noExtract bool
}

// NewAddCmd creates a new add command.
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application.
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Save a product page to a wishlist",
		UsageText: "wishlist add [options] [URL]",
		Description: `Reads the title and image from the product page and saves it to the
selected wishlist. --title and --image override what the page provides.
The first page of the wishlist is shown afterwards.`,
		Flags: []cli.Flag{
			wishlistFlag(&cmd.wishlist),
			&cli.StringFlag{
				Name:        "url",
				Usage:       "product page URL",
				Destination: &cmd.url,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "item title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "image",
				Usage:       "item image URL",
				Destination: &cmd.image,
			},
			&cli.BoolFlag{
				Name:        "no-extract",
				Usage:       "do not read the page, --title is required",
				Destination: &cmd.noExtract,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	pageURL := strings.TrimSpace(cmd.url)
	if pageURL == "" {
		pageURL = strings.TrimSpace(c.Args().First())
	}
	if err := validate.ItemURL(pageURL); err != nil {
		return err
	}

	item, err := cmd.item(ctx, pageURL)
	if err != nil {
		return err
	}

	list, err := cmd.flags.resolveWishlist(ctx, cmd.wishlist)
	if err != nil {
		return err
	}

	if _, err := cmd.flags.Wishlists.For(list.ID).AddItem(ctx, list.ID, item); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Added %q to %s", item.Title, list.Name)
	return cmd.flags.showPage(ctx, c, list, 1, "text")
}

// item builds the item to save. Extraction only runs for fields not given on
// the command line.
func (cmd *AddCmd) item(ctx context.Context, pageURL string) (wishlist.Item, error) {
	item := wishlist.Item{
		Title: strings.TrimSpace(cmd.title),
		Image: strings.TrimSpace(cmd.image),
		URL:   pageURL,
	}

	if cmd.noExtract || (item.Title != "" && item.Image != "") {
		if item.Title == "" {
			return wishlist.Item{}, errors.New("title is required with --no-extract")
		}
		return item, nil
	}

	res, err := cmd.flags.Extractor.Extract(ctx, pageURL)
	if err != nil {
		if item.Title == "" {
			return wishlist.Item{}, err
		}
		log.Warn().Err(err).Str("url", pageURL).Msg("extraction failed, saving without image")
		return item, nil
	}

	if item.Title == "" {
		item.Title = res.Title
	}
	if item.Image == "" {
		item.Image = res.Image
	}
	// The page may have redirected; save where it ended up.
	if res.URL != "" {
		item.URL = res.URL
	}
	return item, nil
}
