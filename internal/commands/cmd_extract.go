package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/validate"
	"github.com/hay-kot/wishlist/internal/styles"
)

type ExtractCmd struct {
	flags  *Flags
	format string
}

// NewExtractCmd creates a new extract command.
func NewExtractCmd(flags *Flags) *ExtractCmd {
	return &ExtractCmd{flags: flags}
}

// Register adds the extract command to the application.
func (cmd *ExtractCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "extract",
		Usage:       "Show what would be saved for a page",
		UsageText:   "wishlist extract [--format json] URL",
		Description: "Runs the title and image rules against the page without saving anything.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ExtractCmd) run(ctx context.Context, c *cli.Command) error {
	pageURL := c.Args().First()
	if err := validate.ItemURL(pageURL); err != nil {
		return err
	}

	res, err := cmd.flags.Extractor.Extract(ctx, pageURL)
	if err != nil {
		return err
	}

	w := c.Root().Writer
	if cmd.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	_, _ = fmt.Fprintln(w, styles.ItemTitleStyle.Render(res.Title))
	_, _ = fmt.Fprintln(w, styles.ItemDetailStyle.Render(res.URL))
	if res.Image != "" {
		_, _ = fmt.Fprintln(w, styles.ItemDetailStyle.Render("image: "+res.Image))
	} else {
		_, _ = fmt.Fprintln(w, styles.ItemDetailStyle.Render("no image found"))
	}
	return nil
}
