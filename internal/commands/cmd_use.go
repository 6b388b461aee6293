package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/printer"
)

type UseCmd struct {
	flags *Flags
}

// NewUseCmd creates a new use command.
func NewUseCmd(flags *Flags) *UseCmd {
	return &UseCmd{flags: flags}
}

// Register adds the use command to the application.
func (cmd *UseCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "use",
		Usage:       "Select the wishlist other commands act on",
		UsageText:   "wishlist use ID",
		Description: "Selects a wishlist by id. Use 'local' for the list saved on this device.",
		Action:      cmd.run,
	})
	return app
}

func (cmd *UseCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("wishlist id is required")
	}

	list, err := cmd.flags.Wishlists.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := cmd.flags.Selection.Set(ctx, list.ID); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Using %q", list.Name)
	return nil
}
