package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/printer"
)

// ErrLocalNotShareable is returned when sharing the device-only wishlist.
var ErrLocalNotShareable = errors.New("the wishlist saved on this device cannot be shared")

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

type ShareCmd struct {
	flags    *Flags
	wishlist string
	copy     bool
}

// NewShareCmd creates a new share command.
func NewShareCmd(flags *Flags) *ShareCmd {
	return &ShareCmd{flags: flags}
}

// Register adds the share command to the application.
func (cmd *ShareCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "share",
		Usage:       "Print the public link of a wishlist",
		UsageText:   "wishlist share [--wishlist ID] [--copy]",
		Description: "Anyone with the link can view the wishlist without logging in.",
		Flags: []cli.Flag{
			wishlistFlag(&cmd.wishlist),
			&cli.BoolFlag{
				Name:        "copy",
				Usage:       "copy the link to the clipboard",
				Destination: &cmd.copy,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ShareCmd) run(ctx context.Context, c *cli.Command) error {
	list, err := cmd.flags.resolveWishlist(ctx, cmd.wishlist)
	if err != nil {
		return err
	}
	if list.IsLocal() {
		return ErrLocalNotShareable
	}

	link := cmd.flags.Remote.ShareURL(list.ID)
	_, _ = fmt.Fprintln(c.Root().Writer, link)

	if cmd.copy {
		if err := copyToClipboard(link); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		printer.Ctx(ctx).Successf("Link copied to clipboard")
	}
	return nil
}
