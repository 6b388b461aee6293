package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/printer"
)

type LogoutCmd struct {
	flags *Flags
}

// NewLogoutCmd creates a new logout command.
func NewLogoutCmd(flags *Flags) *LogoutCmd {
	return &LogoutCmd{flags: flags}
}

// Register adds the logout command to the application.
func (cmd *LogoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "logout",
		Usage:     "Forget the stored session",
		UsageText: "wishlist logout",
		Action:    cmd.run,
	})
	return app
}

func (cmd *LogoutCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Session.Logout(ctx); err != nil {
		return err
	}

	printer.Ctx(ctx).Infof("Please log in to view your wishlists.")
	return nil
}
