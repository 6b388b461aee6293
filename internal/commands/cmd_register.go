package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/session"
	"github.com/hay-kot/wishlist/internal/printer"
)

type RegisterCmd struct {
	flags *Flags
	creds session.Credentials
}

// NewRegisterCmd creates a new register command.
func NewRegisterCmd(flags *Flags) *RegisterCmd {
	return &RegisterCmd{flags: flags}
}

// Register adds the register command to the application.
func (cmd *RegisterCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "register",
		Usage:       "Create an account",
		UsageText:   "wishlist register [--username NAME] [--password PASS]",
		Description: "Creates an account on the wishlist service. Registering does not log you in.",
		Flags:       credentialFlags(&cmd.creds),
		Action:      cmd.run,
	})
	return app
}

func (cmd *RegisterCmd) run(ctx context.Context, c *cli.Command) error {
	if err := promptCredentials("Create an account", &cmd.creds); err != nil {
		return err
	}

	if err := cmd.flags.Session.Register(ctx, cmd.creds); err != nil {
		return err
	}

	printer.Ctx(ctx).Success("Registration successful.", "Run 'wishlist login' to sign in.")
	return nil
}
