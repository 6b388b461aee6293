package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/core/session"
	"github.com/hay-kot/wishlist/internal/printer"
)

type LoginCmd struct {
	flags *Flags
	creds session.Credentials
}

// NewLoginCmd creates a new login command.
func NewLoginCmd(flags *Flags) *LoginCmd {
	return &LoginCmd{flags: flags}
}

// Register adds the login command to the application.
func (cmd *LoginCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "login",
		Usage:       "Log in to the wishlist service",
		UsageText:   "wishlist login [--username NAME] [--password PASS]",
		Description: "Authenticates and stores the session tokens in the data directory.",
		Flags:       credentialFlags(&cmd.creds),
		Action:      cmd.run,
	})
	return app
}

func (cmd *LoginCmd) run(ctx context.Context, c *cli.Command) error {
	if err := promptCredentials("Log in", &cmd.creds); err != nil {
		return err
	}

	if err := cmd.flags.Session.Login(ctx, cmd.creds); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Welcome, %s", cmd.creds.Username)
	return nil
}
