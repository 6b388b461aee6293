package commands

import (
	"context"
	"encoding/json"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/printer"
)

type StatusCmd struct {
	flags  *Flags
	format string
}

// NewStatusCmd creates a new status command.
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds the status command to the application.
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "status",
		Usage:     "Show who is logged in",
		UsageText: "wishlist status [options]",
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

type statusJSON struct {
	Status    string     `json:"status"`
	Username  string     `json:"username,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Selected  string     `json:"selected_wishlist,omitempty"`
	Service   string     `json:"service"`
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	sess := cmd.flags.Session.Session()

	selected, err := cmd.flags.Selection.Get(ctx)
	if err != nil {
		return err
	}

	out := statusJSON{
		Status:   string(sess.Status),
		Username: sess.Username,
		Selected: selected,
		Service:  cmd.flags.Config.Service.BaseURL,
	}
	if exp, ok := cmd.flags.Session.ExpiresAt(); ok {
		out.ExpiresAt = &exp
	}

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	p := printer.Ctx(ctx)
	if !cmd.flags.Session.Authenticated() {
		p.Infof("Please log in to view your wishlists.")
		return nil
	}

	p.Successf("Welcome back, %s", sess.Username)
	if out.ExpiresAt != nil {
		remaining := time.Until(*out.ExpiresAt).Round(time.Second)
		if remaining > 0 {
			p.Infof("Access token expires in %s", remaining)
		} else {
			p.Infof("Access token expired, it will be refreshed on the next request")
		}
	}
	if selected != "" {
		p.Infof("Selected wishlist: %s", selected)
	}
	return nil
}
