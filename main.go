package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/wishlist/internal/commands"
	"github.com/hay-kot/wishlist/internal/core/config"
	"github.com/hay-kot/wishlist/internal/core/errs"
	"github.com/hay-kot/wishlist/internal/printer"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", ""); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	app := &cli.Command{
		Name:      "wishlist",
		Usage:     "Save product pages to your wishlists",
		UsageText: "wishlist [global options] command [command options]",
		Description: `Wishlist saves product pages, with their title and image, to wishlists kept
on the wishlist service or to a list saved on this device.

Run 'wishlist login' to sign in, 'wishlist add URL' to save a page, and
'wishlist' with no arguments to show the selected wishlist.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("WISHLIST_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("WISHLIST_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("WISHLIST_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("WISHLIST_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := setupLogger(flags.LogLevel, flags.LogFile); err != nil {
				return ctx, err
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			if err := flags.Setup(ctx, nil, log.Logger); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return flags.Close()
		},
	}

	itemsCmd := commands.NewItemsCmd(flags)

	app = commands.NewRegisterCmd(flags).Register(app)
	app = commands.NewLoginCmd(flags).Register(app)
	app = commands.NewLogoutCmd(flags).Register(app)
	app = commands.NewStatusCmd(flags).Register(app)
	app = commands.NewListsCmd(flags).Register(app)
	app = commands.NewUseCmd(flags).Register(app)
	app = itemsCmd.Register(app)
	app = commands.NewAddCmd(flags).Register(app)
	app = commands.NewRmCmd(flags).Register(app)
	app = commands.NewShareCmd(flags).Register(app)
	app = commands.NewExtractCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	// No subcommand shows the selected wishlist
	app.Flags = append(app.Flags, itemsCmd.Flags(true)...)
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'wishlist --help' for usage", c.Args().First())
		}
		return itemsCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		// A rejected session is discarded so the next run starts logged out.
		if errors.Is(err, errs.ErrAuthenticationRequired) && flags.Session != nil {
			if logoutErr := flags.Session.Logout(ctx); logoutErr != nil {
				log.Error().Err(logoutErr).Msg("failed to clear session")
			}
		}

		fmt.Println()
		printer.Ctx(ctx).FatalError(err)
		exitCode = 1
	}

	os.Exit(exitCode)
}

func setupLogger(level string, logFile string) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		// Create log directory if it doesn't exist
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		// Write to both console and file
		output = io.MultiWriter(
			zerolog.ConsoleWriter{Out: os.Stderr},
			file,
		)
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
