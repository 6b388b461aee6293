package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/wishlist/internal/core/session"
	"github.com/hay-kot/wishlist/internal/core/validate"
	"github.com/hay-kot/wishlist/internal/styles"
)

// isInteractive reports whether prompts can be shown. Tests override it.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// credentialFlags are shared by login and register.
func credentialFlags(creds *session.Credentials) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "account username",
			Sources:     cli.EnvVars("WISHLIST_USERNAME"),
			Destination: &creds.Username,
		},
		&cli.StringFlag{
			Name:        "password",
			Aliases:     []string{"p"},
			Usage:       "account password (prompted when omitted)",
			Sources:     cli.EnvVars("WISHLIST_PASSWORD"),
			Destination: &creds.Password,
		},
	}
}

// promptCredentials asks for whichever of username and password is missing.
func promptCredentials(title string, creds *session.Credentials) error {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username != "" && creds.Password != "" {
		return nil
	}

	if !isInteractive() {
		return errors.New("username and password are required")
	}

	var fields []huh.Field
	if creds.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&creds.Username).
			Validate(validate.Required("username")))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(validate.Required("password")))
	}

	form := huh.NewForm(huh.NewGroup(fields...).Title(title)).WithTheme(styles.FormTheme())
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	creds.Username = strings.TrimSpace(creds.Username)
	return nil
}
