// Package validate provides shared validation of user input.
package validate

import (
	"fmt"
	"net/url"
	"strings"
)

// Required returns a validator rejecting values that are empty after
// trimming whitespace. It fits huh input validation.
func Required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// WishlistName validates a wishlist name is non-empty after trimming whitespace.
func WishlistName(name string) error {
	return Required("wishlist name")(name)
}

// ItemURL validates raw is an absolute http or https URL.
func ItemURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}
