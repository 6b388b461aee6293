package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/andybalholm/cascadia"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/wishlist/internal/extract"
)

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks URLs, host globs, selectors and file access,
// and reports every problem as criterio.FieldErrors.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	errs = c.validateFileAccess(errs, configPath)
	errs = c.validateService(errs)

	if c.PageSize < 1 {
		errs = errs.Append("page_size", fmt.Errorf("must be at least 1, got %d", c.PageSize))
	}
	if c.Extract.MinImageSize < 0 {
		errs = errs.Append("extract.min_image_size", fmt.Errorf("cannot be negative"))
	}

	errs = c.validateSites(errs)

	return errs.ToError()
}

func (c *Config) validateFileAccess(errs criterio.FieldErrorsBuilder, configPath string) criterio.FieldErrorsBuilder {
	if configPath != "" {
		info, err := os.Stat(configPath)
		switch {
		case err == nil && info.IsDir():
			errs = errs.Append("config", fmt.Errorf("%s is a directory, not a file", configPath))
		case err != nil && !os.IsNotExist(err):
			errs = errs.Append("config", fmt.Errorf("cannot access %s: %w", configPath, err))
		}
	}

	if c.DataDir == "" {
		return errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}
	if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
	}
	return errs
}

func (c *Config) validateService(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	u, err := url.Parse(c.Service.BaseURL)
	switch {
	case err != nil:
		errs = errs.Append("service.base_url", err)
	case u.Scheme != "http" && u.Scheme != "https":
		errs = errs.Append("service.base_url", fmt.Errorf("scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		errs = errs.Append("service.base_url", fmt.Errorf("host is required"))
	}

	if c.Service.Timeout < 0 {
		errs = errs.Append("service.timeout", fmt.Errorf("cannot be negative"))
	}
	return errs
}

func (c *Config) validateSites(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	for i, site := range c.Extract.Sites {
		field := fmt.Sprintf("extract.sites[%d]", i)

		if site.Host == "" {
			errs = errs.Append(field+".host", fmt.Errorf("cannot be empty"))
		} else if !doublestar.ValidatePattern(site.Host) {
			errs = errs.Append(field+".host", fmt.Errorf("invalid glob %q", site.Host))
		}

		if len(site.Title) == 0 && len(site.Image) == 0 {
			errs = errs.Append(field, fmt.Errorf("needs at least one title or image rule"))
		}

		errs = validateRules(errs, field+".title", site.Title)
		errs = validateRules(errs, field+".image", site.Image)
	}
	return errs
}

func validateRules(errs criterio.FieldErrorsBuilder, field string, rules []extract.Rule) criterio.FieldErrorsBuilder {
	for i, r := range rules {
		if _, err := cascadia.Compile(r.Selector); err != nil {
			errs = errs.Append(fmt.Sprintf("%s[%d].selector", field, i), fmt.Errorf("invalid selector %q: %w", r.Selector, err))
		}
	}
	return errs
}
