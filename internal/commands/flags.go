package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hay-kot/wishlist/internal/api"
	"github.com/hay-kot/wishlist/internal/core/config"
	"github.com/hay-kot/wishlist/internal/core/session"
	"github.com/hay-kot/wishlist/internal/core/wishlist"
	"github.com/hay-kot/wishlist/internal/extract"
	"github.com/hay-kot/wishlist/internal/store/jsonfile"
	"github.com/hay-kot/wishlist/internal/store/local"
	"github.com/hay-kot/wishlist/internal/store/remote"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Wired in Setup from Config.
	Client    *http.Client
	Storage   *jsonfile.KVStore
	Session   *session.Manager
	Remote    *remote.Store
	Wishlists *wishlist.Router
	Selection *wishlist.Selection
	Extractor *extract.Extractor

	browser *extract.BrowserSource
}

// Setup builds the session, stores and extractor from Config and loads the
// persisted session. A nil client uses an http.Client with the configured
// timeout.
func (f *Flags) Setup(ctx context.Context, client *http.Client, log zerolog.Logger) error {
	cfg := f.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	if client == nil {
		client = &http.Client{Timeout: cfg.Service.Timeout}
	}

	f.Client = client

	endpoints, err := api.NewEndpoints(cfg.Service.BaseURL)
	if err != nil {
		return fmt.Errorf("service endpoints: %w", err)
	}

	f.Storage = jsonfile.NewKVStore(cfg.StorageFile())
	f.Session = session.New(
		f.Storage,
		api.NewAuthClient(endpoints, client),
		client,
		log.With().Str("component", "session").Logger(),
	)
	if err := f.Session.Hydrate(ctx); err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	f.Remote = remote.New(endpoints, f.Session, log)

	var localStore wishlist.Store
	if cfg.LocalEnabled() {
		localStore = local.New(f.Storage, cfg.Local.Name)
	}
	f.Wishlists = wishlist.NewRouter(f.Remote, localStore, f.Session.Authenticated)
	f.Selection = wishlist.NewSelection(f.Storage)

	var source extract.Source
	if cfg.Extract.Browser {
		f.browser = extract.NewBrowserSource(cfg.Headless(), cfg.Service.Timeout, log)
		source = f.browser
	} else {
		source = extract.NewHTTPSource(client, cfg.Extract.UserAgent, log)
	}
	f.Extractor = extract.NewExtractor(source, cfg.Cascade())

	return nil
}

// Close releases the extraction browser when one was started.
func (f *Flags) Close() error {
	if f.browser == nil {
		return nil
	}
	return f.browser.Close()
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "wishlist", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "wishlist")
}
