// Package cli implements the seatmap command-line interface.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/backend"
	"github.com/matzehuels/seatmap/pkg/buildinfo"
	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/config"
	"github.com/matzehuels/seatmap/pkg/floorplan"
	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/persist"
	"github.com/matzehuels/seatmap/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "seatmap"

	// cacheScope namespaces cache keys so several backends can share a
	// cache without reading each other's diagrams.
	cacheScope = "v1"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	apiURL     string
	noCache    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "seatmap",
		Short: "Seatmap edits room and seat geometry on office floor plans",
		Long: `Seatmap loads a floor diagram and the rooms and seats drawn on it from the
seating backend, lets you move, resize and rotate them, and writes the new
geometry back.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seatmap/config.toml)")
	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "backend API URL (overrides config and "+config.EnvAPIURL+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching of diagrams and employees")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.saveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context. It runs before every subcommand.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.API.URL = c.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured cache backend. Caching is best effort: a
// cache that cannot be opened degrades to no cache with a warning.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache()
	case config.CacheRedis:
		r := c.cfg.Cache.Redis
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "error", err)
			return cache.NewNullCache()
		}
		return store
	default:
		dir := c.cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache()
			}
			dir = d
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without cache", "error", err)
			return cache.NewNullCache()
		}
		return store
	}
}

// newClient returns a backend client using store for diagrams and
// employees.
func (c *CLI) newClient(store cache.Cache) (*backend.Client, error) {
	return backend.NewClient(c.cfg.API.URL,
		backend.WithHTTPClient(&http.Client{Timeout: c.cfg.API.Timeout.Duration}),
		backend.WithCache(store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheScope), c.cfg.Cache.TTL.Duration),
		backend.WithLogger(c.Logger),
	)
}

// env bundles what an editing command needs.
type env struct {
	client  *backend.Client
	bridge  *persist.Bridge
	loader  *floorplan.Loader
	notices *notice.Recorder
	close   func()
}

// newEnv wires the cache, backend client, loader and persistence bridge.
func (c *CLI) newEnv(ctx context.Context) (*env, error) {
	store := c.newCache(ctx)
	client, err := c.newClient(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	notices := notice.NewRecorder()
	return &env{
		client:  client,
		bridge:  persist.NewBridge(client, persist.WithNotifier(notices), persist.WithLogger(c.Logger)),
		loader:  floorplan.NewLoader(client, c.Logger),
		notices: notices,
		close:   func() { _ = store.Close() },
	}, nil
}

// newWorkspace returns a workspace that reports to notifier.
func (c *CLI) newWorkspace(e *env, notifier notice.Notifier) *workspace.Workspace {
	return workspace.New(e.loader, e.bridge,
		workspace.WithLayouts(c.cfg.Layout),
		workspace.WithZoomBehavior(c.cfg.ZoomBehavior()),
		workspace.WithNotifier(notifier),
		workspace.WithLogger(c.Logger),
	)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/seatmap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath returns explicit, or a default name in the working directory.
func outputPath(explicit, base, ext string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(base, ext) + ext
}
