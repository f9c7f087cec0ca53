// Package cli implements the familytree command-line interface.
//
// # Commands
//
//   - new: start a tree file
//   - edit: add, remove, and rename people in a tree file
//   - convert: translate between .ftree and .json
//   - layout: compute positions and write them as JSON
//   - render: draw a tree as SVG, PNG, or Graphviz DOT
//   - store: save trees to and load them from the local SQLite store
//   - serve: run the HTTP API
//   - cache, config: housekeeping
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/familytree/config.toml (or
// --config) and FAMILYTREE_* environment variables, in increasing order of
// precedence. Run "familytree config init" for a commented starting point.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/buildinfo"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/cache"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "familytree"

	// newTreeName is the placeholder root of a fresh tree.
	newTreeName = "Add your first descendant"
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

	configFile string
	settings   Settings
	viper      *viper.Viper
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: DefaultSettings(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "familytree lays out family trees",
		Long:         `familytree edits, converts, lays out, and renders family trees stored as .ftree text or JSON. Couples are kept side by side and their children centered beneath them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadSettings()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/familytree/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks Redis when a URL is configured, else the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	s := c.settings.Cache
	if noCache || s.Disabled {
		return cache.NewNullCache(), nil
	}
	if s.RedisURL != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: s.RedisURL, Prefix: appName + ":"})
	}
	dir := s.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) openStore() (*store.Store, error) {
	path := c.settings.Store.Path
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "trees.db")
	}
	return store.Open(path, c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/familytree/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// configDir returns the config directory (~/.config/familytree/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// dataDir returns the data directory (~/.local/share/familytree/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputBase strips the extension from a tree path: "a/lovelace.ftree"
// becomes "a/lovelace".
func outputBase(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
