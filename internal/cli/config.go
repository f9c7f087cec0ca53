package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/repeatyourselfpls/family-tree-v2/internal/api"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
)

const (
	configFileName = "config"
	configFileType = "toml"
	envPrefix      = "FAMILYTREE"
)

// Settings is the merged CLI configuration.
type Settings struct {
	Layout layout.Config  `toml:"layout" mapstructure:"layout"`
	Cache  CacheSettings  `toml:"cache" mapstructure:"cache"`
	Store  StoreSettings  `toml:"store" mapstructure:"store"`
	Server ServerSettings `toml:"server" mapstructure:"server"`
}

// CacheSettings selects the layout cache backend.
type CacheSettings struct {
	Disabled bool   `toml:"disabled" mapstructure:"disabled"`
	Dir      string `toml:"dir" mapstructure:"dir"`
	RedisURL string `toml:"redis_url" mapstructure:"redis_url"`
}

// StoreSettings locates the SQLite tree store.
type StoreSettings struct {
	Path string `toml:"path" mapstructure:"path"`
}

// ServerSettings configures "familytree serve".
type ServerSettings struct {
	Addr string `toml:"addr" mapstructure:"addr"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Layout: layout.DefaultConfig(),
		Server: ServerSettings{Addr: api.DefaultAddr},
	}
}

// newViper builds a viper instance carrying every default, so that each key
// can be overridden from the environment.
func newViper() *viper.Viper {
	d := DefaultSettings()
	v := viper.New()

	v.SetDefault("layout.node_size", d.Layout.NodeSize)
	v.SetDefault("layout.sibling_distance", d.Layout.SiblingDistance)
	v.SetDefault("layout.tree_distance", d.Layout.TreeDistance)
	v.SetDefault("layout.couple_distance", d.Layout.CoupleDistance)
	v.SetDefault("layout.scale_x", d.Layout.ScaleX)
	v.SetDefault("layout.scale_y", d.Layout.ScaleY)
	v.SetDefault("layout.keep_on_screen", d.Layout.KeepOnScreen)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("server.addr", d.Server.Addr)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadSettings merges defaults, the config file, and the environment into
// c.settings. A missing default config file is not an error; a missing
// --config file is.
func (c *CLI) loadSettings() error {
	v := newViper()
	v.SetConfigType(configFileType)

	if c.configFile != "" {
		v.SetConfigFile(c.configFile)
	} else {
		v.SetConfigName(configFileName)
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := s.Layout.Validate(); err != nil {
		return fmt.Errorf("config: layout: %w", err)
	}
	c.settings = s
	c.viper = v
	return nil
}

func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName+"."+configFileType), nil
}

// =============================================================================
// Commands
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configFile
			if path == "" {
				var err error
				if path, err = defaultConfigPath(); err != nil {
					return fmt.Errorf("get config dir: %w", err)
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := toml.NewEncoder(f).Encode(DefaultSettings()); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			printSuccess("Wrote default config")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.viper != nil {
				if used := c.viper.ConfigFileUsed(); used != "" {
					fmt.Fprintln(cmd.OutOrStdout(), "# "+used)
				}
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.settings)
		},
	}
}
