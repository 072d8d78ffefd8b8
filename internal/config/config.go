// Package config loads rkpack's persisted defaults from a TOML file via
// viper. CLI flags always take precedence over values loaded here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/naari3/rkpack/internal/platform"
	"github.com/spf13/viper"
)

// DatabaseConfig holds defaults for locating and opening the Library DB.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
	Key  string `mapstructure:"key"`
}

// PackConfig holds defaults for the pack subcommand.
type PackConfig struct {
	KeepStructure bool `mapstructure:"keep_structure"`
}

// UnpackConfig holds defaults for the unpack subcommand.
type UnpackConfig struct {
	DestDir  string `mapstructure:"dest_dir"`
	ShareDir string `mapstructure:"share_dir"`
}

// LoggingConfig controls rkpack's file logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config is rkpack's full persisted configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Pack     PackConfig     `mapstructure:"pack"`
	Unpack   UnpackConfig   `mapstructure:"unpack"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Color    bool           `mapstructure:"color"`
}

// DefaultConfig returns rkpack's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "",
			Key:  "",
		},
		Pack: PackConfig{
			KeepStructure: false,
		},
		Unpack: UnpackConfig{
			DestDir:  "",
			ShareDir: "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Color: true,
	}
}

// Load reads the config file at ConfigPath if it exists, falling back to
// DefaultConfig for any unset field.
func Load() (*Config, error) {
	v := viper.New()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to get config path: %w", err)
	}
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to ConfigPath as TOML.
func (c *Config) Save() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	return os.WriteFile(configFile, []byte(c.ToTOML()), 0644)
}

// ConfigPath returns the path rkpack's config file is read from and written to.
func ConfigPath() (string, error) {
	return platform.ConfigPath()
}

// ConfigExists reports whether a config file is already present.
func ConfigExists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ToTOML renders the configuration as a commented TOML document.
func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# rkpack configuration
# Generated by: rkpack config init

# ============================================================================
# DATABASE
# Library DB location and decryption key. Leave path empty to auto-detect
# the platform-conventional rekordbox master.db location.
# ============================================================================
[database]
path = "%s"
key = "%s"

# ============================================================================
# PACK
# ============================================================================
[pack]
# Preserve the source audio directory structure inside the archive instead
# of flattening to basenames.
keep_structure = %v

# ============================================================================
# UNPACK
# ============================================================================
[unpack]
# Destination directory for extracted audio files. Leave empty to require
# --dest-dir on the command line.
dest_dir = "%s"

# Share directory for ancillary artefacts (artwork, analysis data). unpack
# does not read this value; it always uses the platform-conventional
# rekordbox share directory.
share_dir = "%s"

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = "%s"

# ============================================================================
# OUTPUT
# ============================================================================
# Colorize terminal output.
color = %v
`,
		c.Database.Path,
		c.Database.Key,
		c.Pack.KeepStructure,
		c.Unpack.DestDir,
		c.Unpack.ShareDir,
		c.Logging.Level,
		c.Color,
	)
}
