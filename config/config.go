// Package config loads and persists the CLI configuration.
//
// The configuration lives at ~/.esq/config.toml and holds the search service
// url plus optional basic-auth credentials. Because it may contain a password,
// the directory is created with 0700 and the file is written with 0600.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/esqproject/esq/extract"
)

const (
	configDirName  = ".esq"
	configFileName = "config.toml"
)

// Endpoint is the persisted connection configuration of one search service.
type Endpoint struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Config is the persisted CLI configuration.
type Config struct {
	Default Endpoint `mapstructure:"default"`
}

// HasCredentials reports whether both a username and a password are stored.
func (c *Config) HasCredentials() bool {
	return c.Default.Username != "" && c.Default.Password != ""
}

// DefaultPath returns the canonical configuration file location.
func DefaultPath() (string, error) {
	home, homeErr := os.UserHomeDir()
	if homeErr != nil {
		return "", errors.Join(extract.ErrConfig, homeErr)
	}

	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the configuration from the default path. It returns (nil, nil)
// when no configuration exists yet; callers decide whether that is an error.
func Load() (*Config, error) {
	path, pathErr := DefaultPath()
	if pathErr != nil {
		return nil, pathErr
	}

	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, nil
		}

		return nil, errors.Join(extract.ErrConfig, statErr)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if readErr := v.ReadInConfig(); readErr != nil {
		return nil, errors.Join(extract.ErrConfig, readErr)
	}

	cfg := &Config{}
	if unmarshalErr := v.Unmarshal(cfg); unmarshalErr != nil {
		return nil, errors.Join(extract.ErrConfig, unmarshalErr)
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	path, pathErr := DefaultPath()
	if pathErr != nil {
		return pathErr
	}

	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path, creating the directory
// with owner-only permissions and restricting the file to the owner since it
// may hold a password.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if mkdirErr := os.MkdirAll(dir, 0o700); mkdirErr != nil {
		return errors.Join(extract.ErrConfig, mkdirErr)
	}
	if chmodErr := os.Chmod(dir, 0o700); chmodErr != nil {
		return errors.Join(extract.ErrConfig, chmodErr)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("default.url", c.Default.URL)
	v.Set("default.username", c.Default.Username)
	v.Set("default.password", c.Default.Password)

	if writeErr := v.WriteConfigAs(path); writeErr != nil {
		return errors.Join(extract.ErrConfig, writeErr)
	}

	if chmodErr := os.Chmod(path, 0o600); chmodErr != nil {
		return errors.Join(extract.ErrConfig, chmodErr)
	}

	return nil
}
