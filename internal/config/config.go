// Package config manages the substra configuration file: a set of named
// backend profiles stored under the user's home directory.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultProfile is the profile used when none is selected.
	DefaultProfile = "default"

	// ProfileEnvVar selects the profile by environment.
	ProfileEnvVar = "SUBSTRA_PROFILE"

	configDir  = ".substra"
	configFile = "config.yaml"
)

// Profile holds the connection settings for one backend node. Environment
// variables override the values loaded from file.
type Profile struct {
	URL      string `yaml:"url" env:"SUBSTRA_URL,overwrite" validate:"required,url"`
	Version  string `yaml:"version,omitempty" env:"SUBSTRA_VERSION,overwrite"`
	Username string `yaml:"username,omitempty" env:"SUBSTRA_USERNAME,overwrite"`
	Password string `yaml:"password,omitempty" env:"SUBSTRA_PASSWORD,overwrite"`
	Token    string `yaml:"token,omitempty" env:"SUBSTRA_TOKEN,overwrite"`
	Insecure bool   `yaml:"insecure,omitempty" env:"SUBSTRA_INSECURE,overwrite"`
}

// Config is the full configuration file.
type Config struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultPath returns the default configuration file location
// (~/.substra/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", configDir, configFile)
	}
	return filepath.Join(home, configDir, configFile)
}

// Load reads the configuration file. A missing file yields an empty config
// so that environment-only setups work.
func Load(path string) (*Config, error) {
	cfg := &Config{Profiles: map[string]Profile{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return cfg, nil
}

// Save writes the configuration file with owner-only permissions since it
// holds credentials.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SetProfile adds or replaces a profile.
func (c *Config) SetProfile(name string, p Profile) {
	c.Profiles[name] = p
}

// Profile resolves a profile by name, applies environment overrides and
// validates the result. An unknown profile is still usable when SUBSTRA_URL
// is set in the environment.
func (c *Config) Profile(ctx context.Context, name string) (Profile, error) {
	p, found := c.Profiles[name]

	if err := envconfig.Process(ctx, &p); err != nil {
		return Profile{}, fmt.Errorf("environment: %w", err)
	}

	if !found && p.URL == "" {
		return Profile{}, fmt.Errorf("profile %q not found, run `substra config <url> --profile %s` first", name, name)
	}
	if err := validator.New().Struct(p); err != nil {
		return Profile{}, fmt.Errorf("profile %q is invalid: %w", name, err)
	}
	return p, nil
}
