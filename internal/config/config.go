package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	DataFile      string   `yaml:"data_file"`
	SearchNames   []string `yaml:"search_names"`
	Facebook      Facebook `yaml:"facebook"`
	Google        Google   `yaml:"google"`
	News          News     `yaml:"news"`
	TVShows       []TVShow `yaml:"tv_shows"`
	NewsOutlets   []Outlet `yaml:"news_outlets"`
	HealthOutlets []Outlet `yaml:"health_outlets"`
	Timeouts      Timeouts `yaml:"timeouts"`
}

type Facebook struct {
	PageURL      string `yaml:"page_url"`
	MinFollowers int    `yaml:"min_followers"`
}

type Google struct {
	PlaceQuery string `yaml:"place_query"`
}

type News struct {
	MaxPerTerm int `yaml:"max_per_term"`
}

// TVShow is one entry in the registry of programs worth searching for.
type TVShow struct {
	Name    string `yaml:"name"`
	Network string `yaml:"network"`
}

// Outlet maps a publisher name to the domains it publishes under. Role is
// set only for outlets where the doctor holds a standing editorial role.
type Outlet struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`
	Role    string   `yaml:"role,omitempty"`
}

type Timeouts struct {
	Render  Duration `yaml:"render"`
	HTTP    Duration `yaml:"http"`
	Resolve Duration `yaml:"resolve"`
	Search  Duration `yaml:"search"`
}

// Duration wraps time.Duration so YAML values like "30s" parse directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ConfigDir returns the XDG config directory for mediakit.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "mediakit")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/mediakit/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'mediakit init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return parse(DefaultConfigYAML)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		DataFile: "data.json",
		Facebook: Facebook{MinFollowers: 1000},
		News:     News{MaxPerTerm: 15},
		Timeouts: Timeouts{
			Render:  Duration(30 * time.Second),
			HTTP:    Duration(15 * time.Second),
			Resolve: Duration(10 * time.Second),
			Search:  Duration(30 * time.Second),
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SearchNames) == 0 {
		return nil, fmt.Errorf("config has no search_names; at least one is required")
	}

	return cfg, nil
}

// PrimaryName returns the first configured search name. Video searches use
// only this name to keep external query volume down.
func (c *Config) PrimaryName() string {
	return c.SearchNames[0]
}

// FindShow looks up a TV show by name in the registry.
func (c *Config) FindShow(name string) *TVShow {
	for i := range c.TVShows {
		if c.TVShows[i].Name == name {
			return &c.TVShows[i]
		}
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
