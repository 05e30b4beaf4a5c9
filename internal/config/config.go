package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/tagdrawer/internal/api"
)

// Environment overrides, applied after the file is read.
const (
	EnvAPIURL = "TAGDRAWER_API_URL"
	EnvAPIKey = "TAGDRAWER_API_KEY"
)

// Config holds CLI configuration stored at ~/.tagdrawer/config.
type Config struct {
	APIURL     string `yaml:"api_url"`
	APIKey     string `yaml:"api_key"`
	Org        string `yaml:"org,omitempty"`
	DraftsPath string `yaml:"drafts_path,omitempty"`
	Theme      string `yaml:"theme,omitempty"`
	VimKeys    bool   `yaml:"vim_keys,omitempty"`
}

// Dir returns the directory holding config and drafts.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tagdrawer")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config missing api_key")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = api.DefaultBaseURL
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
}

// Drafts returns the drafts database path.
func (c *Config) Drafts() string {
	if c.DraftsPath != "" {
		return c.DraftsPath
	}
	return filepath.Join(Dir(), "drafts.db")
}

// Client builds an API client from the config.
func (c *Config) Client() *api.Client {
	return api.NewClient(strings.TrimRight(c.APIURL, "/"), c.APIKey)
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
