package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// defaultURL is the MCP endpoint used when no context is configured.
const defaultURL = "http://localhost:9080/mcp"

// EnvAPIURL overrides the active context's endpoint URL.
const EnvAPIURL = "VIOLENTUTF_API_URL"

// Config is the top-level ~/.violentutf/config.json structure.
type Config struct {
	CurrentContext string              `json:"current_context"`
	Contexts       map[string]*Context `json:"contexts"`
}

// Context is a named server connection plus the operator identity
// used to mint bearer tokens against it. The token itself is never
// persisted here — it is re-minted per session from the identity.
type Context struct {
	URL      string    `json:"url"`
	APIKey   string    `json:"api_key,omitempty"`
	Identity *Identity `json:"identity,omitempty"`
}

// Identity is the claim set a login stores for later token minting.
type Identity struct {
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// DefaultConfigDir returns ~/.violentutf.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".violentutf"), nil
}

// DefaultConfigPath returns ~/.violentutf/config.json.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if it doesn't exist.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Current returns the active context, or nil if none is set.
func (c *Config) Current() *Context {
	if c.CurrentContext == "" {
		return nil
	}
	return c.Contexts[c.CurrentContext]
}

// CurrentURL returns the endpoint URL for the active context. The
// environment override wins over the stored value.
func (c *Config) CurrentURL() string {
	if v := os.Getenv(EnvAPIURL); v != "" {
		return v
	}
	ctx := c.Current()
	if ctx == nil || ctx.URL == "" {
		return defaultURL
	}
	return ctx.URL
}

// SetIdentity stores the operator identity on the active context and
// saves.
func (c *Config) SetIdentity(id *Identity) error {
	ctx := c.Current()
	if ctx == nil {
		return fmt.Errorf("no active context")
	}
	ctx.Identity = id
	return c.Save()
}

// Default returns a config with the default local context.
func Default() *Config { return defaultConfig() }

func defaultConfig() *Config {
	return &Config{
		CurrentContext: "local",
		Contexts: map[string]*Context{
			"local": {
				URL: defaultURL,
			},
		},
	}
}
