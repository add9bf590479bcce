package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdxmph/gridup/pkg/layout"
)

const (
	configFile = "config.json"

	// legacyTokenFile held a bare GitHub token before repository settings existed
	legacyTokenFile = "github_token"

	legacyOwner = "bucketio"
	legacyRepo  = "img[0-19]"
)

// Config holds the application configuration
type Config struct {
	GitHub    GitHubConfig      `json:"github" mapstructure:"github"`
	Layout    layout.Options    `json:"layout" mapstructure:"layout"`
	Upload    UploadConfig      `json:"upload" mapstructure:"upload"`
	Templates map[string]string `json:"templates,omitempty" mapstructure:"templates"`

	dir      string
	migrated bool

	// envKeys maps keys overridden from GRIDUP_* variables to their file
	// values, which Save writes back instead of the environment's
	envKeys map[string]string
}

// GitHubConfig holds the destination repository for uploads
type GitHubConfig struct {
	Owner      string `json:"owner" mapstructure:"owner"`
	Repo       string `json:"repo" mapstructure:"repo"` // May use the name[min,max] range syntax
	Branch     string `json:"branch" mapstructure:"branch"`
	PathPrefix string `json:"path_prefix" mapstructure:"path_prefix"` // Empty means today's YYYY/MM/DD
	Token      string `json:"token,omitempty" mapstructure:"token"`
}

// UploadConfig holds upload behaviour
type UploadConfig struct {
	MaxEdge        int  `json:"max_edge" mapstructure:"max_edge"`               // Downscale longer edge to this many pixels, 0 disables
	DuplicateCheck bool `json:"duplicate_check" mapstructure:"duplicate_check"` // Reuse earlier uploads of identical files
}

// DefaultTemplates returns the default per-image output templates
func DefaultTemplates() map[string]string {
	return map[string]string{
		"url":      "%url%",
		"markdown": "![%alt|filename%](%url%)",
		"html":     `<img src="%url%" alt="%alt|filename%" width="%width%" height="%height%">`,
		"json":     `{"url":"%url%","repo":"%repo%","path":"%path%","width":%width%,"height":%height%}`,
	}
}

// Dir returns the configuration directory. GRIDUP_CONFIG_DIR overrides
// the default of ~/.config/gridup.
func Dir() string {
	if dir := os.Getenv("GRIDUP_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gridup")
}

// Load loads configuration from the default location
func Load() (*Config, error) {
	return LoadFrom(Dir())
}

// LoadFrom loads configuration from dir. Environment variables prefixed
// with GRIDUP_ override file values, e.g. GRIDUP_GITHUB_TOKEN.
func LoadFrom(dir string) (*Config, error) {
	path := filepath.Join(dir, configFile)

	v := newViper(path)
	v.SetEnvPrefix("GRIDUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// file holds what is on disk, without environment overrides
	file := newViper(path)

	migrated := false
	if _, err := os.Stat(path); err == nil {
		for _, vv := range []*viper.Viper{v, file} {
			if err := vv.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	} else if token, ok := readLegacyToken(dir); ok {
		// Carry a bare token from older installs over to the default mirrors
		for _, vv := range []*viper.Viper{v, file} {
			vv.Set("github.token", token)
			vv.Set("github.owner", legacyOwner)
			vv.Set("github.repo", legacyRepo)
		}
		migrated = true
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.dir = dir
	cfg.migrated = migrated
	cfg.envKeys = envOverrides(file)
	cfg.GitHub = cfg.GitHub.normalized()

	// Add any missing default templates
	if cfg.Templates == nil {
		cfg.Templates = make(map[string]string)
	}
	for k, tmpl := range DefaultTemplates() {
		if _, exists := cfg.Templates[k]; !exists {
			cfg.Templates[k] = tmpl
		}
	}

	return &cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)
	return v
}

// envOverrides returns the file value of every key set through the
// environment. Empty variables do not override, matching viper.
func envOverrides(file *viper.Viper) map[string]string {
	keys := make(map[string]string)
	for _, key := range file.AllKeys() {
		if strings.HasPrefix(key, "templates.") {
			continue
		}
		name := "GRIDUP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if os.Getenv(name) != "" {
			keys[key] = file.GetString(key)
		}
	}
	return keys
}

func setDefaults(v *viper.Viper) {
	defaults := layout.DefaultOptions()

	v.SetDefault("github.owner", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.branch", "main")
	v.SetDefault("github.path_prefix", "")
	v.SetDefault("github.token", "")
	v.SetDefault("layout.columns", defaults.Columns)
	v.SetDefault("layout.container_width", defaults.ContainerWidth)
	v.SetDefault("layout.gap_px", defaults.GapPx)
	v.SetDefault("layout.padding", defaults.Padding)
	v.SetDefault("layout.site_id", defaults.SiteID)
	v.SetDefault("upload.max_edge", 0)
	v.SetDefault("upload.duplicate_check", true)
}

func readLegacyToken(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, legacyTokenFile))
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// Migrated reports whether Load imported a legacy token. Callers should
// Save to persist the migration.
func (c *Config) Migrated() bool {
	return c.migrated
}

// Path returns the configuration file path
func (c *Config) Path() string {
	dir := c.dir
	if dir == "" {
		dir = Dir()
	}
	return filepath.Join(dir, configFile)
}

// Save saves the configuration
func (c *Config) Save() error {
	path := c.Path()

	// Create directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c.GitHub = c.GitHub.normalized()

	// Environment overrides stay out of the file
	out := *c
	out.envKeys = nil
	for key, fileValue := range c.envKeys {
		if err := out.Set(key, fileValue); err != nil {
			return fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	out.GitHub = out.GitHub.normalized()

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	c.migrated = false
	return nil
}

// Set assigns a single key as used by `gridup config set`
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var err error

	switch {
	case key == "github.owner":
		c.GitHub.Owner = value
	case key == "github.repo":
		c.GitHub.Repo = value
	case key == "github.branch":
		c.GitHub.Branch = value
	case key == "github.path_prefix":
		c.GitHub.PathPrefix = value
	case key == "github.token":
		c.GitHub.Token = value
	case key == "layout.columns":
		err = setInt(&c.Layout.Columns, key, value)
	case key == "layout.container_width":
		err = setInt(&c.Layout.ContainerWidth, key, value)
	case key == "layout.gap_px":
		err = setInt(&c.Layout.GapPx, key, value)
	case key == "layout.padding":
		err = setInt(&c.Layout.Padding, key, value)
	case key == "layout.site_id":
		c.Layout.SiteID = value
	case key == "upload.max_edge":
		err = setInt(&c.Upload.MaxEdge, key, value)
	case key == "upload.duplicate_check":
		switch strings.ToLower(value) {
		case "true", "on", "yes", "1":
			c.Upload.DuplicateCheck = true
		case "false", "off", "no", "0":
			c.Upload.DuplicateCheck = false
		default:
			return fmt.Errorf("invalid boolean for %s: %s", key, value)
		}
	case strings.HasPrefix(key, "template."):
		name := strings.TrimPrefix(key, "template.")
		if c.Templates == nil {
			c.Templates = make(map[string]string)
		}
		c.Templates[name] = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	if err != nil {
		return err
	}
	delete(c.envKeys, key)
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid number for %s: %s", key, value)
	}
	*dst = n
	return nil
}
