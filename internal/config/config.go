package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-calendar/internal/storage"
)

// Config is the root configuration for tcal, stored in ~/.tcal/config.yaml.
type Config struct {
	// DataDir holds the snapshot file and auth tokens. Empty = ~/.tcal.
	DataDir string `yaml:"data_dir"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// DefaultColor is a palette label or value applied to new events.
	DefaultColor string        `yaml:"default_color"`
	Storage      StorageConfig `yaml:"storage"`
	Outlook      OutlookConfig `yaml:"outlook"`
}

// StorageConfig selects where the calendar snapshot is persisted.
type StorageConfig struct {
	// Backend is "file" (default) or "s3".
	Backend string   `yaml:"backend"`
	File    string   `yaml:"file"`
	S3      S3Config `yaml:"s3"`
}

// S3Config locates the snapshot object for the s3 backend.
type S3Config struct {
	Bucket  string `yaml:"bucket"`
	Key     string `yaml:"key"`
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

// OutlookConfig holds Microsoft Graph / Outlook import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `yaml:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `yaml:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = local.
	Timezone string `yaml:"timezone"`
}

const (
	BackendFile = "file"
	BackendS3   = "s3"

	DefaultLogLevel = "warn"
	DefaultFile     = storage.DefaultFileName
	DefaultS3Key    = storage.DefaultFileName
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
)

// Default returns a Config pre-filled with defaults.
func Default() Config {
	cfg := Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero-value fields with built-in defaults so callers always
// get a usable Config even from a partially filled file.
func (c *Config) Normalize() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.File == "" {
		c.Storage.File = DefaultFile
	}
	if c.Storage.S3.Key == "" {
		c.Storage.S3.Key = DefaultS3Key
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = DefaultTenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = DefaultClientID
	}
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q (want file or s3)", c.Storage.Backend)
	}
	return nil
}

// ResolveDataDir returns DataDir or ~/.tcal.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return storage.BaseDir()
}

// SnapshotPath returns the snapshot file path for the file backend.
func (c *Config) SnapshotPath() (string, error) {
	if filepath.IsAbs(c.Storage.File) {
		return c.Storage.File, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.File), nil
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# tcal configuration - ~/.tcal/config.yaml
#
# All settings are optional; the defaults below work out of the box.

# Directory for the event snapshot and auth tokens. Empty = ~/.tcal
data_dir: ""

# debug, info, warn or error. Override per run with --log-level.
log_level: warn

# Color for new events: a palette name (blue, green, yellow, red, purple,
# gray) or any value. Empty = blue.
default_color: ""

storage:
  # "file" keeps all events in one JSON file inside data_dir.
  # "s3" keeps them in one S3 object (credentials from the AWS default chain).
  backend: file
  file: calendarEvents.json
  s3:
    bucket: ""
    key: calendarEvents.json
    region: ""
    profile: ""

# Microsoft Graph / Outlook import (tcal outlook import).
outlook:
  # "common" works for personal Microsoft accounts and most organisations.
  tenant_id: common
  # Public Azure CLI app, no app registration needed.
  client_id: 04b07795-8542-4c4a-95af-30b2c573d5ab
  # IANA timezone for event times, e.g. Europe/Berlin. Empty = local.
  timezone: ""
`

// DefaultPath returns ~/.tcal/config.yaml.
func DefaultPath() (string, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config at path (DefaultPath when empty), creating it with
// annotated defaults on first run.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			return Default(), fmt.Errorf("could not create config file %s: %w", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template via temp file + rename.
func writeDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
