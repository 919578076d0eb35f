package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/contactkit/contactd/internal/log"
)

// Environment names accepted in [app].environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the application configuration, persisted as a TOML file.
type Config struct {
	Server  *ServerConfig  `toml:"server" json:"server"`
	Storage *StorageConfig `toml:"storage" json:"storage"`
	App     *AppConfig     `toml:"app" json:"app"`

	_absConfigFilePath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// BindAddress is the host:port the HTTP server listens on.
	BindAddress string `toml:"bind_address" json:"bind_address" validate:"omitempty,hostport"`

	// AccessLogFormat is the per-request log line template. Supported
	// placeholders: {{method}}, {{path}}, {{status}}, {{duration}}, {{remote}}.
	AccessLogFormat string `toml:"access_log_format" json:"access_log_format"`
}

// StorageConfig holds contact store settings.
type StorageConfig struct {
	// Path is the JSON store file, resolved relative to the config file
	// when not absolute.
	Path string `toml:"path" json:"path" validate:"required"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	Environment string `toml:"environment" json:"environment" validate:"omitempty,oneof=development production"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Server: &ServerConfig{
			BindAddress:     "127.0.0.1:8080",
			AccessLogFormat: "{{method}} {{path}} - {{status}} ({{duration}})",
		},
		Storage: &StorageConfig{
			Path: "contacts.json",
		},
		App: &AppConfig{
			Environment: EnvDevelopment,
		},
	}
}

// LoadConfig reads and parses the configuration file. A missing file is not
// an error: defaults are returned so the server can start on a fresh host.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Warnf("Configuration file not found: %s, using defaults", configFile)
		cfg := Default()
		cfg._absConfigFilePath = configFile
		return cfg, nil
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	config._absConfigFilePath = configFile
	config.applyDefaults()

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Contact store path: %s", config.AbsStorePath())

	return &config, nil
}

// applyDefaults fills missing sections and fields with default values.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server == nil {
		c.Server = def.Server
	} else {
		if c.Server.BindAddress == "" {
			c.Server.BindAddress = def.Server.BindAddress
		}
		if c.Server.AccessLogFormat == "" {
			c.Server.AccessLogFormat = def.Server.AccessLogFormat
		}
	}
	if c.Storage == nil {
		c.Storage = def.Storage
	} else if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.App == nil {
		c.App = def.App
	} else if c.App.Environment == "" {
		c.App.Environment = def.App.Environment
	}
}

// IsProduction reports whether the app runs in production mode. Error
// details are omitted from API responses in production.
func (c *Config) IsProduction() bool {
	return c.App != nil && c.App.Environment == EnvProduction
}

// AbsStorePath resolves the store file path against the config file directory.
func (c *Config) AbsStorePath() string {
	if c.Storage == nil {
		return ""
	}
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	if c._absConfigFilePath == "" {
		path, _ := filepath.Abs(c.Storage.Path)
		return path
	}
	return filepath.Join(filepath.Dir(c._absConfigFilePath), c.Storage.Path)
}

// SerializeConfig renders the configuration as TOML.
func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// WriteConfig persists the configuration back to its file.
func (c *Config) WriteConfig() error {
	config, err := c.SerializeConfig()
	if err != nil {
		return err
	}
	parentDir := filepath.Dir(c._absConfigFilePath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %v", err)
	}
	if err := os.WriteFile(c._absConfigFilePath, config.Bytes(), 0644); err != nil {
		return err
	}
	return nil
}

// SetConfigPath pins the absolute file path used by WriteConfig and
// AbsStorePath. Used when constructing a config that was not loaded from disk.
func (c *Config) SetConfigPath(configPath string) error {
	path, err := filepath.Abs(filepath.Clean(configPath))
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}
	c._absConfigFilePath = path
	return nil
}
