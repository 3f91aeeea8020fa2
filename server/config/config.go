package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dnsco/potential/logging"
)

// SheetURLEnv names the environment variable consulted when no sheet URL is configured.
const SheetURLEnv = "STRENGTH_URL"

const (
	defaultAddr          = ":8080"
	defaultLogLevel      = "info"
	defaultAllowedOrigin = "*"
	defaultImportTimeout = 5 * time.Minute
)

// ServerConfig represents the server runtime configuration.
type ServerConfig struct {
	Listener ListenerConfig `yaml:"listener" json:"listener"`
	LogLevel string         `yaml:"log_level" json:"log_level"`
	CORS     CORSConfig     `yaml:"cors" json:"cors"`
	Import   ImportConfig   `yaml:"import" json:"import"`
}

// ListenerConfig holds HTTP server listener settings.
type ListenerConfig struct {
	// The listen address, defaults to :8080
	Addr string `yaml:"addr" json:"addr"`
	// TLSCert and TLSKey enable HTTPS when both are set. The files are
	// re-read when they change on disk.
	TLSCert string `yaml:"tls_cert" json:"tls_cert"`
	TLSKey  string `yaml:"tls_key" json:"tls_key"`
}

// TLSEnabled reports whether a certificate and key are configured.
func (l ListenerConfig) TLSEnabled() bool {
	return l.TLSCert != "" && l.TLSKey != ""
}

// CORSConfig controls the cross-origin headers added to every response.
type CORSConfig struct {
	// AllowedOrigin is sent as Access-Control-Allow-Origin, defaults to *
	AllowedOrigin string `yaml:"allowed_origin" json:"allowed_origin"`
}

// ImportConfig defines where workout sheets come from and when they are imported.
type ImportConfig struct {
	// SheetURL is the tab-separated sheet to import. Falls back to $STRENGTH_URL.
	SheetURL string `yaml:"sheet_url" json:"sheet_url"`
	// Schedule holds one or more cron expressions separated by semicolons.
	// Empty disables scheduled imports.
	Schedule string `yaml:"schedule" json:"schedule"`
	// Timeout bounds a single import, defaults to 5m.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LoadConfig reads the YAML config file at the given path and returns a ServerConfig struct.
func LoadConfig(path string) (*ServerConfig, error) {
	var cfg ServerConfig
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open server config file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode YAML server config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults sets reasonable default values for optional fields.
func (c *ServerConfig) SetDefaults() {
	if c.Listener.Addr == "" {
		c.Listener.Addr = defaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.CORS.AllowedOrigin == "" {
		c.CORS.AllowedOrigin = defaultAllowedOrigin
	}
	if c.Import.SheetURL == "" {
		c.Import.SheetURL = os.Getenv(SheetURLEnv)
	}
	if c.Import.Timeout == 0 {
		c.Import.Timeout = defaultImportTimeout
	}
}

// Validate performs basic validation on the configuration.
// Cron schedules are checked when the scheduler is built.
func (c *ServerConfig) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if (c.Listener.TLSCert == "") != (c.Listener.TLSKey == "") {
		return fmt.Errorf("listener.tls_cert and listener.tls_key must be set together")
	}
	if c.Import.SheetURL != "" {
		u, err := url.Parse(c.Import.SheetURL)
		if err != nil {
			return fmt.Errorf("import.sheet_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("import.sheet_url must be an http or https URL")
		}
	}
	if c.Import.Timeout < 0 {
		return fmt.Errorf("import.timeout must not be negative")
	}
	return nil
}

// Redacted returns a copy safe to show to clients: the sheet URL keeps its
// host and path but loses its query string and user info.
func (c ServerConfig) Redacted() ServerConfig {
	if c.Import.SheetURL == "" {
		return c
	}
	u, err := url.Parse(c.Import.SheetURL)
	if err != nil {
		c.Import.SheetURL = "REDACTED"
		return c
	}
	if u.RawQuery != "" {
		u.RawQuery = "REDACTED"
	}
	u.User = nil
	c.Import.SheetURL = u.String()
	return c
}
