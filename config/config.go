// Package config loads deployment configuration from YAML with environment
// overrides, and decodes the typed per-service blocks composition roots are
// wired with.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full deployment configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Redis   Redis   `yaml:"redis"`
	Session Session `yaml:"session"`
	Log     Log     `yaml:"log"`

	// Services carries one raw block per service definition name, decoded
	// into the service's typed config via Service.
	Services map[string]map[string]any `yaml:"services"`
}

// Server configures the HTTP entry point.
type Server struct {
	Addr               string        `yaml:"addr"`
	EventsPath         string        `yaml:"events_path"`
	ServicePluginsPath string        `yaml:"service_plugins_path"`
	ShutdownTimeout    Duration `yaml:"shutdown_timeout"`
}

// Redis configures the shared warm-up store. An empty Addr selects the
// in-process store.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Session configures the cookie codec.
type Session struct {
	ClientID   string `yaml:"client_id"`
	CookieName string `yaml:"cookie_name"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
}

// MissingFieldError reports a required field left unset.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required config field: %s", e.Field)
}

// UnknownServiceError reports a service block that is not in the file.
type UnknownServiceError struct {
	Service string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("no config block for service: %s", e.Service)
}

// Load reads path, applies HEADLESS_* environment overrides and defaults,
// and validates. An empty path skips the file and uses environment and
// defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HEADLESS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HEADLESS_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("HEADLESS_CLIENT_ID"); v != "" {
		c.Session.ClientID = v
	}
	if v := os.Getenv("HEADLESS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "headless-session"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Session.ClientID == "" {
		return &MissingFieldError{Field: "session.client_id"}
	}
	return nil
}

// Service decodes the raw block for name into out.
func (c *Config) Service(name string, out any) error {
	block, ok := c.Services[name]
	if !ok {
		return &UnknownServiceError{Service: name}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(block); err != nil {
		return fmt.Errorf("decode config for service %s: %w", name, err)
	}
	return nil
}
