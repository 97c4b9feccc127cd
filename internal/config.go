package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var hexDigestPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModePassword = "password"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds the path to the record database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds the access gate configuration.
//
// Mode controls how the gate is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "password": master password auth; MasterHash must hold the SHA-256 hex
//     digest of the shared secret.
type AuthConfig struct {
	Mode       string        `yaml:"mode"`
	MasterHash string        `yaml:"master_hash"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModePassword)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModePassword {
		if err := validation.Validate(c.MasterHash, validation.Required,
			validation.Match(hexDigestPattern)); err != nil {
			return fmt.Errorf("auth: master_hash: %w", err)
		}
	}
	return nil
}

// AuthEnabled returns true when the access gate is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModePassword
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./opsdesk.db",
		},
		Auth: AuthConfig{
			Mode:       AuthModeDisabled,
			SessionTTL: 12 * time.Hour,
		},
	}
}
