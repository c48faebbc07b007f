package config

import (
	"fmt"
	"time"

	"github.com/muurk/smartcalc/internal/keypad"
)

// CurrentVersion is the settings file format version this build reads and writes.
const CurrentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version    int         `yaml:"version"`
	Calculator *Calculator `yaml:"calculator,omitempty"`
	Server     *Server     `yaml:"server,omitempty"`
	UI         *UI         `yaml:"ui,omitempty"`
}

// Calculator holds preferences for the calculator core and its input adapters.
type Calculator struct {
	LegacyDelayMs  int      `yaml:"legacy_delay_ms"`            // Delay of the legacy computation path
	SignToggleKeys []string `yaml:"sign_toggle_keys,omitempty"` // Keys that flip the sign of the entry
}

// Server holds settings for the browser calculator server.
type Server struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Advertise      bool     `yaml:"advertise"`                 // Announce the server over mDNS
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"` // CORS origins for /api routes
}

// UI holds terminal interface preferences.
type UI struct {
	AltScreen bool `yaml:"alt_screen"`
	Mouse     bool `yaml:"mouse"`
	ShowHelp  bool `yaml:"show_help"`
}

// NewSettings creates a new Settings with default values.
func NewSettings() *Settings {
	s := &Settings{Version: CurrentVersion}
	s.applyDefaults()
	return s
}

// applyDefaults fills in any section missing from a loaded file.
func (s *Settings) applyDefaults() {
	if s.Calculator == nil {
		s.Calculator = &Calculator{
			LegacyDelayMs:  500,
			SignToggleKeys: []string{"s", "S"},
		}
	}
	if s.Server == nil {
		s.Server = &Server{
			Host:           "0.0.0.0",
			Port:           8080,
			Advertise:      false,
			AllowedOrigins: []string{"*"},
		}
	}
	if s.UI == nil {
		s.UI = &UI{
			AltScreen: true,
			Mouse:     true,
			ShowHelp:  true,
		}
	}
}

// LegacyDelay returns the legacy computation delay as a duration.
func (s *Settings) LegacyDelay() time.Duration {
	return time.Duration(s.Calculator.LegacyDelayMs) * time.Millisecond
}

// Addr returns the host:port the server listens on.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}

// Validate checks that the settings can be used.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if s.Calculator.LegacyDelayMs < 0 {
		return fmt.Errorf("calculator.legacy_delay_ms must not be negative, got %d", s.Calculator.LegacyDelayMs)
	}
	if err := keypad.ValidateSignKeys(s.Calculator.SignToggleKeys); err != nil {
		return fmt.Errorf("calculator.sign_toggle_keys: %w", err)
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", s.Server.Port)
	}
	return nil
}
