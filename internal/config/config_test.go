package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "smartcalc") {
		t.Errorf("GetConfigDir() = %v, should contain 'smartcalc'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if os.Getenv("XDG_CONFIG_HOME") == "" && !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfigPath, want)

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if got != want {
		t.Errorf("GetConfigPath() = %v, want %v", got, want)
	}
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()

	if s.Version != CurrentVersion {
		t.Errorf("Version = %v, want %v", s.Version, CurrentVersion)
	}
	if s.LegacyDelay() != 500*time.Millisecond {
		t.Errorf("LegacyDelay() = %v, want 500ms", s.LegacyDelay())
	}
	if got := s.Calculator.SignToggleKeys; len(got) != 2 || got[0] != "s" || got[1] != "S" {
		t.Errorf("SignToggleKeys = %v, want [s S]", got)
	}
	if s.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %v, want 0.0.0.0:8080", s.Addr())
	}
	if !s.UI.AltScreen || !s.UI.Mouse || !s.UI.ShowHelp {
		t.Errorf("UI defaults = %+v, want all enabled", s.UI)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"bad version", func(s *Settings) { s.Version = 2 }, "unsupported config version"},
		{"negative delay", func(s *Settings) { s.Calculator.LegacyDelayMs = -1 }, "legacy_delay_ms"},
		{"empty sign key", func(s *Settings) { s.Calculator.SignToggleKeys = []string{""} }, "sign_toggle_keys"},
		{"sign key is a digit", func(s *Settings) { s.Calculator.SignToggleKeys = []string{"n", "7"} }, "already bound"},
		{"sign key is an operator", func(s *Settings) { s.Calculator.SignToggleKeys = []string{"-"} }, "already bound"},
		{"sign key is reserved", func(s *Settings) { s.Calculator.SignToggleKeys = []string{"r"} }, "reserved"},
		{"custom sign key", func(s *Settings) { s.Calculator.SignToggleKeys = []string{"n", "N"} }, ""},
		{"port too large", func(s *Settings) { s.Server.Port = 70000 }, "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings()
			tt.modify(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_FillsMissingSections(t *testing.T) {
	s, err := Parse([]byte("version: 1\ncalculator:\n  legacy_delay_ms: 50\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Calculator.LegacyDelayMs != 50 {
		t.Errorf("LegacyDelayMs = %d, want 50", s.Calculator.LegacyDelayMs)
	}
	if s.Server == nil || s.Server.Port != 8080 {
		t.Errorf("Server = %+v, want defaults", s.Server)
	}
	if s.UI == nil {
		t.Error("UI section should be filled in")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":    "version: [",
		"bad version": "version: 9\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestSaveToAndLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := NewSettings()
	s.Calculator.LegacyDelayMs = 125
	s.Server.Port = 9090
	s.UI.Mouse = false

	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# smartcalc configuration file") {
		t.Error("saved file should start with the header comment")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Calculator.LegacyDelayMs != 125 || loaded.Server.Port != 9090 || loaded.UI.Mouse {
		t.Errorf("loaded settings = %+v %+v %+v", loaded.Calculator, loaded.Server, loaded.UI)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Version != CurrentVersion {
		t.Errorf("missing file should yield defaults, got %+v", s)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)

	got, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if got != path {
		t.Errorf("path = %v, want %v", got, path)
	}

	if _, err := CreateDefaultConfig(false); err == nil {
		t.Error("second CreateDefaultConfig(false) should refuse to overwrite")
	}
	if _, err := CreateDefaultConfig(true); err != nil {
		t.Errorf("CreateDefaultConfig(true) error = %v", err)
	}
}

func TestSettingsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv(EnvConfigPath, path)

	s := NewSettings()
	s.Calculator.LegacyDelayMs = 125
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Calculator.LegacyDelayMs != 125 {
		t.Errorf("legacy_delay_ms = %d, want 125", loaded.Calculator.LegacyDelayMs)
	}
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := NewSettings().SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	changes := make(chan *Settings, 4)
	w, err := NewWatcherWithDebounce(path, 20*time.Millisecond, func(s *Settings) {
		changes <- s
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	updated := NewSettings()
	updated.Calculator.LegacyDelayMs = 42
	if err := updated.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	select {
	case s := <-changes:
		if s.Calculator.LegacyDelayMs != 42 {
			t.Errorf("reloaded delay = %d, want 42", s.Calculator.LegacyDelayMs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestWatcher_IgnoresInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	changes := make(chan *Settings, 4)
	w, err := NewWatcherWithDebounce(path, 20*time.Millisecond, func(s *Settings) {
		changes <- s
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("version: ["), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-changes:
		t.Errorf("invalid file should not be delivered, got %+v", s)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"), nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
