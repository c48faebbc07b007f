// Package config loads and stores the smartcalc settings file.
//
// Settings live in one YAML document with three sections: calculator (legacy
// delay, sign toggle keys), server (listen address, mDNS advertisement,
// allowed origins) and ui (alt screen, mouse, help footer). Missing fields
// keep the values from NewSettings.
//
// # Location
//
//   - $SMARTCALC_CONFIG when set
//   - $XDG_CONFIG_HOME/smartcalc/config.yaml
//   - $HOME/.config/smartcalc/config.yaml (Linux and macOS)
//   - %LOCALAPPDATA%\smartcalc\config.yaml (Windows)
//
// # Usage
//
//	settings, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	delay := settings.LegacyDelay()
//
// Load reads the default file once per process. Commands that accept a
// --config flag use LoadFrom instead.
//
// # Hot Reload
//
// Watcher follows the settings file with fsnotify and passes every revision
// that parses and validates to its callback. The serve command uses it to
// change the legacy delay without a restart:
//
//	w, err := config.NewWatcher(path, func(s *config.Settings) {
//	    srv.SetDelay(s.LegacyDelay())
//	})
//	defer w.Close()
package config
