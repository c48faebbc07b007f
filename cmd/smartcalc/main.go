// Smartcalc is a four-function calculator for the terminal and the browser.
//
// Running without arguments opens the interactive terminal calculator.
// The serve command hosts the same calculator for browsers over WebSocket,
// and eval and legacy compute from the command line.
//
// Usage:
//
//	smartcalc [command] [flags]
//
// See 'smartcalc --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/muurk/smartcalc/internal/config"
	"github.com/muurk/smartcalc/internal/logging"
	"github.com/muurk/smartcalc/internal/tui"
	"github.com/muurk/smartcalc/internal/ui"
	"github.com/muurk/smartcalc/internal/urls"
	"github.com/muurk/smartcalc/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
	logFile    string
	noMouse    bool
)

var rootCmd = &cobra.Command{
	Use:   "smartcalc",
	Short: "Terminal and browser calculator",
	Long: `A four-function calculator with a terminal interface and a browser
interface served over WebSocket.

If no command is specified, the terminal calculator launches. Press "r" in
the calculator to compute the pending operation on the delayed legacy path.

Getting started: ` + urls.GettingStarted,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv()
	},
	RunE: runCalculator,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: $"+config.EnvConfigPath+" or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")
	rootCmd.Flags().BoolVar(&noMouse, "no-mouse", false, "Disable mouse support in the terminal calculator")

	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

// loadSettings reads the --config file, or the default settings location
func loadSettings() (*config.Settings, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// settingsPath returns the file loadSettings reads
func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// initLogging sets up the global logger. An empty level falls back to
// SMARTCALC_LOG_LEVEL and then to silent.
func initLogging(level string) error {
	var outputs []string
	if logFile != "" {
		outputs = []string{logFile}
	}
	return logging.InitializeWithOutput(level, outputs)
}

func runCalculator(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return errors.New("the terminal calculator needs an interactive terminal; use 'smartcalc eval' for scripted input")
	}

	// the calculator owns the terminal, so logs go to a file
	if logFile == "" && (logLevel != "" || os.Getenv(logging.LogLevelEnvVar) != "") {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		logFile = filepath.Join(dir, "smartcalc.log")
	}
	if err := initLogging(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	return tui.Run(tui.Options{
		Delay:     settings.LegacyDelay(),
		SignKeys:  settings.Calculator.SignToggleKeys,
		ShowHelp:  settings.UI.ShowHelp,
		AltScreen: settings.UI.AltScreen,
		Mouse:     settings.UI.Mouse && !noMouse,
	})
}
