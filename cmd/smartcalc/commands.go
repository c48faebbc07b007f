package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/smartcalc/internal/calculator"
	"github.com/muurk/smartcalc/internal/config"
	"github.com/muurk/smartcalc/internal/discovery"
	"github.com/muurk/smartcalc/internal/keypad"
	"github.com/muurk/smartcalc/internal/logging"
	"github.com/muurk/smartcalc/internal/server"
	"github.com/muurk/smartcalc/internal/ui"
	"github.com/muurk/smartcalc/internal/urls"
	"github.com/muurk/smartcalc/internal/version"
)

// Command flags
var (
	serveHost      string
	servePort      int
	serveAdvertise bool
	serveInstance  string
	delayFlag      time.Duration
	jsonOutput     bool
	scanTimeout    time.Duration
	findInstance   string
	traceEval      bool
	forceInit      bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(legacyCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
}

// serveCmd hosts the browser calculator
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator to browsers",
	Long: `Start the HTTP server that hosts the browser calculator.

Each browser tab gets its own calculator over a WebSocket session. The
server also exposes the legacy POST /api/calculate endpoint, /health,
/version and Prometheus /metrics.

Changes to legacy_delay_ms in the settings file apply without a restart.

Protocol reference: ` + urls.ServerGuide,
	Example: `  # Listen on the configured address (default 0.0.0.0:8080)
  smartcalc serve

  # Custom port, announced on the local network
  smartcalc serve --port 9000 --advertise

  # Slow legacy path for demos
  smartcalc serve --delay 2s --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from settings)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from settings)")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Announce the server over mDNS")
	serveCmd.Flags().StringVar(&serveInstance, "instance", "", "mDNS instance name (default: smartcalc-<hostname>)")
	serveCmd.Flags().DurationVar(&delayFlag, "delay", 0, "Legacy computation delay (default from settings)")
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		level = "info"
	}
	if err := initLogging(level); err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := server.ConfigFromSettings(settings)
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = serveHost
	}
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("advertise") {
		cfg.Advertise = serveAdvertise
	}
	if flags.Changed("delay") {
		cfg.Delay = delayFlag
	}
	cfg.Instance = serveInstance

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// hot reload of the delay, unless pinned on the command line
	if !flags.Changed("delay") {
		if path, err := settingsPath(); err == nil {
			watcher, err := config.NewWatcher(path, func(s *config.Settings) {
				srv.SetDelay(s.LegacyDelay())
			})
			if err != nil {
				logging.Warn("Settings hot reload disabled", zap.String("path", path), zap.Error(err))
			} else {
				defer func() { _ = watcher.Close() }()
			}
		}
	}

	return srv.Start()
}

// evalCmd replays a key sequence
var evalCmd = &cobra.Command{
	Use:   "eval <keys>...",
	Short: "Replay a key sequence and print the display",
	Long: `Feed a key sequence to a fresh calculator and print the final display
and history line.

Keys are the ones the terminal calculator accepts: digits, ".", "+ - * /",
"=", "s" to toggle the sign, and the names Enter, Escape and Backspace.
Quote sequences containing "*" so the shell does not expand them.`,
	Example: `  smartcalc eval "3+4*5="
  smartcalc eval 5 / 0 =
  smartcalc eval "0.1+0.2" Enter --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	evalCmd.Flags().BoolVar(&traceEval, "trace", false, "Also print every display the keys produced")
}

// evalResult is the --json output of eval
type evalResult struct {
	Display string              `json:"display"`
	History string              `json:"history"`
	Error   bool                `json:"error"`
	Entry   string              `json:"entry"`
	Trace   []calculator.Update `json:"trace,omitempty"`
}

func runEval(cmd *cobra.Command, args []string) error {
	if err := initLogging(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	km := keypad.NewKeymap(settings.Calculator.SignToggleKeys...)
	inputs, err := parseKeys(km, args)
	if err != nil {
		return err
	}

	rec := &calculator.Recorder{}
	m := calculator.New(calculator.WithSink(rec))
	calcErr := replay(m, inputs)
	if errors.Is(calcErr, calculator.ErrInvariant) {
		return calcErr
	}

	last := rec.Last()
	out := cmd.OutOrStdout()

	var trace []calculator.Update
	if traceEval {
		// the first update is the idle display rendered by New
		trace = rec.Updates()[1:]
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(evalResult{
			Display: last.Display,
			History: last.History,
			Error:   last.Error,
			Entry:   m.Snapshot().Entry,
			Trace:   trace,
		})
	}

	p := ui.NewPrinter(out)
	details := []ui.Param{
		{Key: "Display", Value: last.Display},
		{Key: "History", Value: last.History},
		{Key: "Keys", Value: strconv.Itoa(len(inputs))},
	}
	if traceEval {
		displays := make([]string, len(trace))
		for i, u := range trace {
			displays[i] = u.Display
		}
		details = append(details, ui.Param{Key: "Trace", Value: strings.Join(displays, " > ")})
	}
	if last.Error {
		p.PrintWarning("Calculator error", details...)
		return nil
	}
	p.PrintSuccess("Result", details...)
	return nil
}

// legacyCmd runs the delayed computation path
var legacyCmd = &cobra.Command{
	Use:   "legacy <operand1> <operator> <operand2>",
	Short: "Compute on the delayed legacy path",
	Long: `Compute one operation the way the legacy endpoint does: after the
configured delay, with unknown operators reported as an invalid operation.

The operator may be a symbol (+ - * /) or a name (add, subtract, multiply,
divide). Press Ctrl+C to cancel while waiting.`,
	Example: `  smartcalc legacy 6 "*" 7
  smartcalc legacy 1 divide 3 --delay 2s`,
	Args: cobra.ExactArgs(3),
	RunE: runLegacy,
}

func init() {
	legacyCmd.Flags().DurationVar(&delayFlag, "delay", 0, "Legacy computation delay (default from settings)")
}

func runLegacy(cmd *cobra.Command, args []string) error {
	if err := initLogging(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	delay := settings.LegacyDelay()
	if cmd.Flags().Changed("delay") {
		delay = delayFlag
	}

	operand1, operand2 := args[0], args[2]
	op, ok := calculator.ParseOperator(args[1])
	if !ok {
		op = calculator.Operator(args[1])
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Legacy Computation",
		Command: "smartcalc legacy " + operand1 + " " + args[1] + " " + operand2,
		Params: []ui.Param{
			{Key: "Expression", Value: operand1 + " " + op.String() + " " + operand2},
			{Key: "Delay", Value: delay.String()},
		},
		StepNames: []string{"Validate operands", "Schedule computation", "Wait for result"},
		Troubleshooting: []string{
			"Operands must be plain numbers such as 12 or -0.5",
			"Supported operators: + - * / (or add, subtract, multiply, divide)",
		},
		Output: cmd.OutOrStdout(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
		onStep(1, ui.StepRunning, "")
		if _, err := calculator.Evaluate(operand1, "1", calculator.OpAdd); err != nil {
			onStep(1, ui.StepFailed, "operand1")
			return nil, fmt.Errorf("operand1 %q is not a number", operand1)
		}
		if _, err := calculator.Evaluate(operand2, "1", calculator.OpAdd); err != nil {
			onStep(1, ui.StepFailed, "operand2")
			return nil, fmt.Errorf("operand2 %q is not a number", operand2)
		}
		onStep(1, ui.StepComplete, "")

		busy := calculator.BusyFunc(func(busy bool) {
			if busy {
				onStep(2, ui.StepComplete, delay.String()+" delay")
				onStep(3, ui.StepRunning, "")
			}
		})
		rec := &calculator.Recorder{}
		m := calculator.New(
			calculator.WithSink(rec),
			calculator.WithBusyIndicator(busy),
			calculator.WithDelay(delay),
		)

		onStep(2, ui.StepRunning, "")
		result, err := m.ComputeDelayed(ctx, operand1, operand2, op)
		if err != nil {
			onStep(3, ui.StepFailed, "")
			if msg, ok := calculator.DisplayMessage(err); ok {
				return nil, errors.New(msg)
			}
			return nil, err
		}
		onStep(3, ui.StepComplete, "")

		return []ui.Param{
			{Key: "Result", Value: result},
			{Key: "Display", Value: rec.Last().Display},
		}, nil
	})
}

// discoverCmd browses for servers
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find smartcalc servers on the local network",
	Long: `Browse for smartcalc servers announced over mDNS.

Servers started with 'smartcalc serve --advertise' (or advertise: true in
the settings file) answer with their address and version.`,
	Example: `  smartcalc discover
  smartcalc discover --timeout 10s --json
  smartcalc discover --instance smartcalc-kitchen`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for answers")
	discoverCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print servers as JSON")
	discoverCmd.Flags().StringVar(&findInstance, "instance", "", "Look up a single server by instance name")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if err := initLogging(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	out := cmd.OutOrStdout()
	p := ui.NewPrinter(out)
	if !jsonOutput {
		params := []ui.Param{
			{Key: "Service", Value: discovery.ServiceType},
			{Key: "Timeout", Value: scanTimeout.String()},
		}
		if findInstance != "" {
			params = append(params, ui.Param{Key: "Instance", Value: findInstance})
		}
		p.PrintHeader("Server Discovery", "smartcalc discover", params...)
		p.Newline()
	}

	scanner := discovery.NewScanner()
	if scanTimeout > 0 {
		scanner.Timeout = scanTimeout
	}

	var (
		servers []*discovery.Server
		err     error
	)
	if findInstance != "" {
		var found *discovery.Server
		found, err = scanner.Find(cmd.Context(), findInstance)
		if found != nil {
			servers = []*discovery.Server{found}
		}
	} else {
		servers, err = scanner.Scan(cmd.Context())
	}
	if err != nil {
		if !jsonOutput {
			p.PrintError("Discovery failed", err,
				"Check that multicast is allowed on this network",
				"Firewalls must allow mDNS (UDP port 5353)",
				"See "+urls.DiscoveryTroubleshooting,
			)
		}
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(servers)
	}

	if len(servers) == 0 {
		p.PrintWarning("No servers found",
			ui.Param{Key: "Hint", Value: "Start one with 'smartcalc serve --advertise'"},
			ui.Param{Key: "Hint", Value: "Try a longer --timeout on busy networks"},
			ui.Param{Key: "Help", Value: urls.DiscoveryTroubleshooting},
		)
		return nil
	}

	details := make([]ui.Param, 0, len(servers))
	for _, s := range servers {
		value := s.URL()
		if v := s.GetMetadata("version"); v != "" {
			value += " (" + v + ")"
		}
		details = append(details, ui.Param{Key: s.Instance, Value: value})
	}
	p.PrintSuccess(fmt.Sprintf("Found %d server(s)", len(servers)), details...)
	return nil
}

// configCmd groups settings file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		settings, err := loadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}

		out := cmd.OutOrStdout()
		source := path
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			source += " (not found, showing defaults)"
		}
		_, _ = fmt.Fprintf(out, "# %s\n%s", source, data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := ui.NewPrinter(out)

		path, err := settingsPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !forceInit {
			ok := ui.Confirm(cmd.InOrStdin(), out, "Settings file exists",
				[]string{path, "Existing values will be replaced by defaults"},
				"Overwrite it?")
			if !ok {
				return nil
			}
		}

		if configPath != "" {
			err = config.NewSettings().SaveTo(path)
		} else {
			path, err = config.CreateDefaultConfig(true)
		}
		if err != nil {
			p.PrintError("Could not write settings", err)
			return err
		}

		p.PrintSuccess("Settings written", ui.Param{Key: "Path", Value: path})
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite without asking")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(version.Get())
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "smartcalc "+version.Full())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print version information as JSON")
}
