package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/smartcalc/internal/calculator"
	"github.com/muurk/smartcalc/internal/config"
	"github.com/muurk/smartcalc/internal/discovery"
	"github.com/muurk/smartcalc/internal/keypad"
	"github.com/muurk/smartcalc/internal/logging"
	"github.com/muurk/smartcalc/internal/version"
)

// Config holds the server configuration
type Config struct {
	Host           string
	Port           int
	Delay          time.Duration // Delay of the legacy computation path
	SignToggleKeys []string      // Keys that flip the sign in browser sessions
	AllowedOrigins []string      // CORS and WebSocket origins, "*" allows all
	Advertise      bool          // Announce the server over mDNS
	Instance       string        // mDNS instance name (defaults to the hostname)
}

// ConfigFromSettings builds a server configuration from user settings
func ConfigFromSettings(s *config.Settings) *Config {
	return &Config{
		Host:           s.Server.Host,
		Port:           s.Server.Port,
		Delay:          s.LegacyDelay(),
		SignToggleKeys: s.Calculator.SignToggleKeys,
		AllowedOrigins: s.Server.AllowedOrigins,
		Advertise:      s.Server.Advertise,
	}
}

// Server serves the browser calculator, the legacy calculate endpoint and
// the operational endpoints.
type Server struct {
	config   *Config
	router   http.Handler
	metrics  *Metrics
	keymap   *keypad.Keymap
	layout   *keypad.Layout
	upgrader websocket.Upgrader
	delay    atomic.Int64

	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement

	// ctx is the parent of every session; cancelled on shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// wg counts tracked sessions; Add only happens under mu while !closing
	wg       sync.WaitGroup
	mu       sync.Mutex
	closing  bool
	sessions map[string]*session
}

// New creates a new Server instance
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("invalid legacy delay %s", cfg.Delay)
	}
	if err := keypad.ValidateSignKeys(cfg.SignToggleKeys); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:   cfg,
		metrics:  NewMetrics(),
		keymap:   keypad.NewKeymap(cfg.SignToggleKeys...),
		layout:   keypad.Standard(),
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*session),
	}
	s.delay.Store(int64(cfg.Delay))
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.newRouter()

	return s, nil
}

// Handler returns the HTTP handler with all routes and middleware
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Delay returns the current legacy computation delay
func (s *Server) Delay() time.Duration {
	return time.Duration(s.delay.Load())
}

// SetDelay changes the legacy computation delay for computations started
// afterwards. Negative values are ignored.
func (s *Server) SetDelay(d time.Duration) {
	if d < 0 {
		return
	}
	if old := time.Duration(s.delay.Swap(int64(d))); old != d {
		logging.Info("Legacy delay changed",
			zap.Duration("old", old),
			zap.Duration("new", d),
		)
	}
}

// Addr returns the listen address, resolved once the server is listening
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Listen binds the listen address without serving
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	s.listener = listener
	return nil
}

// Start starts the server and blocks until a shutdown signal or error
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Starting smartcalc server",
		zap.String("addr", s.Addr()),
		zap.Duration("legacy_delay", s.Delay()),
		zap.Strings("allowed_origins", s.config.AllowedOrigins),
		zap.String("version", version.Version),
	)

	if s.config.Advertise {
		port := s.listener.Addr().(*net.TCPAddr).Port
		advert, err := discovery.Advertise(s.config.Instance, port, map[string]string{
			"version": version.Version,
			"path":    "/",
		})
		if err != nil {
			// the server is still usable without mDNS
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			s.advert = advert
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advert.Shutdown()

	// sessions end their own loops once the parent context is cancelled
	s.cancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(shutdownErr))
			err = shutdownErr
		}
	}

	// hijacked WebSocket connections are not closed by http.Server
	s.mu.Lock()
	s.closing = true
	for id, sess := range s.sessions {
		logging.Debug("Closing active session", zap.String("session_id", id))
		_ = sess.conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// GetActiveSessions returns the number of open calculator sessions
func (s *Server) GetActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// track registers a session. It refuses once Shutdown has started.
func (s *Server) track(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	s.sessions[sess.id] = sess
	s.metrics.sessionOpened()
	return true
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.metrics.sessionClosed()
	s.wg.Done()
}

// newMachine builds the calculator for one session
func (s *Server) newMachine(sess *session) *calculator.Machine {
	return calculator.New(
		calculator.WithSink(sess),
		calculator.WithBusyIndicator(sess),
		calculator.WithDelay(s.Delay()),
		calculator.WithComputeHook(s.metrics.observeComputation),
	)
}
