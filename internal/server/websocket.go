package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/smartcalc/internal/calculator"
	"github.com/muurk/smartcalc/internal/keypad"
	"github.com/muurk/smartcalc/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

// Client frame types
const (
	FrameKey    = "key"
	FrameButton = "button"
	FrameLegacy = "legacy"
)

// Server frame types
const (
	FrameLayout   = "layout"
	FrameDisplay  = "display"
	FrameBusy     = "busy"
	FrameRejected = "rejected"
	FrameError    = "error"
)

// ClientFrame is a message from the browser
type ClientFrame struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"` // KeyboardEvent.key for "key" frames
	ID   string `json:"id,omitempty"`  // button id for "button" frames

	decodeErr error
}

// DisplayFrame carries a display update
type DisplayFrame struct {
	Type string `json:"type"`
	calculator.Update
}

// BusyFrame reports the legacy computation busy state
type BusyFrame struct {
	Type string `json:"type"`
	Busy bool   `json:"busy"`
}

// RejectedFrame reports an input that was not applied
type RejectedFrame struct {
	Type   string `json:"type"`
	Input  string `json:"input,omitempty"`
	Reason string `json:"reason"`
}

// ErrorFrame reports a malformed client frame
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// LayoutFrame describes the keypad so the page can draw it
type LayoutFrame struct {
	Type    string          `json:"type"`
	Buttons []keypad.Button `json:"buttons"`
}

// Rejection reasons
const (
	ReasonBusy      = "busy"
	ReasonNoPending = "no pending operation"
)

// session is one browser calculator. The goroutine running run owns the
// machine and is the only writer to conn.
type session struct {
	id         string
	remoteAddr string
	conn       *websocket.Conn
	server     *Server

	machine  *calculator.Machine
	task     *calculator.Task
	writeErr error
}

// handleWebSocket upgrades the request and runs the session until the
// browser disconnects or the server shuts down.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sess := &session{
		id:         uuid.NewString(),
		remoteAddr: r.RemoteAddr,
		conn:       conn,
		server:     s,
	}

	if !s.track(sess) {
		logging.LogSessionEvent(sess.id, sess.remoteAddr, "session_refused")
		sess.closeWith(websocket.CloseGoingAway, "server shutting down")
		_ = conn.Close()
		return
	}
	defer s.untrack(sess)

	logging.LogSessionEvent(sess.id, sess.remoteAddr, "session_opened")
	sess.run(s.ctx)
	logging.LogSessionEvent(sess.id, sess.remoteAddr, "session_closed")
}

func (sess *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	defer func() { _ = sess.conn.Close() }()

	frames := make(chan ClientFrame)
	readErr := make(chan error, 1)
	go sess.readLoop(ctx, frames, readErr)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	sess.send(LayoutFrame{Type: FrameLayout, Buttons: sess.server.layout.Buttons})
	sess.machine = sess.server.newMachine(sess)

	for sess.writeErr == nil {
		var done <-chan calculator.Outcome
		if sess.task != nil {
			done = sess.task.Done()
		}

		select {
		case <-ctx.Done():
			sess.closeWith(websocket.CloseGoingAway, "server shutting down")
			return

		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logging.Info("Session read error",
					zap.String("session_id", sess.id),
					zap.Error(err),
				)
			}
			return

		case frame := <-frames:
			sess.handle(ctx, frame)

		case out := <-done:
			sess.task = nil
			_ = sess.machine.Finish(out)

		case <-ticker.C:
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				sess.writeErr = err
			}
		}
	}

	logging.Info("Session write failed",
		zap.String("session_id", sess.id),
		zap.Error(sess.writeErr),
	)
}

// readLoop decodes client frames until the connection fails.
func (sess *session) readLoop(ctx context.Context, frames chan<- ClientFrame, readErr chan<- error) {
	sess.conn.SetReadLimit(maxMessageSize)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := sess.conn.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}
		logging.LogWebSocketMessage(sess.id, "received", msgType, data)

		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			frame = ClientFrame{decodeErr: err}
		}

		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (sess *session) handle(ctx context.Context, frame ClientFrame) {
	if frame.decodeErr != nil {
		sess.send(ErrorFrame{Type: FrameError, Message: "malformed frame: " + frame.decodeErr.Error()})
		return
	}

	switch frame.Type {
	case FrameKey:
		in, ok := sess.server.keymap.Lookup(frame.Key)
		if !ok {
			logging.Debug("Ignoring unbound key",
				zap.String("session_id", sess.id),
				zap.String("key", frame.Key),
			)
			return
		}
		sess.apply(in)

	case FrameButton:
		button, ok := sess.server.layout.ButtonByID(frame.ID)
		if !ok {
			sess.send(ErrorFrame{Type: FrameError, Message: "unknown button: " + frame.ID})
			return
		}
		sess.apply(button.Input)

	case FrameLegacy:
		sess.startLegacy(ctx)

	default:
		sess.send(ErrorFrame{Type: FrameError, Message: "unknown frame type: " + frame.Type})
	}
}

func (sess *session) apply(in calculator.Input) {
	err := sess.machine.Apply(in)
	if errors.Is(err, calculator.ErrSuspended) {
		sess.reject(in.String(), ReasonBusy)
		return
	}
	sess.server.metrics.observeInput(in)
}

// startLegacy routes the pending operation through the delayed path.
func (sess *session) startLegacy(ctx context.Context) {
	if sess.machine.Suspended() {
		sess.reject(FrameLegacy, ReasonBusy)
		return
	}
	a, b, op, ok := sess.machine.PendingDelayed()
	if !ok {
		sess.reject(FrameLegacy, ReasonNoPending)
		return
	}

	sess.machine.SetDelay(sess.server.Delay())
	task, err := sess.machine.StartDelayed(ctx, a, b, op)
	if err != nil {
		sess.reject(FrameLegacy, ReasonBusy)
		return
	}
	sess.task = task
}

func (sess *session) reject(input, reason string) {
	sess.server.metrics.observeRejected()
	sess.send(RejectedFrame{Type: FrameRejected, Input: input, Reason: reason})
}

// Render implements calculator.Sink
func (sess *session) Render(u calculator.Update) {
	sess.send(DisplayFrame{Type: FrameDisplay, Update: u})
}

// SetBusy implements calculator.BusyIndicator
func (sess *session) SetBusy(busy bool) {
	sess.send(BusyFrame{Type: FrameBusy, Busy: busy})
}

func (sess *session) send(v any) {
	if sess.writeErr != nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to marshal frame", zap.Error(err))
		return
	}

	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		sess.writeErr = err
		return
	}
	logging.LogWebSocketMessage(sess.id, "sent", websocket.TextMessage, data)
}

func (sess *session) closeWith(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = sess.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
