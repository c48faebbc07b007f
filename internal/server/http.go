package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/muurk/smartcalc/internal/calculator"
	"github.com/muurk/smartcalc/internal/logging"
	"github.com/muurk/smartcalc/internal/version"
)

//go:embed static
var staticFiles embed.FS

var tracer = otel.Tracer("github.com/muurk/smartcalc/internal/server")

// maxRequestBody bounds the legacy endpoint request body
const maxRequestBody = 4096

var untracedPaths = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
	"/ws":      {},
}

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDFromContext returns the id assigned to the request, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) newRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(tracingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Post("/calculate", s.handleCalculate)
	})

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			// hijacked or nothing written
			status = http.StatusOK
		}
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, status, RequestIDFromContext(r.Context()))
		logging.Debug("Request duration",
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func tracingMiddleware(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "http_request", otelhttp.WithFilter(func(r *http.Request) bool {
		_, skip := untracedPaths[r.URL.Path]
		return !skip
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.GetActiveSessions(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

// Operand accepts a JSON string or number. Numbers keep their JSON text so
// "2.50" and 2.50 evaluate the same way.
type Operand string

// UnmarshalJSON implements json.Unmarshaler
func (o *Operand) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Operand(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("operand must be a string or number: %w", err)
	}
	*o = Operand(n.String())
	return nil
}

// CalculateRequest is the body of POST /api/calculate
type CalculateRequest struct {
	Operand1  Operand `json:"operand1"`
	Operand2  Operand `json:"operand2"`
	Operation string  `json:"operation"`
}

// CalculateResponse is the success body of POST /api/calculate
type CalculateResponse struct {
	Result string `json:"result"`
}

// ErrorResponse is the error body of every JSON endpoint
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// handleCalculate runs the legacy delayed computation for one request.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.legacy",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req CalculateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.fail(w, span, http.StatusBadRequest, "invalid request body", "", requestID, err)
		return
	}
	if req.Operand1 == "" || req.Operand2 == "" {
		s.fail(w, span, http.StatusBadRequest, "operand1 and operand2 are required", "", requestID, errors.New("missing operand"))
		return
	}

	// unknown operators travel through and fail as InvalidOperation
	op, ok := calculator.ParseOperator(req.Operation)
	if !ok {
		op = calculator.Operator(req.Operation)
	}

	span.SetAttributes(
		attribute.String("calculator.operand1", string(req.Operand1)),
		attribute.String("calculator.operand2", string(req.Operand2)),
		attribute.String("calculator.operation", req.Operation),
		attribute.Int64("calculator.delay_ms", s.Delay().Milliseconds()),
	)

	out := calculator.Schedule(ctx, s.Delay(), string(req.Operand1), string(req.Operand2), op).Wait()
	s.metrics.observeComputation(calculator.Computation{
		Operand1: out.Operand1,
		Operand2: out.Operand2,
		Operator: out.Operator,
		Result:   out.Value,
		Path:     calculator.PathDelayed,
		Err:      out.Err,
	})

	var calcErr *calculator.CalcError
	switch {
	case out.Err == nil:
	case errors.As(out.Err, &calcErr):
		s.fail(w, span, http.StatusUnprocessableEntity, calcErr.Message, calcErr.Kind.String(), requestID, out.Err)
		return
	case errors.Is(out.Err, calculator.ErrInvariant):
		s.fail(w, span, http.StatusBadRequest, "operands must be numbers", "", requestID, out.Err)
		return
	case errors.Is(out.Err, context.Canceled):
		// client went away; nobody is listening for the response
		logging.Info("Legacy computation cancelled", zap.String("request_id", requestID))
		s.metrics.requests.WithLabelValues("canceled").Inc()
		return
	default:
		s.fail(w, span, http.StatusInternalServerError, "computation failed", "", requestID, out.Err)
		return
	}

	span.AddEvent("computation.complete", trace.WithAttributes(attribute.String("result", out.Value)))
	span.SetStatus(codes.Ok, "")
	s.metrics.requests.WithLabelValues("200").Inc()

	writeJSON(w, http.StatusOK, CalculateResponse{Result: out.Value})
}

func (s *Server) fail(w http.ResponseWriter, span trace.Span, status int, msg, kind, requestID string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.metrics.requests.WithLabelValues(fmt.Sprint(status)).Inc()

	logging.Warn("Legacy calculate request failed",
		zap.Int("status", status),
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind, RequestID: requestID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to write JSON response", zap.Error(err))
	}
}

// checkOrigin allows same-origin upgrades and any origin in the allow list.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://"), r.Host)
}
