// Package server serves the smartcalc calculator to browsers.
//
// Every WebSocket connection gets its own calculator.Machine. The session
// goroutine owns the machine, applies client frames one at a time and
// writes display updates back, so no locking is needed around calculator
// state.
//
// # Endpoints
//
//	GET  /               embedded calculator page
//	GET  /ws             WebSocket calculator session
//	POST /api/calculate  legacy delayed computation
//	GET  /health         liveness and open session count
//	GET  /version        build information
//	GET  /metrics        Prometheus metrics
//
// # Session Protocol
//
// All frames are JSON text messages with a "type" field.
//
// Client to server:
//
//	{"type":"key","key":"7"}          a KeyboardEvent.key name
//	{"type":"button","id":"digit-7"}  an on-screen button id
//	{"type":"legacy"}                 compute the pending operation on the delayed path
//
// Server to client:
//
//	{"type":"layout","buttons":[...]}
//	{"type":"display","display":"7","history":"3 + 4 =","error":false}
//	{"type":"busy","busy":true}
//	{"type":"rejected","input":"5","reason":"busy"}
//	{"type":"error","message":"unknown button: x"}
//
// While a legacy computation is pending the session rejects every input
// until the busy frame with "busy":false has been sent.
//
// # Legacy Endpoint
//
// POST /api/calculate accepts {"operand1":"5","operand2":"2","operation":"+"}
// and answers {"result":"7"} after the configured delay. Calculator errors
// are reported as 422 with {"error":"Cannot divide by zero","kind":"DivideByZero"}.
//
// # Graceful Shutdown
//
// The server handles SIGINT and SIGTERM signals for graceful shutdown:
//  1. Withdraw the mDNS advertisement
//  2. Cancel every session and stop accepting requests
//  3. Close the WebSocket connections
//  4. Wait for session goroutines to finish
package server
