package calculator

import "sync"

// Update is one frame for a display: the main value, the history line, and
// whether the value is an error message.
type Update struct {
	Display string `json:"display"`
	History string `json:"history"`
	Error   bool   `json:"error"`
}

// Sink renders display updates. The terminal UI, the WebSocket session and
// the CLI each provide one.
type Sink interface {
	Render(u Update)
}

// BusyIndicator is told when the delayed computation path starts and ends.
// While busy, adapters should disable their input controls.
type BusyIndicator interface {
	SetBusy(busy bool)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(u Update)

// Render implements Sink
func (f SinkFunc) Render(u Update) { f(u) }

// BusyFunc adapts a function to the BusyIndicator interface
type BusyFunc func(busy bool)

// SetBusy implements BusyIndicator
func (f BusyFunc) SetBusy(busy bool) { f(busy) }

type discardSink struct{}

func (discardSink) Render(Update) {}
func (discardSink) SetBusy(bool)  {}

// Recorder is a Sink and BusyIndicator that keeps everything it receives.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	updates []Update
	busy    []bool
}

// Render implements Sink
func (r *Recorder) Render(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

// SetBusy implements BusyIndicator
func (r *Recorder) SetBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = append(r.busy, busy)
}

// Last returns the most recent update, or the zero Update if none.
func (r *Recorder) Last() Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return Update{}
	}
	return r.updates[len(r.updates)-1]
}

// Updates returns a copy of all recorded updates
func (r *Recorder) Updates() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...)
}

// BusyChanges returns a copy of all recorded busy transitions
func (r *Recorder) BusyChanges() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.busy...)
}
