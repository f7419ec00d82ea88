// Package observe carries diagnostics out of the render pipeline. Core
// packages never write text; they emit structured Events to a Sink that the
// caller injects. NewSlogSink forwards events to log/slog, Nop discards
// them, and Recorder keeps them in memory.
package observe

import (
	"context"
	"log/slog"
	"sync"
)

// Event names emitted by the pipeline stages.
const (
	EventParsed          = "mesh.parsed"
	EventParseFailed     = "mesh.parse_failed"
	EventMeshWarning     = "mesh.warning"
	EventCulled          = "cull"
	EventSorted          = "depth.sorted"
	EventOrientation     = "depth.orientation"
	EventProjected       = "project"
	EventFitted          = "viewport.fit"
	EventSVGEmitted      = "svg.emitted"
	EventRasterEmitted   = "raster.emitted"
	EventSceneEvaluated  = "scene.evaluated"
	EventRenderCompleted = "render.completed"
)

// Event is a single structured diagnostic.
type Event struct {
	Name  string
	Level slog.Level
	Attrs []slog.Attr
}

// NewEvent builds an info-level event.
func NewEvent(name string, attrs ...slog.Attr) Event {
	return Event{Name: name, Level: slog.LevelInfo, Attrs: attrs}
}

// Warn builds a warning-level event.
func Warn(name string, attrs ...slog.Attr) Event {
	return Event{Name: name, Level: slog.LevelWarn, Attrs: attrs}
}

// Attr returns the value of the named attribute and whether it was present.
func (e Event) Attr(key string) (slog.Value, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return slog.Value{}, false
}

// Sink receives pipeline events. Implementations must be safe for
// concurrent use when shared between runs.
type Sink interface {
	Emit(e Event)
}

// Nop is a Sink that drops everything.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop
	}
	return s
}

// SlogSink writes events as slog records.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink writing to l. A nil logger means the
// package logger (see SetLogger).
func NewSlogSink(l *slog.Logger) *SlogSink {
	return &SlogSink{logger: l}
}

// Emit logs e with its level and attributes.
func (s *SlogSink) Emit(e Event) {
	l := s.logger
	if l == nil {
		l = Logger()
	}
	l.LogAttrs(context.Background(), e.Level, e.Name, e.Attrs...)
}

// Recorder stores every event it receives, in order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Named returns the recorded events with the given name.
func (r *Recorder) Named(name string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Tee fans each event out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return teeSink(live)
}

type teeSink []Sink

func (t teeSink) Emit(e Event) {
	for _, s := range t {
		s.Emit(e)
	}
}

// With returns a sink that appends attrs to every event before passing it
// to s.
func With(s Sink, attrs ...slog.Attr) Sink {
	return withSink{next: OrNop(s), attrs: attrs}
}

type withSink struct {
	next  Sink
	attrs []slog.Attr
}

func (w withSink) Emit(e Event) {
	merged := make([]slog.Attr, 0, len(e.Attrs)+len(w.attrs))
	merged = append(merged, e.Attrs...)
	merged = append(merged, w.attrs...)
	e.Attrs = merged
	w.next.Emit(e)
}
