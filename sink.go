package xlog

import (
	"go.uber.org/atomic"
)

// Sink is an output destination owned by exactly one rule at a time.
type Sink interface {
	// Name is the identity of the rule owning the sink.
	Name() string
	Layout() string
	SetLayout(layout string)
	Write(e Entry) error
	Close() error

	// reconfigure applies settings changed since the last call.
	reconfigure() error
}

// layoutHolder stores a compiled layout behind an atomic pointer so that
// writers never observe a half-updated template.
type layoutHolder struct {
	layout atomic.Pointer[compiledLayout]
}

func (h *layoutHolder) get() *compiledLayout {
	if cl := h.layout.Load(); cl != nil {
		return cl
	}
	return compileLayout(emptyString)
}

func (h *layoutHolder) set(text string) {
	h.layout.Store(compileLayout(text))
}

// DisplaySink routes formatted entries to a Surface.
type DisplaySink struct {
	name     string
	surface  Surface
	autoShow bool
	layout   layoutHolder
}

var _ Sink = (*DisplaySink)(nil)

func newDisplaySink(name, layout string, surface Surface, autoShow bool) *DisplaySink {
	s := &DisplaySink{name: name, surface: surface, autoShow: autoShow}
	s.layout.set(layout)
	return s
}

func (s *DisplaySink) Name() string            { return s.name }
func (s *DisplaySink) Layout() string          { return s.layout.get().text }
func (s *DisplaySink) SetLayout(layout string) { s.layout.set(layout) }

// AutoShow reports whether writes reveal the surface.
func (s *DisplaySink) AutoShow() bool { return s.autoShow }

func (s *DisplaySink) Write(e Entry) error {
	text := s.layout.get().render(&e)
	if s.autoShow {
		s.surface.Show(text)
	} else {
		s.surface.Record(text)
	}
	return nil
}

func (s *DisplaySink) Close() error       { return nil }
func (s *DisplaySink) reconfigure() error { return nil }
