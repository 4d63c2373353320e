package xlog

import "github.com/Station-Manager/errors"

// DisplayLogger is a handle whose sink writes to the registry's Surface.
type DisplayLogger struct {
	handle
}

// NewDisplayLogger returns an uninitialized handle on reg, or on the
// process-wide registry when reg is nil.
func NewDisplayLogger(reg *Registry) *DisplayLogger {
	l := &DisplayLogger{}
	l.setup(displayTypeTag, reg)
	return l
}

// Initialize binds the handle to DisplayLogger::owner[::context]. autoShow
// selects whether each message reveals the display or is only recorded; it
// is ignored when attaching to an existing logger.
func (l *DisplayLogger) Initialize(owner, context string, createNew bool, minLevel string, autoShow bool) error {
	const op errors.Op = "xlog.DisplayLogger.Initialize"
	return l.initialize(op, owner, context, createNew, minLevel, func(id string) (Sink, error) {
		return newDisplaySink(id, l.registry.Defaults().DisplayLayout, l.registry.Surface(), autoShow), nil
	})
}

// AutoShow reports the reveal mode of the bound sink.
func (l *DisplayLogger) AutoShow() bool {
	if b := l.bound.Load(); b != nil {
		if s, ok := b.rule.Sink().(*DisplaySink); ok {
			return s.AutoShow()
		}
	}
	return false
}
