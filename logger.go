package xlog

// LoggerHandle is the client view of one registered logger. Handles start
// uninitialized; a successful Initialize binds them for their lifetime.
// Accessors on an uninitialized handle return "<Not initialized>".
type LoggerHandle interface {
	Initialized() bool
	IsClone() bool
	Name() string
	MinLogLevel() string
	MaxLogLevel() string

	Layout() string
	SetLayout(layout string) error

	// Emit writes message if level is enabled. Filtered messages are not
	// an error.
	Emit(level Level, message string) error
	Fatal(message string)
	Error(message string)
	Warn(message string)
	Info(message string)
	Debug(message string)
	Trace(message string)

	IsEnabled(level string) (bool, error)
	// SetLogLevels enables exactly [min, max]. A blank max enables
	// everything from min up.
	SetLogLevels(min, max string) error
}

var (
	_ LoggerHandle = (*DisplayLogger)(nil)
	_ LoggerHandle = (*FileLogger)(nil)
)
