package xlog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/types"
	"github.com/Station-Manager/utils"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Diagnostics is the registry's own logger. It records internal failures
// and configuration changes; it never carries records emitted by handles.
// A nil or uninitialized Diagnostics discards everything.
type Diagnostics struct {
	WorkingDir    string
	LoggingConfig *types.LoggingConfig

	mu            sync.Mutex
	logger        atomic.Pointer[zerolog.Logger]
	fileWriter    *lumberjack.Logger
	isInitialized atomic.Bool
}

// LogEvent is a structured diagnostics event.
type LogEvent interface {
	Str(key, val string) LogEvent
	Bool(key string, val bool) LogEvent
	Err(err error) LogEvent
	Msg(msg string)
}

func NewDiagnostics(workingDir string, cfg *types.LoggingConfig) *Diagnostics {
	return &Diagnostics{WorkingDir: workingDir, LoggingConfig: cfg}
}

// Initialize builds the zerolog logger from LoggingConfig. Calling it on an
// initialized instance is a no-op.
func (d *Diagnostics) Initialize() error {
	const op errors.Op = "xlog.Diagnostics.Initialize"
	if d == nil {
		return errors.New(op).Err(ErrValidation).Msg("Diagnostics is nil.")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isInitialized.Load() {
		return nil
	}

	if err := validateConfig(d.LoggingConfig); err != nil {
		return err
	}

	writers, err := d.initializeWriters()
	if err != nil {
		return errors.New(op).Err(err).Msg("failed to initialize writers")
	}
	if len(writers) == 0 {
		return errors.New(op).Err(ErrValidation).Msg("no logging channels enabled")
	}

	logger := zerolog.New(io.MultiWriter(writers...)).With().Str("component", "xlog").Logger()

	level, err := zerolog.ParseLevel(d.LoggingConfig.Level)
	if err != nil {
		return errors.New(op).Err(&kindError{kind: ErrValidation, err: err}).Msg("setting logging level")
	}
	logger = logger.Level(level)

	if d.LoggingConfig.WithTimestamp {
		logger = logger.With().Timestamp().Logger()
	}
	if d.LoggingConfig.SkipFrameCount > 0 {
		logger = logger.With().CallerWithSkipFrameCount(d.LoggingConfig.SkipFrameCount).Logger()
	}

	d.logger.Store(&logger)
	d.isInitialized.Store(true)
	return nil
}

func (d *Diagnostics) initializeWriters() ([]io.Writer, error) {
	var writers []io.Writer

	if d.LoggingConfig.FileLogging {
		if d.WorkingDir == emptyString {
			return nil, errors.New("xlog.Diagnostics.initializeWriters").Msg("working dir has not been set")
		}
		dir := filepath.Join(d.WorkingDir, d.LoggingConfig.RelLogFileDir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
		exeName, err := utils.ExecName(true)
		if err != nil || exeName == emptyString {
			exeName = "xlog"
		}
		d.fileWriter = &lumberjack.Logger{
			Filename:   filepath.Join(dir, exeName+".log"),
			MaxBackups: d.LoggingConfig.LogFileMaxBackups,
			MaxAge:     d.LoggingConfig.LogFileMaxAgeDays,
			MaxSize:    d.LoggingConfig.LogFileMaxSizeMB,
		}
		writers = append(writers, d.fileWriter)
	}
	if d.LoggingConfig.ConsoleLogging {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return writers, nil
}

// Close releases the rolling file, if any. It's safe to call Close multiple times.
func (d *Diagnostics) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.isInitialized.Store(false)
	d.logger.Store(nil)
	if d.fileWriter != nil {
		err := d.fileWriter.Close()
		d.fileWriter = nil
		return err
	}
	return nil
}

func (d *Diagnostics) current() *zerolog.Logger {
	if d == nil || !d.isInitialized.Load() {
		return nil
	}
	return d.logger.Load()
}

func (d *Diagnostics) event(level zerolog.Level) LogEvent {
	logger := d.current()
	if logger == nil || logger.GetLevel() > level {
		return &logEvent{}
	}
	return &logEvent{event: logger.WithLevel(level)}
}

func (d *Diagnostics) DebugWith() LogEvent { return d.event(zerolog.DebugLevel) }
func (d *Diagnostics) WarnWith() LogEvent  { return d.event(zerolog.WarnLevel) }

// ErrorWith returns an Error-level event. Attached errors are enriched with
// their full cause chain.
func (d *Diagnostics) ErrorWith() LogEvent { return d.event(zerolog.ErrorLevel) }

type logEvent struct {
	event *zerolog.Event
}

func (e *logEvent) Str(key, val string) LogEvent {
	if e.event != nil {
		e.event.Str(key, val)
	}
	return e
}

func (e *logEvent) Bool(key string, val bool) LogEvent {
	if e.event != nil {
		e.event.Bool(key, val)
	}
	return e
}

func (e *logEvent) Err(err error) LogEvent {
	if e.event != nil {
		e.event.Err(err)
		if err != nil {
			chain, ops, root, rootOp := buildErrorChain(err)
			if len(chain) > 0 {
				e.event.Strs("error_chain", chain)
				e.event.Str("error_root", root)
				e.event.Str("error_history", joinChain(chain))
				e.event.Strs("error_ops", ops)
				if rootOp != "" {
					e.event.Str("error_root_op", rootOp)
				}
			}
		}
	}
	return e
}

func (e *logEvent) Msg(msg string) {
	if e.event != nil {
		e.event.Msg(msg)
	}
}
