package xlog

import (
	"strings"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"go.uber.org/atomic"
)

const defaultMinLevel = "Info"

// binding is the (identity, rule, sink) triple of an initialized handle.
type binding struct {
	identity string
	rule     *Rule
	clone    bool
	props    map[string]string
}

// handle carries the state machine shared by the display and file loggers.
type handle struct {
	typeTag  string
	registry *Registry

	initMu sync.Mutex
	bound  atomic.Pointer[binding]
}

func (h *handle) setup(typeTag string, reg *Registry) {
	if reg == nil {
		reg = Default()
	}
	h.typeTag = typeTag
	h.registry = reg
}

// identity builds TypeTag::Owner[::Context] from trimmed parts.
func identity(typeTag, owner, context string) string {
	var sb strings.Builder
	sb.WriteString(typeTag)
	sb.WriteString(identitySeparator)
	sb.WriteString(owner)
	if context != emptyString {
		sb.WriteString(identitySeparator)
		sb.WriteString(context)
	}
	return sb.String()
}

// initialize binds the handle to the rule of (owner, context), building a
// sink with build when no rule exists or createNew is set.
func (h *handle) initialize(op errors.Op, owner, context string, createNew bool, minLevel string, build func(identity string) (Sink, error)) error {
	h.initMu.Lock()
	defer h.initMu.Unlock()

	if h.bound.Load() != nil {
		return stateError(op, errMsgAlreadyInit)
	}
	owner = strings.TrimSpace(owner)
	if owner == emptyString {
		return validationError(op, errMsgInvalidOwner)
	}
	context = strings.TrimSpace(context)

	if strings.TrimSpace(minLevel) == emptyString {
		minLevel = defaultMinLevel
	}
	lowest, err := ParseLevel(minLevel)
	if err != nil {
		return err
	}

	id := identity(h.typeTag, owner, context)
	rule, clone, err := h.registry.acquire(id, createNew, func() (*Rule, error) {
		sink, err := build(id)
		if err != nil {
			return nil, err
		}
		return newRule(id, lowest, sink), nil
	})
	if err != nil {
		return h.fail(op, id, err)
	}

	props := map[string]string{PropertyOwner: owner}
	if context != emptyString {
		props[PropertyContext] = context
	}
	h.bound.Store(&binding{identity: id, rule: rule, clone: clone, props: props})
	h.registry.diag.DebugWith().Str("identity", id).Bool("clone", clone).Msg("logger initialized")
	return nil
}

// fail logs backend failures and re-signals them as operation errors.
func (h *handle) fail(op errors.Op, id string, err error) error {
	if IsValidation(err) || IsState(err) {
		return err
	}
	h.registry.diag.ErrorWith().Err(err).Str("identity", id).Msg(errMsgInternal)
	return operationError(op, err)
}

func (h *handle) require(op errors.Op) (*binding, error) {
	b := h.bound.Load()
	if b == nil {
		return nil, stateError(op, errMsgNotInitialized)
	}
	return b, nil
}

func (h *handle) Initialized() bool { return h.bound.Load() != nil }

// IsClone reports whether Initialize attached to a rule created by another handle.
func (h *handle) IsClone() bool {
	b := h.bound.Load()
	return b != nil && b.clone
}

func (h *handle) Name() string {
	if b := h.bound.Load(); b != nil {
		return b.identity
	}
	return notInitialized
}

func (h *handle) MinLogLevel() string {
	if b := h.bound.Load(); b != nil {
		return b.rule.MinLevel().String()
	}
	return notInitialized
}

func (h *handle) MaxLogLevel() string {
	if b := h.bound.Load(); b != nil {
		return b.rule.MaxLevel().String()
	}
	return notInitialized
}

func (h *handle) Layout() string {
	if b := h.bound.Load(); b != nil {
		return b.rule.Sink().Layout()
	}
	return notInitialized
}

func (h *handle) SetLayout(layout string) error {
	const op errors.Op = "xlog.SetLayout"
	b, err := h.require(op)
	if err != nil {
		return err
	}
	sink := b.rule.Sink()
	previous := sink.Layout()
	sink.SetLayout(layout)
	if err = h.registry.reconfigure(b.identity); err != nil {
		sink.SetLayout(previous)
		return h.fail(op, b.identity, err)
	}
	return nil
}

func (h *handle) Emit(level Level, message string) error {
	const op errors.Op = "xlog.Emit"
	b, err := h.require(op)
	if err != nil {
		return err
	}
	if !b.rule.Enabled(level) {
		return nil
	}
	e := Entry{
		Time:       time.Now(),
		Level:      level,
		Logger:     b.identity,
		Message:    message,
		Properties: b.props,
	}
	if err = b.rule.Sink().Write(e); err != nil {
		return h.fail(op, b.identity, err)
	}
	return nil
}

func (h *handle) Fatal(message string) { _ = h.Emit(LevelFatal, message) }
func (h *handle) Error(message string) { _ = h.Emit(LevelError, message) }
func (h *handle) Warn(message string)  { _ = h.Emit(LevelWarn, message) }
func (h *handle) Info(message string)  { _ = h.Emit(LevelInfo, message) }
func (h *handle) Debug(message string) { _ = h.Emit(LevelDebug, message) }
func (h *handle) Trace(message string) { _ = h.Emit(LevelTrace, message) }

func (h *handle) IsEnabled(level string) (bool, error) {
	const op errors.Op = "xlog.IsEnabled"
	b, err := h.require(op)
	if err != nil {
		return false, err
	}
	l, err := ParseLevel(level)
	if err != nil {
		return false, err
	}
	return b.rule.Enabled(l), nil
}

func (h *handle) SetLogLevels(minLevel, maxLevel string) error {
	const op errors.Op = "xlog.SetLogLevels"
	b, err := h.require(op)
	if err != nil {
		return err
	}
	lo, err := ParseLevel(minLevel)
	if err != nil {
		return err
	}
	hi := LevelFatal
	if strings.TrimSpace(maxLevel) != emptyString {
		if hi, err = ParseLevel(maxLevel); err != nil {
			return err
		}
	}
	previous := b.rule.swapLevels(rangeSet(lo, hi))
	if err = h.registry.reconfigure(b.identity); err != nil {
		b.rule.swapLevels(previous)
		return h.fail(op, b.identity, err)
	}
	return nil
}
