package xlog

import (
	"sort"
	"sync"

	"github.com/Station-Manager/errors"
	"go.uber.org/atomic"
)

// Options configures a Registry. Zero fields fall back to NewDefaults, a
// console LogDisplay and discarded diagnostics.
type Options struct {
	Defaults    *Defaults
	Surface     Surface
	Diagnostics *Diagnostics
}

// Registry is the table of rules and sinks shared by all handles created
// against it. Lookup, teardown and install for one identity happen in a
// single critical section.
type Registry struct {
	defaults *Defaults
	surface  Surface
	diag     *Diagnostics

	initOnce sync.Once
	mu       sync.Mutex
	rules    map[string]*Rule
	sinks    map[string]Sink

	generation atomic.Uint64
	snapshot   atomic.Pointer[Snapshot]
}

// RuleState is the published view of one rule.
type RuleState struct {
	Identity string
	MinLevel Level
	MaxLevel Level
	Layout   string
	Final    bool
}

// Snapshot is the rule set as of one reconfigure.
type Snapshot struct {
	Generation uint64
	Rules      map[string]RuleState
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(Options{})
	})
	return defaultRegistry
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{defaults: opts.Defaults, surface: opts.Surface, diag: opts.Diagnostics}
	if r.defaults == nil {
		r.defaults = NewDefaults()
	}
	if r.surface == nil {
		r.surface = NewConsoleDisplay(r.defaults.DisplayHistory)
	}
	return r
}

func (r *Registry) init() {
	r.initOnce.Do(func() {
		r.rules = make(map[string]*Rule)
		r.sinks = make(map[string]Sink)
		r.snapshot.Store(&Snapshot{Rules: map[string]RuleState{}})
	})
}

func (r *Registry) Defaults() *Defaults        { return r.defaults }
func (r *Registry) Surface() Surface           { return r.surface }
func (r *Registry) Diagnostics() *Diagnostics { return r.diag }

// FindRule looks up the rule registered for identity.
func (r *Registry) FindRule(identity string) (*Rule, bool) {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[identity]
	return rule, ok
}

// FindSink looks up a sink by name.
func (r *Registry) FindSink(name string) (Sink, bool) {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	sink, ok := r.sinks[name]
	return sink, ok
}

// Install adds rule and sink under identity and reconfigures. It fails if
// identity is already registered.
func (r *Registry) Install(identity string, rule *Rule, sink Sink) error {
	const op errors.Op = "xlog.Registry.Install"
	if rule == nil || sink == nil || rule.Identity() != identity || sink.Name() != identity || rule.Sink() != sink {
		return validationError(op, "Rule and sink must both be bound to '"+identity+"'.")
	}

	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[identity]; ok {
		return stateError(op, errMsgDuplicateRule)
	}
	if err := sink.reconfigure(); err != nil {
		return operationError(op, err)
	}
	r.installLocked(identity, rule, sink)
	return operationError(op, r.reconfigureLocked(identity))
}

// Remove closes and removes the rule and sink of identity. Absent
// identities are ignored.
func (r *Registry) Remove(identity string) {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.removeLocked(identity) {
		_ = r.reconfigureLocked(emptyString)
	}
}

// acquire returns the live rule for identity, or builds and installs a new
// one. With createNew an existing entry is replaced. The new sink is built
// and reconfigured before any teardown, so a failure leaves the registry
// untouched.
func (r *Registry) acquire(identity string, createNew bool, build func() (*Rule, error)) (*Rule, bool, error) {
	const op errors.Op = "xlog.Registry.acquire"
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, found := r.rules[identity]
	if found && !createNew {
		return existing, true, nil
	}

	rule, err := build()
	if err != nil {
		return nil, false, err
	}
	if err = rule.Sink().reconfigure(); err != nil {
		_ = rule.Sink().Close()
		return nil, false, operationError(op, err)
	}
	if found {
		r.diag.WarnWith().Str("identity", identity).Msg("replacing existing rule")
		r.removeLocked(identity)
	}
	r.installLocked(identity, rule, rule.Sink())
	if err = r.reconfigureLocked(identity); err != nil {
		return nil, false, operationError(op, err)
	}
	return rule, false, nil
}

func (r *Registry) installLocked(identity string, rule *Rule, sink Sink) {
	r.sinks[identity] = sink
	r.rules[identity] = rule
	r.diag.DebugWith().Str("identity", identity).Msg("rule installed")
}

func (r *Registry) removeLocked(identity string) bool {
	rule, ok := r.rules[identity]
	if !ok {
		return false
	}
	delete(r.rules, identity)
	if sink, ok := r.sinks[identity]; ok {
		delete(r.sinks, identity)
		if err := sink.Close(); err != nil {
			r.diag.ErrorWith().Err(err).Str("identity", identity).Msg(errMsgInternal)
		}
	} else if err := rule.Sink().Close(); err != nil {
		r.diag.ErrorWith().Err(err).Str("identity", identity).Msg(errMsgInternal)
	}
	r.diag.DebugWith().Str("identity", identity).Msg("rule removed")
	return true
}

// Reconfigure republishes the rule set and lets every sink apply pending
// settings. It is synchronous and idempotent.
func (r *Registry) Reconfigure() error {
	const op errors.Op = "xlog.Registry.Reconfigure"
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	return operationError(op, r.reconfigureLocked(emptyString))
}

// reconfigure republishes on behalf of one identity: failures of other
// sinks are logged, only target's failure is returned. An empty target
// returns the first failure of any sink.
func (r *Registry) reconfigure(target string) error {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reconfigureLocked(target)
}

func (r *Registry) reconfigureLocked(target string) error {
	var result error
	states := make(map[string]RuleState, len(r.rules))
	for id, rule := range r.rules {
		sink := rule.Sink()
		if err := sink.reconfigure(); err != nil {
			r.diag.ErrorWith().Err(err).Str("identity", id).Msg(errMsgInternal)
			if result == nil && (target == emptyString || target == id) {
				result = err
			}
		}
		states[id] = RuleState{
			Identity: id,
			MinLevel: rule.MinLevel(),
			MaxLevel: rule.MaxLevel(),
			Layout:   sink.Layout(),
			Final:    rule.Final(),
		}
	}
	gen := r.generation.Inc()
	r.snapshot.Store(&Snapshot{Generation: gen, Rules: states})
	return result
}

// Snapshot returns the rule set published by the last reconfigure.
func (r *Registry) Snapshot() *Snapshot {
	r.init()
	return r.snapshot.Load()
}

// Generation counts reconfigures.
func (r *Registry) Generation() uint64 { return r.generation.Load() }

// Identities lists the registered identities in sorted order.
func (r *Registry) Identities() []string {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every sink. Rules stay registered; file sinks reopen on
// their next write.
func (r *Registry) Close() error {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	var first error
	for id, sink := range r.sinks {
		if err := sink.Close(); err != nil {
			r.diag.ErrorWith().Err(err).Str("identity", id).Msg(errMsgInternal)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
