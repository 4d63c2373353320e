package xlog

import "go.uber.org/atomic"

// Rule binds one identity to a range of enabled levels and one sink. Rules
// are always final: no other rule is consulted for their identity.
type Rule struct {
	identity string
	sink     Sink
	levels   atomic.Uint32
}

// newRule enables [lowest, Fatal].
func newRule(identity string, lowest Level, sink Sink) *Rule {
	r := &Rule{identity: identity, sink: sink}
	r.levels.Store(uint32(rangeSet(lowest, LevelFatal)))
	return r
}

func (r *Rule) Identity() string { return r.identity }
func (r *Rule) Sink() Sink       { return r.sink }
func (r *Rule) Final() bool      { return true }

func (r *Rule) Enabled(level Level) bool {
	return levelSet(r.levels.Load()).has(level)
}

// SetLevels replaces the enabled range with [lo, hi] in a single store.
// Concurrent callers race; the last store wins.
func (r *Rule) SetLevels(lo, hi Level) {
	r.swapLevels(rangeSet(lo, hi))
}

// swapLevels stores s and returns the set it replaced.
func (r *Rule) swapLevels(s levelSet) levelSet {
	return levelSet(r.levels.Swap(uint32(s)))
}

// MinLevel is the lowest enabled level, or Off.
func (r *Rule) MinLevel() Level { return levelSet(r.levels.Load()).min() }

// MaxLevel is the highest enabled level, or Off.
func (r *Rule) MaxLevel() Level { return levelSet(r.levels.Load()).max() }
