package xlog

import (
	"strings"

	smerrors "github.com/Station-Manager/errors"
)

// Level is the severity of a log entry. Levels are ordered; Off sorts above
// every emitting level and never matches an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelOff
)

var levelNames = [...]string{"Trace", "Debug", "Info", "Warn", "Error", "Fatal", "Off"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "Unknown"
}

// ParseLevel parses a level name, ignoring case and surrounding blanks.
func ParseLevel(level string) (Level, error) {
	const op smerrors.Op = "xlog.ParseLevel"
	name := strings.TrimSpace(level)
	for i, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(i), nil
		}
	}
	return LevelOff, validationError(op, "Unknown log level '"+level+"'.")
}

// levelSet is a bit set over the emitting levels, bit i standing for Level(i).
type levelSet uint32

// rangeSet enables [lo, hi], clipped to Fatal. An empty set results when
// lo is Off or lo > hi.
func rangeSet(lo, hi Level) levelSet {
	var s levelSet
	if hi > LevelFatal {
		hi = LevelFatal
	}
	for l := lo; l <= hi && l < LevelOff; l++ {
		s |= 1 << l
	}
	return s
}

func (s levelSet) has(l Level) bool {
	return l < LevelOff && s&(1<<l) != 0
}

func (s levelSet) min() Level {
	for l := LevelTrace; l < LevelOff; l++ {
		if s.has(l) {
			return l
		}
	}
	return LevelOff
}

func (s levelSet) max() Level {
	for l := LevelFatal; ; l-- {
		if s.has(l) {
			return l
		}
		if l == LevelTrace {
			return LevelOff
		}
	}
}
