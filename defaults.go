package xlog

import (
	"fmt"
	"os"
	"strconv"

	smerrors "github.com/Station-Manager/errors"
	"gopkg.in/yaml.v3"
)

// Keys recognised in a defaults file. The file is a flat YAML mapping:
//
//	file.layout: "${longdate}|${level:uppercase=true}|${message}"
//	file.suffix: .log
//	file.archive.oldfiles: true
const (
	KeyDisplayLayout      = "display.layout"
	KeyDisplayHistory     = "display.history"
	KeyFileLayout         = "file.layout"
	KeyFileSuffix         = "file.suffix"
	KeyFileNumberSuffix   = "file.number.suffix"
	KeyFileArchiveOnStart = "file.archive.oldfiles"
	KeyFileDeleteOnStart  = "file.delete.oldfiles"
	KeyFileMaxSizeMB      = "file.max.size.mb"
)

const (
	DefaultLayout       = "${longdate}|${level:uppercase=true}|${message}"
	DefaultSuffix       = ".log"
	DefaultNumberSuffix = ".{###}"
)

// Defaults holds the process-wide settings read once at start-up.
type Defaults struct {
	DisplayLayout  string `validate:"required"`
	DisplayHistory int    `validate:"gte=0"`
	FileLayout     string `validate:"required"`
	// FileSuffix is appended to the log file base name.
	FileSuffix string `validate:"required"`
	// FileNumberSuffix is the default numbered archive pattern.
	FileNumberSuffix string `validate:"required,contains=#"`
	// ArchiveOldFileOnStartup and DeleteOldFileOnStartup are the host's
	// defaults for the matching ArchivalByDate and FileOptions arguments.
	ArchiveOldFileOnStartup bool
	DeleteOldFileOnStartup  bool
	FileMaxSizeMB           int `validate:"gt=0"`
}

// NewDefaults returns the built-in defaults.
func NewDefaults() *Defaults {
	return &Defaults{
		DisplayLayout:           DefaultLayout,
		DisplayHistory:          1000,
		FileLayout:              DefaultLayout,
		FileSuffix:              DefaultSuffix,
		FileNumberSuffix:        DefaultNumberSuffix,
		ArchiveOldFileOnStartup: true,
		DeleteOldFileOnStartup:  true,
		FileMaxSizeMB:           100,
	}
}

// LoadDefaults reads a flat key file. A missing file yields the built-in
// defaults; keys not present keep their built-in value.
func LoadDefaults(path string) (*Defaults, error) {
	const op smerrors.Op = "xlog.LoadDefaults"
	d := NewDefaults()
	if path == emptyString {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, smerrors.New(op).Err(err).Msg("failed to read defaults file")
	}

	section := map[string]any{}
	if err = yaml.Unmarshal(data, &section); err != nil {
		return nil, smerrors.New(op).Err(err).Msg("failed to parse defaults file")
	}

	src := lookup(section)
	d.DisplayLayout = getValue(src, KeyDisplayLayout, d.DisplayLayout)
	d.DisplayHistory = getValue(src, KeyDisplayHistory, d.DisplayHistory)
	d.FileLayout = getValue(src, KeyFileLayout, d.FileLayout)
	d.FileSuffix = getValue(src, KeyFileSuffix, d.FileSuffix)
	d.FileNumberSuffix = getValue(src, KeyFileNumberSuffix, d.FileNumberSuffix)
	d.ArchiveOldFileOnStartup = getValue(src, KeyFileArchiveOnStart, d.ArchiveOldFileOnStartup)
	d.DeleteOldFileOnStartup = getValue(src, KeyFileDeleteOnStart, d.DeleteOldFileOnStartup)
	d.FileMaxSizeMB = getValue(src, KeyFileMaxSizeMB, d.FileMaxSizeMB)

	if err = validateDefaults(d); err != nil {
		return nil, err
	}
	return d, nil
}

type lookup map[string]any

// getValue returns the value stored under key converted to the type of
// def, or def when the key is absent or cannot be converted.
func getValue[T string | bool | int](src lookup, key string, def T) T {
	raw, ok := src[key]
	if !ok || raw == nil {
		return def
	}
	text := fmt.Sprint(raw)
	var out any
	switch any(def).(type) {
	case string:
		out = text
	case bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return def
		}
		out = b
	case int:
		n, err := strconv.Atoi(text)
		if err != nil {
			return def
		}
		out = n
	}
	return out.(T)
}
