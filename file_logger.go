package xlog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Station-Manager/errors"
)

// FileOptions locates the log file of a FileLogger. Blank fields fall back
// to the owner's directory (or the temp directory when the owner is not an
// existing file), the owner's file name and the configured suffix.
type FileOptions struct {
	LogDir      string
	LogFileName string
	LogSuffix   string
	// NewFile deletes an existing log file on first write.
	NewFile bool
}

// FileLogger is a handle whose sink appends to a file and may carry an
// archival policy.
type FileLogger struct {
	handle
}

// NewFileLogger returns an uninitialized handle on reg, or on the
// process-wide registry when reg is nil.
func NewFileLogger(reg *Registry) *FileLogger {
	l := &FileLogger{}
	l.setup(fileTypeTag, reg)
	return l
}

// Initialize binds the handle to FileLogger::name[::context] where name is
// the file name of ownerPath. opts is ignored when attaching to an existing
// logger.
func (l *FileLogger) Initialize(ownerPath, context string, createNew bool, minLevel string, opts FileOptions) error {
	const op errors.Op = "xlog.FileLogger.Initialize"
	ownerPath = strings.TrimSpace(ownerPath)
	owner := emptyString
	if ownerPath != emptyString {
		owner = filepath.Base(ownerPath)
		if owner == "." || owner == string(filepath.Separator) {
			owner = emptyString
		}
	}

	defaults := l.registry.Defaults()
	return l.initialize(op, owner, context, createNew, minLevel, func(id string) (Sink, error) {
		dir := strings.TrimSpace(opts.LogDir)
		if dir == emptyString {
			if info, err := os.Stat(ownerPath); err == nil && !info.IsDir() {
				dir = filepath.Dir(ownerPath)
			} else {
				dir = os.TempDir()
			}
		}
		base := strings.TrimSpace(opts.LogFileName)
		if base == emptyString {
			base = owner
		}
		suffix := strings.TrimSpace(opts.LogSuffix)
		if suffix == emptyString {
			suffix = defaults.FileSuffix
		}
		return newFileSink(fileSinkConfig{
			name:      id,
			dir:       dir,
			base:      base,
			suffix:    suffix,
			layout:    defaults.FileLayout,
			newFile:   opts.NewFile,
			maxSizeMB: defaults.FileMaxSizeMB,
		}), nil
	})
}

func (l *FileLogger) fileSink() *FileSink {
	if b := l.bound.Load(); b != nil {
		if s, ok := b.rule.Sink().(*FileSink); ok {
			return s
		}
	}
	return nil
}

// LogFile is the path of the live log file.
func (l *FileLogger) LogFile() string {
	if s := l.fileSink(); s != nil {
		return s.FileName()
	}
	return notInitialized
}

// ArchiveFile is the archive name pattern, or "" before archival is set.
func (l *FileLogger) ArchiveFile() string {
	if s := l.fileSink(); s != nil {
		return s.ArchiveFileName()
	}
	return notInitialized
}

// ArchivalSet reports whether an archival policy has been attached.
func (l *FileLogger) ArchivalSet() bool {
	if s := l.fileSink(); s != nil {
		_, ok := s.Policy()
		return ok
	}
	return false
}

// ArchivalByDate rotates the file whenever period rolls over, naming
// archives with dateFormat in place of {#}. It may be set once per sink,
// and not after ArchivalByNumber.
func (l *FileLogger) ArchivalByDate(period, dateFormat string, maxArchiveDays int, archiveSuffix string, overwriteArchiveOnStartup bool) error {
	const op errors.Op = "xlog.FileLogger.ArchivalByDate"
	b, err := l.require(op)
	if err != nil {
		return err
	}
	sink := l.fileSink()
	if sink == nil {
		return stateError(op, "Null file sink.")
	}
	if _, set := sink.Policy(); set {
		return stateError(op, errMsgArchivalSet)
	}

	p, ok := parseArchivePeriod(period)
	if !ok {
		return validationError(op, "Invalid ArchivePeriod '"+period+"'.")
	}
	if p == PeriodNone {
		return validationError(op, "Unsupported ArchivePeriod '"+p.String()+"'.")
	}
	if strings.TrimSpace(dateFormat) == emptyString {
		return validationError(op, errMsgInvalidFormat)
	}

	archiveSuffix = strings.TrimSpace(archiveSuffix)
	if archiveSuffix == emptyString {
		archiveSuffix = ".{#}" + sink.Suffix()
	}
	format := strings.TrimSpace(dateFormat)
	policy := &ArchivalPolicy{
		Numbering:               NumberingDate,
		Period:                  p,
		DateFormat:              format,
		MaxArchiveDays:          maxArchiveDays,
		ArchiveSuffix:           archiveSuffix,
		ArchiveFileName:         sink.archiveFileName(archiveSuffix),
		ArchiveOldFileOnStartup: overwriteArchiveOnStartup,
	}
	return l.attach(op, b, sink, policy)
}

// ArchivalByNumber archives the previous file on startup under a numbered
// name. mode is Rolling (newest archive is 0) or Sequence (numbers grow).
func (l *FileLogger) ArchivalByNumber(mode string, maxArchiveFiles int, archiveSuffix string) error {
	const op errors.Op = "xlog.FileLogger.ArchivalByNumber"
	b, err := l.require(op)
	if err != nil {
		return err
	}
	sink := l.fileSink()
	if sink == nil {
		return stateError(op, "Null file sink.")
	}
	if _, set := sink.Policy(); set {
		return stateError(op, errMsgArchivalSet)
	}

	m, ok := parseNumberingMode(mode)
	if !ok {
		return validationError(op, "Invalid NumberingMode '"+mode+"'.")
	}
	if m != NumberingRolling && m != NumberingSequence {
		return validationError(op, "Unsupported ArchiveNumbering '"+m.String()+"'.")
	}

	archiveSuffix = strings.TrimSpace(archiveSuffix)
	if archiveSuffix == emptyString {
		archiveSuffix = l.registry.Defaults().FileNumberSuffix + sink.Suffix()
	}
	policy := &ArchivalPolicy{
		Numbering:               m,
		MaxArchiveFiles:         maxArchiveFiles,
		ArchiveSuffix:           archiveSuffix,
		ArchiveFileName:         sink.archiveFileName(archiveSuffix),
		ArchiveOldFileOnStartup: true,
	}
	return l.attach(op, b, sink, policy)
}

func (l *FileLogger) attach(op errors.Op, b *binding, sink *FileSink, policy *ArchivalPolicy) error {
	if err := validateStruct(op, policy); err != nil {
		return err
	}
	deleteOld, ok := sink.setPolicy(policy)
	if !ok {
		return stateError(op, errMsgArchivalSet)
	}
	if err := l.registry.reconfigure(b.identity); err != nil {
		sink.clearPolicy(policy, deleteOld)
		return l.fail(op, b.identity, err)
	}
	return nil
}
