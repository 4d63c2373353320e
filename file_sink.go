package xlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSink appends formatted entries to a file. The file is opened on the
// first write; start-up actions (delete or archive the previous file) run
// once per sink. Without an archival policy the file rotates by size using
// lumberjack's own backup naming; with a policy only the policy archives.
type FileSink struct {
	name      string
	dir       string
	base      string
	suffix    string
	fileName  string
	maxSizeMB int
	layout    layoutHolder
	now       func() time.Time

	mu                     sync.Mutex
	deleteOldFileOnStartup bool
	policy                 *ArchivalPolicy
	writer                 *lumberjack.Logger
	lock                   *flock.Flock
	opened                 bool
	started                bool
	periodStart            time.Time
}

// noSizeRotationMB keeps lumberjack from rotating a file whose archival is
// owned by a policy.
const noSizeRotationMB = 1 << 30

var _ Sink = (*FileSink)(nil)

type fileSinkConfig struct {
	name      string
	dir       string
	base      string
	suffix    string
	layout    string
	newFile   bool
	maxSizeMB int
}

func newFileSink(cfg fileSinkConfig) *FileSink {
	fileName := filepath.Join(cfg.dir, cfg.base+cfg.suffix)
	s := &FileSink{
		name:                   cfg.name,
		dir:                    cfg.dir,
		base:                   cfg.base,
		suffix:                 cfg.suffix,
		fileName:               fileName,
		maxSizeMB:              cfg.maxSizeMB,
		now:                    time.Now,
		deleteOldFileOnStartup: cfg.newFile,
		writer:                 &lumberjack.Logger{Filename: fileName, MaxSize: cfg.maxSizeMB},
		lock:                   flock.New(fileName + ".lock"),
	}
	s.layout.set(cfg.layout)
	return s
}

func (s *FileSink) Name() string            { return s.name }
func (s *FileSink) Layout() string          { return s.layout.get().text }
func (s *FileSink) SetLayout(layout string) { s.layout.set(layout) }

// FileName is the path of the live log file.
func (s *FileSink) FileName() string { return s.fileName }

// Suffix is the extension appended to the base file name.
func (s *FileSink) Suffix() string { return s.suffix }

// DeleteOldFileOnStartup reports whether the first open truncates an
// existing file.
func (s *FileSink) DeleteOldFileOnStartup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteOldFileOnStartup
}

// ArchiveFileName is the archive pattern, or "" when no policy is set.
func (s *FileSink) ArchiveFileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == nil {
		return emptyString
	}
	return s.policy.ArchiveFileName
}

// Policy returns a copy of the archival policy.
func (s *FileSink) Policy() (ArchivalPolicy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == nil {
		return ArchivalPolicy{}, false
	}
	return *s.policy, true
}

// archiveFileName derives the archive pattern from the base path.
func (s *FileSink) archiveFileName(archiveSuffix string) string {
	return filepath.Join(s.dir, s.base+archiveSuffix)
}

// setPolicy attaches p unless a policy is already present. It returns the
// start-up delete flag it replaced.
func (s *FileSink) setPolicy(p *ArchivalPolicy) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy != nil {
		return false, false
	}
	deleteOld := s.deleteOldFileOnStartup
	s.deleteOldFileOnStartup = false
	s.policy = p
	return deleteOld, true
}

// clearPolicy detaches p if it is still the attached policy.
func (s *FileSink) clearPolicy(p *ArchivalPolicy, deleteOld bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == p {
		s.policy = nil
		s.deleteOldFileOnStartup = deleteOld
	}
}

func (s *FileSink) Write(e Entry) error {
	line := s.layout.get().render(&e) + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.open(now); err != nil {
		return err
	}
	if err := s.rollover(now); err != nil {
		return err
	}
	_, err := s.writer.Write([]byte(line))
	return err
}

// open runs start-up actions on first use and applies the current policy
// to the writer. lumberjack reopens the file itself on the next write.
// Callers hold s.mu.
func (s *FileSink) open(now time.Time) error {
	if s.opened {
		return nil
	}
	if err := os.MkdirAll(s.dir, os.ModePerm); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	if !s.started {
		s.started = true
		if err := s.startup(now); err != nil {
			return err
		}
	}
	if s.policy != nil && s.policy.ByDate() && s.periodStart.IsZero() {
		stamp := now
		if info, err := os.Stat(s.fileName); err == nil && info.Size() > 0 {
			stamp = info.ModTime()
		}
		s.periodStart = s.policy.Period.start(stamp)
	}
	s.writer.MaxSize = s.maxSizeMB
	if s.policy != nil {
		s.writer.MaxSize = noSizeRotationMB
	}
	s.opened = true
	return nil
}

func (s *FileSink) startup(now time.Time) error {
	switch {
	case s.policy != nil && s.policy.ArchiveOldFileOnStartup:
		return s.withLock(func() error {
			stamp := now
			if info, err := os.Stat(s.fileName); err == nil {
				stamp = info.ModTime()
			}
			return archiveFile(s.fileName, s.policy, stamp, now)
		})
	case s.deleteOldFileOnStartup:
		return s.withLock(func() error {
			if err := os.Remove(s.fileName); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("deleting old log file: %w", err)
			}
			return nil
		})
	}
	return nil
}

// rollover archives the live file once the date period has moved on.
func (s *FileSink) rollover(now time.Time) error {
	if s.policy == nil || !s.policy.ByDate() {
		return nil
	}
	current := s.policy.Period.start(now)
	if !current.After(s.periodStart) {
		return nil
	}
	previous := s.periodStart
	s.periodStart = current
	if err := s.writer.Close(); err != nil {
		return err
	}
	return s.withLock(func() error {
		return archiveFile(s.fileName, s.policy, previous, now)
	})
}

// withLock serialises archive operations across processes sharing the file.
func (s *FileSink) withLock(fn func() error) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// reconfigure closes the file so the next write reopens it with the
// current settings, and makes sure the log directory can be created.
func (s *FileSink) reconfigure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.closeWriter(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, os.ModePerm); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.closeWriter()
	_ = s.lock.Close()
	return err
}

// closeWriter closes the file but keeps the lumberjack.Logger, whose
// background goroutine lives as long as the Logger does.
func (s *FileSink) closeWriter() error {
	s.opened = false
	return s.writer.Close()
}
