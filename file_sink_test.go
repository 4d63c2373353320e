package xlog

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_KeepsWriterAcrossReconfigure(t *testing.T) {
	dir := t.TempDir()
	sink := newFileSink(fileSinkConfig{
		name:      "FileLogger::b1",
		dir:       dir,
		base:      "b1",
		suffix:    ".log",
		layout:    "${message}",
		maxSizeMB: 7,
	})
	t.Cleanup(func() { _ = sink.Close() })
	writer := sink.writer

	require.NoError(t, sink.Write(Entry{Message: "one"}))
	require.NoError(t, sink.reconfigure())
	require.NoError(t, sink.Write(Entry{Message: "two"}))
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Write(Entry{Message: "three"}))

	assert.Same(t, writer, sink.writer)
	assert.Equal(t, 7, sink.writer.MaxSize)
	assert.Equal(t, "one\ntwo\nthree\n", readFile(t, sink.FileName()))
}

// TestFileLogger_ReconfigureGoroutines checks that repeated configuration
// changes do not start a new writer goroutine each time.
func TestFileLogger_ReconfigureGoroutines(t *testing.T) {
	reg, _ := newTestRegistry(t)
	l := newTestFileLogger(t, reg, t.TempDir(), true)
	l.Info("warm up")

	before := runtime.NumGoroutine()
	for i := 0; i < 200; i++ {
		require.NoError(t, l.SetLogLevels("Info", ""))
		l.Info("x")
	}
	after := runtime.NumGoroutine()

	assert.LessOrEqual(t, after, before+2, "goroutines before=%d after=%d", before, after)
}

func TestFileLogger_FailedReconfigureRollsBack(t *testing.T) {
	reg, _ := newTestRegistry(t)
	logDir := filepath.Join(t.TempDir(), "logs")
	l := newTestFileLogger(t, reg, logDir, true)
	require.DirExists(t, logDir)

	// A regular file in place of the directory makes every reconfigure fail.
	require.NoError(t, os.Remove(logDir))
	require.NoError(t, os.WriteFile(logDir, []byte("x"), 0o644))

	err := l.SetLayout("${message}")
	require.Error(t, err)
	assert.True(t, IsOperation(err))
	assert.Equal(t, DefaultLayout, l.Layout())

	err = l.SetLogLevels("Error", "")
	require.Error(t, err)
	assert.True(t, IsOperation(err))
	assert.Equal(t, "Info", l.MinLogLevel())
	assert.Equal(t, "Fatal", l.MaxLogLevel())

	err = l.ArchivalByNumber("Rolling", 2, "")
	require.Error(t, err)
	assert.True(t, IsOperation(err))
	assert.False(t, l.ArchivalSet())
	assert.Empty(t, l.ArchiveFile())
	assert.True(t, l.fileSink().DeleteOldFileOnStartup())

	require.NoError(t, os.Remove(logDir))
	require.NoError(t, l.ArchivalByNumber("Rolling", 2, ""))
	assert.True(t, l.ArchivalSet())
}

func TestFileLogger_InitializeFailureLeavesRegistryUntouched(t *testing.T) {
	reg, _ := newTestRegistry(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	l := NewFileLogger(reg)
	err := l.Initialize("book1.xlsx", "", false, "Info", FileOptions{LogDir: filepath.Join(blocker, "logs")})
	require.Error(t, err)
	assert.True(t, IsOperation(err))
	assert.False(t, l.Initialized())
	assert.Empty(t, reg.Identities())

	good := newTestFileLogger(t, reg, t.TempDir(), true)
	err = NewFileLogger(reg).Initialize("book1.xlsx", "", true, "Info", FileOptions{LogDir: filepath.Join(blocker, "logs")})
	require.Error(t, err)
	rule, ok := reg.FindRule(good.Name())
	require.True(t, ok)
	assert.Same(t, good.fileSink(), rule.Sink())
}
