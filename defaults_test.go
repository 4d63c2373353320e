package xlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefaults(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Run("no path", func(t *testing.T) {
		d, err := LoadDefaults("")
		require.NoError(t, err)
		assert.Equal(t, NewDefaults(), d)
	})

	t.Run("missing file", func(t *testing.T) {
		d, err := LoadDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultSuffix, d.FileSuffix)
	})

	t.Run("overrides", func(t *testing.T) {
		path := writeDefaults(t, `
file.layout: "${level}|${message}"
file.suffix: .txt
file.number.suffix: ".{##}"
file.archive.oldfiles: false
file.delete.oldfiles: "false"
file.max.size.mb: 5
display.history: 10
unrelated.key: 1
`)
		d, err := LoadDefaults(path)
		require.NoError(t, err)
		assert.Equal(t, "${level}|${message}", d.FileLayout)
		assert.Equal(t, DefaultLayout, d.DisplayLayout)
		assert.Equal(t, ".txt", d.FileSuffix)
		assert.Equal(t, ".{##}", d.FileNumberSuffix)
		assert.False(t, d.ArchiveOldFileOnStartup)
		assert.False(t, d.DeleteOldFileOnStartup)
		assert.Equal(t, 5, d.FileMaxSizeMB)
		assert.Equal(t, 10, d.DisplayHistory)
	})

	t.Run("unconvertible value keeps default", func(t *testing.T) {
		path := writeDefaults(t, "file.max.size.mb: lots\nfile.delete.oldfiles: maybe\n")
		d, err := LoadDefaults(path)
		require.NoError(t, err)
		assert.Equal(t, 100, d.FileMaxSizeMB)
		assert.True(t, d.DeleteOldFileOnStartup)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeDefaults(t, "file.number.suffix: \".n\"\n")
		_, err := LoadDefaults(path)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeDefaults(t, "file.suffix: [unterminated\n")
		_, err := LoadDefaults(path)
		require.Error(t, err)
	})
}
