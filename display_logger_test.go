package xlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayLogger_Uninitialized(t *testing.T) {
	reg, _ := newTestRegistry(t)
	l := NewDisplayLogger(reg)

	assert.False(t, l.Initialized())
	assert.False(t, l.IsClone())
	assert.Equal(t, notInitialized, l.Name())
	assert.Equal(t, notInitialized, l.MinLogLevel())
	assert.Equal(t, notInitialized, l.MaxLogLevel())
	assert.Equal(t, notInitialized, l.Layout())
	assert.False(t, l.AutoShow())

	assertState := func(err error) {
		t.Helper()
		require.Error(t, err)
		assert.True(t, IsState(err))
	}
	assertState(l.SetLayout("x"))
	assertState(l.SetLogLevels("Info", ""))
	assertState(l.Emit(LevelInfo, "x"))
	_, err := l.IsEnabled("Info")
	assertState(err)

	assert.NotPanics(t, func() {
		l.Fatal("x")
		l.Error("x")
		l.Warn("x")
		l.Info("x")
		l.Debug("x")
		l.Trace("x")
	})
}

func TestDisplayLogger_InitializeValidation(t *testing.T) {
	reg, _ := newTestRegistry(t)

	t.Run("blank owner", func(t *testing.T) {
		l := NewDisplayLogger(reg)
		for _, owner := range []string{"", "   ", "\t"} {
			err := l.Initialize(owner, "", false, "Info", false)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		}
		assert.False(t, l.Initialized())
	})

	t.Run("invalid level", func(t *testing.T) {
		l := NewDisplayLogger(reg)
		err := l.Initialize("book1.xlsx", "", false, "Loud", false)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Empty(t, reg.Identities())
	})

	t.Run("already initialized", func(t *testing.T) {
		l := NewDisplayLogger(reg)
		require.NoError(t, l.Initialize("book1.xlsx", "", false, "Info", false))
		err := l.Initialize("book2.xlsx", "", false, "Info", false)
		require.Error(t, err)
		assert.True(t, IsState(err))
		assert.Equal(t, "DisplayLogger::book1.xlsx", l.Name())
	})
}

func TestDisplayLogger_Identity(t *testing.T) {
	reg, _ := newTestRegistry(t)

	l := NewDisplayLogger(reg)
	require.NoError(t, l.Initialize("  book1.xlsx ", "  import ", false, "", false))
	assert.Equal(t, "DisplayLogger::book1.xlsx::import", l.Name())
	assert.Equal(t, "Info", l.MinLogLevel())
	assert.Equal(t, "Fatal", l.MaxLogLevel())

	noCtx := NewDisplayLogger(reg)
	require.NoError(t, noCtx.Initialize("book1.xlsx", "  ", false, "Info", false))
	assert.Equal(t, "DisplayLogger::book1.xlsx", noCtx.Name())
	assert.False(t, noCtx.IsClone())

	file := NewFileLogger(reg)
	require.NoError(t, file.Initialize("book1.xlsx", "import", false, "Info", FileOptions{LogDir: t.TempDir()}))
	assert.False(t, file.IsClone(), "display and file identities never collide")
}

func TestDisplayLogger_CloneSharesRuleAndSink(t *testing.T) {
	reg, _ := newTestRegistry(t)

	first := NewDisplayLogger(reg)
	require.NoError(t, first.Initialize("book1.xlsx", "ctx", false, "Debug", true))
	require.NoError(t, first.SetLayout("${level}|${message}"))

	second := NewDisplayLogger(reg)
	require.NoError(t, second.Initialize("book1.xlsx", "ctx", false, "Error", false))

	assert.False(t, first.IsClone())
	assert.True(t, second.IsClone())
	assert.Equal(t, first.MinLogLevel(), second.MinLogLevel())
	assert.Equal(t, first.MaxLogLevel(), second.MaxLogLevel())
	assert.Equal(t, first.Layout(), second.Layout())
	assert.True(t, second.AutoShow(), "clone keeps the existing sink options")

	require.NoError(t, second.SetLogLevels("Warn", ""))
	assert.Equal(t, "Warn", first.MinLogLevel())
	require.NoError(t, first.SetLayout("${message}"))
	assert.Equal(t, "${message}", second.Layout())
}

func TestDisplayLogger_CreateNewStartsFromDefaults(t *testing.T) {
	reg, _ := newTestRegistry(t)

	first := NewDisplayLogger(reg)
	require.NoError(t, first.Initialize("book1.xlsx", "", false, "Info", false))
	require.NoError(t, first.SetLayout("custom"))
	oldSink, _ := reg.FindSink(first.Name())

	second := NewDisplayLogger(reg)
	require.NoError(t, second.Initialize("book1.xlsx", "", true, "Warn", false))
	assert.False(t, second.IsClone())
	assert.Equal(t, DefaultLayout, second.Layout())
	assert.Equal(t, "Warn", second.MinLogLevel())

	newSink, ok := reg.FindSink(second.Name())
	require.True(t, ok)
	assert.NotSame(t, oldSink, newSink)
	assert.Len(t, reg.Identities(), 1)
}

func TestDisplayLogger_SetLogLevels(t *testing.T) {
	reg, _ := newTestRegistry(t)
	l := NewDisplayLogger(reg)
	require.NoError(t, l.Initialize("book1.xlsx", "", false, "Trace", false))

	enabled := func(level string) bool {
		t.Helper()
		ok, err := l.IsEnabled(level)
		require.NoError(t, err)
		return ok
	}

	require.NoError(t, l.SetLogLevels("Warn", ""))
	assert.False(t, enabled("Info"))
	assert.True(t, enabled("Warn"))
	assert.True(t, enabled("Error"))

	require.NoError(t, l.SetLogLevels("Debug", "Error"))
	assert.False(t, enabled("Trace"))
	assert.True(t, enabled("Debug"))
	assert.True(t, enabled("Error"))
	assert.False(t, enabled("Fatal"))
	assert.Equal(t, "Debug", l.MinLogLevel())
	assert.Equal(t, "Error", l.MaxLogLevel())

	require.NoError(t, l.SetLogLevels("Off", ""))
	assert.Equal(t, "Off", l.MinLogLevel())
	assert.Equal(t, "Off", l.MaxLogLevel())
	assert.False(t, enabled("Fatal"))

	t.Run("invalid levels leave range untouched", func(t *testing.T) {
		require.NoError(t, l.SetLogLevels("Info", "Warn"))
		err := l.SetLogLevels("Nope", "")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		err = l.SetLogLevels("Info", "Nope")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "Info", l.MinLogLevel())
		assert.Equal(t, "Warn", l.MaxLogLevel())

		_, err = l.IsEnabled("Nope")
		assert.True(t, IsValidation(err))
	})
}

func TestDisplayLogger_LayoutRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)
	l := NewDisplayLogger(reg)
	require.NoError(t, l.Initialize("book1.xlsx", "", false, "Info", false))

	for _, layout := range []string{"", " ", "${message}", "${unknown:x=y}|${level}", "plain text", "${"} {
		require.NoError(t, l.SetLayout(layout))
		assert.Equal(t, layout, l.Layout())
	}
}

func TestDisplayLogger_EmitRoutesToSurface(t *testing.T) {
	var out bytes.Buffer
	display := NewLogDisplay(&out, 0)
	reg := NewRegistry(Options{Surface: display})

	recorder := NewDisplayLogger(reg)
	require.NoError(t, recorder.Initialize("book1.xlsx", "quiet", false, "Info", false))
	require.NoError(t, recorder.SetLayout("${event-properties:Context}|${level}|${message}"))

	recorder.Debug("below threshold")
	recorder.Info("recorded")
	assert.Equal(t, []string{"quiet|Info|recorded"}, display.Lines())
	assert.False(t, display.Visible())
	assert.Empty(t, out.String())

	shower := NewDisplayLogger(reg)
	require.NoError(t, shower.Initialize("book1.xlsx", "loud", false, "Info", true))
	require.NoError(t, shower.SetLayout("${event-properties:WbName}|${message}"))
	require.NoError(t, shower.Emit(LevelWarn, "revealed"))

	assert.True(t, display.Visible())
	assert.Equal(t, []string{"quiet|Info|recorded", "book1.xlsx|revealed"}, display.Lines())
	assert.Equal(t, "quiet|Info|recorded\nbook1.xlsx|revealed\n", out.String())

	recorder.Error("now echoed")
	assert.True(t, strings.HasSuffix(out.String(), "quiet|Error|now echoed\n"))
}
