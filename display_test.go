package xlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogDisplay(t *testing.T) {
	t.Run("bounded history", func(t *testing.T) {
		d := NewLogDisplay(nil, 2)
		d.Record("a")
		d.Record("b")
		d.Show("c")
		assert.Equal(t, []string{"b", "c"}, d.Lines())
		assert.True(t, d.Visible())
	})

	t.Run("hide keeps recording", func(t *testing.T) {
		var out bytes.Buffer
		d := NewLogDisplay(&out, 0)
		d.Reveal()
		d.Record("one")
		d.Hide()
		d.Record("two")
		assert.False(t, d.Visible())
		assert.Equal(t, "one\n", out.String())
		assert.Equal(t, []string{"one", "two"}, d.Lines())

		d.Reveal()
		assert.Equal(t, "one\none\ntwo\n", out.String())
	})

	t.Run("clear", func(t *testing.T) {
		var out bytes.Buffer
		d := NewLogDisplay(&out, 0)
		d.Record("one")
		d.Clear()
		assert.Empty(t, d.Lines())
		d.Show("two\n")
		assert.Equal(t, "two\n", out.String())
	})

	t.Run("lines is a copy", func(t *testing.T) {
		d := NewLogDisplay(nil, 0)
		d.Record("x")
		lines := d.Lines()
		lines[0] = "y"
		assert.Equal(t, []string{"x"}, d.Lines())
	})
}
