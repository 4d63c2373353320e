package xlog

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Surface is the interactive destination of display sinks.
type Surface interface {
	// Record appends text without changing the visibility of the surface.
	Record(text string)
	// Show appends text and reveals the surface.
	Show(text string)
}

// LogDisplay is an in-process message window. It keeps a bounded history
// and, while visible, echoes every message to its writer.
type LogDisplay struct {
	mu       sync.Mutex
	out      io.Writer
	lines    []string
	capacity int
	visible  bool
	headless bool
}

// NewLogDisplay returns a display writing to out. A capacity <= 0 keeps an
// unbounded history.
func NewLogDisplay(out io.Writer, capacity int) *LogDisplay {
	return &LogDisplay{out: out, capacity: capacity, headless: out == nil}
}

// NewConsoleDisplay returns a display bound to stderr. When stderr is not a
// terminal the display only records.
func NewConsoleDisplay(capacity int) *LogDisplay {
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return NewLogDisplay(nil, capacity)
	}
	return NewLogDisplay(colorable.NewColorableStderr(), capacity)
}

func (d *LogDisplay) Record(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.append(text)
	if d.visible {
		d.write(text)
	}
}

func (d *LogDisplay) Show(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.append(text)
	if d.visible {
		d.write(text)
		return
	}
	d.reveal()
}

// Reveal shows the display, replaying the retained history.
func (d *LogDisplay) Reveal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		d.reveal()
	}
}

// Hide stops echoing; messages are still recorded.
func (d *LogDisplay) Hide() {
	d.mu.Lock()
	d.visible = false
	d.mu.Unlock()
}

// Clear drops the retained history.
func (d *LogDisplay) Clear() {
	d.mu.Lock()
	d.lines = nil
	d.mu.Unlock()
}

func (d *LogDisplay) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Lines returns a copy of the retained history, oldest first.
func (d *LogDisplay) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *LogDisplay) append(text string) {
	d.lines = append(d.lines, text)
	if d.capacity > 0 && len(d.lines) > d.capacity {
		d.lines = d.lines[len(d.lines)-d.capacity:]
	}
}

func (d *LogDisplay) reveal() {
	d.visible = true
	for _, l := range d.lines {
		d.write(l)
	}
}

func (d *LogDisplay) write(text string) {
	if d.headless {
		return
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, _ = io.WriteString(d.out, text)
}
