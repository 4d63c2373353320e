package xlog

import (
	"testing"
)

func BenchmarkEmit_Filtered(b *testing.B) {
	reg, _ := newTestRegistry(b)
	l := NewDisplayLogger(reg)
	if err := l.Initialize("bench.xlsx", "", false, "Error", false); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Debug("filtered")
	}
}

func BenchmarkEmit_Display(b *testing.B) {
	reg := NewRegistry(Options{Surface: NewLogDisplay(nil, 1000)})
	b.Cleanup(func() { _ = reg.Close() })
	l := NewDisplayLogger(reg)
	if err := l.Initialize("bench.xlsx", "", false, "Info", false); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("message")
	}
}

func BenchmarkEmit_File(b *testing.B) {
	reg, _ := newTestRegistry(b)
	l := NewFileLogger(reg)
	if err := l.Initialize("bench.xlsx", "", false, "Info", FileOptions{LogDir: b.TempDir(), NewFile: true}); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("message")
	}
}

func BenchmarkRender(b *testing.B) {
	cl := compileLayout("${longdate}|${level:uppercase=true}|${event-properties:WbName}|${message}")
	e := &Entry{Level: LevelInfo, Message: "message", Properties: map[string]string{PropertyOwner: "bench.xlsx"}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cl.render(e)
	}
}
