// Package xlog provides a registry of named, independently configurable
// loggers that share one process-wide table of routing rules and sinks.
//
// Key features
//   - Loggers are keyed by owner plus an optional context; initializing a
//     second handle for the same key attaches to ("clones") the live rule
//   - Per-logger level ranges, changed atomically and visible to every clone
//   - Display sinks feeding an in-process LogDisplay surface
//   - File sinks with a set-once archival policy, by date or by count
//   - Internal diagnostics through rs/zerolog, configured like any other
//     Station-Manager service
//
// Typical usage
//
//	reg := xlog.NewRegistry(xlog.Options{Defaults: defaults})
//	defer reg.Close()
//
//	fl := xlog.NewFileLogger(reg)
//	if err := fl.Initialize("C:/books/book1.xlsx", "", false, "Info", xlog.FileOptions{NewFile: true}); err != nil {
//		return err
//	}
//	if err := fl.ArchivalByNumber("Rolling", 5, ""); err != nil {
//		return err
//	}
//	fl.Info("workbook opened")
package xlog
