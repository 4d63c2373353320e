package main

import (
	"github.com/Station-Manager/xlog"
	"github.com/spf13/cobra"
)

type fileFlags struct {
	context     string
	createNew   bool
	level       string
	emitLevel   string
	layout      string
	opts        xlog.FileOptions
	archiveDate string
	dateFormat  string
	maxDays     int
	overwrite   bool
	archiveNum  string
	maxFiles    int
	archiveSfx  string
}

func newFileCommand(g *globalFlags) *cobra.Command {
	f := &fileFlags{}
	cmd := &cobra.Command{
		Use:   "file OWNER MESSAGE...",
		Short: "Append messages to the file logger of OWNER",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.build()
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("overwrite-archive") {
				f.overwrite = a.defaults.ArchiveOldFileOnStartup
			}
			if !cmd.Flags().Changed("new-file") {
				f.opts.NewFile = a.defaults.DeleteOldFileOnStartup
			}
			return f.run(cmd, a, args[0], args[1:])
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.context, "context", "", "logger sub-context")
	fl.BoolVar(&f.createNew, "create-new", false, "replace an existing logger")
	fl.StringVar(&f.level, "level", "Info", "minimum enabled level")
	fl.StringVar(&f.emitLevel, "emit-level", "Info", "level of the written messages")
	fl.StringVar(&f.layout, "layout", "", "layout template")
	fl.StringVar(&f.opts.LogDir, "dir", "", "log directory")
	fl.StringVar(&f.opts.LogFileName, "name", "", "log file base name")
	fl.StringVar(&f.opts.LogSuffix, "suffix", "", "log file suffix")
	fl.BoolVar(&f.opts.NewFile, "new-file", true, "delete the previous log file on first write")
	fl.StringVar(&f.archiveDate, "archive-date", "", "archive every period (Day, Hour, Monday, ...)")
	fl.StringVar(&f.dateFormat, "date-format", "yyyyMMdd", "archive date format")
	fl.IntVar(&f.maxDays, "max-days", 0, "days to keep date archives")
	fl.BoolVar(&f.overwrite, "overwrite-archive", true, "archive the previous file on startup")
	fl.StringVar(&f.archiveNum, "archive-number", "", "archive by number (Rolling or Sequence)")
	fl.IntVar(&f.maxFiles, "max-files", 0, "numbered archives to keep")
	fl.StringVar(&f.archiveSfx, "archive-suffix", "", "archive suffix pattern")
	return cmd
}

func (f *fileFlags) run(cmd *cobra.Command, a *app, owner string, messages []string) error {
	l := xlog.NewFileLogger(a.registry)
	if err := l.Initialize(owner, f.context, f.createNew, f.level, f.opts); err != nil {
		return err
	}
	if f.layout != "" {
		if err := l.SetLayout(f.layout); err != nil {
			return err
		}
	}
	switch {
	case f.archiveDate != "":
		if err := l.ArchivalByDate(f.archiveDate, f.dateFormat, f.maxDays, f.archiveSfx, f.overwrite); err != nil {
			return err
		}
	case f.archiveNum != "":
		if err := l.ArchivalByNumber(f.archiveNum, f.maxFiles, f.archiveSfx); err != nil {
			return err
		}
	}
	if err := emitAll(l, f.emitLevel, messages); err != nil {
		return err
	}
	cmd.Println(l.LogFile())
	return nil
}
