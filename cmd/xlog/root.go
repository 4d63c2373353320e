package main

import (
	"os"

	"github.com/Station-Manager/types"
	"github.com/Station-Manager/xlog"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	defaultsPath string
	diagLevel    string
	diagConsole  bool
	diagDir      string
}

// app is the composition root shared by the subcommands.
type app struct {
	defaults *xlog.Defaults
	diag     *xlog.Diagnostics
	display  *xlog.LogDisplay
	registry *xlog.Registry
}

func (g *globalFlags) build() (*app, error) {
	defaults, err := xlog.LoadDefaults(g.defaultsPath)
	if err != nil {
		return nil, err
	}

	var diag *xlog.Diagnostics
	if g.diagConsole || g.diagDir != "" {
		cfg := &types.LoggingConfig{
			Level:             g.diagLevel,
			WithTimestamp:     true,
			ConsoleLogging:    g.diagConsole,
			FileLogging:       g.diagDir != "",
			RelLogFileDir:     ".",
			LogFileMaxBackups: 3,
			LogFileMaxAgeDays: 7,
			LogFileMaxSizeMB:  10,
		}
		diag = xlog.NewDiagnostics(g.diagDir, cfg)
		if err = diag.Initialize(); err != nil {
			return nil, err
		}
	}

	display := xlog.NewLogDisplay(os.Stdout, defaults.DisplayHistory)
	return &app{
		defaults: defaults,
		diag:     diag,
		display:  display,
		registry: xlog.NewRegistry(xlog.Options{Defaults: defaults, Surface: display, Diagnostics: diag}),
	}, nil
}

func (a *app) close() {
	_ = a.registry.Close()
	_ = a.diag.Close()
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "xlog",
		Short:         "Write to named display and file loggers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&g.defaultsPath, "defaults", "", "flat YAML defaults file")
	cmd.PersistentFlags().StringVar(&g.diagLevel, "diag-level", "info", "diagnostics level")
	cmd.PersistentFlags().BoolVar(&g.diagConsole, "diag-console", false, "write diagnostics to stderr")
	cmd.PersistentFlags().StringVar(&g.diagDir, "diag-dir", "", "write diagnostics to a rolling file in this directory")

	cmd.AddCommand(newFileCommand(g), newDisplayCommand(g), newLevelsCommand())
	return cmd
}

func newLevelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the log levels in ascending order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for l := xlog.LevelTrace; l <= xlog.LevelOff; l++ {
				cmd.Println(l.String())
			}
		},
	}
}

// emitAll writes each message at level through h.
func emitAll(h xlog.LoggerHandle, level string, messages []string) error {
	l, err := xlog.ParseLevel(level)
	if err != nil {
		return err
	}
	for _, m := range messages {
		if err = h.Emit(l, m); err != nil {
			return err
		}
	}
	return nil
}

func exitCode(err error) int {
	switch {
	case xlog.IsValidation(err):
		return 2
	case xlog.IsState(err):
		return 3
	case xlog.IsOperation(err):
		return 4
	}
	return 1
}
