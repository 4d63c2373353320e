package main

import (
	"github.com/Station-Manager/xlog"
	"github.com/spf13/cobra"
)

func newDisplayCommand(g *globalFlags) *cobra.Command {
	var (
		context   string
		level     string
		emitLevel string
		layout    string
		autoShow  bool
	)
	cmd := &cobra.Command{
		Use:   "display OWNER MESSAGE...",
		Short: "Send messages to the log display of OWNER",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.build()
			if err != nil {
				return err
			}
			defer a.close()

			l := xlog.NewDisplayLogger(a.registry)
			if err = l.Initialize(args[0], context, false, level, autoShow); err != nil {
				return err
			}
			if layout != "" {
				if err = l.SetLayout(layout); err != nil {
					return err
				}
			}
			if err = emitAll(l, emitLevel, args[1:]); err != nil {
				return err
			}
			if !a.display.Visible() {
				a.display.Reveal()
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&context, "context", "", "logger sub-context")
	fl.StringVar(&level, "level", "Info", "minimum enabled level")
	fl.StringVar(&emitLevel, "emit-level", "Info", "level of the written messages")
	fl.StringVar(&layout, "layout", "", "layout template")
	fl.BoolVar(&autoShow, "auto-show", false, "reveal the display on every message")
	return cmd
}
