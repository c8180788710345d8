package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/multislider/internal/app"
	"github.com/dshills/multislider/internal/renderer/backend"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive slider",
		Long: `Open the interactive slider in the terminal.

Drag a handle with the left button, double click the track to insert a
handle and right click a handle to remove it. Press a to add a handle,
q or Esc to quit. The configuration file is reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}

			term, err := backend.NewTerminal()
			if err != nil {
				return err
			}

			application, err := app.New(app.Options{
				Config:  cfg,
				Backend: term,
				Watch:   !noWatch,
			})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signals)

			go func() {
				<-signals
				application.Shutdown()
			}()

			return application.Run()
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the configuration file when it changes")
	return cmd
}
