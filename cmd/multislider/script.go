package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/multislider/internal/script"
)

func newScriptCmd(g *globalFlags) *cobra.Command {
	var (
		timeout time.Duration
		dump    bool
	)

	cmd := &cobra.Command{
		Use:   "script FILE",
		Short: "Run a Lua script against a slider",
		Long: `Run a Lua script against a slider built from the configuration.

The script drives the slider through the global table "slider"; print
writes to standard output. Handles are addressed by their 1-based
position in value order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			log, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			set, err := newSet(cfg, log)
			if err != nil {
				return err
			}

			host := script.New(set,
				script.WithOutput(cmd.OutOrStdout()),
				script.WithLogger(log),
				script.WithTimeout(timeout),
			)
			defer host.Close()

			if err := host.DoFile(context.Background(), args[0]); err != nil {
				return err
			}
			if dump {
				printValues(cmd.OutOrStdout(), set)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", script.DefaultTimeout, "abort the script after this long (0 disables)")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the handle values when the script finishes")
	return cmd
}
