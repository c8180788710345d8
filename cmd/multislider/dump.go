package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/multislider/internal/slider"
	"github.com/dshills/multislider/internal/snapshot"
)

func newDumpCmd(g *globalFlags) *cobra.Command {
	var (
		asJSON  bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the handles the configuration produces",
		Long: `Build a slider from the configuration and the command line, then print
its handles in value order. Each handle is placed, clamped and snapped
exactly as the interactive slider would.

With --json the full state is printed as a snapshot document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			out := cmd.OutOrStdout()
			if !asJSON {
				printValues(out, set)
				return nil
			}

			doc, err := snapshot.Export(set)
			if err != nil {
				return err
			}
			if compact {
				fmt.Fprintln(out, doc)
				return nil
			}
			fmt.Fprint(out, snapshot.Pretty(doc))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a snapshot document")
	cmd.Flags().BoolVar(&compact, "compact", false, "with --json, print the document on one line")
	return cmd
}

// printValues writes one "position value" line per handle, using the
// slider's decimal places.
func printValues(w io.Writer, set *slider.Set) {
	decimals := set.Config().Decimals
	for i, v := range set.Values() {
		fmt.Fprintf(w, "%d %s\n", i+1, strconv.FormatFloat(v, 'f', decimals, 64))
	}
}
