package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/multislider/internal/app"
	"github.com/dshills/multislider/internal/config"
	"github.com/dshills/multislider/internal/logging"
	"github.com/dshills/multislider/internal/slider"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	handles    []float64
	trackWidth int
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "multislider",
		Short: "Multi-handle range slider for the terminal",
		Long: `multislider places any number of handles on a bounded numeric range.
Handles keep a minimum distance from each other, snap to the configured
precision and can be dragged, inserted and removed with the mouse.

Run without a subcommand to open the interactive slider.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}

	g.register(root.PersistentFlags())

	run := newRunCmd(g)
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(run, newScriptCmd(g), newDumpCmd(g), newVersionCmd())
	return root
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.configPath, "config", "c", "", "path to a TOML or YAML configuration file")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.Float64SliceVar(&g.handles, "handles", nil, "initial handle values, replacing the configured ones")
	fs.IntVar(&g.trackWidth, "track-width", 0, "track width in columns (0 fills the terminal)")
}

// load reads the configuration and applies the command line overrides.
func (g *globalFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("log-level") {
		if !logging.ValidLevel(g.logLevel) {
			return config.Config{}, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", g.logLevel)
		}
		cfg.Logging.Level = g.logLevel
	}
	if cmd.Flags().Changed("handles") {
		cfg.Handles = append([]float64(nil), g.handles...)
	}
	if cmd.Flags().Changed("track-width") {
		if g.trackWidth < 0 {
			return config.Config{}, fmt.Errorf("invalid track width %d", g.trackWidth)
		}
		cfg.Track.Width = g.trackWidth
	}
	return cfg, nil
}

// newSet builds a slider holding the configured handles, for the
// commands that run without a terminal.
func newSet(cfg config.Config, log *logging.Logger) (*slider.Set, error) {
	width := float64(cfg.Track.Width)
	if width <= 0 {
		width = slider.DefaultTrackWidth
	}

	set, err := slider.New(cfg.RangeConfig(),
		slider.WithLogger(log),
		slider.WithTrackWidth(width),
		slider.WithSource("cli"),
	)
	if err != nil {
		return nil, err
	}
	for _, v := range cfg.Handles {
		if _, err := set.AddHandleAt(v); err != nil {
			return nil, fmt.Errorf("handle %g: %w", v, err)
		}
	}
	return set, nil
}

// newLogger builds the logger for a non-interactive command. The caller
// closes the returned closer when it is not nil.
func newLogger(cfg config.Config) (*logging.Logger, func(), error) {
	log, closer, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	done := func() {}
	if closer != nil {
		done = func() { _ = closer.Close() }
	}
	return log.WithComponent("cli"), done, nil
}
