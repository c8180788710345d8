package app

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/multislider/internal/config"
	"github.com/dshills/multislider/internal/config/watcher"
	"github.com/dshills/multislider/internal/event"
	"github.com/dshills/multislider/internal/input/mouse"
	"github.com/dshills/multislider/internal/logging"
	"github.com/dshills/multislider/internal/renderer/view"
	"github.com/dshills/multislider/internal/slider"
)

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logger
	if app.opts.Logger != nil {
		app.log = app.opts.Logger
	} else {
		l, closer, err := NewLogger(app.cfg.Logging)
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		app.log, app.logFile = l, closer
	}
	app.log = app.log.WithComponent("app")

	// 2. Event bus
	app.eventBus = event.NewBus(event.WithPanicHandler(func(ev event.Event, perr *event.PanicError) {
		app.log.Error("handler for %s panicked: %v", ev.Topic, perr.Value)
	}))

	// 3. Slider
	set, err := slider.New(app.cfg.RangeConfig(),
		slider.WithBus(app.eventBus),
		slider.WithLogger(app.log),
		slider.WithSource("app"),
	)
	if err != nil {
		return &InitError{Component: "slider", Err: err}
	}
	app.set = set
	for _, v := range app.cfg.Handles {
		if _, err := set.AddHandleAt(v); err != nil {
			return &InitError{Component: "slider", Err: fmt.Errorf("handle %g: %w", v, err)}
		}
	}

	app.sub, err = set.Subscribe(slider.TopicAll, func(slider.Notification) {
		app.dirty.Store(true)
	})
	if err != nil {
		return &InitError{Component: "event bus", Err: err}
	}

	// 4. View and mouse input
	viewOpts := view.DefaultOptions()
	viewOpts.Width = app.cfg.Track.Width
	viewOpts.Margin = app.cfg.Track.Margin
	if app.backend != nil {
		app.view = view.New(app.backend, set, viewOpts)
		app.mouse = mouse.NewHandler(set, app.view, mouse.DefaultConfig(), mouse.WithLogger(app.log))
	}

	// 5. Config watcher
	if app.opts.Watch && app.cfg.Path != "" {
		if err := app.startWatcher(); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
	}

	return nil
}

func (app *Application) startWatcher() error {
	opts := []watcher.Option{watcher.WithLogger(app.log)}
	if app.opts.Debounce > 0 {
		opts = append(opts, watcher.WithDebounce(app.opts.Debounce))
	}

	w, err := watcher.New(opts...)
	if err != nil {
		return err
	}
	if err := w.Watch(app.cfg.Path); err != nil {
		_ = w.Close()
		return err
	}
	w.OnChange(app.onConfigChange)
	app.watcher = w
	return nil
}

// NewLogger builds a logger from the logging section. Output goes to
// logging.file when set; otherwise logging is discarded since the terminal
// belongs to the view. The returned closer is nil when no file was opened.
func NewLogger(cfg config.LoggingConfig) (*logging.Logger, io.Closer, error) {
	if cfg.File == "" {
		return logging.Null, nil, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Level)
	lc.Output = f
	lc.JSON = cfg.JSON
	return logging.New(lc), f, nil
}
