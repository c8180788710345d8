package app

import (
	"errors"
	"path/filepath"

	"github.com/dshills/multislider/internal/config"
	"github.com/dshills/multislider/internal/config/watcher"
	"github.com/dshills/multislider/internal/slider"
)

// onConfigChange runs on the watcher goroutine. The reloaded configuration
// is handed to the event loop through Set.Defer.
func (app *Application) onConfigChange(ev watcher.Event) {
	cfg, err := config.Load(ev.Path, app.opts.LoadOptions...)
	if errors.Is(err, config.ErrFileNotFound) {
		app.log.Debug("config %s gone (%s), keeping current settings", ev.Path, ev.Op)
		return
	}
	if err != nil {
		oe := NewOperationError("reload", filepath.Base(ev.Path), err)
		app.log.Warn("%v", oe)
		app.enqueue(func(*slider.Set) {
			app.view.SetMessage(oe.Error())
		})
		return
	}

	app.log.Info("config %s changed (%s)", ev.Path, ev.Op)
	app.enqueue(func(s *slider.Set) {
		app.applyConfig(s, cfg)
	})
}

// enqueue queues fn for the event loop, marks the screen dirty and wakes the
// loop.
func (app *Application) enqueue(fn func(*slider.Set)) {
	app.set.Defer(func(s *slider.Set) {
		fn(s)
		app.dirty.Store(true)
	})
	if app.backend != nil {
		app.backend.PostWake()
	}
}

// applyConfig installs a reloaded configuration. Handle values and the
// track layout stay as they are; the range settings and log level change.
func (app *Application) applyConfig(s *slider.Set, cfg config.Config) {
	if err := s.Apply(cfg.RangeConfig()); err != nil {
		oe := NewOperationError("reload", filepath.Base(cfg.Path), err)
		app.log.Warn("%v", oe)
		app.view.SetMessage(oe.Error())
		return
	}
	app.log.SetLevel(cfg.LogLevel())

	app.mu.Lock()
	app.cfg.Slider = cfg.Slider
	app.cfg.Logging.Level = cfg.Logging.Level
	app.mu.Unlock()

	app.view.SetMessage("reloaded " + filepath.Base(cfg.Path))
}
