// Package app provides the terminal application that hosts a slider. It
// wires the engine, the event bus, the terminal backend, the view, mouse
// input and config reloading together and runs the event loop.
package app

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/multislider/internal/config"
	"github.com/dshills/multislider/internal/config/watcher"
	"github.com/dshills/multislider/internal/event"
	"github.com/dshills/multislider/internal/input/mouse"
	"github.com/dshills/multislider/internal/logging"
	"github.com/dshills/multislider/internal/renderer/backend"
	"github.com/dshills/multislider/internal/renderer/view"
	"github.com/dshills/multislider/internal/slider"
)

// Options configures the application.
type Options struct {
	// Config is the loaded configuration.
	Config config.Config

	// Backend is the terminal the slider is drawn on.
	Backend backend.Backend

	// Logger overrides the logger built from Config.Logging.
	Logger *logging.Logger

	// Watch reloads Config.Path when it changes.
	Watch bool

	// LoadOptions are passed to config.Load on reload.
	LoadOptions []config.Option

	// Debounce is the reload quiet period; 0 uses the watcher default.
	Debounce time.Duration

	// Clock returns the time stamped on mouse events. Defaults to time.Now.
	Clock func() time.Time
}

// Application is the central coordinator for the slider host.
// The set, view and mouse handler belong to the event loop goroutine.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	cfg      config.Config
	log      *logging.Logger
	logFile  io.Closer
	eventBus *event.Bus

	// Slider components
	set     *slider.Set
	backend backend.Backend
	view    *view.View
	mouse   *mouse.Handler
	decoder mouse.Decoder
	watcher *watcher.Watcher
	sub     *event.Subscription

	// State
	running   atomic.Bool
	dirty     atomic.Bool
	done      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once

	opts Options
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	app := &Application{
		cfg:     opts.Config,
		backend: opts.Backend,
		done:    make(chan struct{}),
		opts:    opts,
	}

	if err := app.bootstrap(); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// Run initializes the backend and runs the event loop until quit or
// Shutdown. It closes the application on return.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.Close()

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()
	defer app.stop()

	app.backend.EnableMouse()
	w, h := app.backend.Size()
	app.resize(w, h)
	app.set.Flush()
	app.view.Draw()
	app.dirty.Store(false)

	app.log.Info("running with %d handles", app.set.Len())
	return app.eventLoop()
}

// Shutdown stops a running event loop. It is safe to call from any
// goroutine and more than once.
func (app *Application) Shutdown() {
	app.stop()
	if app.backend != nil {
		app.backend.PostWake()
	}
}

func (app *Application) stop() {
	app.stopOnce.Do(func() { close(app.done) })
}

// Close releases the watcher, the notification subscription and the log
// file. Run calls it on return.
func (app *Application) Close() error {
	var err error
	app.closeOnce.Do(func() {
		if app.watcher != nil {
			err = app.watcher.Close()
		}
		if app.sub != nil {
			app.sub.Cancel()
		}
		if app.logFile != nil {
			if cerr := app.logFile.Close(); err == nil {
				err = cerr
			}
		}
	})
	return err
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Sync runs fn against the slider on the event loop goroutine and waits for
// it. When the loop is not running fn runs directly.
func (app *Application) Sync(fn func(*slider.Set)) {
	if !app.running.Load() {
		fn(app.set)
		return
	}

	finished := make(chan struct{})
	app.set.Defer(func(s *slider.Set) {
		defer close(finished)
		fn(s)
	})
	app.backend.PostWake()

	select {
	case <-finished:
	case <-app.done:
	}
}

// Values returns the ordered handle values.
func (app *Application) Values() []float64 {
	var vs []float64
	app.Sync(func(s *slider.Set) { vs = s.Values() })
	return vs
}

// Config returns the configuration currently applied.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// EventBus returns the event bus.
func (app *Application) EventBus() *event.Bus {
	return app.eventBus
}

// View returns the view.
func (app *Application) View() *view.View {
	return app.view
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.log
}
