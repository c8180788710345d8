// Package script runs Lua programs against a slider.
//
// A Host owns one sandboxed gopher-lua state. Only the base, table, string
// and math libraries are opened, and the functions that load code from disk
// or strings are removed. The global table "slider" drives the bound Set:
//
//	slider.set_limits(0, 50)
//	local i = slider.add_at(20)
//	slider.drag(i, -10, 0, 12)
//	print(table.concat(slider.values(), " "))
//
// Handles are addressed by their 1-based position in value order, so an
// index refers to a different handle after the order changes.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/multislider/internal/event"
	"github.com/dshills/multislider/internal/logging"
	"github.com/dshills/multislider/internal/slider"
)

// DefaultTimeout bounds the run time of a single chunk.
const DefaultTimeout = 5 * time.Second

// ModuleName is the global the slider API is registered under.
const ModuleName = "slider"

// Option configures a Host.
type Option func(*Host)

// WithOutput redirects print. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		if w != nil {
			h.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithTimeout sets the per-chunk timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// Host executes Lua chunks against a slider.Set.
//
// gopher-lua states are not goroutine-safe. The mutex serializes Go callers;
// the bound Set must still only be driven from one goroutine.
type Host struct {
	mu sync.Mutex

	L       *lua.LState
	set     *slider.Set
	out     io.Writer
	log     *logging.Logger
	timeout time.Duration

	subs []*event.Subscription

	// Last slider error raised into Lua by a binding.
	lastErr error

	closed bool
}

// New creates a Host bound to set.
func New(set *slider.Set, opts ...Option) *Host {
	h := &Host{
		set:     set,
		out:     os.Stdout,
		log:     logging.Null,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("script")

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.sandbox()
	h.L.SetGlobal(ModuleName, h.L.SetFuncs(h.L.NewTable(), h.api()))
	return h
}

// openSafeLibraries opens the libraries that cannot reach the host system.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes code loading and routes print to the host output.
func (h *Host) sandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		h.L.SetGlobal(name, lua.LNil)
	}
	h.L.SetGlobal("print", h.L.NewFunction(h.print))
}

func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}

// DoString runs code. name labels the chunk in errors.
func (h *Host) DoString(ctx context.Context, name, code string) error {
	return h.run(ctx, name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// DoFile runs the Lua file at path.
func (h *Host) DoFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return &Error{Chunk: filepath.Base(path), Message: err.Error(), Err: err}
	}
	return h.DoString(ctx, filepath.Base(path), string(code))
}

func (h *Host) run(ctx context.Context, name string, fn func(*lua.LState) error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	h.lastErr = nil
	top := h.L.GetTop()
	defer h.L.SetTop(top)

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Chunk: name, Message: fmt.Sprintf("lua panic: %v", r)}
		}
	}()

	if runErr := fn(h.L); runErr != nil {
		return h.wrap(ctx, name, runErr)
	}
	return nil
}

func (h *Host) wrap(ctx context.Context, name string, err error) error {
	se := &Error{Chunk: name, Message: err.Error(), Err: err}

	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		if apiErr.Object != nil {
			se.Message = apiErr.Object.String()
		}
		se.Err = nil
		if apiErr.Cause != nil {
			se.Err = apiErr.Cause
		}
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		se.Err = ErrTimeout
	case ctx.Err() != nil:
		se.Err = ctx.Err()
	case h.lastErr != nil && strings.Contains(se.Message, h.lastErr.Error()):
		se.Err = h.lastErr
	}

	h.log.Debug("chunk %s failed: %s", name, se.Message)
	return se
}

// Close cancels every script subscription and closes the Lua state.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	for _, sub := range h.subs {
		sub.Cancel()
	}
	h.subs = nil
	h.L.Close()
	h.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (h *Host) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Subscriptions returns the number of handlers registered with slider.on.
func (h *Host) Subscriptions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
