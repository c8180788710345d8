package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/multislider/internal/event"
	"github.com/dshills/multislider/internal/slider"
)

// api returns the functions of the slider module.
func (h *Host) api() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"add":           h.add,
		"add_at":        h.addAt,
		"remove":        h.remove,
		"move":          h.move,
		"values":        h.values,
		"value":         h.value,
		"offset":        h.offset,
		"count":         h.count,
		"config":        h.config,
		"track":         h.track,
		"handle_width":  h.handleWidth,
		"set_limits":    h.setLimits,
		"set_range":     h.setRange,
		"set_distance":  h.setDistance,
		"set_width":     h.setWidth,
		"set_decimals":  h.setDecimals,
		"set_multiples": h.setMultiples,
		"set_track":     h.setTrack,
		"drag":          h.drag,
		"on":            h.on,
	}
}

// raise aborts the running chunk with a slider error.
func (h *Host) raise(L *lua.LState, err error) {
	h.lastErr = err
	L.RaiseError("%s", err.Error())
}

// handleArg resolves the 1-based handle index at stack position n.
func (h *Host) handleArg(L *lua.LState, n int) *slider.Handle {
	i := L.CheckInt(n)
	hd := h.set.At(i - 1)
	if hd == nil {
		L.ArgError(n, "handle index out of range")
	}
	return hd
}

// pushIndex pushes the current 1-based index of id, or nil.
func (h *Host) pushIndex(L *lua.LState, id slider.HandleID) {
	if hd, ok := h.set.Handle(id); ok {
		L.Push(lua.LNumber(hd.Index() + 1))
		return
	}
	L.Push(lua.LNil)
}

func (h *Host) add(L *lua.LState) int {
	id, err := h.set.AddHandle()
	if err != nil {
		h.raise(L, err)
	}
	h.pushIndex(L, id)
	return 1
}

func (h *Host) addAt(L *lua.LState) int {
	id, err := h.set.AddHandleAt(float64(L.CheckNumber(1)))
	if err != nil {
		h.raise(L, err)
	}
	h.pushIndex(L, id)
	return 1
}

func (h *Host) remove(L *lua.LState) int {
	if err := h.set.RemoveHandle(h.handleArg(L, 1).ID()); err != nil {
		h.raise(L, err)
	}
	return 0
}

// move sets a handle value within its neighbor window and returns the
// handle's new index.
func (h *Host) move(L *lua.LState) int {
	id := h.handleArg(L, 1).ID()
	if _, err := h.set.MoveHandle(id, float64(L.CheckNumber(2))); err != nil {
		h.raise(L, err)
	}
	h.pushIndex(L, id)
	return 1
}

func (h *Host) values(L *lua.LState) int {
	tbl := L.NewTable()
	for _, v := range h.set.Values() {
		tbl.Append(lua.LNumber(v))
	}
	L.Push(tbl)
	return 1
}

func (h *Host) value(L *lua.LState) int {
	L.Push(lua.LNumber(h.handleArg(L, 1).Value()))
	return 1
}

func (h *Host) offset(L *lua.LState) int {
	L.Push(lua.LNumber(h.handleArg(L, 1).Offset()))
	return 1
}

func (h *Host) count(L *lua.LState) int {
	L.Push(lua.LNumber(h.set.Len()))
	return 1
}

func (h *Host) config(L *lua.LState) int {
	cfg := h.set.Config()
	tbl := L.NewTable()
	tbl.RawSetString("min_limit", lua.LNumber(cfg.MinLimit))
	tbl.RawSetString("max_limit", lua.LNumber(cfg.MaxLimit))
	tbl.RawSetString("min_value", lua.LNumber(cfg.MinValue))
	tbl.RawSetString("max_value", lua.LNumber(cfg.MaxValue))
	tbl.RawSetString("min_width", lua.LNumber(cfg.MinWidth))
	tbl.RawSetString("min_distance", lua.LNumber(cfg.MinDistance))
	tbl.RawSetString("decimals", lua.LNumber(cfg.Decimals))
	tbl.RawSetString("multiples", lua.LNumber(cfg.Multiples))
	L.Push(tbl)
	return 1
}

func (h *Host) track(L *lua.LState) int {
	L.Push(lua.LNumber(h.set.TrackWidth()))
	return 1
}

func (h *Host) handleWidth(L *lua.LState) int {
	L.Push(lua.LNumber(h.set.Width()))
	return 1
}

func (h *Host) setLimits(L *lua.LState) int {
	if err := h.set.SetLimits(float64(L.CheckNumber(1)), float64(L.CheckNumber(2))); err != nil {
		h.raise(L, err)
	}
	return 0
}

func (h *Host) setRange(L *lua.LState) int {
	if err := h.set.SetValueRange(float64(L.CheckNumber(1)), float64(L.CheckNumber(2))); err != nil {
		h.raise(L, err)
	}
	return 0
}

func (h *Host) setDistance(L *lua.LState) int {
	if err := h.set.SetMinDistance(float64(L.CheckNumber(1))); err != nil {
		h.raise(L, err)
	}
	return 0
}

func (h *Host) setWidth(L *lua.LState) int {
	if err := h.set.SetMinWidth(float64(L.CheckNumber(1))); err != nil {
		h.raise(L, err)
	}
	return 0
}

func (h *Host) setDecimals(L *lua.LState) int {
	if err := h.set.SetDecimals(L.CheckInt(1)); err != nil {
		h.raise(L, err)
	}
	return 0
}

func (h *Host) setMultiples(L *lua.LState) int {
	if err := h.set.SetMultiples(L.CheckInt(1)); err != nil {
		h.raise(L, err)
	}
	return 0
}

func (h *Host) setTrack(L *lua.LState) int {
	if err := h.set.SetTrackWidth(float64(L.CheckNumber(1))); err != nil {
		h.raise(L, err)
	}
	return 0
}

// drag presses handle i, samples each pointer position given after it and
// releases. It returns the handle's index and value after the release. A
// drag that does not release is cancelled, so a failed call never leaves the
// set mid-drag.
func (h *Host) drag(L *lua.LState) int {
	id := h.handleArg(L, 1).ID()
	xs := make([]float64, 0, max(L.GetTop()-1, 0))
	for n := 2; n <= L.GetTop(); n++ {
		xs = append(xs, float64(L.CheckNumber(n)))
	}

	if err := h.set.BeginDrag(id); err != nil {
		h.raise(L, err)
	}
	released := false
	defer func() {
		if !released {
			h.set.Drag().Cancel()
		}
	}()

	for _, x := range xs {
		if err := h.set.UpdateDrag(x); err != nil {
			h.raise(L, err)
		}
	}
	if err := h.set.EndDrag(); err != nil {
		h.raise(L, err)
	}
	released = true

	h.pushIndex(L, id)
	v, _ := h.set.Value(id)
	L.Push(lua.LNumber(v))
	return 2
}

// on calls fn with a table describing every notification matching pattern.
// Handlers run while the set is delivering, so mutating calls from inside
// them fail.
func (h *Host) on(L *lua.LState) int {
	pattern := event.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)

	sub, err := h.set.Subscribe(pattern, func(n slider.Notification) {
		if h.closed {
			return
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, h.notificationTable(L, n)); err != nil {
			h.log.Warn("handler for %s failed: %v", n.Kind, err)
		}
	})
	if err != nil {
		h.raise(L, err)
	}
	h.subs = append(h.subs, sub)
	return 0
}

func (h *Host) notificationTable(L *lua.LState, n slider.Notification) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("kind", lua.LString(n.Kind))
	if n.Handle != slider.NoHandle {
		tbl.RawSetString("id", lua.LString(n.Handle))
		if hd, ok := h.set.Handle(n.Handle); ok {
			tbl.RawSetString("index", lua.LNumber(hd.Index()+1))
		}
	}
	tbl.RawSetString("value", lua.LNumber(n.Value))
	tbl.RawSetString("delta", lua.LNumber(n.Delta))
	tbl.RawSetString("offset", lua.LNumber(n.Offset))
	tbl.RawSetString("min", lua.LNumber(n.Min))
	tbl.RawSetString("max", lua.LNumber(n.Max))
	tbl.RawSetString("width", lua.LNumber(n.Width))
	return tbl
}
