package slider

import (
	"github.com/google/uuid"

	"github.com/dshills/multislider/internal/track"
)

// HandleID identifies a handle for the lifetime of its Set.
type HandleID string

// NoHandle is the zero HandleID.
const NoHandle HandleID = ""

func newHandleID() HandleID {
	return HandleID(uuid.NewString())
}

// String returns the identifier text.
func (id HandleID) String() string {
	return string(id)
}

// Handle is one draggable value marker. A Handle is owned by its Set and
// must not be retained past RemoveHandle; after removal it is detached and
// every neighbor query returns nil.
type Handle struct {
	id     HandleID
	set    *Set
	value  float64
	offset float64
	width  float64

	// Indices into set.handles; -1 when absent.
	index int
	left  int
	right int

	// Set until the creation notification is queued.
	fresh bool
}

// ID returns the handle identifier.
func (h *Handle) ID() HandleID { return h.id }

// Value returns the current quantized value.
func (h *Handle) Value() float64 { return h.value }

// Offset returns the pixel offset from the track centre.
func (h *Handle) Offset() float64 { return h.offset }

// Width returns the handle width in pixels.
func (h *Handle) Width() float64 { return h.width }

// Index returns the position in sorted order, or -1 if detached.
func (h *Handle) Index() int { return h.index }

// Left returns the left neighbor or nil.
func (h *Handle) Left() *Handle {
	if h.set == nil || h.left < 0 {
		return nil
	}
	return h.set.handles[h.left]
}

// Right returns the right neighbor or nil.
func (h *Handle) Right() *Handle {
	if h.set == nil || h.right < 0 {
		return nil
	}
	return h.set.handles[h.right]
}

// Attached reports whether the handle still belongs to a set.
func (h *Handle) Attached() bool {
	return h.set != nil
}

func (h *Handle) mapper() track.Mapper {
	cfg := h.set.cfg
	return track.Mapper{
		TrackWidth:  h.set.trackWidth,
		HandleWidth: h.width,
		MinValue:    cfg.MinValue,
		MaxValue:    cfg.MaxValue,
	}
}

// limits returns the interval the handle may occupy. A neighbor bound only
// replaces the domain bound when it is the tighter of the two.
func (h *Handle) limits(withNeighbors bool) (lo, hi float64) {
	cfg := h.set.cfg
	q := h.set.q
	lo, hi = cfg.MinValue, cfg.MaxValue
	if !withNeighbors {
		return lo, hi
	}
	if l := h.Left(); l != nil {
		if b := q.Round(l.value + cfg.MinDistance); b > lo {
			lo = b
		}
	}
	if r := h.Right(); r != nil {
		if b := q.Round(r.value - cfg.MinDistance); b < hi {
			hi = b
		}
	}
	return lo, hi
}

// clampPos restricts v to both bounds. When they cross, the upper bound
// wins; the result never leaves the value range.
func (h *Handle) clampPos(v float64, withNeighbors bool) float64 {
	lo, hi := h.limits(withNeighbors)
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return h.within(v)
}

// clampPosDir enforces only the neighbor lower bound when rightward and only
// the upper bound otherwise. The leftward result is floored at MinValue, so
// an overfull domain collapses onto its ends instead of leaving it.
func (h *Handle) clampPosDir(v float64, rightward bool) float64 {
	lo, hi := h.limits(true)
	if rightward {
		if v < lo {
			return lo
		}
		return v
	}
	if v > hi {
		v = hi
	}
	return h.within(v)
}

func (h *Handle) within(v float64) float64 {
	cfg := h.set.cfg
	if v > cfg.MaxValue {
		v = cfg.MaxValue
	}
	if v < cfg.MinValue {
		v = cfg.MinValue
	}
	return v
}
