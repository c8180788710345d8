package slider

import (
	"cmp"
	"slices"
)

// compareHandles orders handles by value. A nil handle sorts first.
func compareHandles(a, b *Handle) int {
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return cmp.Compare(a.value, b.value)
}

// updateOrder stable-sorts handles by value, so equal values keep their
// insertion order, and rebuilds the neighbor links.
func (s *Set) updateOrder() {
	slices.SortStableFunc(s.handles, compareHandles)
	s.relink()
}

func (s *Set) relink() {
	last := len(s.handles) - 1
	for i, h := range s.handles {
		h.index = i
		h.left = i - 1
		h.right = i + 1
		if i == last {
			h.right = -1
		}
	}
}

// sweep runs a rightward pass enforcing lower bounds followed by a leftward
// pass enforcing upper bounds, refreshing offsets as it goes.
func (s *Set) sweep() {
	for _, h := range s.handles {
		s.setValue(h, h.clampPosDir(h.value, true))
		s.refreshOffset(h)
	}
	for i := len(s.handles) - 1; i >= 0; i-- {
		h := s.handles[i]
		s.setValue(h, h.clampPosDir(h.value, false))
		s.refreshOffset(h)
	}
}

// settle re-sorts, applies the symmetric clamp to h and sweeps.
func (s *Set) settle(h *Handle) {
	s.updateOrder()
	s.setValue(h, h.clampPos(h.value, true))
	s.refreshOffset(h)
	s.sweep()
}
