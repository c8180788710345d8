// Package track maps slider values onto a linear pixel track and back.
//
// Offsets are measured from the centre of the track, matching how a handle
// is positioned inside its parent: the leftmost handle position is
// -(TrackWidth-HandleWidth)/2 and the rightmost is the negation of that.
package track

import "math"

// Rounder snaps a raw value onto the active quantization grid.
type Rounder interface {
	Round(x float64) float64
}

// Mapper converts between values in [MinValue, MaxValue] and pixel offsets
// within a track of TrackWidth holding a handle of HandleWidth.
type Mapper struct {
	TrackWidth  float64
	HandleWidth float64
	MinValue    float64
	MaxValue    float64
}

// Travel returns the distance the handle centre can move along the track.
func (m Mapper) Travel() float64 {
	return m.TrackWidth - m.HandleWidth
}

// Degenerate reports whether the value domain is empty.
func (m Mapper) Degenerate() bool {
	return m.MaxValue == m.MinValue
}

// Offset returns the pixel offset of value relative to the track centre.
// A degenerate domain maps every value to the left end of the track.
func (m Mapper) Offset(value float64) float64 {
	travel := m.Travel()
	if m.Degenerate() {
		return -travel / 2
	}
	return travel*(value-m.MinValue)/(m.MaxValue-m.MinValue) - travel/2
}

// Bounds returns the pixel range a pointer sample is clamped into before
// inversion: [-TrackWidth/2 + HandleWidth/2, TrackWidth/2 - HandleWidth/2].
func (m Mapper) Bounds() (lo, hi float64) {
	lo = -m.TrackWidth/2 + m.HandleWidth/2
	hi = m.TrackWidth/2 - m.HandleWidth/2
	if lo > hi {
		// Handle wider than the track: both ends collapse to the centre.
		return 0, 0
	}
	return lo, hi
}

// Clamp restricts a pointer sample to Bounds.
func (m Mapper) Clamp(pointerX float64) float64 {
	lo, hi := m.Bounds()
	if pointerX < lo {
		return lo
	}
	if pointerX > hi {
		return hi
	}
	return pointerX
}

// Value converts a pointer position (relative to the track centre) into a
// quantized value. It reports false, leaving the caller's value untouched,
// when the domain is degenerate, the handle has no room to travel, or the
// sample is not a finite number.
func (m Mapper) Value(pointerX float64, r Rounder) (float64, bool) {
	if m.Degenerate() || math.IsNaN(pointerX) {
		return 0, false
	}
	travel := m.Travel()
	if travel <= 0 {
		return 0, false
	}

	x := m.Clamp(pointerX)
	v := m.MinValue + (x+travel/2)*(m.MaxValue-m.MinValue)/travel
	if r != nil {
		v = r.Round(v)
	}
	return v, true
}

// Capacity returns the advisory minimum handle width: the track divided by
// the number of minDistance-wide gaps that fit into [minLimit, maxLimit], or
// half the track when fewer than two gaps fit. It is meant for display and
// is never applied automatically.
func Capacity(trackWidth, minLimit, maxLimit, minDistance float64) float64 {
	if minDistance <= 0 {
		return trackWidth / 2
	}
	gaps := (maxLimit - minLimit) / minDistance
	if gaps >= 2 {
		return trackWidth / gaps
	}
	return trackWidth / 2
}
