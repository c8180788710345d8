// Package quantize snaps slider values onto a fixed numeric grid.
//
// Two mutually exclusive modes exist. With Decimals > 0 values are rounded
// to that many fractional digits; with Decimals == 0 they are rounded to an
// integer multiple of Multiples. Every operation has a NonZero variant that
// substitutes the smallest quantum when the result would be exactly zero,
// which is how widths and distances are kept structurally valid.
package quantize

import "math"

// Mode identifies the active quantization rule.
type Mode uint8

const (
	// ModeMultiples rounds to integer multiples of Multiples.
	ModeMultiples Mode = iota
	// ModeDecimals rounds to a fixed number of fractional digits.
	ModeDecimals
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeMultiples:
		return "multiples"
	case ModeDecimals:
		return "decimals"
	default:
		return "unknown"
	}
}

// MaxDecimals bounds the decimal precision so the scale factor stays exact.
const MaxDecimals = 15

// Quantizer rounds values to the grid described by Decimals and Multiples.
// The zero value is not normalized; use New.
type Quantizer struct {
	decimals  int
	multiples int
	scale     float64
}

// New creates a quantizer. Out-of-range settings are corrected rather than
// rejected: decimals < 0 becomes 0 and multiples < 1 becomes 1.
func New(decimals, multiples int) Quantizer {
	if decimals < 0 {
		decimals = 0
	}
	if decimals > MaxDecimals {
		decimals = MaxDecimals
	}
	if multiples < 1 {
		multiples = 1
	}
	return Quantizer{
		decimals:  decimals,
		multiples: multiples,
		scale:     math.Pow(10, float64(decimals)),
	}
}

// Decimals returns the normalized decimal precision.
func (q Quantizer) Decimals() int {
	return q.decimals
}

// Multiples returns the normalized multiple. It is ignored in ModeDecimals.
func (q Quantizer) Multiples() int {
	if q.multiples < 1 {
		return 1
	}
	return q.multiples
}

// Mode returns the active quantization rule.
func (q Quantizer) Mode() Mode {
	if q.decimals > 0 {
		return ModeDecimals
	}
	return ModeMultiples
}

// Step returns the smallest non-zero quantum of the active mode.
func (q Quantizer) Step() float64 {
	if q.Mode() == ModeDecimals {
		return 1 / q.scale
	}
	return float64(q.Multiples())
}

// Round snaps x to the nearest grid point. Halves round away from zero.
func (q Quantizer) Round(x float64) float64 {
	return q.apply(x, math.Round, false)
}

// Floor snaps x to the nearest grid point not above it. An x within a
// relative 1e-9 of a grid point (in scaled units) counts as on that point,
// so Floor may return a result slightly above x.
func (q Quantizer) Floor(x float64) float64 {
	return q.apply(x, math.Floor, false)
}

// Ceil snaps x to the nearest grid point not below it. The same on-grid
// tolerance as Floor applies, so Ceil may return a result slightly below x.
func (q Quantizer) Ceil(x float64) float64 {
	return q.apply(x, math.Ceil, false)
}

// RoundNonZero is Round, substituting Step for an exact zero result.
func (q Quantizer) RoundNonZero(x float64) float64 {
	return q.apply(x, math.Round, true)
}

// FloorNonZero is Floor, substituting Step for an exact zero result.
func (q Quantizer) FloorNonZero(x float64) float64 {
	return q.apply(x, math.Floor, true)
}

// CeilNonZero is Ceil, substituting Step for an exact zero result.
func (q Quantizer) CeilNonZero(x float64) float64 {
	return q.apply(x, math.Ceil, true)
}

// Equal reports whether two quantizers apply the same rule.
func (q Quantizer) Equal(other Quantizer) bool {
	if q.Mode() != other.Mode() {
		return false
	}
	if q.Mode() == ModeDecimals {
		return q.decimals == other.decimals
	}
	return q.Multiples() == other.Multiples()
}

func (q Quantizer) apply(x float64, snap func(float64) float64, nonZero bool) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	var v float64
	if q.Mode() == ModeDecimals {
		// Divide by the scale rather than multiply by its inverse so that
		// results like 3.14 stay bit-identical across repeated rounding.
		v = snap(settle(x*q.scale)) / q.scale
	} else {
		m := float64(q.Multiples())
		v = snap(settle(x/m)) * m
	}

	if v == 0 {
		if nonZero {
			return q.Step()
		}
		// Normalize negative zero.
		return 0
	}
	return v
}

// integralTolerance is the relative distance under which a scaled value is
// treated as already lying on the grid.
const integralTolerance = 1e-9

// settle pulls y onto the nearest integer when it only misses it by binary
// representation error, e.g. 0.29*100 = 28.999999999999996. Without this
// Floor(0.29) at two decimals would yield 0.28.
func settle(y float64) float64 {
	r := math.Round(y)
	if math.Abs(y-r) <= integralTolerance*math.Max(1, math.Abs(y)) {
		return r
	}
	return y
}
