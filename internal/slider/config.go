package slider

import (
	"math"

	"github.com/dshills/multislider/internal/quantize"
)

// RangeConfig holds the domain configuration of a Set.
type RangeConfig struct {
	// MinLimit and MaxLimit bound the value range; editors use them as the
	// outer range of the value range controls.
	MinLimit float64
	MaxLimit float64

	// MinValue and MaxValue bound every handle value.
	MinValue float64
	MaxValue float64

	// MinWidth is the handle width in pixels.
	MinWidth float64

	// MinDistance is the required gap between adjacent handle values.
	MinDistance float64

	// Decimals > 0 rounds values to that many fractional digits.
	Decimals int

	// Multiples is the rounding step while Decimals is zero.
	Multiples int
}

// DefaultRangeConfig returns the configuration of a freshly created slider.
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		MinLimit:    0,
		MaxLimit:    100,
		MinValue:    0,
		MaxValue:    100,
		MinWidth:    1,
		MinDistance: 1,
		Decimals:    0,
		Multiples:   1,
	}
}

// Span returns MaxValue - MinValue.
func (c RangeConfig) Span() float64 {
	return c.MaxValue - c.MinValue
}

// Quantizer returns the rounding rule selected by Decimals and Multiples.
func (c RangeConfig) Quantizer() quantize.Quantizer {
	return quantize.New(c.Decimals, c.Multiples)
}

// Validate checks c for values the engine refuses outright: non-finite
// numbers, inverted pairs and a value range outside the limits.
func (c RangeConfig) Validate() error {
	return c.validate("Validate")
}

func (c RangeConfig) validate(op string) error {
	if !finite(c.MinLimit, c.MaxLimit) {
		return &ConfigError{Op: op, Field: "limits", Min: c.MinLimit, Max: c.MaxLimit, Err: ErrNonFinite}
	}
	if !finite(c.MinValue, c.MaxValue) {
		return &ConfigError{Op: op, Field: "value range", Min: c.MinValue, Max: c.MaxValue, Err: ErrNonFinite}
	}
	if !finite(c.MinWidth, c.MinDistance) {
		return &ConfigError{Op: op, Field: "width/distance", Min: c.MinWidth, Max: c.MinDistance, Err: ErrNonFinite}
	}
	if c.MinLimit > c.MaxLimit {
		return &ConfigError{Op: op, Field: "limits", Min: c.MinLimit, Max: c.MaxLimit, Err: ErrInvalidRange}
	}
	if c.MinValue > c.MaxValue {
		return &ConfigError{Op: op, Field: "value range", Min: c.MinValue, Max: c.MaxValue, Err: ErrInvalidRange}
	}
	if c.MinValue < c.MinLimit || c.MaxValue > c.MaxLimit {
		return &ConfigError{Op: op, Field: "value range", Min: c.MinValue, Max: c.MaxValue, Err: ErrOutOfLimits}
	}
	return nil
}

// normalize quantizes c onto its own grid. The value range is first narrowed
// into the limits, so callers that require containment check it beforehand.
func (c RangeConfig) normalize() (RangeConfig, quantize.Quantizer) {
	q := c.Quantizer()
	c.Decimals, c.Multiples = q.Decimals(), q.Multiples()
	c.MinValue, c.MaxValue = fitRange(q, c.MinValue, c.MaxValue, c.MinLimit, c.MaxLimit)
	c.MinWidth = q.RoundNonZero(math.Max(c.MinWidth, 0))
	c.MinDistance = fitDistance(q, c.MinDistance, c.Span())
	return c, q
}

// fitRange narrows [lo, hi] into [minLimit, maxLimit] and snaps both ends to
// the grid without leaving the limits. If the grid has no point inside the
// limits the range collapses onto its lower end.
func fitRange(q quantize.Quantizer, lo, hi, minLimit, maxLimit float64) (float64, float64) {
	lo = math.Min(math.Max(lo, minLimit), maxLimit)
	hi = math.Min(math.Max(hi, minLimit), maxLimit)

	rlo := q.Round(lo)
	if rlo < minLimit {
		rlo = q.Ceil(lo)
	}
	rhi := q.Round(hi)
	if rhi > maxLimit {
		rhi = q.Floor(hi)
	}
	if rhi < rlo {
		rhi = rlo
	}
	return rlo, rhi
}

// fitDistance caps d at span and rounds it to a non-zero grid value. When
// rounding pushes it past a positive span it is floored instead.
func fitDistance(q quantize.Quantizer, d, span float64) float64 {
	d = math.Max(d, 0)
	if span >= 0 && d > span {
		d = span
	}
	r := q.RoundNonZero(d)
	if span > 0 && r > span {
		r = q.FloorNonZero(span)
	}
	return r
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
