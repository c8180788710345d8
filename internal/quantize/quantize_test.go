package quantize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizes(t *testing.T) {
	tests := []struct {
		name          string
		decimals      int
		multiples     int
		wantDecimals  int
		wantMultiples int
		wantMode      Mode
	}{
		{"defaults", 0, 1, 0, 1, ModeMultiples},
		{"negative decimals", -3, 5, 0, 5, ModeMultiples},
		{"zero multiples", 0, 0, 0, 1, ModeMultiples},
		{"negative multiples", 0, -4, 0, 1, ModeMultiples},
		{"decimals wins", 2, 10, 2, 10, ModeDecimals},
		{"precision capped", 40, 1, MaxDecimals, 1, ModeDecimals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New(tt.decimals, tt.multiples)
			assert.Equal(t, tt.wantDecimals, q.Decimals())
			assert.Equal(t, tt.wantMultiples, q.Multiples())
			assert.Equal(t, tt.wantMode, q.Mode())
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "multiples", ModeMultiples.String())
	assert.Equal(t, "decimals", ModeDecimals.String())
	assert.Equal(t, "unknown", Mode(9).String())
}

func TestMultiples(t *testing.T) {
	q := New(0, 5)

	assert.Equal(t, 10.0, q.Round(12.4))
	assert.Equal(t, 15.0, q.Round(12.5))
	assert.Equal(t, 10.0, q.Floor(14.9))
	assert.Equal(t, 15.0, q.Ceil(10.1))
	assert.Equal(t, -10.0, q.Round(-12.4))
	assert.Equal(t, 5.0, q.Step())
}

func TestDecimals(t *testing.T) {
	q := New(2, 7)

	// Multiples is ignored once decimals are set.
	assert.Equal(t, 3.14, q.Round(3.14159))
	assert.Equal(t, 3.14, q.Floor(3.149))
	assert.Equal(t, 3.15, q.Ceil(3.141))
	assert.Equal(t, 0.01, q.Step())
}

func TestFloorOnGridValue(t *testing.T) {
	q := New(2, 1)

	// 0.29 * 100 is 28.999999999999996 in binary floating point.
	assert.Equal(t, 0.29, q.Floor(0.29))
	assert.Equal(t, 0.29, q.Ceil(0.29))

	m := New(0, 3)
	assert.Equal(t, 9.0, m.Floor(9))
}

func TestOnGridTolerance(t *testing.T) {
	q := New(0, 1)

	// Within the tolerance the grid point wins, even past the input.
	assert.Equal(t, 3.0, q.Floor(2.9999999999))
	assert.Equal(t, 3.0, q.Ceil(3.0000000001))

	// Outside it the usual direction holds.
	assert.Equal(t, 2.0, q.Floor(2.9999))
	assert.Equal(t, 4.0, q.Ceil(3.0001))
}

func TestNonZero(t *testing.T) {
	dec := New(2, 1)
	assert.Equal(t, 0.01, dec.CeilNonZero(0))
	assert.Equal(t, 0.01, dec.RoundNonZero(0.004))
	assert.Equal(t, 0.01, dec.FloorNonZero(0.009))
	assert.Equal(t, 0.0, dec.Round(0.004))

	mul := New(0, 4)
	assert.Equal(t, 4.0, mul.RoundNonZero(1))
	assert.Equal(t, 4.0, mul.FloorNonZero(3.9))
	assert.Equal(t, 8.0, mul.CeilNonZero(4.1))
}

func TestNegativeZeroNormalized(t *testing.T) {
	q := New(0, 1)
	v := q.Round(-0.2)
	require.Equal(t, 0.0, v)
	assert.False(t, math.Signbit(v), "expected +0, got -0")
}

func TestNonFinitePassThrough(t *testing.T) {
	q := New(1, 1)
	assert.True(t, math.IsNaN(q.Round(math.NaN())))
	assert.True(t, math.IsInf(q.Floor(math.Inf(1)), 1))
	assert.True(t, math.IsInf(q.CeilNonZero(math.Inf(-1)), -1))
}

func TestRoundIdempotent(t *testing.T) {
	quantizers := []Quantizer{
		New(0, 1), New(0, 3), New(0, 10),
		New(1, 1), New(2, 1), New(3, 1), New(6, 1),
	}
	inputs := []float64{
		0, 0.1, 0.29, 1.005, 2.675, 3.14159, -7.777, 12.5, 99.999,
		1234.5678, -0.0049, 1e6 + 0.3, 42,
	}

	for _, q := range quantizers {
		for _, x := range inputs {
			once := q.Round(x)
			assert.Equal(t, once, q.Round(once), "Round not idempotent for %v (decimals=%d multiples=%d)", x, q.Decimals(), q.Multiples())
			assert.Equal(t, q.Floor(x), q.Floor(q.Floor(x)), "Floor not idempotent for %v", x)
			assert.Equal(t, q.Ceil(x), q.Ceil(q.Ceil(x)), "Ceil not idempotent for %v", x)
		}
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, New(0, 2).Equal(New(-1, 2)))
	assert.True(t, New(2, 1).Equal(New(2, 9)))
	assert.False(t, New(2, 1).Equal(New(3, 1)))
	assert.False(t, New(0, 2).Equal(New(1, 2)))
}
