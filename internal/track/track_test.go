package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/multislider/internal/quantize"
)

func TestOffsetEnds(t *testing.T) {
	m := Mapper{TrackWidth: 200, HandleWidth: 10, MinValue: 0, MaxValue: 100}

	assert.Equal(t, -95.0, m.Offset(0))
	assert.Equal(t, 0.0, m.Offset(50))
	assert.Equal(t, 95.0, m.Offset(100))
}

func TestOffsetDegenerate(t *testing.T) {
	m := Mapper{TrackWidth: 100, HandleWidth: 20, MinValue: 5, MaxValue: 5}

	off := m.Offset(5)
	assert.False(t, math.IsNaN(off))
	assert.Equal(t, -40.0, off)
}

func TestBounds(t *testing.T) {
	m := Mapper{TrackWidth: 100, HandleWidth: 10}
	lo, hi := m.Bounds()
	assert.Equal(t, -45.0, lo)
	assert.Equal(t, 45.0, hi)

	wide := Mapper{TrackWidth: 10, HandleWidth: 30}
	lo, hi = wide.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)
}

func TestValueClampsPointer(t *testing.T) {
	q := quantize.New(0, 1)
	m := Mapper{TrackWidth: 110, HandleWidth: 10, MinValue: 0, MaxValue: 100}

	v, ok := m.Value(-1000, q)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	v, ok = m.Value(1000, q)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)

	v, ok = m.Value(0, q)
	require.True(t, ok)
	assert.Equal(t, 50.0, v)
}

func TestValueQuantizes(t *testing.T) {
	m := Mapper{TrackWidth: 110, HandleWidth: 10, MinValue: 0, MaxValue: 100}

	v, ok := m.Value(-38, quantize.New(0, 5))
	require.True(t, ok)
	// -38 -> 12 -> nearest multiple of 5.
	assert.Equal(t, 10.0, v)

	v, ok = m.Value(-38, nil)
	require.True(t, ok)
	assert.Equal(t, 12.0, v)
}

func TestValueDegenerate(t *testing.T) {
	q := quantize.New(0, 1)

	_, ok := Mapper{TrackWidth: 100, HandleWidth: 10, MinValue: 3, MaxValue: 3}.Value(10, q)
	assert.False(t, ok, "degenerate domain must not move")

	_, ok = Mapper{TrackWidth: 10, HandleWidth: 10, MinValue: 0, MaxValue: 1}.Value(0, q)
	assert.False(t, ok, "no travel must not move")

	_, ok = Mapper{TrackWidth: 100, HandleWidth: 10, MinValue: 0, MaxValue: 1}.Value(math.NaN(), q)
	assert.False(t, ok, "NaN pointer must not move")
}

func TestRoundTrip(t *testing.T) {
	configs := []struct {
		q        quantize.Quantizer
		min, max float64
		track    float64
		handle   float64
	}{
		{quantize.New(0, 1), 0, 100, 300, 12},
		{quantize.New(0, 5), -50, 50, 160, 4},
		{quantize.New(2, 1), 0, 1, 500, 20},
		{quantize.New(1, 1), 10, 20, 90, 6},
	}

	for _, c := range configs {
		m := Mapper{TrackWidth: c.track, HandleWidth: c.handle, MinValue: c.min, MaxValue: c.max}
		step := c.q.Step()
		for i := 0; i <= 20; i++ {
			v := c.min + (c.max-c.min)*float64(i)/20
			got, ok := m.Value(m.Offset(v), c.q)
			require.True(t, ok)
			assert.InDelta(t, c.q.Round(v), got, step, "round trip of %v", v)
		}
	}
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 20.0, Capacity(200, 0, 100, 10))
	assert.Equal(t, 100.0, Capacity(200, 0, 10, 10))
	assert.Equal(t, 100.0, Capacity(200, 0, 10, 0))
}
