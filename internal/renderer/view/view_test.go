package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/multislider/internal/renderer/backend"
	"github.com/dshills/multislider/internal/slider"
)

func newTestView(t *testing.T, values ...float64) (*View, *backend.NullBackend, *slider.Set) {
	t.Helper()
	b := backend.NewNullBackend(60, 12)
	require.NoError(t, b.Init())

	set, err := slider.New(slider.DefaultRangeConfig())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Width = 21
	v := New(b, set, opts)
	width := v.Layout(60, 12)
	require.NoError(t, set.SetTrackWidth(float64(width)))

	for _, val := range values {
		_, err := set.AddHandleAt(val)
		require.NoError(t, err)
	}
	return v, b, set
}

func runeAt(s string, i int) rune {
	r := []rune(s)
	if i < 0 || i >= len(r) {
		return 0
	}
	return r[i]
}

func TestLayout(t *testing.T) {
	v, _, _ := newTestView(t)

	left, row, width := v.Geometry()
	assert.Equal(t, 19, left)
	assert.Equal(t, 6, row)
	assert.Equal(t, 21, width)

	// Without a fixed width the track fills the screen minus margins.
	v.opts.Width = 0
	assert.Equal(t, 56, v.Layout(60, 12))
	left, _, _ = v.Geometry()
	assert.Equal(t, 2, left)

	// A fixed width never exceeds the screen.
	v.opts.Width = 500
	assert.Equal(t, 36, v.Layout(40, 3))
	_, row, _ = v.Geometry()
	assert.Equal(t, 1, row)
}

func TestPointerX(t *testing.T) {
	v, _, _ := newTestView(t)

	x, ok := v.PointerX(19, 6)
	assert.True(t, ok)
	assert.Equal(t, -10.0, x)

	x, ok = v.PointerX(39, 6)
	assert.True(t, ok)
	assert.Equal(t, 10.0, x)

	_, ok = v.PointerX(18, 6)
	assert.False(t, ok, "left of the track")
	_, ok = v.PointerX(40, 6)
	assert.False(t, ok, "right of the track")
	x, ok = v.PointerX(29, 5)
	assert.False(t, ok, "off the track row")
	assert.Equal(t, 0.0, x, "column still maps when off the row")

	for col := 19; col <= 39; col++ {
		px, _ := v.PointerX(col, 6)
		assert.Equal(t, col, v.Column(px), "column %d", col)
	}
	assert.Equal(t, 19, v.Column(-100))
	assert.Equal(t, 39, v.Column(100))
}

func TestPointerXSelectsHandle(t *testing.T) {
	v, _, set := newTestView(t, 0, 50, 100)

	for col, want := range map[int]float64{19: 0, 29: 50, 39: 100} {
		px, ok := v.PointerX(col, 6)
		require.True(t, ok)
		id, hit := set.HandleAt(px)
		require.True(t, hit, "column %d", col)
		got, err := set.Value(id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %d", col)
	}

	px, _ := v.PointerX(24, 6)
	_, hit := set.HandleAt(px)
	assert.False(t, hit, "free track")
}

func TestDraw(t *testing.T) {
	v, b, set := newTestView(t, 0, 50, 100)
	v.SetMessage("hello")
	v.Draw()

	assert.Equal(t, 1, b.ShowCount())

	track := b.Row(6)
	for _, col := range []int{19, 29, 39} {
		assert.Equal(t, glyphHandle, runeAt(track, col), "handle at column %d", col)
	}
	assert.Equal(t, glyphTrack, runeAt(track, 20))
	assert.Equal(t, ' ', runeAt(track, 18))
	assert.Equal(t, ' ', runeAt(track, 40))

	labels := b.Row(5)
	assert.Equal(t, '0', runeAt(labels, 19))
	assert.Equal(t, "50", string([]rune(labels)[28:30]))
	assert.Equal(t, "100", string([]rune(labels)[38:41]))

	assert.Contains(t, b.Row(0), "handles 3")
	assert.Contains(t, b.Row(9), "hello")
	assert.Contains(t, b.Row(11), "q: quit")

	// The dragged handle is highlighted.
	require.NoError(t, set.BeginDrag(set.At(1).ID()))
	v.Draw()
	assert.Equal(t, DefaultTheme().Active, b.GetCell(29, 6).Style)
	assert.Equal(t, DefaultTheme().Handle, b.GetCell(19, 6).Style)
}

func TestDrawWideHandles(t *testing.T) {
	v, b, set := newTestView(t, 50)
	require.NoError(t, set.SetMinWidth(5))
	v.Draw()

	// Travel shrinks to 16, so value 50 stays centred and covers 5 cells.
	track := b.Row(6)
	for col := 27; col <= 31; col++ {
		assert.Equal(t, glyphHandle, runeAt(track, col), "column %d", col)
	}
	assert.Equal(t, glyphTrack, runeAt(track, 26))
	assert.Equal(t, glyphTrack, runeAt(track, 32))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3", formatValue(3, 0))
	assert.Equal(t, "3.14", formatValue(3.14159, 2))
	assert.Equal(t, "-1", formatValue(-1, -2))
}
