package mouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/multislider/internal/slider"
)

// rowTrack lays a 101-column track on row 0 with its centre at column 50.
type rowTrack struct{}

func (rowTrack) PointerX(x, y int) (float64, bool) {
	return float64(x - 50), y == 0 && x >= 0 && x <= 100
}

// newTestSet returns a set whose values equal their screen columns.
func newTestSet(t *testing.T, values ...float64) (*slider.Set, []slider.HandleID) {
	t.Helper()
	cfg := slider.DefaultRangeConfig()
	cfg.MinDistance = 10
	set, err := slider.New(cfg, slider.WithTrackWidth(101))
	require.NoError(t, err)

	ids := make([]slider.HandleID, 0, len(values))
	for _, v := range values {
		id, err := set.AddHandleAt(v)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return set, ids
}

func press(x, y int, b Button, ts time.Time) Event {
	return Event{Position: Position{X: x, Y: y}, Button: b, Action: ActionPress, Timestamp: ts}
}

func drag(x, y int) Event {
	return Event{Position: Position{X: x, Y: y}, Button: ButtonLeft, Action: ActionDrag}
}

func release(x, y int, b Button) Event {
	return Event{Position: Position{X: x, Y: y}, Button: b, Action: ActionRelease}
}

func TestHandlerDragLifecycle(t *testing.T) {
	set, ids := newTestSet(t, 20, 60)
	h := NewHandler(set, rowTrack{}, DefaultConfig())

	res, err := h.Handle(press(20, 0, ButtonLeft, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, Result{Gesture: GestureDragStart, Handle: ids[0]}, res)
	assert.True(t, h.IsDragging())
	assert.True(t, set.Drag().Active())

	res, err = h.Handle(drag(35, 0))
	require.NoError(t, err)
	assert.Equal(t, GestureDragMove, res.Gesture)
	assert.Equal(t, []float64{35, 60}, set.Values())

	// Off the track row the column still steers the drag.
	_, err = h.Handle(drag(70, 4))
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 60}, set.Values(), "drag stops at neighbor minus distance")

	state := h.DragState()
	assert.Equal(t, Position{X: 20, Y: 0}, state.StartPos)
	assert.Equal(t, Position{X: 70, Y: 4}, state.CurrentPos)

	res, err = h.Handle(release(70, 4, ButtonLeft))
	require.NoError(t, err)
	assert.Equal(t, Result{Gesture: GestureDragEnd, Handle: ids[0]}, res)
	assert.False(t, h.IsDragging())
	assert.False(t, set.Drag().Active())
	assert.Equal(t, []float64{50, 60}, set.Values())
}

func TestHandlerRightPressRemoves(t *testing.T) {
	set, ids := newTestSet(t, 20, 60)
	h := NewHandler(set, rowTrack{}, DefaultConfig())

	res, err := h.Handle(press(60, 0, ButtonRight, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, Result{Gesture: GestureRemove, Handle: ids[1]}, res)
	assert.Equal(t, []float64{20}, set.Values())
	assert.False(t, set.Drag().Active(), "right press never starts a drag")

	res, err = h.Handle(press(90, 0, ButtonRight, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, GestureNone, res.Gesture, "right press on free track is ignored")
}

func TestHandlerRemoveDisabled(t *testing.T) {
	set, _ := newTestSet(t, 20)
	cfg := DefaultConfig()
	cfg.EnableRemove = false
	h := NewHandler(set, rowTrack{}, cfg)

	res, err := h.Handle(press(20, 0, ButtonRight, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, GestureNone, res.Gesture)
	assert.Equal(t, 1, set.Len())
}

func TestHandlerDoubleClickInserts(t *testing.T) {
	set, _ := newTestSet(t, 20)
	h := NewHandler(set, rowTrack{}, DefaultConfig())
	t0 := time.Now()

	res, err := h.Handle(press(80, 0, ButtonLeft, t0))
	require.NoError(t, err)
	assert.Equal(t, GestureNone, res.Gesture, "single click on free track does nothing")
	_, _ = h.Handle(release(80, 0, ButtonLeft))

	res, err = h.Handle(press(80, 0, ButtonLeft, t0.Add(100*time.Millisecond)))
	require.NoError(t, err)
	assert.Equal(t, GestureInsert, res.Gesture)
	assert.NotEqual(t, slider.NoHandle, res.Handle)
	assert.Equal(t, []float64{20, 80}, set.Values())
}

func TestHandlerSlowClicksDoNotInsert(t *testing.T) {
	set, _ := newTestSet(t, 20)
	h := NewHandler(set, rowTrack{}, DefaultConfig())
	t0 := time.Now()

	_, _ = h.Handle(press(80, 0, ButtonLeft, t0))
	res, err := h.Handle(press(80, 0, ButtonLeft, t0.Add(time.Second)))
	require.NoError(t, err)
	assert.Equal(t, GestureNone, res.Gesture)
	assert.Equal(t, 1, set.Len())
}

func TestHandlerDoubleClickOnHandleDrags(t *testing.T) {
	set, ids := newTestSet(t, 20)
	h := NewHandler(set, rowTrack{}, DefaultConfig())
	t0 := time.Now()

	for i := range 2 {
		res, err := h.Handle(press(20, 0, ButtonLeft, t0.Add(time.Duration(i)*50*time.Millisecond)))
		require.NoError(t, err)
		assert.Equal(t, Result{Gesture: GestureDragStart, Handle: ids[0]}, res)
		_, err = h.Handle(release(20, 0, ButtonLeft))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, set.Len())
}

func TestHandlerIgnoresOffTrack(t *testing.T) {
	set, _ := newTestSet(t, 20)
	h := NewHandler(set, rowTrack{}, DefaultConfig())

	res, err := h.Handle(press(20, 3, ButtonLeft, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, GestureNone, res.Gesture)

	res, err = h.Handle(drag(40, 0))
	require.NoError(t, err)
	assert.Equal(t, GestureNone, res.Gesture, "motion without a grabbed handle is ignored")
	assert.Equal(t, []float64{20}, set.Values())
}

func TestHandlerSurfacesEngineErrors(t *testing.T) {
	set, ids := newTestSet(t, 20, 60)
	h := NewHandler(set, rowTrack{}, DefaultConfig())

	require.NoError(t, set.BeginDrag(ids[1]))
	res, err := h.Handle(press(20, 0, ButtonLeft, time.Now()))
	assert.ErrorIs(t, err, slider.ErrDragActive)
	assert.Equal(t, GestureDragStart, res.Gesture)
	assert.False(t, h.IsDragging())
}

func TestHandlerReset(t *testing.T) {
	set, _ := newTestSet(t, 20)
	h := NewHandler(set, rowTrack{}, DefaultConfig())

	_, err := h.Handle(press(20, 0, ButtonLeft, time.Now()))
	require.NoError(t, err)
	h.Reset()
	assert.False(t, h.IsDragging())

	res, err := h.Handle(release(20, 0, ButtonLeft))
	require.NoError(t, err)
	assert.Equal(t, GestureNone, res.Gesture)
}

func TestDecoder(t *testing.T) {
	var d Decoder
	ts := time.Now()

	steps := []struct {
		held   Button
		action Action
		button Button
	}{
		{ButtonNone, ActionMove, ButtonNone},
		{ButtonLeft, ActionPress, ButtonLeft},
		{ButtonLeft, ActionDrag, ButtonLeft},
		{ButtonWheelUp, ActionPress, ButtonWheelUp},
		{ButtonLeft, ActionDrag, ButtonLeft},
		{ButtonNone, ActionRelease, ButtonLeft},
		{ButtonRight, ActionPress, ButtonRight},
		{ButtonNone, ActionRelease, ButtonRight},
	}

	for i, step := range steps {
		ev := d.Decode(i, 0, step.held, ts)
		assert.Equal(t, step.action, ev.Action, "step %d", i)
		assert.Equal(t, step.button, ev.Button, "step %d", i)
		assert.Equal(t, Position{X: i}, ev.Position)
	}
	assert.Equal(t, ButtonNone, d.Held())
}

func TestButtonString(t *testing.T) {
	tests := []struct {
		button   Button
		expected string
	}{
		{ButtonNone, "none"},
		{ButtonLeft, "left"},
		{ButtonMiddle, "middle"},
		{ButtonRight, "right"},
		{ButtonWheelUp, "wheel-up"},
		{ButtonWheelDown, "wheel-down"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.button.String(); got != tt.expected {
				t.Errorf("Button.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionAndGestureString(t *testing.T) {
	assert.Equal(t, "drag", ActionDrag.String())
	assert.Equal(t, "none", Action(99).String())
	assert.Equal(t, "insert", GestureInsert.String())
	assert.Equal(t, "drag-end", GestureDragEnd.String())
	assert.Equal(t, "none", GestureNone.String())
}

func TestPositionDistance(t *testing.T) {
	p1 := Position{X: 0, Y: 0}
	p2 := Position{X: 3, Y: 4}

	if d := p1.Distance(p2); d != 7 {
		t.Errorf("Distance = %d, want 7", d)
	}
	if d := p2.Distance(p1); d != 7 {
		t.Errorf("Distance (reverse) = %d, want 7", d)
	}
}

func TestClickTrackerDoubleClickWraps(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 1)
	now := time.Now()
	pos := Position{X: 10, Y: 0}

	want := []int{1, 2, 1}
	for i, w := range want {
		if got := tracker.recordClick(pos, now.Add(time.Duration(i)*100*time.Millisecond)); got != w {
			t.Errorf("click %d: count = %d, want %d", i+1, got, w)
		}
	}
}

func TestClickTrackerDistanceResets(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 1)
	now := time.Now()

	tracker.recordClick(Position{X: 10, Y: 0}, now)
	if got := tracker.recordClick(Position{X: 14, Y: 0}, now.Add(50*time.Millisecond)); got != 1 {
		t.Errorf("count = %d, want 1 for distant click", got)
	}
}

func TestClickTrackerClockSkew(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 1)
	now := time.Now()
	pos := Position{X: 10, Y: 0}

	tracker.recordClick(pos, now)
	if got := tracker.recordClick(pos, now.Add(-time.Millisecond)); got != 1 {
		t.Errorf("count = %d, want 1 for earlier timestamp", got)
	}
}

func TestClickTypeString(t *testing.T) {
	assert.Equal(t, "single", ClickSingle.String())
	assert.Equal(t, "double", ClickDouble.String())
	assert.Equal(t, "unknown", ClickType(0).String())
}
