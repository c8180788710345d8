package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/multislider/internal/slider"
)

func newSet(t *testing.T, cfg slider.RangeConfig, trackWidth float64, values ...float64) *slider.Set {
	t.Helper()
	set, err := slider.New(cfg, slider.WithTrackWidth(trackWidth))
	require.NoError(t, err)
	for _, v := range values {
		_, err := set.AddHandleAt(v)
		require.NoError(t, err)
	}
	return set
}

func TestExport(t *testing.T) {
	set := newSet(t, slider.DefaultRangeConfig(), 101, 80, 20)

	doc, err := Export(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"config": {
			"min_limit": 0, "max_limit": 100,
			"min_value": 0, "max_value": 100,
			"min_width": 1, "min_distance": 1,
			"decimals": 0, "multiples": 1
		},
		"track_width": 101,
		"handles": [
			{"value": 20, "offset": -30},
			{"value": 80, "offset": 30}
		]
	}`, doc)
}

func TestExportEmpty(t *testing.T) {
	set := newSet(t, slider.DefaultRangeConfig(), 100)

	doc, err := Export(set)
	require.NoError(t, err)
	assert.True(t, gjson.Get(doc, "handles").IsArray())
	assert.Equal(t, int64(0), gjson.Get(doc, "handles.#").Int())
}

func TestRoundTrip(t *testing.T) {
	cfg := slider.RangeConfig{
		MinLimit: 0, MaxLimit: 50,
		MinValue: 0, MaxValue: 50,
		MinWidth: 1, MinDistance: 5,
		Decimals: 1, Multiples: 1,
	}
	src := newSet(t, cfg, 201, 10, 22.5, 40)
	doc, err := Export(src)
	require.NoError(t, err)

	dst := newSet(t, slider.DefaultRangeConfig(), 100, 0, 50, 100)
	require.NoError(t, Restore(dst, doc))

	assert.Equal(t, src.Config(), dst.Config())
	assert.Equal(t, 201.0, dst.TrackWidth())
	assert.Equal(t, []float64{10, 22.5, 40}, dst.Values())
	for i := range dst.Len() {
		assert.Equal(t, src.At(i).Offset(), dst.At(i).Offset(), "offset %d", i)
	}
}

func TestRoundTripOverfull(t *testing.T) {
	cfg := slider.DefaultRangeConfig()
	cfg.MaxValue = 20
	src := newSet(t, cfg, 100, 0, 10, 20)
	require.NoError(t, src.SetMinDistance(20))
	require.Equal(t, []float64{0, 0, 20}, src.Values())

	doc, err := Export(src)
	require.NoError(t, err)

	dst := newSet(t, slider.DefaultRangeConfig(), 100, 50)
	require.NoError(t, Restore(dst, doc))

	assert.Equal(t, src.Config(), dst.Config())
	assert.Equal(t, 20.0, dst.Config().MinDistance)
	assert.Equal(t, []float64{0, 0, 20}, dst.Values())
}

func TestRestoreNotifies(t *testing.T) {
	dst := newSet(t, slider.DefaultRangeConfig(), 100, 50)

	var kinds []slider.Kind
	_, err := dst.Subscribe(slider.TopicAll, func(n slider.Notification) {
		kinds = append(kinds, n.Kind)
	})
	require.NoError(t, err)

	doc := `{"version":1,"track_width":100,"handles":[{"value":10},{"value":30}]}`
	require.NoError(t, Restore(dst, doc))

	assert.Equal(t, []slider.Kind{
		slider.KindHandleDestroyed,
		slider.KindHandleCreated,
		slider.KindHandleCreated,
	}, kinds)
}

func TestParsePartialConfig(t *testing.T) {
	st, err := Parse(`{"version":1,"track_width":50,"config":{"min_distance":10},"handles":[{"value":5}]}`)
	require.NoError(t, err)

	want := slider.DefaultRangeConfig()
	want.MinDistance = 10
	assert.Equal(t, want, st.Config)
	assert.Equal(t, 50.0, st.TrackWidth)
	assert.Equal(t, []float64{5}, st.Values)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not json", `{"version":`, ErrInvalidJSON},
		{"no version", `{"track_width":10}`, ErrMissingField},
		{"future version", `{"version":2,"track_width":10}`, ErrVersion},
		{"no track", `{"version":1}`, ErrMissingField},
		{"inverted limits", `{"version":1,"track_width":10,"config":{"min_limit":10,"max_limit":0}}`, slider.ErrInvalidRange},
		{"range outside limits", `{"version":1,"track_width":10,"config":{"max_value":200}}`, slider.ErrOutOfLimits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRestoreLeavesSetOnError(t *testing.T) {
	set := newSet(t, slider.DefaultRangeConfig(), 100, 25, 75)

	err := Restore(set, `{"version":1,"track_width":10,"config":{"min_limit":10,"max_limit":0}}`)
	require.Error(t, err)
	assert.Equal(t, []float64{25, 75}, set.Values())
	assert.Equal(t, 100.0, set.TrackWidth())
}

func TestRestoreDuringDrag(t *testing.T) {
	set := newSet(t, slider.DefaultRangeConfig(), 100, 50)
	require.NoError(t, set.BeginDrag(set.At(0).ID()))

	err := Restore(set, `{"version":1,"track_width":100}`)
	assert.ErrorIs(t, err, slider.ErrDragActive)
	assert.Equal(t, 1, set.Len())
}

func TestPretty(t *testing.T) {
	set := newSet(t, slider.DefaultRangeConfig(), 100, 50)
	doc, err := Export(set)
	require.NoError(t, err)

	out := Pretty(doc)
	assert.True(t, strings.Contains(out, "\n  \"version\": 1"), out)
	assert.JSONEq(t, doc, out)
}
