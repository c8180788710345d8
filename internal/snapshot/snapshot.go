// Package snapshot exports slider state as JSON and restores it.
//
// A snapshot holds the range configuration, the track width and the ordered
// handle values with their offsets:
//
//	{"version":1,"config":{"min_limit":0,...},"track_width":101,
//	 "handles":[{"value":20,"offset":-30},{"value":80,"offset":30}]}
//
// Handle ids are not part of a snapshot; restored handles get new ones.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/multislider/internal/slider"
)

// Version is the snapshot format version written by Export.
const Version = 1

var (
	// ErrInvalidJSON is returned when a snapshot is not valid JSON.
	ErrInvalidJSON = errors.New("snapshot is not valid JSON")

	// ErrVersion is returned for snapshots of an unknown format version.
	ErrVersion = errors.New("unsupported snapshot version")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("snapshot field missing")
)

// configFields maps snapshot keys to RangeConfig fields.
var configFields = []struct {
	key string
	get func(*slider.RangeConfig) *float64
}{
	{"min_limit", func(c *slider.RangeConfig) *float64 { return &c.MinLimit }},
	{"max_limit", func(c *slider.RangeConfig) *float64 { return &c.MaxLimit }},
	{"min_value", func(c *slider.RangeConfig) *float64 { return &c.MinValue }},
	{"max_value", func(c *slider.RangeConfig) *float64 { return &c.MaxValue }},
	{"min_width", func(c *slider.RangeConfig) *float64 { return &c.MinWidth }},
	{"min_distance", func(c *slider.RangeConfig) *float64 { return &c.MinDistance }},
}

// Export returns the state of set as compact JSON.
func Export(set *slider.Set) (string, error) {
	cfg := set.Config()

	doc, err := sjson.Set("", "version", Version)
	if err != nil {
		return "", err
	}

	for _, f := range configFields {
		if doc, err = sjson.Set(doc, "config."+f.key, *f.get(&cfg)); err != nil {
			return "", fmt.Errorf("snapshot config.%s: %w", f.key, err)
		}
	}
	if doc, err = sjson.Set(doc, "config.decimals", cfg.Decimals); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "config.multiples", cfg.Multiples); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "track_width", set.TrackWidth()); err != nil {
		return "", err
	}

	if doc, err = sjson.SetRaw(doc, "handles", "[]"); err != nil {
		return "", err
	}
	for i := range set.Len() {
		h := set.At(i)
		if doc, err = sjson.Set(doc, fmt.Sprintf("handles.%d.value", i), h.Value()); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, fmt.Sprintf("handles.%d.offset", i), h.Offset()); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// Pretty returns an indented copy of a snapshot.
func Pretty(doc string) string {
	return string(pretty.Pretty([]byte(doc)))
}

// State is a decoded snapshot.
type State struct {
	Config     slider.RangeConfig
	TrackWidth float64
	Values     []float64
}

// Parse decodes and validates a snapshot. Config fields that are absent keep
// their defaults; the version and track width are required.
func Parse(doc string) (State, error) {
	if !gjson.Valid(doc) {
		return State{}, ErrInvalidJSON
	}
	root := gjson.Parse(doc)

	version := root.Get("version")
	if !version.Exists() {
		return State{}, fmt.Errorf("%w: version", ErrMissingField)
	}
	if version.Int() != Version {
		return State{}, fmt.Errorf("%w: %s", ErrVersion, version.Raw)
	}

	st := State{Config: slider.DefaultRangeConfig()}
	for _, f := range configFields {
		if v := root.Get("config." + f.key); v.Exists() {
			*f.get(&st.Config) = v.Float()
		}
	}
	if v := root.Get("config.decimals"); v.Exists() {
		st.Config.Decimals = int(v.Int())
	}
	if v := root.Get("config.multiples"); v.Exists() {
		st.Config.Multiples = int(v.Int())
	}

	tw := root.Get("track_width")
	if !tw.Exists() {
		return State{}, fmt.Errorf("%w: track_width", ErrMissingField)
	}
	st.TrackWidth = tw.Float()

	for _, v := range root.Get("handles.#.value").Array() {
		st.Values = append(st.Values, v.Float())
	}

	if err := st.Config.Validate(); err != nil {
		return State{}, err
	}
	return st, nil
}

// Restore replaces the configuration, track width and handles of set with
// those of doc. The set is left untouched when doc does not parse. Offsets
// in doc are ignored; they are derived from the restored values.
func Restore(set *slider.Set, doc string) error {
	st, err := Parse(doc)
	if err != nil {
		return err
	}
	if set.Drag().Active() {
		return slider.ErrDragActive
	}

	for _, id := range set.OrderedHandles() {
		if err := set.RemoveHandle(id); err != nil {
			return err
		}
	}
	if err := set.Apply(st.Config); err != nil {
		return err
	}
	if err := set.SetTrackWidth(st.TrackWidth); err != nil {
		return err
	}
	for _, v := range st.Values {
		if _, err := set.AddHandleAt(v); err != nil {
			return err
		}
	}
	// Insertion may relax MinDistance when the range is overfull.
	return set.Apply(st.Config)
}
