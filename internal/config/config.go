package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/dshills/multislider/internal/config/loader"
	"github.com/dshills/multislider/internal/logging"
	"github.com/dshills/multislider/internal/slider"
)

// Config is the complete multislider configuration.
type Config struct {
	Slider  SliderConfig
	Track   TrackConfig
	Logging LoggingConfig

	// Handles are the initial handle values, inserted in order.
	Handles []float64

	// Path is the file the configuration was read from, if any.
	Path string
}

// SliderConfig holds the engine range configuration.
type SliderConfig struct {
	MinLimit    float64
	MaxLimit    float64
	MinValue    float64
	MaxValue    float64
	MinWidth    float64
	MinDistance float64
	Decimals    int
	Multiples   int
}

// TrackConfig holds terminal track layout settings.
type TrackConfig struct {
	// Width is the track width in columns; 0 fills the terminal.
	Width int

	// Margin is the number of columns kept free on each side.
	Margin int
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// File receives log output; empty discards it while the terminal UI runs.
	File string

	// JSON selects the JSON formatter.
	JSON bool
}

// Default returns the built-in configuration.
func Default() Config {
	rc := slider.DefaultRangeConfig()
	return Config{
		Slider: SliderConfig{
			MinLimit:    rc.MinLimit,
			MaxLimit:    rc.MaxLimit,
			MinValue:    rc.MinValue,
			MaxValue:    rc.MaxValue,
			MinWidth:    rc.MinWidth,
			MinDistance: rc.MinDistance,
			Decimals:    rc.Decimals,
			Multiples:   rc.Multiples,
		},
		Track: TrackConfig{
			Width:  0,
			Margin: 2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// RangeConfig converts the slider section for the engine.
func (c Config) RangeConfig() slider.RangeConfig {
	s := c.Slider
	return slider.RangeConfig{
		MinLimit:    s.MinLimit,
		MaxLimit:    s.MaxLimit,
		MinValue:    s.MinValue,
		MaxValue:    s.MaxValue,
		MinWidth:    s.MinWidth,
		MinDistance: s.MinDistance,
		Decimals:    s.Decimals,
		Multiples:   s.Multiples,
	}
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Map returns the configuration as a nested map using file keys.
func (c Config) Map() map[string]any {
	handles := make([]any, len(c.Handles))
	for i, v := range c.Handles {
		handles[i] = v
	}
	return map[string]any{
		"slider": map[string]any{
			"min_limit":    c.Slider.MinLimit,
			"max_limit":    c.Slider.MaxLimit,
			"min_value":    c.Slider.MinValue,
			"max_value":    c.Slider.MaxValue,
			"min_width":    c.Slider.MinWidth,
			"min_distance": c.Slider.MinDistance,
			"decimals":     c.Slider.Decimals,
			"multiples":    c.Slider.Multiples,
		},
		"track": map[string]any{
			"width":  c.Track.Width,
			"margin": c.Track.Margin,
		},
		"logging": map[string]any{
			"level": c.Logging.Level,
			"file":  c.Logging.File,
			"json":  c.Logging.JSON,
		},
		"handles": handles,
	}
}

// Validate reports every rule c violates as one joined error.
// Settings the engine corrects silently (decimals, multiples, negative
// widths and distances) are not checked here.
func (c Config) Validate() error {
	var errs []error

	if err := c.RangeConfig().Validate(); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "slider",
			Message: "invalid range",
			Value:   fmt.Sprintf("limits [%g, %g] values [%g, %g]", c.Slider.MinLimit, c.Slider.MaxLimit, c.Slider.MinValue, c.Slider.MaxValue),
			Err:     err,
		})
	}
	if c.Track.Width < 0 {
		errs = append(errs, &ValidationError{Path: "track.width", Message: "must not be negative", Value: c.Track.Width})
	}
	if c.Track.Margin < 0 {
		errs = append(errs, &ValidationError{Path: "track.margin", Message: "must not be negative", Value: c.Track.Margin})
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level})
	}
	for i, v := range c.Handles {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("handles[%d]", i), Message: "must be finite", Value: v})
		}
	}

	return errors.Join(errs...)
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs           loader.FileSystem
	envPrefix    string
	includeDepth int
}

// WithFS reads files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix; "" disables the
// environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithIncludeDepth bounds nested @include directives.
func WithIncludeDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.includeDepth = n
		}
	}
}

// Load builds a configuration from defaults, the file at path (skipped when
// path is empty) and the environment, then validates it. The decoded
// configuration is returned alongside any validation error.
func Load(path string, opts ...Option) (Config, error) {
	o := options{
		fs:           loader.DefaultFS(),
		envPrefix:    loader.DefaultEnvPrefix,
		includeDepth: loader.DefaultIncludeDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := Default().Map()

	if path != "" {
		fl, err := loader.ForPath(o.fs, path)
		if err != nil {
			return Config{}, err
		}
		fileCfg, err := fl.LoadWithIncludes(path, o.includeDepth)
		if err != nil {
			return Config{}, err
		}
		if fileCfg == nil {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	if o.envPrefix != "" {
		envCfg, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	cfg, err := Decode(merged)
	if err != nil {
		return Config{}, err
	}
	cfg.Path = path
	return cfg, cfg.Validate()
}

// Decode converts a merged configuration map into a Config. Missing keys
// keep their defaults; mistyped keys are reported together.
func Decode(m map[string]any) (Config, error) {
	cfg := Default()
	d := decoder{m: m}

	d.float("slider.min_limit", &cfg.Slider.MinLimit)
	d.float("slider.max_limit", &cfg.Slider.MaxLimit)
	d.float("slider.min_value", &cfg.Slider.MinValue)
	d.float("slider.max_value", &cfg.Slider.MaxValue)
	d.float("slider.min_width", &cfg.Slider.MinWidth)
	d.float("slider.min_distance", &cfg.Slider.MinDistance)
	d.int("slider.decimals", &cfg.Slider.Decimals)
	d.int("slider.multiples", &cfg.Slider.Multiples)
	d.int("track.width", &cfg.Track.Width)
	d.int("track.margin", &cfg.Track.Margin)
	d.string("logging.level", &cfg.Logging.Level)
	d.string("logging.file", &cfg.Logging.File)
	d.bool("logging.json", &cfg.Logging.JSON)
	d.floats("handles", &cfg.Handles)

	return cfg, errors.Join(d.errs...)
}

type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) fail(path, expected string, v any) {
	d.errs = append(d.errs, &TypeError{Path: path, Expected: expected, Actual: typeName(v)})
}

func (d *decoder) float(path string, dst *float64) {
	v, ok := loader.GetPath(d.m, path)
	if !ok {
		return
	}
	f, ok := toFloat(v)
	if !ok {
		d.fail(path, "number", v)
		return
	}
	*dst = f
}

func (d *decoder) int(path string, dst *int) {
	v, ok := loader.GetPath(d.m, path)
	if !ok {
		return
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		d.fail(path, "int", v)
		return
	}
	*dst = int(f)
}

func (d *decoder) string(path string, dst *string) {
	v, ok := loader.GetPath(d.m, path)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, "string", v)
		return
	}
	*dst = s
}

func (d *decoder) bool(path string, dst *bool) {
	v, ok := loader.GetPath(d.m, path)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(path, "bool", v)
		return
	}
	*dst = b
}

func (d *decoder) floats(path string, dst *[]float64) {
	v, ok := loader.GetPath(d.m, path)
	if !ok {
		return
	}
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []float64:
		*dst = append([]float64(nil), val...)
		return
	default:
		// A single number is a one-handle list.
		if f, ok := toFloat(v); ok {
			*dst = []float64{f}
			return
		}
		d.fail(path, "[]number", v)
		return
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := toFloat(item)
		if !ok {
			d.fail(path, "[]number", v)
			return
		}
		out = append(out, f)
	}
	*dst = out
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
