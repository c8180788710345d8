// Package config provides the configuration system for multislider.
//
// Configuration is assembled from layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← MULTISLIDER_SLIDER_MIN_DISTANCE=5
//	├─────────────────────────────┤
//	│  2. Config File             │  ← slider.toml / slider.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML/YAML file loading with @include, environment variables
//   - watcher: fsnotify-based file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load("slider.toml")
//	if err != nil {
//	    return err
//	}
//	set, err := slider.New(cfg.RangeConfig())
//
// # File Format
//
//	handles = [10, 50, 90]
//
//	[slider]
//	min_limit = 0
//	max_limit = 100
//	min_value = 0
//	max_value = 100
//	min_width = 1
//	min_distance = 5
//	decimals = 0
//	multiples = 1
//
//	[track]
//	width = 0    # columns; 0 fills the terminal
//	margin = 2
//
//	[logging]
//	level = "info"
//	file = ""
//	json = false
package config
