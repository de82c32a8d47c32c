// Package config provides the configuration system for pixed.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Overrides  │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← PIXED_CANVAS_WIDTH=64
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/pixed/pixed.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Values are addressed by dot-separated paths such as "canvas.width".
// Typed section accessors (Canvas, Palette, Logging, Server, Export) return
// snapshot structs.
//
// When watching is enabled the config file is re-read after every change and
// OnReload handlers run with the new values in place.
//
// # Sub-packages
//
//   - loader: TOML and environment variable sources
//   - watcher: fsnotify-based file watching
package config
