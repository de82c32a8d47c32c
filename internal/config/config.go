package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/pixed/internal/config/loader"
	"github.com/dshills/pixed/internal/config/watcher"
)

// Config provides unified access to the pixed configuration.
// It manages loading, layering, live reloading, and change notification.
type Config struct {
	mu sync.RWMutex

	// Sources
	fs        loader.FileSystem
	path      string
	envPrefix string
	overrides map[string]any

	// Merged configuration
	merged map[string]any

	// File watcher for live reload
	enableWatcher bool
	watcher       *watcher.Watcher

	handlers []func()
	onError  func(error)
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the configuration file path.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFS sets the file system used to read the configuration file.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix.
// An empty prefix disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithErrorHandler sets a callback for errors raised during live reload.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.onError = fn
	}
}

// New creates a new Config instance with the given options.
// The returned Config serves built-in defaults until Load is called.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		overrides: make(map[string]any),
		merged:    defaults(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// DefaultPath returns the user configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pixed", "pixed.toml")
}

// Load reads all configuration sources and, if enabled, starts watching the
// configuration file.
func (c *Config) Load(_ context.Context) error {
	if err := c.Reload(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enableWatcher || c.path == "" || c.watcher != nil {
		return nil
	}

	w, err := watcher.New(watcher.WithErrorHandler(c.reportError))
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	if err := w.Watch(c.path); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	w.OnChange(c.handleFileChange)
	c.watcher = w
	return nil
}

// Reload re-reads the file and environment layers and rebuilds the merged
// configuration. On error the previous configuration stays in effect.
func (c *Config) Reload() error {
	c.mu.RLock()
	fsys, path, prefix := c.fs, c.path, c.envPrefix
	overrides := cloneMap(c.overrides)
	c.mu.RUnlock()

	merged := defaults()

	fileCfg, err := loader.NewTOMLLoaderWithFS(fsys, path).Load()
	if err != nil {
		return err
	}
	merged = loader.DeepMerge(merged, fileCfg)

	if prefix != "" {
		envCfg, err := loader.NewEnvLoader(prefix).Load()
		if err != nil {
			return err
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	merged = loader.DeepMerge(merged, overrides)

	c.mu.Lock()
	c.merged = merged
	c.mu.Unlock()
	return nil
}

// OnReload registers a handler called after every successful live reload.
func (c *Config) OnReload(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

// Close stops watching the configuration file.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.Close()
	}
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Set records a command-line override. Overrides win over every other layer
// and survive reloads.
func (c *Config) Set(path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	setPath(c.overrides, parts, value)
	setPath(c.merged, parts, value)
	return nil
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetStringSlice returns a string slice value at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: "[]any"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// handleFileChange reloads configuration when the file changes.
func (c *Config) handleFileChange(ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		// Keep the last good configuration until the file reappears.
		return
	}

	if err := c.Reload(); err != nil {
		c.reportError(err)
		return
	}

	c.mu.RLock()
	handlers := make([]func(), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
}

func (c *Config) reportError(err error) {
	c.mu.RLock()
	fn := c.onError
	c.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// splitPath splits a dot-separated path, rejecting empty segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil
		}
	}
	return parts
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map, creating intermediate maps.
func setPath(m map[string]any, parts []string, value any) {
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if m, ok := v.(map[string]any); ok {
			dst[k] = cloneMap(m)
			continue
		}
		dst[k] = v
	}
	return dst
}

// typeName returns a human-readable type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}
