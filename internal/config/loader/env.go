package loader

import (
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultEnvPrefix is the prefix for pixed environment variables.
const DefaultEnvPrefix = "PIXED_"

// EnvLoader loads configuration from environment variables.
//
// PIXED_CANVAS_WIDTH=64 becomes canvas.width; PIXED_EXPORT_CELL_SIZE becomes
// export.cellSize. Explicit mappings take precedence over that rule.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		mapping: map[string]string{
			prefix + "LOG_LEVEL": "logging.level",
			prefix + "LOG_FILE":  "logging.file",
			prefix + "LISTEN":    "server.listen",
		},
		environ: os.Environ,
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}

	if len(config) == 0 {
		return nil, nil
	}
	return config, nil
}

// envToPath converts PIXED_EXPORT_CELL_SIZE to export.cellSize.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return strings.ToLower(parts[0]) + "." + setting
}

// parseValue converts an environment string into the closest TOML type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	// Arrays and tables may be given as JSON.
	if (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && gjson.Valid(s) {
		return normalizeJSON(gjson.Parse(s).Value())
	}

	return s
}

// normalizeJSON converts gjson numbers to int64 where they are integral, so
// values match what the TOML decoder produces.
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case []any:
		for i := range val {
			val[i] = normalizeJSON(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = normalizeJSON(val[k])
		}
		return val
	default:
		return v
	}
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

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
