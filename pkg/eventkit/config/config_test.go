package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/randalmurphal/eventkit/pkg/eventkit/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies Config creation from maps.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

// TestString verifies string extraction with defaults.
func TestString(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"name": "alice"}, "name", "default", "alice"},
		{"key missing", map[string]any{"other": "value"}, "name", "default", "default"},
		{"empty string", map[string]any{"name": ""}, "name", "default", ""},
		{"wrong type int", map[string]any{"name": 123}, "name", "default", "default"},
		{"nil map", nil, "name", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.String(tt.key, tt.defaultVal))
		})
	}
}

// TestInt verifies integer extraction and conversions.
func TestInt(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal int
		want       int
	}{
		{"int value", map[string]any{"n": 8}, "n", 1, 8},
		{"int64 value", map[string]any{"n": int64(8)}, "n", 1, 8},
		{"whole float", map[string]any{"n": 8.0}, "n", 1, 8},
		{"fractional float", map[string]any{"n": 8.5}, "n", 1, 1},
		{"missing key", map[string]any{}, "n", 1, 1},
		{"wrong type", map[string]any{"n": "eight"}, "n", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Int(tt.key, tt.defaultVal))
		})
	}
}

// TestBool verifies boolean extraction.
func TestBool(t *testing.T) {
	cfg := config.New(map[string]any{"on": true, "off": false, "other": "yes"})

	assert.True(t, cfg.Bool("on", false))
	assert.False(t, cfg.Bool("off", true))
	assert.True(t, cfg.Bool("other", true))
	assert.False(t, cfg.Bool("missing", false))
}

// TestDuration verifies duration extraction and conversions.
func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"duration string", map[string]any{"d": "30s"}, "d", time.Second, 30 * time.Second},
		{"int seconds", map[string]any{"d": 5}, "d", time.Second, 5 * time.Second},
		{"float seconds", map[string]any{"d": 1.5}, "d", time.Second, 1500 * time.Millisecond},
		{"bad string", map[string]any{"d": "soon"}, "d", time.Second, time.Second},
		{"missing", map[string]any{}, "d", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Duration(tt.key, tt.defaultVal))
		})
	}
}

// TestSection verifies nested map access.
func TestSection(t *testing.T) {
	cfg := config.New(map[string]any{
		"pool":  map[string]any{"workers": 4},
		"plain": "value",
	})

	assert.Equal(t, 4, cfg.Section("pool").Int("workers", 0))
	assert.Equal(t, 0, cfg.Section("plain").Int("workers", 0))
	assert.Equal(t, 0, cfg.Section("missing").Int("workers", 0))
}

// TestFromYAML verifies YAML parsing into Config.
func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte("pool:\n  workers: 6\n  multiplier: 2\n"))
	require.NoError(t, err)

	pool := config.PoolFromConfig(cfg)
	assert.Equal(t, 6, pool.Workers)
	assert.Equal(t, 2, pool.Multiplier)
}

// TestFromYAMLEmpty verifies an empty document yields a usable empty
// Config with pool sizing falling back to defaults.
func TestFromYAMLEmpty(t *testing.T) {
	cfg, err := config.FromYAML(nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Raw())

	pool := config.PoolFromConfig(cfg)
	assert.Equal(t, 0, pool.Workers)
	assert.Equal(t, 8, pool.Size(8))
}

// TestFromJSON verifies JSON parsing into Config.
func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"pool": {"workers": 3}}`))
	require.NoError(t, err)
	assert.Equal(t, 3, config.PoolFromConfig(cfg).Workers)
}

// TestFromFile verifies extension-based loading.
func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("pool:\n  workers: 2\n"), 0o644))

	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, config.PoolFromConfig(cfg).Workers)

	// Extension matching is case-insensitive.
	upperPath := filepath.Join(dir, "cfg.YML")
	require.NoError(t, os.WriteFile(upperPath, []byte("pool:\n  workers: 5\n"), 0o644))
	cfg, err = config.FromFile(upperPath)
	require.NoError(t, err)
	assert.Equal(t, 5, config.PoolFromConfig(cfg).Workers)

	_, err = config.FromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "cfg.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err = config.FromFile(txtPath)
	assert.Error(t, err)
}

// TestPoolSize verifies the sizing rule: explicit count wins, otherwise
// cores times multiplier, minimum 1.
func TestPoolSize(t *testing.T) {
	tests := []struct {
		name   string
		pool   config.Pool
		numCPU int
		want   int
	}{
		{"explicit workers win", config.Pool{Workers: 4, Multiplier: 8}, 16, 4},
		{"multiplier applied", config.Pool{Multiplier: 2}, 8, 16},
		{"zero multiplier clamped", config.Pool{}, 8, 8},
		{"minimum one", config.Pool{}, 0, 1},
		{"negative multiplier clamped", config.Pool{Multiplier: -3}, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pool.Size(tt.numCPU))
		})
	}
}
