package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sources/decompiled", cfg.SourceDir)
	assert.Equal(t, []string{".as"}, cfg.Extensions)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.File.Enabled)
	assert.False(t, cfg.Trace.ParseSteps)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netcode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source_dir: client/packets
workers: 2
filter: [class_412.as]
output:
  path: out/packets.yaml
  format: yaml
log:
  level: debug
trace:
  parse_steps: true
  emitted_definitions: true
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "client/packets", cfg.SourceDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"class_412.as"}, cfg.Filter)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Trace.ParseSteps)
	assert.True(t, cfg.Trace.EmittedDefinitions)
	assert.False(t, cfg.Trace.SourceLines)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("NETCODE_LOG_LEVEL", "warn")
	t.Setenv("NETCODE_WORKERS", "3")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"no extensions", func(c *Config) { c.Extensions = nil }, true},
		{"file log without path", func(c *Config) { c.Log.File = FileLogConfig{Enabled: true} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Extensions: []string{".as"},
				Output:     OutputConfig{Format: FormatJSON},
				Log:        LogConfig{Level: "info"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Positive(t, cfg.Workers)
			}
		})
	}
}
