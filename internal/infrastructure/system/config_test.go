package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load_FileNotExists(t *testing.T) {
	loader := NewConfigLoader()
	cfg, err := loader.Load("/nonexistent/config.yaml")

	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.Overrides)
}

func TestConfigLoader_Load_EmptyPath(t *testing.T) {
	cfg, err := NewConfigLoader().Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigLoader_Load_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
overrides:
  readline.history_size: 100
  emergency_buf.enable: false
host:
  sleep_granularity_us: 15600
matrix:
  compilers: [msvc, mingw]
  max_concurrent: 2
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	cfg, err := NewConfigLoader().Load(configPath)

	require.NoError(t, err)
	assert.Len(t, cfg.Overrides, 2)
	assert.Equal(t, false, cfg.Overrides["emergency_buf.enable"])
	assert.Equal(t, 15600, cfg.Host.SleepGranularityUS)
	assert.Equal(t, []string{"msvc", "mingw"}, cfg.Matrix.Compilers)
	assert.Equal(t, 2, cfg.Matrix.MaxConcurrent)
}

func TestConfigLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "overrides: [unterminated", "failed to parse site config"},
		{"negative granularity", "host:\n  sleep_granularity_us: -1\n", "sleep_granularity_us must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewConfigLoader().Load(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ApplyTo(t *testing.T) {
	cfg := &Config{
		Overrides: map[string]any{"a.x": 1, "a.y": 2},
		Host:      HostConfig{SleepGranularityUS: 500},
	}

	req := dto.ResolveRequest{Overrides: map[string]any{"a.y": 3}}
	cfg.ApplyTo(&req)

	assert.Equal(t, map[string]any{"a.x": 1, "a.y": 3}, req.Overrides)
	assert.Equal(t, 500, req.Host.SleepGranularityUS)
	assert.Equal(t, map[string]any{"a.x": 1, "a.y": 2}, cfg.Overrides, "site overrides are not mutated")

	explicit := dto.ResolveRequest{Host: dto.HostInput{SleepGranularityUS: 2000}}
	cfg.ApplyTo(&explicit)
	assert.Equal(t, 2000, explicit.Host.SleepGranularityUS)
}

func TestConfig_ApplyToMatrix(t *testing.T) {
	cfg := &Config{
		Overrides: map[string]any{"a.x": 1},
		Matrix:    MatrixConfig{Compilers: []string{"msvc"}, MaxConcurrent: 3},
	}

	req := dto.MatrixRequest{}
	cfg.ApplyToMatrix(&req)
	assert.Equal(t, []string{"msvc"}, req.Compilers)
	assert.Equal(t, 3, req.MaxConcurrent)
	assert.Equal(t, map[string]any{"a.x": 1}, req.Overrides)

	explicit := dto.MatrixRequest{Compilers: []string{"gcc"}, MaxConcurrent: 1}
	cfg.ApplyToMatrix(&explicit)
	assert.Equal(t, []string{"gcc"}, explicit.Compilers)
	assert.Equal(t, 1, explicit.MaxConcurrent)
}
