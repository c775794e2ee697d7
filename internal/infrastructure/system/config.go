// Package system provides infrastructure for site-wide configuration.
// This covers the optional ~/.portcfg/config.yaml file that supplies
// overrides and host settings shared by every invocation.
package system

import (
	"fmt"
	"maps"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/portcfg/internal/application/dto"
)

// Config represents the site configuration file (~/.portcfg/config.yaml).
// It is separate from per-build inputs, which always take precedence.
type Config struct {
	// Overrides apply to every resolution unless the build inputs set the
	// same flag.
	Overrides map[string]any `yaml:"overrides"`
	Host      HostConfig     `yaml:"host"`
	Matrix    MatrixConfig   `yaml:"matrix"`
}

// HostConfig describes the machine running the resolution.
type HostConfig struct {
	// SleepGranularityUS is the host's shortest honored sleep. 0 leaves
	// detection to the host adapter.
	SleepGranularityUS int `yaml:"sleep_granularity_us"`
}

// MatrixConfig configures matrix runs.
type MatrixConfig struct {
	Compilers     []string `yaml:"compilers"`
	MaxConcurrent int      `yaml:"max_concurrent"`
}

// ConfigLoader loads site configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new site config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with empty defaults for all fields.
// This is used when no site config file exists.
func DefaultConfig() *Config {
	return &Config{
		Overrides: map[string]any{},
	}
}

// Load loads the site configuration from the specified path.
// If the file does not exist, returns DefaultConfig().
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	//nolint:gosec // G304: path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}
	if config.Host.SleepGranularityUS < 0 {
		return nil, fmt.Errorf("site config %s: host.sleep_granularity_us must be at least 0", path)
	}
	if config.Overrides == nil {
		config.Overrides = map[string]any{}
	}

	return &config, nil
}

// ApplyTo fills req with site settings the build inputs left unset.
func (c *Config) ApplyTo(req *dto.ResolveRequest) {
	if len(c.Overrides) > 0 {
		merged := maps.Clone(c.Overrides)
		maps.Copy(merged, req.Overrides)
		req.Overrides = merged
	}
	if req.Host.SleepGranularityUS == 0 {
		req.Host.SleepGranularityUS = c.Host.SleepGranularityUS
	}
}

// ApplyToMatrix fills req with site settings the command line left unset.
func (c *Config) ApplyToMatrix(req *dto.MatrixRequest) {
	if len(req.Compilers) == 0 && len(c.Matrix.Compilers) > 0 {
		req.Compilers = append([]string(nil), c.Matrix.Compilers...)
	}
	if req.MaxConcurrent == 0 {
		req.MaxConcurrent = c.Matrix.MaxConcurrent
	}
	if len(c.Overrides) > 0 {
		merged := maps.Clone(c.Overrides)
		maps.Copy(merged, req.Overrides)
		req.Overrides = merged
	}
}
