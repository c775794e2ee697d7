// Package container provides dependency injection for the application.
package container

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/reglet-dev/portcfg/internal/application/ports"
	"github.com/reglet-dev/portcfg/internal/application/services"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"github.com/reglet-dev/portcfg/internal/infrastructure/config"
	"github.com/reglet-dev/portcfg/internal/infrastructure/host"
	"github.com/reglet-dev/portcfg/internal/infrastructure/output"
	"github.com/reglet-dev/portcfg/internal/infrastructure/system"
)

// Container holds all application dependencies.
type Container struct {
	inputsLoader     *config.InputsLoader
	requestValidator ports.RequestValidator
	host             *host.Sleeper
	toolchains       *toolchain.Resolver
	resolveUseCase   *services.ResolveConfigUseCase
	matrixUseCase    *services.MatrixUseCase
	formatters       *output.FormatterFactory
	systemCfg        *system.Config
	logger           *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	// SystemConfigPath points at the site config. Empty means
	// ~/.portcfg/config.yaml.
	SystemConfigPath string
	// SkipSchemaValidation disables JSON Schema checks on inputs files.
	SkipSchemaValidation bool
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	configPath := opts.SystemConfigPath
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(homeDir, ".portcfg", "config.yaml")
		}
	}

	systemCfg, err := system.NewConfigLoader().Load(configPath)
	if err != nil {
		return nil, err
	}

	inputsLoader := config.NewInputsLoader()
	inputsLoader.SkipSchemaValidation = opts.SkipSchemaValidation

	granularity := time.Duration(systemCfg.Host.SleepGranularityUS) * time.Microsecond
	sleeper := host.NewSleeper(granularity)
	toolchains := toolchain.DefaultResolver()
	validator := config.NewRequestValidator()

	resolveUseCase := services.NewResolveConfigUseCase(toolchains, validator, sleeper, opts.Logger)
	matrixUseCase := services.NewMatrixUseCase(resolveUseCase, toolchains, opts.Logger)

	return &Container{
		inputsLoader:     inputsLoader,
		requestValidator: validator,
		host:             sleeper,
		toolchains:       toolchains,
		resolveUseCase:   resolveUseCase,
		matrixUseCase:    matrixUseCase,
		formatters:       output.NewFormatterFactory(),
		systemCfg:        systemCfg,
		logger:           opts.Logger,
	}, nil
}

// ResolveConfigUseCase returns the resolve use case.
func (c *Container) ResolveConfigUseCase() *services.ResolveConfigUseCase {
	return c.resolveUseCase
}

// MatrixUseCase returns the matrix use case.
func (c *Container) MatrixUseCase() *services.MatrixUseCase {
	return c.matrixUseCase
}

// InputsLoader returns the inputs file loader.
func (c *Container) InputsLoader() *config.InputsLoader {
	return c.inputsLoader
}

// RequestValidator returns the request validator port.
func (c *Container) RequestValidator() ports.RequestValidator {
	return c.requestValidator
}

// Host returns the host sleeper used for idle hooks.
func (c *Container) Host() *host.Sleeper {
	return c.host
}

// Toolchains returns the compiler table.
func (c *Container) Toolchains() *toolchain.Resolver {
	return c.toolchains
}

// Formatters returns the output formatter factory.
func (c *Container) Formatters() *output.FormatterFactory {
	return c.formatters
}

// SystemConfig returns the site configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
