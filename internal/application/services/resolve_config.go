// Package services contains application use cases.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/reglet-dev/portcfg/internal/application/dto"
	"github.com/reglet-dev/portcfg/internal/application/ports"
	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/reglet-dev/portcfg/internal/domain/catalog"
	"github.com/reglet-dev/portcfg/internal/domain/entities"
	"github.com/reglet-dev/portcfg/internal/domain/flags"
	"github.com/reglet-dev/portcfg/internal/domain/platform"
	"github.com/reglet-dev/portcfg/internal/domain/scheduler"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"github.com/reglet-dev/portcfg/internal/domain/values"
)

// ResolveConfigUseCase builds a Configuration from build inputs: toolchain
// first, then platform types, then flags, then the idle-poll policy.
type ResolveConfigUseCase struct {
	toolchains *toolchain.Resolver
	validator  ports.RequestValidator
	host       ports.HostScheduler
	logger     *slog.Logger
}

// NewResolveConfigUseCase creates a new resolve use case. validator and host
// may be nil.
func NewResolveConfigUseCase(
	toolchains *toolchain.Resolver,
	validator ports.RequestValidator,
	host ports.HostScheduler,
	logger *slog.Logger,
) *ResolveConfigUseCase {
	if toolchains == nil {
		toolchains = toolchain.DefaultResolver()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ResolveConfigUseCase{
		toolchains: toolchains,
		validator:  validator,
		host:       host,
		logger:     logger,
	}
}

// Execute resolves one configuration. Every failure is a ConfigurationError
// or a DeclarationError naming what is wrong.
func (uc *ResolveConfigUseCase) Execute(ctx context.Context, req dto.ResolveRequest) (*dto.ResolveResponse, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if uc.validator != nil {
		if err := uc.validator.ValidateRequest(&req); err != nil {
			return nil, domain.NewConfigurationError(domain.AspectInputs, req.Metadata.Source, "invalid build inputs", err)
		}
	}

	tc, err := uc.resolveToolchain(req.Toolchain)
	if err != nil {
		return nil, err
	}

	plat, err := uc.resolvePlatform(tc, req.Target)
	if err != nil {
		return nil, err
	}

	snap, err := uc.resolveFlags(tc, plat, req.Overrides)
	if err != nil {
		return nil, err
	}

	policy, err := uc.buildIdlePolicy(snap, req)
	if err != nil {
		return nil, err
	}

	cfg, err := entities.NewConfiguration(tc, plat, snap, policy)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("configuration resolved",
		"compiler", tc.Compiler,
		"rule", plat.Rule,
		"flags", snap.Len(),
		"scheduler", cfg.SchedulerEnabled(),
		"fingerprint", cfg.Fingerprint())

	return &dto.ResolveResponse{
		Configuration: cfg,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(start),
		},
		Diagnostics: dto.Diagnostics{
			Warnings:   diagnose(tc, plat),
			Overridden: overriddenNames(req.Overrides),
		},
	}, nil
}

func (uc *ResolveConfigUseCase) resolveToolchain(in dto.ToolchainInput) (*toolchain.Profile, error) {
	tc, err := uc.toolchains.Resolve(toolchain.Input{Compiler: in.Compiler, Version: in.Version})
	if err != nil {
		return nil, err
	}

	// Every keyword the runtime references must be spelled, even if empty.
	for _, k := range toolchain.RequiredKeywords {
		if _, err := tc.Spelling(k); err != nil {
			return nil, err
		}
	}

	uc.logger.Debug("toolchain resolved",
		"compiler", tc.Compiler, "family", tc.Family, "version", tc.VersionString())
	return tc, nil
}

func (uc *ResolveConfigUseCase) resolvePlatform(tc *toolchain.Profile, in dto.TargetInput) (*platform.Profile, error) {
	model, err := values.NewDataModel(in.DataModel)
	if err != nil {
		return nil, domain.NewConfigurationError(domain.AspectPlatform, in.DataModel, "invalid data model", err)
	}

	plat, err := platform.Resolve(tc, platform.Target{
		PointerWidth:     in.PointerWidth,
		DataModel:        model,
		LargeFileOffsets: in.LargeFileOffsets,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("platform resolved",
		"rule", plat.Rule, "word", plat.SignedWord, "offset", plat.Offset)
	return plat, nil
}

func (uc *ResolveConfigUseCase) resolveFlags(tc *toolchain.Profile, plat *platform.Profile, overrides map[string]any) (*flags.Snapshot, error) {
	registry, err := catalog.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build flag catalog: %w", err)
	}

	if err := registry.ApplyOverrides(overrides); err != nil {
		return nil, err
	}

	snap, err := registry.Resolve(catalog.Facts(tc, plat))
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("flags resolved", "count", snap.Len(), "overrides", len(overrides))
	return snap, nil
}

// buildIdlePolicy returns nil when the scheduler is disabled.
func (uc *ResolveConfigUseCase) buildIdlePolicy(snap *flags.Snapshot, req dto.ResolveRequest) (*scheduler.Policy, error) {
	if !snap.Enabled(catalog.SchedulerEnable) {
		return nil, nil
	}

	quantumUS, err := snap.GetInt(catalog.SchedulerQuantum)
	if err != nil {
		return nil, err
	}

	if quantumUS > maxQuantumUS {
		return nil, domain.NewConfigurationError(domain.AspectScheduler, scheduler.QuantumFlag,
			fmt.Sprintf("quantum %dus exceeds the largest representable sleep of %dus", quantumUS, maxQuantumUS), nil)
	}

	policy, err := scheduler.NewPolicy(
		time.Duration(quantumUS)*time.Microsecond,
		uc.granularity(req),
		req.Drain,
	)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("idle-poll policy built", "quantum", policy.Quantum)
	return policy, nil
}

// maxQuantumUS is the largest quantum that converts to a time.Duration
// without overflow.
const maxQuantumUS = math.MaxInt64 / int64(time.Microsecond)

// granularity is the coarser of the requested granularity and the host
// sleeper's, since the hook sleeps through the host sleeper.
func (uc *ResolveConfigUseCase) granularity(req dto.ResolveRequest) time.Duration {
	if uc.host == nil {
		return time.Duration(req.SleepGranularityUS()) * time.Microsecond
	}
	hostGranularity := uc.host.Granularity()
	if req.Host.SleepGranularityUS == 0 {
		return hostGranularity
	}
	return max(time.Duration(req.Host.SleepGranularityUS)*time.Microsecond, hostGranularity)
}

// diagnose reports capabilities the toolchain silently lacks.
func diagnose(tc *toolchain.Profile, plat *platform.Profile) []string {
	var warnings []string
	d := tc.Dialect()
	if !d.HasWeakSymbols() {
		warnings = append(warnings, fmt.Sprintf("%s has no weak symbols; weak definitions become strong", tc.Compiler))
	}
	if !d.HasBranchHints() {
		warnings = append(warnings, fmt.Sprintf("%s ignores branch hints", tc.Compiler))
	}
	if tc.Compiler == toolchain.MSVC {
		if legacy, err := tc.Satisfies(toolchain.MSVCLegacyMath); err == nil && legacy {
			warnings = append(warnings, fmt.Sprintf("%s %s C runtime math functions are patched", tc.Compiler, tc.VersionString()))
		}
	}
	if plat.Rule == "int-is-pointer" {
		warnings = append(warnings, "word types assume sizeof(int) == sizeof(void *)")
	}
	return warnings
}

func overriddenNames(overrides map[string]any) []string {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
