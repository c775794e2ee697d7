// Package dto contains data transfer objects for application layer use cases.
package dto

import "github.com/reglet-dev/portcfg/internal/domain/scheduler"

// DefaultSleepGranularityUS is the host sleep granularity assumed when the
// build inputs do not name one. Windows Sleep() counts whole milliseconds.
const DefaultSleepGranularityUS = 1000

// ResolveRequest encapsulates the build inputs of one configuration.
type ResolveRequest struct {
	// Overrides replaces the default of any declared, non-derived flag.
	Overrides map[string]any `json:"overrides,omitempty" yaml:"overrides,omitempty" jsonschema:"description=flag overrides keyed by flag name"`

	// Drain services the pending-callback queue from the idle hook. It is
	// supplied by the embedding runtime, never by an inputs file.
	Drain scheduler.DrainFunc `json:"-" yaml:"-"`

	Toolchain ToolchainInput  `json:"toolchain" yaml:"toolchain"`
	Target    TargetInput     `json:"target" yaml:"target"`
	Host      HostInput       `json:"host,omitempty" yaml:"host,omitempty"`
	Metadata  RequestMetadata `json:"-" yaml:"-"`
}

// ToolchainInput identifies the compiler.
type ToolchainInput struct {
	Compiler string `json:"compiler" yaml:"compiler" validate:"required" jsonschema:"description=compiler id or alias (gcc clang mingw msvc cl cc)"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty" jsonschema:"description=major.minor[.patch] or the _MSC_VER form for msvc"`
}

// TargetInput holds the architecture facts. At least one of PointerWidth and
// DataModel must be set.
type TargetInput struct {
	DataModel        string `json:"data_model,omitempty" yaml:"data_model,omitempty" validate:"omitempty,oneof=ilp32 lp64 llp64" jsonschema:"enum=ilp32,enum=lp64,enum=llp64"`
	PointerWidth     int    `json:"pointer_width,omitempty" yaml:"pointer_width,omitempty" validate:"required_without=DataModel,omitempty,oneof=32 64" jsonschema:"enum=32,enum=64"`
	LargeFileOffsets bool   `json:"large_file_offsets,omitempty" yaml:"large_file_offsets,omitempty"`
}

// HostInput describes the host scheduler.
type HostInput struct {
	// SleepGranularityUS is the shortest sleep the host honours; shorter
	// requests degrade to a non-blocking yield.
	SleepGranularityUS int `json:"sleep_granularity_us,omitempty" yaml:"sleep_granularity_us,omitempty" validate:"gte=0" jsonschema:"minimum=0"`
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
	// Source names where the inputs came from (file path or "flags").
	Source string
}

// SleepGranularityUS returns the configured granularity or the default.
func (r ResolveRequest) SleepGranularityUS() int {
	if r.Host.SleepGranularityUS > 0 {
		return r.Host.SleepGranularityUS
	}
	return DefaultSleepGranularityUS
}

// MatrixRequest asks for every combination of the listed axes. Empty axes
// take their defaults.
type MatrixRequest struct {
	// Compilers to resolve; all supported compilers when empty.
	Compilers []string
	// Versions per compiler id; compilers without an entry use
	// DefaultMatrixVersions.
	Versions  map[string]string
	Overrides map[string]any
	// MaxConcurrent limits parallel resolutions (0 = no limit).
	MaxConcurrent int
}

// DefaultMatrixVersions gives versions for compilers that require one.
var DefaultMatrixVersions = map[string]string{
	"msvc": "19.29",
}

// MatrixTarget is one architecture row of the matrix.
type MatrixTarget struct {
	DataModel    string
	PointerWidth int
	LargeFile    bool
}

// DefaultMatrixTargets lists the architectures every compiler is tried on.
func DefaultMatrixTargets() []MatrixTarget {
	var targets []MatrixTarget
	for _, largeFile := range []bool{false, true} {
		targets = append(targets,
			MatrixTarget{PointerWidth: 32, DataModel: "ilp32", LargeFile: largeFile},
			MatrixTarget{PointerWidth: 64, DataModel: "lp64", LargeFile: largeFile},
			MatrixTarget{PointerWidth: 64, DataModel: "llp64", LargeFile: largeFile},
		)
	}
	return targets
}
