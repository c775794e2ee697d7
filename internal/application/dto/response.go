package dto

import (
	"slices"
	"time"

	"github.com/reglet-dev/portcfg/internal/domain/entities"
	"github.com/reglet-dev/portcfg/internal/domain/flags"
)

// ResolveResponse contains the resolved configuration.
type ResolveResponse struct {
	Configuration *entities.Configuration
	Metadata      ResponseMetadata
	Diagnostics   Diagnostics
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// ProcessedAt is when the request was processed
	ProcessedAt time.Time
	// RequestID from the original request
	RequestID string
	// Duration is how long the request took
	Duration time.Duration
}

// Diagnostics contains diagnostic information about resolution.
type Diagnostics struct {
	// Warnings are non-fatal issues encountered
	Warnings []string
	// Overridden lists the flags set by the caller.
	Overridden []string
}

// ConfigurationView is the serialisable form of a Configuration.
type ConfigurationView struct {
	Scheduler   *SchedulerView `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`
	Fingerprint string         `json:"fingerprint" yaml:"fingerprint"`
	Toolchain   ToolchainView  `json:"toolchain" yaml:"toolchain"`
	Platform    PlatformView   `json:"platform" yaml:"platform"`
	Flags       []flags.Entry  `json:"flags" yaml:"flags"`
}

// ToolchainView describes the resolved compiler.
type ToolchainView struct {
	Keywords map[string]string `json:"keywords" yaml:"keywords"`
	Compiler string            `json:"compiler" yaml:"compiler"`
	Family   string            `json:"family" yaml:"family"`
	Version  string            `json:"version,omitempty" yaml:"version,omitempty"`
}

// PlatformView describes the resolved integer types.
type PlatformView struct {
	Rule             string `json:"rule" yaml:"rule"`
	DataModel        string `json:"data_model" yaml:"data_model"`
	SignedWord       string `json:"signed_word" yaml:"signed_word"`
	UnsignedWord     string `json:"unsigned_word" yaml:"unsigned_word"`
	Offset           string `json:"offset" yaml:"offset"`
	Subsecond        string `json:"subsecond" yaml:"subsecond"`
	MaxSignedSize    string `json:"max_signed_size" yaml:"max_signed_size"`
	Endianness       string `json:"endianness" yaml:"endianness"`
	SSize            string `json:"ssize,omitempty" yaml:"ssize,omitempty"`
	SSizeMax         string `json:"ssize_max,omitempty" yaml:"ssize_max,omitempty"`
	OffsetAlias      string `json:"offset_alias,omitempty" yaml:"offset_alias,omitempty"`
	WordWidth        int    `json:"word_width" yaml:"word_width"`
	LargeFileOffsets bool   `json:"large_file_offsets" yaml:"large_file_offsets"`
}

// SchedulerView describes the idle-poll policy.
type SchedulerView struct {
	Quantum   string `json:"quantum" yaml:"quantum"`
	QuantumUS int64  `json:"quantum_us" yaml:"quantum_us"`
}

// NewConfigurationView flattens a configuration for output.
func NewConfigurationView(cfg *entities.Configuration) ConfigurationView {
	tc := cfg.Toolchain()
	p := cfg.Platform()

	keywords := make(map[string]string)
	for k, v := range tc.Keywords() {
		keywords[string(k)] = v
	}

	view := ConfigurationView{
		Fingerprint: cfg.Fingerprint().String(),
		Toolchain: ToolchainView{
			Compiler: string(tc.Compiler),
			Family:   string(tc.Family),
			Version:  tc.VersionString(),
			Keywords: keywords,
		},
		Platform: PlatformView{
			Rule:             p.Rule,
			DataModel:        p.DataModel.String(),
			WordWidth:        p.WordWidth,
			SignedWord:       p.SignedWord.Spelling,
			UnsignedWord:     p.UnsignedWord.Spelling,
			Offset:           p.Offset.String(),
			Subsecond:        p.Subsecond.String(),
			MaxSignedSize:    p.MaxSignedSizeSpelling,
			Endianness:       p.Endianness.String(),
			LargeFileOffsets: p.LargeFileOffsets,
			SSize:            p.SSize.Spelling,
			SSizeMax:         p.SSizeMaxSpelling,
			OffsetAlias:      p.OffsetAlias,
		},
		Flags: cfg.Flags().Entries(),
	}

	if policy := cfg.IdlePolicy(); policy != nil {
		view.Scheduler = &SchedulerView{
			Quantum:   policy.Quantum.String(),
			QuantumUS: policy.Quantum.Microseconds(),
		}
	}
	return view
}

// MatrixCase is the outcome of one matrix combination.
type MatrixCase struct {
	// Err is the resolution failure, nil on success.
	Err          error  `json:"-" yaml:"-"`
	Compiler     string `json:"compiler" yaml:"compiler"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
	DataModel    string `json:"data_model" yaml:"data_model"`
	Rule         string `json:"rule,omitempty" yaml:"rule,omitempty"`
	SignedWord   string `json:"signed_word,omitempty" yaml:"signed_word,omitempty"`
	Offset       string `json:"offset,omitempty" yaml:"offset,omitempty"`
	Fingerprint  string `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
	PointerWidth int    `json:"pointer_width" yaml:"pointer_width"`
	LargeFile    bool   `json:"large_file" yaml:"large_file"`
}

// OK reports whether the combination resolved.
func (c MatrixCase) OK() bool {
	return c.Err == nil
}

// MatrixResponse lists every combination in a stable order.
type MatrixResponse struct {
	Cases    []MatrixCase `json:"cases" yaml:"cases"`
	Resolved int          `json:"resolved" yaml:"resolved"`
	Failed   int          `json:"failed" yaml:"failed"`
}

// FlagView describes a declared flag for catalog listings.
type FlagView struct {
	Default any      `json:"default,omitempty" yaml:"default,omitempty"`
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind" yaml:"kind"`
	Doc     string   `json:"doc,omitempty" yaml:"doc,omitempty"`
	Expr    string   `json:"expr,omitempty" yaml:"expr,omitempty"`
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Derived bool     `json:"derived" yaml:"derived"`
}

// NewFlagViews converts flag definitions for output, keeping their order.
func NewFlagViews(defs []flags.Definition) []FlagView {
	views := make([]FlagView, 0, len(defs))
	for _, d := range defs {
		v := FlagView{
			Name:    d.Name,
			Kind:    d.Kind.String(),
			Doc:     d.Doc,
			Choices: d.Choices,
			Derived: d.IsDerived(),
		}
		if d.IsDerived() {
			v.Expr = d.Derivation.String()
			v.Sources = slices.Clone(d.Derivation.Sources)
		} else {
			v.Default = d.Default
		}
		views = append(views, v)
	}
	return views
}
