// Package catalog declares every capability flag of the Windows-class port:
// compiled-in defaults, flags derived from other flags or from the toolchain
// and target, and the implications that keep dependent values consistent.
package catalog

import (
	"github.com/reglet-dev/portcfg/internal/domain/flags"
	"github.com/reglet-dev/portcfg/internal/domain/platform"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
)

// Enum choices.
var (
	FloatImpls      = []string{"none", "float", "double"}
	LongIntImpls    = []string{"none", "longlong", "mpz"}
	ErrorReportings = []string{"none", "terse", "normal", "detailed"}
)

// Flag names referenced outside the catalog.
const (
	SchedulerEnable  = "scheduler.enable"
	SchedulerQuantum = "scheduler.idle_quantum_us"
	SysPlatform      = "sys.platform"
	PathMax          = "alloc.path_max"
)

// oldMSVC matches the toolsets whose C runtime math needs patching.
const oldMSVC = `toolchain.id == "msvc" && satisfies(toolchain.version, "` + toolchain.MSVCLegacyMath + `")`

// Definitions returns the port flag declarations in catalog order.
func Definitions() []flags.Definition {
	var defs []flags.Definition
	for _, group := range [][]flags.Definition{
		readline(), allocation(), emitters(), compiler(), memory(), input(),
		numbers(), runtime(), builtins(), sys(), math(), modules(), reporting(),
		exceptions(), portHooks(), toolchainSpecific(),
	} {
		defs = append(defs, group...)
	}
	return defs
}

// Implications returns the constraints between catalog flags.
func Implications() []flags.Implication {
	return []flags.Implication{
		flags.Implies("exceptions.emergency_buf",
			`flags["exceptions.emergency_buf_size"] > 0`,
			"emergency exception buffer is enabled but exceptions.emergency_buf_size is not positive"),
		flags.Implies("readline.history",
			`flags["readline.use"] == true && flags["readline.history_size"] > 0`,
			"readline history needs readline.use and a positive readline.history_size"),
		flags.Implies("stackless.strict",
			`flags["stackless.enable"] == true`,
			"stackless.strict requires stackless.enable"),
		flags.Implies(SchedulerEnable,
			`flags["scheduler.idle_quantum_us"] > 0`,
			"scheduler is enabled but scheduler.idle_quantum_us is not positive"),
		flags.Implies("module.binascii_crc32",
			`flags["module.binascii"] == true`,
			"module.binascii_crc32 requires module.binascii"),
		flags.Implies("module.machine_pulse",
			`flags["module.machine"] == true`,
			"module.machine_pulse requires module.machine"),
		flags.Implies("vfs.posix",
			`flags["vfs.enable"] == true`,
			"vfs.posix requires vfs.enable"),
	}
}

// NewRegistry returns a registry populated with the port catalog.
func NewRegistry() (*flags.Registry, error) {
	r := flags.NewRegistry()
	if err := r.Declare(Definitions()...); err != nil {
		return nil, err
	}
	if err := r.Imply(Implications()...); err != nil {
		return nil, err
	}
	return r, nil
}

// Facts builds the derivation environment from the resolved toolchain and
// platform profiles. Missing profiles yield zero-valued facts so catalog
// expressions always compile.
func Facts(tc *toolchain.Profile, p *platform.Profile) flags.Facts {
	tcFacts := map[string]any{
		"id": "", "family": "", "gnu": false, "major": 0, "minor": 0, "version": "",
	}
	if tc != nil {
		tcFacts = map[string]any{
			"id":      string(tc.Compiler),
			"family":  string(tc.Family),
			"gnu":     tc.IsGNU(),
			"major":   tc.Major(),
			"minor":   tc.Minor(),
			"version": tc.VersionString(),
		}
	}

	targetFacts := map[string]any{
		"pointer_width": 0, "data_model": "", "win64": false, "lp64": false, "large_file": false,
	}
	if p != nil {
		targetFacts = map[string]any{
			"pointer_width": p.WordWidth,
			"data_model":    p.DataModel.String(),
			"win64":         p.WordWidth == 64 && p.DataModel.LongBits() == 32,
			"lp64":          p.DataModel.LongBits() == 64,
			"large_file":    p.LargeFileOffsets,
		}
	}

	return flags.Facts{"toolchain": tcFacts, "target": targetFacts}
}
